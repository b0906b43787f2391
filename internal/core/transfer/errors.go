package transfer

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidID           = errors.New("transfer: invalid id")
	ErrInvalidEngineerID   = errors.New("transfer: invalid engineer id")
	ErrInvalidToCompany    = errors.New("transfer: invalid destination company")
	ErrInvalidTransferDate = errors.New("transfer: invalid transfer date")
	ErrSameCompany         = errors.New("transfer: destination equals current company")
)

// ConsistencyWarning は異動記録の作成後に会社の更新が失敗し、
// 記録と人員の現在の所属が一致していない状態を表します。
type ConsistencyWarning struct {
	Record          *Record
	Err             error
	CompensationErr error
}

func (w *ConsistencyWarning) Error() string {
	msg := fmt.Sprintf("transfer: record %s kept but company update to %q failed: %v", w.Record.ID, w.Record.ToCompany, w.Err)
	if w.CompensationErr != nil {
		msg += fmt.Sprintf(" (rollback failed: %v)", w.CompensationErr)
	}
	return msg
}

func (w *ConsistencyWarning) Unwrap() error { return w.Err }
