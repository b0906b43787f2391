package transfer

import "time"

// Record は人員の所属会社変更の履歴です。
// EngineerID は人員 ID への論理参照であり、参照先の存在は保証されません。
type Record struct {
	ID           string
	EngineerID   string
	EngineerName string
	FromCompany  string
	ToCompany    string
	TransferDate time.Time
	Reason       *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
