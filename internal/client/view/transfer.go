package view

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ogurasousui/engineer-admin/internal/core/personnel"
	"github.com/ogurasousui/engineer-admin/internal/core/transfer"
)

// TransferForm は異動フォームです。開いた時点の人員の氏名と所属会社を保持します。
type TransferForm struct {
	EngineerID   string
	EngineerName string
	FromCompany  string
	ToCompany    string
	TransferDate *time.Time
	Reason       string
}

// OpenTransferForm は p の現在の値でフォームを開きます。
func OpenTransferForm(p *personnel.Person) TransferForm {
	return TransferForm{
		EngineerID:   p.ID,
		EngineerName: p.Name,
		FromCompany:  p.Company,
	}
}

// TransferView は異動履歴画面です。異動後は人員一覧も取得し直します。
type TransferView struct {
	guard

	svc    transfer.UseCase
	people *PersonnelView

	mu         sync.RWMutex
	engineerID string
	items      []*transfer.Record
}

// NewTransferView は TransferView を生成します。people は nil でも構いません。
func NewTransferView(svc transfer.UseCase, people *PersonnelView) *TransferView {
	return &TransferView{svc: svc, people: people}
}

// Load は engineerID の異動履歴を取得します。空の場合は全件です。
func (v *TransferView) Load(ctx context.Context, engineerID string) error {
	items, err := v.svc.ListTransfers(ctx, transfer.ListTransfersInput{EngineerID: engineerID})
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.engineerID = engineerID
	v.items = items
	v.mu.Unlock()
	return nil
}

// Items は保持している異動履歴を返します。
func (v *TransferView) Items() []*transfer.Record {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]*transfer.Record(nil), v.items...)
}

// Submit は異動を登録します。記録が残る部分的な失敗でも一覧を取得し直します。
func (v *TransferView) Submit(ctx context.Context, form TransferForm) (*transfer.Result, error) {
	var result *transfer.Result
	err := v.run(func() error {
		var err error
		result, err = v.svc.RecordTransfer(ctx, transfer.RecordTransferInput{
			EngineerID:   form.EngineerID,
			EngineerName: form.EngineerName,
			FromCompany:  form.FromCompany,
			ToCompany:    form.ToCompany,
			TransferDate: form.TransferDate,
			Reason:       form.Reason,
		})
		var warning *transfer.ConsistencyWarning
		if err != nil && !errors.As(err, &warning) {
			return err
		}
		if refreshErr := v.refresh(ctx); refreshErr != nil && err == nil {
			return refreshErr
		}
		return err
	})
	return result, err
}

// Delete は異動記録を削除します。人員の所属会社は変更しません。
func (v *TransferView) Delete(ctx context.Context, id string) error {
	return v.run(func() error {
		if err := v.svc.DeleteTransfer(ctx, transfer.DeleteTransferInput{ID: id}); err != nil {
			return err
		}
		return v.reload(ctx)
	})
}

func (v *TransferView) refresh(ctx context.Context) error {
	if err := v.reload(ctx); err != nil {
		return err
	}
	if v.people == nil {
		return nil
	}
	return v.people.Load(ctx)
}

func (v *TransferView) reload(ctx context.Context) error {
	v.mu.RLock()
	engineerID := v.engineerID
	v.mu.RUnlock()
	return v.Load(ctx, engineerID)
}
