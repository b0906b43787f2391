package view

import (
	"context"
	"sync"

	"github.com/ogurasousui/engineer-admin/internal/core/invoice"
	"github.com/shopspring/decimal"
)

// InvoiceView は請求書一覧画面です。
type InvoiceView struct {
	guard

	svc invoice.UseCase

	mu    sync.RWMutex
	items []*invoice.Invoice
}

// NewInvoiceView は InvoiceView を生成します。
func NewInvoiceView(svc invoice.UseCase) *InvoiceView {
	return &InvoiceView{svc: svc}
}

// Load は一覧を取得し直します。失敗した場合は以前の一覧を保持します。
func (v *InvoiceView) Load(ctx context.Context) error {
	items, err := v.svc.ListInvoices(ctx)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.items = items
	v.mu.Unlock()
	return nil
}

// Items は保持している一覧を返します。
func (v *InvoiceView) Items() []*invoice.Invoice {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]*invoice.Invoice(nil), v.items...)
}

// Find は一覧から id の請求書を探します。
func (v *InvoiceView) Find(id string) (*invoice.Invoice, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, inv := range v.items {
		if inv.ID == id {
			return inv, true
		}
	}
	return nil, false
}

// Create は請求書を作成し、一覧を取得し直します。
func (v *InvoiceView) Create(ctx context.Context, in invoice.CreateInvoiceInput) (*invoice.Invoice, error) {
	var created *invoice.Invoice
	err := v.run(func() error {
		var err error
		if created, err = v.svc.CreateInvoice(ctx, in); err != nil {
			return err
		}
		return v.Load(ctx)
	})
	return created, err
}

// Update は請求書を更新し、一覧を取得し直します。
func (v *InvoiceView) Update(ctx context.Context, in invoice.UpdateInvoiceInput) (*invoice.Invoice, error) {
	var updated *invoice.Invoice
	err := v.run(func() error {
		var err error
		if updated, err = v.svc.UpdateInvoice(ctx, in); err != nil {
			return err
		}
		return v.Load(ctx)
	})
	return updated, err
}

// Delete は請求書を削除し、一覧を取得し直します。
func (v *InvoiceView) Delete(ctx context.Context, id string) error {
	return v.run(func() error {
		if err := v.svc.DeleteInvoice(ctx, invoice.DeleteInvoiceInput{ID: id}); err != nil {
			return err
		}
		return v.Load(ctx)
	})
}

// TotalsByStatus は保持している一覧の状態別合計金額を返します。
func (v *InvoiceView) TotalsByStatus() map[invoice.Status]decimal.Decimal {
	v.mu.RLock()
	defer v.mu.RUnlock()

	totals := make(map[invoice.Status]decimal.Decimal)
	for _, inv := range v.items {
		totals[inv.Status] = totals[inv.Status].Add(inv.Amount)
	}
	return totals
}

// DisplayAmount は金額を VND 表記にします。
func DisplayAmount(amount decimal.Decimal) string {
	return invoice.FormatVND(amount)
}
