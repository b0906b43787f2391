package memory

import (
	"context"
	"time"

	"github.com/ogurasousui/engineer-admin/internal/core/invoice"
	"github.com/ogurasousui/engineer-admin/internal/core/storeerr"
)

// InvoiceRepository は invoice.Repository のメモリ実装です。
type InvoiceRepository struct {
	store *Store
}

var _ invoice.Repository = (*InvoiceRepository)(nil)

// Invoices は Store 上の請求書リポジトリを返します。
func (s *Store) Invoices() *InvoiceRepository {
	return &InvoiceRepository{store: s}
}

// Create は請求書を保存します。
func (r *InvoiceRepository) Create(_ context.Context, inv *invoice.Invoice) (*invoice.Invoice, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	v := cloneInvoice(*inv)
	v.ID = newID()
	v.CreatedAt = r.store.now()
	v.UpdatedAt = v.CreatedAt
	r.store.invoices[v.ID] = &entry[invoice.Invoice]{v: v, seq: r.store.nextSeq()}

	out := cloneInvoice(v)
	return &out, nil
}

// Update は請求書の全フィールドを書き換えます。
func (r *InvoiceRepository) Update(_ context.Context, inv *invoice.Invoice) (*invoice.Invoice, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e, ok := r.store.invoices[inv.ID]
	if !ok {
		return nil, storeerr.Write(invoice.Collection, storeerr.OpUpdate, storeerr.ErrNotFound)
	}

	v := cloneInvoice(*inv)
	v.CreatedAt = e.v.CreatedAt
	v.UpdatedAt = r.store.now()
	e.v = v

	out := cloneInvoice(v)
	return &out, nil
}

// Delete は請求書を削除します。
func (r *InvoiceRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.invoices[id]; !ok {
		return storeerr.Write(invoice.Collection, storeerr.OpDelete, storeerr.ErrNotFound)
	}
	delete(r.store.invoices, id)
	return nil
}

// FindByID は請求書を取得します。
func (r *InvoiceRepository) FindByID(_ context.Context, id string) (*invoice.Invoice, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.invoices[id]
	if !ok {
		return nil, storeerr.Read(invoice.Collection, storeerr.OpGet, storeerr.ErrNotFound)
	}
	out := cloneInvoice(e.v)
	return &out, nil
}

// List は請求書を作成日時の新しい順に返します。
func (r *InvoiceRepository) List(context.Context) ([]*invoice.Invoice, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return sortedByCreation(r.store.invoices, func(inv *invoice.Invoice) time.Time { return inv.CreatedAt }, cloneInvoice, nil), nil
}
