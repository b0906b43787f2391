package memory

import (
	"context"
	"sort"
	"time"

	"github.com/ogurasousui/engineer-admin/internal/core/storeerr"
	"github.com/ogurasousui/engineer-admin/internal/core/transfer"
)

// TransferRepository は transfer.Repository のメモリ実装です。
type TransferRepository struct {
	store *Store
}

var _ transfer.Repository = (*TransferRepository)(nil)

// Transfers は Store 上の異動履歴リポジトリを返します。
func (s *Store) Transfers() *TransferRepository {
	return &TransferRepository{store: s}
}

// Create は異動記録を保存します。
func (r *TransferRepository) Create(_ context.Context, rec *transfer.Record) (*transfer.Record, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	v := cloneRecord(*rec)
	v.ID = newID()
	v.CreatedAt = r.store.now()
	v.UpdatedAt = v.CreatedAt
	r.store.records[v.ID] = &entry[transfer.Record]{v: v, seq: r.store.nextSeq()}

	out := cloneRecord(v)
	return &out, nil
}

// Delete は異動記録を削除します。人員側のレコードには触れません。
func (r *TransferRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.records[id]; !ok {
		return storeerr.Write(transfer.Collection, storeerr.OpDelete, storeerr.ErrNotFound)
	}
	delete(r.store.records, id)
	return nil
}

// List は全ての異動記録を作成日時の新しい順に返します。
func (r *TransferRepository) List(context.Context) ([]*transfer.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return sortedByCreation(r.store.records, createdAt, cloneRecord, nil), nil
}

// ListByEngineer は指定した人員の異動記録を異動日の新しい順に返します。
func (r *TransferRepository) ListByEngineer(_ context.Context, engineerID string) ([]*transfer.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := sortedByCreation(r.store.records, createdAt, cloneRecord, func(rec *transfer.Record) bool {
		return rec.EngineerID == engineerID
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TransferDate.After(out[j].TransferDate)
	})
	return out, nil
}

func createdAt(rec *transfer.Record) time.Time {
	return rec.CreatedAt
}
