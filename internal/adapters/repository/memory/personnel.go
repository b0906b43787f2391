package memory

import (
	"context"
	"sort"
	"time"

	"github.com/ogurasousui/engineer-admin/internal/core/personnel"
	"github.com/ogurasousui/engineer-admin/internal/core/storeerr"
)

// PersonnelRepository は personnel.Repository のメモリ実装です。
type PersonnelRepository struct {
	store *Store
}

var _ personnel.Repository = (*PersonnelRepository)(nil)

// Personnel は Store 上の人員リポジトリを返します。
func (s *Store) Personnel() *PersonnelRepository {
	return &PersonnelRepository{store: s}
}

// Create は人員を保存します。
func (r *PersonnelRepository) Create(_ context.Context, p *personnel.Person) (*personnel.Person, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	v := clonePerson(*p)
	v.ID = newID()
	v.CreatedAt = r.store.now()
	v.UpdatedAt = v.CreatedAt
	r.store.people[v.ID] = &entry[personnel.Person]{v: v, seq: r.store.nextSeq()}

	out := clonePerson(v)
	return &out, nil
}

// Update は人員の全フィールドを書き換えます。
func (r *PersonnelRepository) Update(_ context.Context, p *personnel.Person) (*personnel.Person, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e, ok := r.store.people[p.ID]
	if !ok {
		return nil, storeerr.Write(personnel.Collection, storeerr.OpUpdate, storeerr.ErrNotFound)
	}

	v := clonePerson(*p)
	v.CreatedAt = e.v.CreatedAt
	v.UpdatedAt = r.store.now()
	e.v = v

	out := clonePerson(v)
	return &out, nil
}

// UpdateCompany は所属会社のみを更新します。
func (r *PersonnelRepository) UpdateCompany(_ context.Context, id, company string) (*personnel.Person, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e, ok := r.store.people[id]
	if !ok {
		return nil, storeerr.Write(personnel.Collection, storeerr.OpUpdate, storeerr.ErrNotFound)
	}
	e.v.Company = company
	e.v.UpdatedAt = r.store.now()

	out := clonePerson(e.v)
	return &out, nil
}

// Delete は人員を削除します。
func (r *PersonnelRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.people[id]; !ok {
		return storeerr.Write(personnel.Collection, storeerr.OpDelete, storeerr.ErrNotFound)
	}
	delete(r.store.people, id)
	return nil
}

// FindByID は人員を取得します。
func (r *PersonnelRepository) FindByID(_ context.Context, id string) (*personnel.Person, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.people[id]
	if !ok {
		return nil, storeerr.Read(personnel.Collection, storeerr.OpGet, storeerr.ErrNotFound)
	}
	out := clonePerson(e.v)
	return &out, nil
}

// List は人員を作成日時の新しい順に返します。
func (r *PersonnelRepository) List(context.Context) ([]*personnel.Person, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return sortedByCreation(r.store.people, func(p *personnel.Person) time.Time { return p.CreatedAt }, clonePerson, nil), nil
}

// SummarizeByCompany は会社ごとの人数を会社名順に返します。
func (r *PersonnelRepository) SummarizeByCompany(context.Context) ([]personnel.CompanySummary, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	byCompany := make(map[string]*personnel.CompanySummary)
	for _, e := range r.store.people {
		sum, ok := byCompany[e.v.Company]
		if !ok {
			sum = &personnel.CompanySummary{Company: e.v.Company}
			byCompany[e.v.Company] = sum
		}
		switch e.v.Type {
		case personnel.TypeEngineer:
			sum.Engineers++
		case personnel.TypeIntern:
			sum.Interns++
		}
	}

	out := make([]personnel.CompanySummary, 0, len(byCompany))
	for _, sum := range byCompany {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Company < out[j].Company })
	return out, nil
}
