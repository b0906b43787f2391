// Package memory はプロセス内メモリに保持するリポジトリ実装です。
// ローカルでの動作確認とテストに使います。トランザクションは提供しません。
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/engineer-admin/internal/core/auth"
	"github.com/ogurasousui/engineer-admin/internal/core/invoice"
	"github.com/ogurasousui/engineer-admin/internal/core/personnel"
	"github.com/ogurasousui/engineer-admin/internal/core/transfer"
)

// Store は全コレクションを保持します。各リポジトリは同じ Store を共有します。
type Store struct {
	mu  sync.RWMutex
	now func() time.Time
	seq int64

	people   map[string]*entry[personnel.Person]
	invoices map[string]*entry[invoice.Invoice]
	records  map[string]*entry[transfer.Record]
	accounts map[string]*auth.Account
	sessions map[string]*auth.Session
}

type entry[T any] struct {
	v   T
	seq int64
}

// NewStore は空の Store を生成します。now が nil の場合は現在時刻を使います。
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Store{
		now:      now,
		people:   make(map[string]*entry[personnel.Person]),
		invoices: make(map[string]*entry[invoice.Invoice]),
		records:  make(map[string]*entry[transfer.Record]),
		accounts: make(map[string]*auth.Account),
		sessions: make(map[string]*auth.Session),
	}
}

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

func newID() string {
	return uuid.NewString()
}

// sortedByCreation は作成日時の新しい順 (同時刻は後に作成された順) に並べた値の複製を返します。
func sortedByCreation[T any](m map[string]*entry[T], createdAt func(*T) time.Time, clone func(T) T, keep func(*T) bool) []*T {
	entries := make([]*entry[T], 0, len(m))
	for _, e := range m {
		if keep == nil || keep(&e.v) {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		ti, tj := createdAt(&entries[i].v), createdAt(&entries[j].v)
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return entries[i].seq > entries[j].seq
	})

	out := make([]*T, 0, len(entries))
	for _, e := range entries {
		v := clone(e.v)
		out = append(out, &v)
	}
	return out
}

// clonePerson はポインタのフィールドも複製します。保存値と呼び出し元はポインタ先を共有しません。
func clonePerson(p personnel.Person) personnel.Person {
	p.DateOfBirth = cloneTime(p.DateOfBirth)
	p.Email = cloneString(p.Email)
	p.Phone = cloneString(p.Phone)
	p.DriveFolderName = cloneString(p.DriveFolderName)
	return p
}

func cloneInvoice(inv invoice.Invoice) invoice.Invoice {
	inv.Description = cloneString(inv.Description)
	return inv
}

func cloneRecord(r transfer.Record) transfer.Record {
	r.Reason = cloneString(r.Reason)
	return r
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
