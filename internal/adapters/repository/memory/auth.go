package memory

import (
	"context"
	"time"

	"github.com/ogurasousui/engineer-admin/internal/core/auth"
	"github.com/ogurasousui/engineer-admin/internal/core/storeerr"
)

const (
	accountsCollection = "accounts"
	sessionsCollection = "sessions"
)

// AccountRepository は auth.AccountRepository のメモリ実装です。メールアドレスで索引します。
type AccountRepository struct {
	store *Store
}

// SessionRepository は auth.SessionRepository のメモリ実装です。
type SessionRepository struct {
	store *Store
}

var (
	_ auth.AccountRepository = (*AccountRepository)(nil)
	_ auth.SessionRepository = (*SessionRepository)(nil)
)

// Accounts は Store 上のアカウントリポジトリを返します。
func (s *Store) Accounts() *AccountRepository {
	return &AccountRepository{store: s}
}

// Sessions は Store 上のセッションリポジトリを返します。
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{store: s}
}

// Create はアカウントを保存します。メールアドレスが既に使われていれば ErrEmailAlreadyExists です。
func (r *AccountRepository) Create(_ context.Context, a *auth.Account) (*auth.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.accounts[a.Email]; exists {
		return nil, auth.ErrEmailAlreadyExists
	}

	v := *a
	v.ID = newID()
	v.CreatedAt = r.store.now()
	v.UpdatedAt = v.CreatedAt
	r.store.accounts[v.Email] = &v

	out := v
	return &out, nil
}

// FindByEmail はメールアドレスからアカウントを取得します。
func (r *AccountRepository) FindByEmail(_ context.Context, email string) (*auth.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	a, ok := r.store.accounts[email]
	if !ok {
		return nil, storeerr.Read(accountsCollection, storeerr.OpGet, storeerr.ErrNotFound)
	}
	out := *a
	return &out, nil
}

// Create はセッションを保存します。
func (r *SessionRepository) Create(_ context.Context, s *auth.Session) (*auth.Session, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	v := *s
	v.CreatedAt = r.store.now()
	r.store.sessions[v.ID] = &v

	out := v
	return &out, nil
}

// FindByID はセッションを取得します。
func (r *SessionRepository) FindByID(_ context.Context, id string) (*auth.Session, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	s, ok := r.store.sessions[id]
	if !ok {
		return nil, storeerr.Read(sessionsCollection, storeerr.OpGet, storeerr.ErrNotFound)
	}
	out := *s
	return &out, nil
}

// Delete はセッションを削除します。
func (r *SessionRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.sessions[id]; !ok {
		return storeerr.Write(sessionsCollection, storeerr.OpDelete, storeerr.ErrNotFound)
	}
	delete(r.store.sessions, id)
	return nil
}

// DeleteExpired は now 以前に期限切れとなったセッションを削除し、その件数を返します。
func (r *SessionRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var n int64
	for id, s := range r.store.sessions {
		if !s.ExpiresAt.After(now) {
			delete(r.store.sessions, id)
			n++
		}
	}
	return n, nil
}
