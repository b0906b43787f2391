package auth

import "context"

// AccountRepository はアカウント永続化の抽象です。
type AccountRepository interface {
	Create(ctx context.Context, a *Account) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
}

// SessionRepository はセッション永続化の抽象です。
type SessionRepository interface {
	Create(ctx context.Context, s *Session) (*Session, error)
	FindByID(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
