package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/engineer-admin/internal/core/auth"
	"github.com/ogurasousui/engineer-admin/internal/core/storeerr"
	pgdb "github.com/ogurasousui/engineer-admin/internal/platform/db/postgres"
)

const (
	accountsCollection = "accounts"
	sessionsCollection = "sessions"
)

// AccountRepository は PostgreSQL を利用したアカウント永続化の実装です。
type AccountRepository struct {
	pool pgdb.Queryer
}

// NewAccountRepository は AccountRepository を生成します。
func NewAccountRepository(pool pgdb.Queryer) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create はアカウントを新規作成します。
func (r *AccountRepository) Create(ctx context.Context, a *auth.Account) (*auth.Account, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO accounts (email, password_hash, created_at, updated_at)
        VALUES ($1, $2, now(), now())
        RETURNING id, email, password_hash, created_at, updated_at
    `, a.Email, a.PasswordHash)

	created, err := scanAccount(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, auth.ErrEmailAlreadyExists
		}
		return nil, translatePgError(accountsCollection, storeerr.OpCreate, err)
	}
	return created, nil
}

// FindByEmail はメールアドレスでアカウントを取得します。
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, email, password_hash, created_at, updated_at
          FROM accounts
         WHERE email = $1
         LIMIT 1
    `, email)

	found, err := scanAccount(row)
	if err != nil {
		return nil, translatePgError(accountsCollection, storeerr.OpGet, err)
	}
	return found, nil
}

func scanAccount(row pgx.Row) (*auth.Account, error) {
	var a auth.Account
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// SessionRepository は PostgreSQL を利用したセッション永続化の実装です。
type SessionRepository struct {
	pool pgdb.Queryer
}

// NewSessionRepository は SessionRepository を生成します。
func NewSessionRepository(pool pgdb.Queryer) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Create はセッションを保存します。ID は呼び出し側が採番します。
func (r *SessionRepository) Create(ctx context.Context, s *auth.Session) (*auth.Session, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO sessions (id, account_id, expires_at, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id, account_id, expires_at, created_at
    `, s.ID, s.AccountID, s.ExpiresAt, s.CreatedAt)

	created, err := scanSession(row)
	if err != nil {
		return nil, translatePgError(sessionsCollection, storeerr.OpCreate, err)
	}
	return created, nil
}

// FindByID は ID でセッションを取得します。
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*auth.Session, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, account_id, expires_at, created_at
          FROM sessions
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanSession(row)
	if err != nil {
		return nil, translatePgError(sessionsCollection, storeerr.OpGet, err)
	}
	return found, nil
}

// Delete はセッションを破棄します。
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return translatePgError(sessionsCollection, storeerr.OpDelete, err)
	}
	if tag.RowsAffected() == 0 {
		return translatePgError(sessionsCollection, storeerr.OpDelete, storeerr.ErrNotFound)
	}
	return nil
}

// DeleteExpired は期限切れのセッションを削除し、削除件数を返します。
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, translatePgError(sessionsCollection, storeerr.OpDelete, err)
	}
	return tag.RowsAffected(), nil
}

func scanSession(row pgx.Row) (*auth.Session, error) {
	var s auth.Session
	if err := row.Scan(&s.ID, &s.AccountID, &s.ExpiresAt, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
