package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/engineer-admin/internal/core/auth"
	"github.com/ogurasousui/engineer-admin/internal/core/storeerr"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestAccountRepository_Create_Duplicate(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewAccountRepository(mock)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO accounts`)).
		WithArgs("ops@example.com", "hash").
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

	_, err = repo.Create(context.Background(), &auth.Account{Email: "ops@example.com", PasswordHash: "hash"})
	if !errors.Is(err, auth.ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestAccountRepository_FindByEmail_NotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewAccountRepository(mock)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM accounts`)).
		WithArgs("nobody@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "created_at", "updated_at"}))

	_, err = repo.FindByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, storeerr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionRepository_Lifecycle(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewSessionRepository(mock)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	expires := now.Add(time.Hour)
	cols := []string{"id", "account_id", "expires_at", "created_at"}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO sessions`)).
		WithArgs("s-1", "a-1", expires, now).
		WillReturnRows(pgxmock.NewRows(cols).AddRow("s-1", "a-1", expires, now))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM sessions`)).
		WithArgs("s-1").
		WillReturnRows(pgxmock.NewRows(cols).AddRow("s-1", "a-1", expires, now))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sessions WHERE id = $1`)).
		WithArgs("s-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sessions WHERE expires_at <= $1`)).
		WithArgs(now).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	ctx := context.Background()
	if _, err := repo.Create(ctx, &auth.Session{ID: "s-1", AccountID: "a-1", ExpiresAt: expires, CreatedAt: now}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	found, err := repo.FindByID(ctx, "s-1")
	if err != nil || found.AccountID != "a-1" || !found.ExpiresAt.Equal(expires) {
		t.Fatalf("unexpected session %+v %v", found, err)
	}
	if err := repo.Delete(ctx, "s-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	purged, err := repo.DeleteExpired(ctx, now)
	if err != nil || purged != 3 {
		t.Fatalf("unexpected purge result %d %v", purged, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
