package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/engineer-admin/internal/core/storeerr"
)

type stubRow struct {
	scanFn func(dest ...interface{}) error
}

func (s stubRow) Scan(dest ...interface{}) error {
	return s.scanFn(dest...)
}

func TestTranslatePgError(t *testing.T) {
	t.Parallel()

	if translatePgError("personnel", storeerr.OpGet, nil) != nil {
		t.Fatalf("nil should stay nil")
	}

	notFound := translatePgError("personnel", storeerr.OpGet, pgx.ErrNoRows)
	if !errors.Is(notFound, storeerr.ErrNotFound) || !storeerr.IsRead(notFound) {
		t.Fatalf("expected read ErrNotFound, got %v", notFound)
	}

	badID := translatePgError("invoices", storeerr.OpDelete, &pgconn.PgError{Code: invalidTextRepresentation})
	if !errors.Is(badID, storeerr.ErrNotFound) || !storeerr.IsWrite(badID) {
		t.Fatalf("expected write ErrNotFound, got %v", badID)
	}

	other := errors.New("connection reset")
	wrapped := translatePgError("invoices", storeerr.OpList, other)
	var re *storeerr.ReadError
	if !errors.As(wrapped, &re) || re.Collection != "invoices" || re.Op != storeerr.OpList || !errors.Is(wrapped, other) {
		t.Fatalf("unexpected translation %#v", wrapped)
	}

	write := translatePgError("transfer_history", storeerr.OpCreate, other)
	if !storeerr.IsWrite(write) || storeerr.IsRead(write) {
		t.Fatalf("create failure should be a write error, got %v", write)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	if !isUniqueViolation(&pgconn.PgError{Code: uniqueViolationCode}) {
		t.Fatalf("expected unique violation")
	}
	if isUniqueViolation(errors.New("x")) {
		t.Fatalf("generic error is not a unique violation")
	}
}
