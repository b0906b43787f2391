package postgres

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/engineer-admin/internal/core/storeerr"
)

const (
	uniqueViolationCode       = "23505"
	invalidTextRepresentation = "22P02"
)

// translatePgError は pgx のエラーをストアのエラー分類に変換します。
// 行が見つからない場合と UUID として解釈できない ID は storeerr.ErrNotFound になります。
func translatePgError(collection string, op storeerr.Op, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		err = storeerr.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation {
		err = storeerr.ErrNotFound
	}

	switch op {
	case storeerr.OpList, storeerr.OpGet:
		return storeerr.Read(collection, op, err)
	default:
		return storeerr.Write(collection, op, err)
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func nullableDate(value *time.Time) any {
	if value == nil {
		return nil
	}
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
}

func nullableString(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
