package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/engineer-admin/internal/core/storeerr"
	"github.com/ogurasousui/engineer-admin/internal/core/transfer"
	pgdb "github.com/ogurasousui/engineer-admin/internal/platform/db/postgres"
)

const transferColumns = `id, engineer_id, engineer_name, from_company, to_company, transfer_date, reason, created_at, updated_at`

// TransferRepository は PostgreSQL を利用した異動履歴永続化の実装です。
type TransferRepository struct {
	pool pgdb.Queryer
}

// NewTransferRepository は TransferRepository を生成します。
func NewTransferRepository(pool pgdb.Queryer) *TransferRepository {
	return &TransferRepository{pool: pool}
}

// Create は異動記録を新規作成します。
func (r *TransferRepository) Create(ctx context.Context, rec *transfer.Record) (*transfer.Record, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO transfer_history (engineer_id, engineer_name, from_company, to_company, transfer_date, reason, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, now(), now())
        RETURNING `+transferColumns,
		rec.EngineerID,
		rec.EngineerName,
		rec.FromCompany,
		rec.ToCompany,
		dateOnly(rec.TransferDate),
		nullableString(rec.Reason),
	)

	created, err := scanTransfer(row)
	if err != nil {
		return nil, translatePgError(transfer.Collection, storeerr.OpCreate, err)
	}
	return created, nil
}

// Delete は異動記録を削除します。
func (r *TransferRepository) Delete(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM transfer_history WHERE id = $1`, id)
	if err != nil {
		return translatePgError(transfer.Collection, storeerr.OpDelete, err)
	}
	if tag.RowsAffected() == 0 {
		return translatePgError(transfer.Collection, storeerr.OpDelete, storeerr.ErrNotFound)
	}
	return nil
}

// List は作成日時の新しい順に全件を返します。
func (r *TransferRepository) List(ctx context.Context) ([]*transfer.Record, error) {
	return r.query(ctx, `SELECT `+transferColumns+` FROM transfer_history ORDER BY created_at DESC, id DESC`)
}

// ListByEngineer は指定した人員の異動を異動日の新しい順に返します。
func (r *TransferRepository) ListByEngineer(ctx context.Context, engineerID string) ([]*transfer.Record, error) {
	return r.query(ctx, `
        SELECT `+transferColumns+`
          FROM transfer_history
         WHERE engineer_id = $1
         ORDER BY transfer_date DESC, created_at DESC
    `, engineerID)
}

func (r *TransferRepository) query(ctx context.Context, stmt string, args ...any) ([]*transfer.Record, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, translatePgError(transfer.Collection, storeerr.OpList, err)
	}
	defer rows.Close()

	records := make([]*transfer.Record, 0)
	for rows.Next() {
		rec, err := scanTransfer(rows)
		if err != nil {
			return nil, translatePgError(transfer.Collection, storeerr.OpList, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, translatePgError(transfer.Collection, storeerr.OpList, err)
	}
	return records, nil
}

func scanTransfer(row pgx.Row) (*transfer.Record, error) {
	var (
		id           string
		engineerID   string
		engineerName string
		fromCompany  string
		toCompany    string
		transferDate time.Time
		reason       sql.NullString
		createdAt    time.Time
		updatedAt    time.Time
	)

	if err := row.Scan(
		&id,
		&engineerID,
		&engineerName,
		&fromCompany,
		&toCompany,
		&transferDate,
		&reason,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	return &transfer.Record{
		ID:           id,
		EngineerID:   engineerID,
		EngineerName: engineerName,
		FromCompany:  fromCompany,
		ToCompany:    toCompany,
		TransferDate: dateOnly(transferDate),
		Reason:       stringPtr(reason),
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}
