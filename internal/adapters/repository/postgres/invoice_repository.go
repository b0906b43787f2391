package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/engineer-admin/internal/core/invoice"
	"github.com/ogurasousui/engineer-admin/internal/core/storeerr"
	pgdb "github.com/ogurasousui/engineer-admin/internal/platform/db/postgres"
	"github.com/shopspring/decimal"
)

const invoiceColumns = `id, invoice_number, company, issue_date, due_date, amount, status, description, created_at, updated_at`

// InvoiceRepository は PostgreSQL を利用した請求書永続化の実装です。
type InvoiceRepository struct {
	pool pgdb.Queryer
}

// NewInvoiceRepository は InvoiceRepository を生成します。
func NewInvoiceRepository(pool pgdb.Queryer) *InvoiceRepository {
	return &InvoiceRepository{pool: pool}
}

// Create は請求書を新規作成します。
func (r *InvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) (*invoice.Invoice, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO invoices (invoice_number, company, issue_date, due_date, amount, status, description, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
        RETURNING `+invoiceColumns,
		inv.InvoiceNumber,
		inv.Company,
		dateOnly(inv.IssueDate),
		dateOnly(inv.DueDate),
		inv.Amount,
		string(inv.Status),
		nullableString(inv.Description),
	)

	created, err := scanInvoice(row)
	if err != nil {
		return nil, translatePgError(invoice.Collection, storeerr.OpCreate, err)
	}
	return created, nil
}

// Update は請求書の全フィールドを書き換えます。
func (r *InvoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) (*invoice.Invoice, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE invoices
           SET invoice_number = $1,
               company = $2,
               issue_date = $3,
               due_date = $4,
               amount = $5,
               status = $6,
               description = $7,
               updated_at = now()
         WHERE id = $8
        RETURNING `+invoiceColumns,
		inv.InvoiceNumber,
		inv.Company,
		dateOnly(inv.IssueDate),
		dateOnly(inv.DueDate),
		inv.Amount,
		string(inv.Status),
		nullableString(inv.Description),
		inv.ID,
	)

	updated, err := scanInvoice(row)
	if err != nil {
		return nil, translatePgError(invoice.Collection, storeerr.OpUpdate, err)
	}
	return updated, nil
}

// Delete は請求書を削除します。
func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return translatePgError(invoice.Collection, storeerr.OpDelete, err)
	}
	if tag.RowsAffected() == 0 {
		return translatePgError(invoice.Collection, storeerr.OpDelete, storeerr.ErrNotFound)
	}
	return nil
}

// FindByID は ID で請求書を取得します。
func (r *InvoiceRepository) FindByID(ctx context.Context, id string) (*invoice.Invoice, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 LIMIT 1`, id)

	found, err := scanInvoice(row)
	if err != nil {
		return nil, translatePgError(invoice.Collection, storeerr.OpGet, err)
	}
	return found, nil
}

// List は作成日時の新しい順に全件を返します。
func (r *InvoiceRepository) List(ctx context.Context) ([]*invoice.Invoice, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `SELECT `+invoiceColumns+` FROM invoices ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, translatePgError(invoice.Collection, storeerr.OpList, err)
	}
	defer rows.Close()

	invoices := make([]*invoice.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, translatePgError(invoice.Collection, storeerr.OpList, err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, translatePgError(invoice.Collection, storeerr.OpList, err)
	}
	return invoices, nil
}

func scanInvoice(row pgx.Row) (*invoice.Invoice, error) {
	var (
		id          string
		number      string
		company     string
		issueDate   time.Time
		dueDate     time.Time
		amount      decimal.Decimal
		status      string
		description sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
	)

	if err := row.Scan(
		&id,
		&number,
		&company,
		&issueDate,
		&dueDate,
		&amount,
		&status,
		&description,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	return &invoice.Invoice{
		ID:            id,
		InvoiceNumber: number,
		Company:       company,
		IssueDate:     dateOnly(issueDate),
		DueDate:       dateOnly(dueDate),
		Amount:        amount,
		Status:        invoice.Status(status),
		Description:   stringPtr(description),
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}, nil
}
