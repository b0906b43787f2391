package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/engineer-admin/internal/core/personnel"
	"github.com/ogurasousui/engineer-admin/internal/core/storeerr"
	pgdb "github.com/ogurasousui/engineer-admin/internal/platform/db/postgres"
)

const personColumns = `id, name, type, date_of_birth, company, position, start_date, email, phone, drive_folder_name, created_at, updated_at`

// PersonnelRepository は PostgreSQL を利用した人員永続化の実装です。
type PersonnelRepository struct {
	pool pgdb.Queryer
}

// NewPersonnelRepository は PersonnelRepository を生成します。
func NewPersonnelRepository(pool pgdb.Queryer) *PersonnelRepository {
	return &PersonnelRepository{pool: pool}
}

// Create は人員を新規作成します。ID と作成日時はストアが採番します。
func (r *PersonnelRepository) Create(ctx context.Context, p *personnel.Person) (*personnel.Person, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO personnel (name, type, date_of_birth, company, position, start_date, email, phone, drive_folder_name, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
        RETURNING `+personColumns,
		p.Name,
		string(p.Type),
		nullableDate(p.DateOfBirth),
		p.Company,
		p.Position,
		dateOnly(p.StartDate),
		nullableString(p.Email),
		nullableString(p.Phone),
		nullableString(p.DriveFolderName),
	)

	created, err := scanPerson(row)
	if err != nil {
		return nil, translatePgError(personnel.Collection, storeerr.OpCreate, err)
	}
	return created, nil
}

// Update は人員の全フィールドを書き換えます。
func (r *PersonnelRepository) Update(ctx context.Context, p *personnel.Person) (*personnel.Person, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE personnel
           SET name = $1,
               type = $2,
               date_of_birth = $3,
               company = $4,
               position = $5,
               start_date = $6,
               email = $7,
               phone = $8,
               drive_folder_name = $9,
               updated_at = now()
         WHERE id = $10
        RETURNING `+personColumns,
		p.Name,
		string(p.Type),
		nullableDate(p.DateOfBirth),
		p.Company,
		p.Position,
		dateOnly(p.StartDate),
		nullableString(p.Email),
		nullableString(p.Phone),
		nullableString(p.DriveFolderName),
		p.ID,
	)

	updated, err := scanPerson(row)
	if err != nil {
		return nil, translatePgError(personnel.Collection, storeerr.OpUpdate, err)
	}
	return updated, nil
}

// UpdateCompany は所属会社のみを更新します。
func (r *PersonnelRepository) UpdateCompany(ctx context.Context, id, company string) (*personnel.Person, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE personnel
           SET company = $1,
               updated_at = now()
         WHERE id = $2
        RETURNING `+personColumns, company, id)

	updated, err := scanPerson(row)
	if err != nil {
		return nil, translatePgError(personnel.Collection, storeerr.OpUpdate, err)
	}
	return updated, nil
}

// Delete は人員を削除します。
func (r *PersonnelRepository) Delete(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM personnel WHERE id = $1`, id)
	if err != nil {
		return translatePgError(personnel.Collection, storeerr.OpDelete, err)
	}
	if tag.RowsAffected() == 0 {
		return translatePgError(personnel.Collection, storeerr.OpDelete, storeerr.ErrNotFound)
	}
	return nil
}

// FindByID は ID で人員を取得します。
func (r *PersonnelRepository) FindByID(ctx context.Context, id string) (*personnel.Person, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+personColumns+` FROM personnel WHERE id = $1 LIMIT 1`, id)

	found, err := scanPerson(row)
	if err != nil {
		return nil, translatePgError(personnel.Collection, storeerr.OpGet, err)
	}
	return found, nil
}

// List は作成日時の新しい順に全件を返します。
func (r *PersonnelRepository) List(ctx context.Context) ([]*personnel.Person, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `SELECT `+personColumns+` FROM personnel ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, translatePgError(personnel.Collection, storeerr.OpList, err)
	}
	defer rows.Close()

	people := make([]*personnel.Person, 0)
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, translatePgError(personnel.Collection, storeerr.OpList, err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translatePgError(personnel.Collection, storeerr.OpList, err)
	}
	return people, nil
}

// SummarizeByCompany は会社ごとの区分別人数を会社名順に返します。
func (r *PersonnelRepository) SummarizeByCompany(ctx context.Context) ([]personnel.CompanySummary, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT company,
               COUNT(*) FILTER (WHERE type = 'engineer'),
               COUNT(*) FILTER (WHERE type = 'intern')
          FROM personnel
         GROUP BY company
         ORDER BY company
    `)
	if err != nil {
		return nil, translatePgError(personnel.Collection, storeerr.OpList, err)
	}
	defer rows.Close()

	summaries := make([]personnel.CompanySummary, 0)
	for rows.Next() {
		var s personnel.CompanySummary
		if err := rows.Scan(&s.Company, &s.Engineers, &s.Interns); err != nil {
			return nil, translatePgError(personnel.Collection, storeerr.OpList, err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, translatePgError(personnel.Collection, storeerr.OpList, err)
	}
	return summaries, nil
}

func scanPerson(row pgx.Row) (*personnel.Person, error) {
	var (
		id          string
		name        string
		kind        string
		dateOfBirth sql.NullTime
		company     string
		position    string
		startDate   time.Time
		email       sql.NullString
		phone       sql.NullString
		folder      sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
	)

	if err := row.Scan(
		&id,
		&name,
		&kind,
		&dateOfBirth,
		&company,
		&position,
		&startDate,
		&email,
		&phone,
		&folder,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	var dobPtr *time.Time
	if dateOfBirth.Valid {
		d := dateOnly(dateOfBirth.Time)
		dobPtr = &d
	}

	return &personnel.Person{
		ID:              id,
		Name:            name,
		Type:            personnel.Type(kind),
		DateOfBirth:     dobPtr,
		Company:         company,
		Position:        position,
		StartDate:       dateOnly(startDate),
		Email:           stringPtr(email),
		Phone:           stringPtr(phone),
		DriveFolderName: stringPtr(folder),
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}, nil
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
