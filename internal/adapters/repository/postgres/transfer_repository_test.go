package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/engineer-admin/internal/core/transfer"
	pgdb "github.com/ogurasousui/engineer-admin/internal/platform/db/postgres"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

var transferColumnNames = []string{"id", "engineer_id", "engineer_name", "from_company", "to_company", "transfer_date", "reason", "created_at", "updated_at"}

func TestTransferRepository_ListByEngineer(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewTransferRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE engineer_id = $1`)).
		WithArgs("p-1").
		WillReturnRows(pgxmock.NewRows(transferColumnNames).
			AddRow("t-2", "p-1", "A", "Company B", "Company C", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "client request", now, now).
			AddRow("t-1", "p-1", "A", "Company A", "Company B", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil, now, now))

	records, err := repo.ListByEngineer(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("ListByEngineer returned error: %v", err)
	}
	if len(records) != 2 || records[0].ID != "t-2" || records[1].ToCompany != "Company B" {
		t.Fatalf("unexpected records %+v", records)
	}
	if records[0].Reason == nil || *records[0].Reason != "client request" || records[1].Reason != nil {
		t.Fatalf("unexpected reasons %+v %+v", records[0].Reason, records[1].Reason)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransferRepository_CreateInsideTransaction(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewTransferRepository(mock)
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadWrite})
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO transfer_history`)).
		WithArgs("p-1", "A", "Company A", "Company B", date, nil).
		WillReturnRows(pgxmock.NewRows(transferColumnNames).
			AddRow("t-1", "p-1", "A", "Company A", "Company B", date, nil, now, now))
	mock.ExpectCommit()

	tm := pgdb.NewTransactionManager(mock, nil)
	var created *transfer.Record
	err = tm.WithinReadWrite(context.Background(), func(ctx context.Context) error {
		var err error
		created, err = repo.Create(ctx, &transfer.Record{
			EngineerID:   "p-1",
			EngineerName: "A",
			FromCompany:  "Company A",
			ToCompany:    "Company B",
			TransferDate: date,
		})
		return err
	})
	if err != nil {
		t.Fatalf("WithinReadWrite returned error: %v", err)
	}
	if created == nil || created.ID != "t-1" {
		t.Fatalf("unexpected record %+v", created)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
