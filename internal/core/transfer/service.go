package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ogurasousui/engineer-admin/internal/core/personnel"
)

// PersonStore は異動ワークフローが必要とする人員ストアの操作です。
type PersonStore interface {
	FindByID(ctx context.Context, id string) (*personnel.Person, error)
	UpdateCompany(ctx context.Context, id, company string) (*personnel.Person, error)
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

// UseCase は異動ユースケースの公開インターフェースです。
type UseCase interface {
	RecordTransfer(ctx context.Context, in RecordTransferInput) (*Result, error)
	ListTransfers(ctx context.Context, in ListTransfersInput) ([]*Record, error)
	DeleteTransfer(ctx context.Context, in DeleteTransferInput) error
}

// Option は Service の挙動を変更します。
type Option func(*Service)

// WithCompensation は非トランザクション時、会社更新に失敗した異動記録を削除させます。
func WithCompensation() Option {
	return func(s *Service) { s.compensate = true }
}

// Service は異動記録の作成と人員の会社更新を順に行います。
//
// TransactionManager が与えられた場合は 2 つの書き込みを 1 トランザクションで実行します。
// 与えられない場合は独立した書き込みとなり、2 番目の失敗は ConsistencyWarning として返ります。
type Service struct {
	records    Repository
	people     PersonStore
	tx         TransactionManager
	compensate bool
}

// NewService は Service を生成します。tx は nil でも構いません。
func NewService(records Repository, people PersonStore, tx TransactionManager, opts ...Option) *Service {
	s := &Service{records: records, people: people, tx: tx}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordTransferInput は異動登録時の入力です。
// EngineerName と FromCompany はフォームを開いた時点の値で、空の場合は現在の人員レコードから補完されます。
type RecordTransferInput struct {
	EngineerID   string
	EngineerName string
	FromCompany  string
	ToCompany    string
	TransferDate *time.Time
	Reason       string
}

// ListTransfersInput は一覧取得時の入力です。EngineerID が空の場合は全件です。
type ListTransfersInput struct {
	EngineerID string
}

// DeleteTransferInput は異動記録削除時の入力です。
type DeleteTransferInput struct {
	ID string
}

// Result は異動登録の結果です。
type Result struct {
	Record *Record
	Person *personnel.Person
}

// Atomic は 2 つの書き込みが同一トランザクションで行われるかを返します。
func (s *Service) Atomic() bool {
	return s.tx != nil
}

// RecordTransfer は異動記録を作成し、人員の所属会社を更新します。
func (s *Service) RecordTransfer(ctx context.Context, in RecordTransferInput) (*Result, error) {
	engineerID := strings.TrimSpace(in.EngineerID)
	if engineerID == "" {
		return nil, ErrInvalidEngineerID
	}

	toCompany := strings.TrimSpace(in.ToCompany)
	if toCompany == "" {
		return nil, ErrInvalidToCompany
	}

	if in.TransferDate == nil {
		return nil, ErrInvalidTransferDate
	}

	if s.tx == nil {
		return s.recordSequential(ctx, engineerID, toCompany, in)
	}

	var result *Result
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		record, err := s.insertRecord(txCtx, engineerID, toCompany, in)
		if err != nil {
			return err
		}

		person, err := s.people.UpdateCompany(txCtx, engineerID, toCompany)
		if err != nil {
			return err
		}

		result = &Result{Record: record, Person: person}
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *Service) recordSequential(ctx context.Context, engineerID, toCompany string, in RecordTransferInput) (*Result, error) {
	record, err := s.insertRecord(ctx, engineerID, toCompany, in)
	if err != nil {
		return nil, err
	}

	person, err := s.people.UpdateCompany(ctx, engineerID, toCompany)
	if err == nil {
		return &Result{Record: record, Person: person}, nil
	}

	if !s.compensate {
		return nil, &ConsistencyWarning{Record: record, Err: err}
	}

	if delErr := s.records.Delete(ctx, record.ID); delErr != nil {
		return nil, &ConsistencyWarning{Record: record, Err: err, CompensationErr: delErr}
	}
	return nil, err
}

func (s *Service) insertRecord(ctx context.Context, engineerID, toCompany string, in RecordTransferInput) (*Record, error) {
	person, err := s.people.FindByID(ctx, engineerID)
	if err != nil {
		return nil, err
	}

	fromCompany := strings.TrimSpace(in.FromCompany)
	if fromCompany == "" {
		fromCompany = person.Company
	}
	if fromCompany == toCompany {
		return nil, ErrSameCompany
	}

	name := strings.TrimSpace(in.EngineerName)
	if name == "" {
		name = person.Name
	}

	date := time.Date(in.TransferDate.Year(), in.TransferDate.Month(), in.TransferDate.Day(), 0, 0, 0, 0, time.UTC)

	var reason *string
	if trimmed := strings.TrimSpace(in.Reason); trimmed != "" {
		reason = &trimmed
	}

	return s.records.Create(ctx, &Record{
		EngineerID:   engineerID,
		EngineerName: name,
		FromCompany:  fromCompany,
		ToCompany:    toCompany,
		TransferDate: date,
		Reason:       reason,
	})
}

// ListTransfers は異動履歴を返します。
func (s *Service) ListTransfers(ctx context.Context, in ListTransfersInput) ([]*Record, error) {
	engineerID := strings.TrimSpace(in.EngineerID)
	if engineerID == "" {
		return s.records.List(ctx)
	}
	return s.records.ListByEngineer(ctx, engineerID)
}

// DeleteTransfer は異動記録を削除します。人員の所属会社は変更しません。
func (s *Service) DeleteTransfer(ctx context.Context, in DeleteTransferInput) error {
	if strings.TrimSpace(in.ID) == "" {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}
	return s.records.Delete(ctx, in.ID)
}

// IsConsistencyWarning は err が ConsistencyWarning を含むかを返します。
func IsConsistencyWarning(err error) bool {
	var w *ConsistencyWarning
	return errors.As(err, &w)
}
