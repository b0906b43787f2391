package invoice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ogurasousui/engineer-admin/internal/core/storeerr"
	"github.com/shopspring/decimal"
)

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// UseCase は請求書ユースケースの公開インターフェースです。
type UseCase interface {
	CreateInvoice(ctx context.Context, in CreateInvoiceInput) (*Invoice, error)
	GetInvoice(ctx context.Context, in GetInvoiceInput) (*Invoice, error)
	ListInvoices(ctx context.Context) ([]*Invoice, error)
	UpdateInvoice(ctx context.Context, in UpdateInvoiceInput) (*Invoice, error)
	DeleteInvoice(ctx context.Context, in DeleteInvoiceInput) error
}

// Service は請求書に関するユースケースをまとめます。
// 請求書番号の一意性は検査しません。
type Service struct {
	repo Repository
	tx   TransactionManager
}

// NewService は Service を生成します。
func NewService(repo Repository, tx TransactionManager) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, tx: tx}
}

// CreateInvoiceInput は請求書作成時の入力です。
type CreateInvoiceInput struct {
	InvoiceNumber string
	Company       string
	IssueDate     *time.Time
	DueDate       *time.Time
	Amount        decimal.Decimal
	Status        *Status
	Description   string
}

// UpdateInvoiceInput は請求書更新時の入力です。
type UpdateInvoiceInput struct {
	ID            string
	InvoiceNumber *string
	Company       *string
	IssueDate     *time.Time
	DueDate       *time.Time
	Amount        *decimal.Decimal
	Status        *Status
	Description   *string
}

// GetInvoiceInput は請求書取得時の入力です。
type GetInvoiceInput struct {
	ID string
}

// DeleteInvoiceInput は請求書削除時の入力です。
type DeleteInvoiceInput struct {
	ID string
}

// CreateInvoice は新しい請求書を作成します。
func (s *Service) CreateInvoice(ctx context.Context, in CreateInvoiceInput) (*Invoice, error) {
	number := strings.TrimSpace(in.InvoiceNumber)
	if number == "" {
		return nil, ErrInvalidInvoiceNumber
	}

	company := strings.TrimSpace(in.Company)
	if company == "" {
		return nil, ErrInvalidCompany
	}

	if in.IssueDate == nil {
		return nil, ErrInvalidIssueDate
	}
	if in.DueDate == nil {
		return nil, ErrInvalidDueDate
	}

	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}

	status := StatusPending
	if in.Status != nil {
		if !isValidStatus(*in.Status) {
			return nil, ErrInvalidStatus
		}
		status = *in.Status
	}

	inv := &Invoice{
		InvoiceNumber: number,
		Company:       company,
		IssueDate:     normalizeDate(*in.IssueDate),
		DueDate:       normalizeDate(*in.DueDate),
		Amount:        in.Amount,
		Status:        status,
		Description:   optionalText(in.Description),
	}

	return s.repo.Create(ctx, inv)
}

// UpdateInvoice は指定されたフィールドのみを更新します。
func (s *Service) UpdateInvoice(ctx context.Context, in UpdateInvoiceInput) (*Invoice, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var updated *Invoice
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return storeerr.AsWrite(Collection, storeerr.OpUpdate, err)
		}

		if in.InvoiceNumber != nil {
			number := strings.TrimSpace(*in.InvoiceNumber)
			if number == "" {
				return ErrInvalidInvoiceNumber
			}
			existing.InvoiceNumber = number
		}

		if in.Company != nil {
			company := strings.TrimSpace(*in.Company)
			if company == "" {
				return ErrInvalidCompany
			}
			existing.Company = company
		}

		if in.IssueDate != nil {
			existing.IssueDate = normalizeDate(*in.IssueDate)
		}
		if in.DueDate != nil {
			existing.DueDate = normalizeDate(*in.DueDate)
		}

		if in.Amount != nil {
			if err := validateAmount(*in.Amount); err != nil {
				return err
			}
			existing.Amount = *in.Amount
		}

		if in.Status != nil {
			if !isValidStatus(*in.Status) {
				return ErrInvalidStatus
			}
			existing.Status = *in.Status
		}

		if in.Description != nil {
			existing.Description = optionalText(*in.Description)
		}

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteInvoice は請求書を削除します。
func (s *Service) DeleteInvoice(ctx context.Context, in DeleteInvoiceInput) error {
	if strings.TrimSpace(in.ID) == "" {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}
	return s.repo.Delete(ctx, in.ID)
}

// GetInvoice は請求書を取得します。
func (s *Service) GetInvoice(ctx context.Context, in GetInvoiceInput) (*Invoice, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}
	return s.repo.FindByID(ctx, in.ID)
}

// ListInvoices は作成日時の新しい順に全件を返します。
func (s *Service) ListInvoices(ctx context.Context) ([]*Invoice, error) {
	return s.repo.List(ctx)
}

// ParseStatus は文字列から Status を得ます。
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !isValidStatus(status) {
		return "", ErrInvalidStatus
	}
	return status, nil
}

func isValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusPaid, StatusOverdue:
		return true
	default:
		return false
	}
}

func validateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	if !amount.Equal(amount.Truncate(AmountScale)) {
		return ErrAmountPrecision
	}
	return nil
}

func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func optionalText(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
