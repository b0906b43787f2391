package personnel

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ogurasousui/engineer-admin/internal/core/drive"
	"github.com/ogurasousui/engineer-admin/internal/core/storeerr"
)

// DateLayout は暦日の表現形式です。
const DateLayout = "2006-01-02"

var validate = validator.New()

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// UseCase は人員ユースケースの公開インターフェースです。
type UseCase interface {
	CreatePerson(ctx context.Context, in CreatePersonInput) (*Person, error)
	GetPerson(ctx context.Context, in GetPersonInput) (*Person, error)
	ListPersonnel(ctx context.Context) ([]*Person, error)
	UpdatePerson(ctx context.Context, in UpdatePersonInput) (*Person, error)
	DeletePerson(ctx context.Context, in DeletePersonInput) error
	SummarizeCompanies(ctx context.Context) ([]CompanySummary, error)
}

// Service は人員に関するユースケースをまとめます。
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

// CreatePersonInput は人員作成時の入力です。
type CreatePersonInput struct {
	Name        string
	Type        Type
	DateOfBirth *time.Time
	Company     string
	Position    string
	StartDate   *time.Time
	Email       string
	Phone       string
}

// UpdatePersonInput は人員更新時の入力です。nil のフィールドは変更しません。
type UpdatePersonInput struct {
	ID             string
	Name           *string
	Type           *Type
	DateOfBirth    *time.Time
	DateOfBirthSet bool
	Company        *string
	Position       *string
	StartDate      *time.Time
	Email          *string
	Phone          *string
}

// GetPersonInput は人員取得時の入力です。
type GetPersonInput struct {
	ID string
}

// DeletePersonInput は人員削除時の入力です。
type DeletePersonInput struct {
	ID string
}

// CreatePerson は新しい人員を登録します。
func (s *Service) CreatePerson(ctx context.Context, in CreatePersonInput) (*Person, error) {
	name, err := requireText(in.Name, ErrInvalidName)
	if err != nil {
		return nil, err
	}

	personType := in.Type
	if personType == "" {
		personType = TypeEngineer
	}
	if !isValidType(personType) {
		return nil, ErrInvalidType
	}

	company, err := requireText(in.Company, ErrInvalidCompany)
	if err != nil {
		return nil, err
	}

	position, err := requireText(in.Position, ErrInvalidPosition)
	if err != nil {
		return nil, err
	}

	if in.StartDate == nil {
		return nil, ErrInvalidStartDate
	}

	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}

	p := &Person{
		Name:        name,
		Type:        personType,
		DateOfBirth: normalizeDate(in.DateOfBirth),
		Company:     company,
		Position:    position,
		StartDate:   *normalizeDate(in.StartDate),
		Email:       email,
		Phone:       optionalText(in.Phone),
	}
	p.DriveFolderName = folderNameFor(p)

	return s.repo.Create(ctx, p)
}

// UpdatePerson は指定されたフィールドのみを既存レコードへマージします。
// DriveFolderName は更新後の Name と DateOfBirth から常に再計算されます。
func (s *Service) UpdatePerson(ctx context.Context, in UpdatePersonInput) (*Person, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var updated *Person
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return storeerr.AsWrite(Collection, storeerr.OpUpdate, err)
		}

		if in.Name != nil {
			name, err := requireText(*in.Name, ErrInvalidName)
			if err != nil {
				return err
			}
			existing.Name = name
		}

		if in.Type != nil {
			if !isValidType(*in.Type) {
				return ErrInvalidType
			}
			existing.Type = *in.Type
		}

		if in.DateOfBirthSet {
			existing.DateOfBirth = normalizeDate(in.DateOfBirth)
		}

		if in.Company != nil {
			company, err := requireText(*in.Company, ErrInvalidCompany)
			if err != nil {
				return err
			}
			existing.Company = company
		}

		if in.Position != nil {
			position, err := requireText(*in.Position, ErrInvalidPosition)
			if err != nil {
				return err
			}
			existing.Position = position
		}

		if in.StartDate != nil {
			existing.StartDate = *normalizeDate(in.StartDate)
		}

		if in.Email != nil {
			email, err := normalizeEmail(*in.Email)
			if err != nil {
				return err
			}
			existing.Email = email
		}

		if in.Phone != nil {
			existing.Phone = optionalText(*in.Phone)
		}

		existing.DriveFolderName = folderNameFor(existing)

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

// DeletePerson は人員を削除します。異動履歴は削除されません。
func (s *Service) DeletePerson(ctx context.Context, in DeletePersonInput) error {
	if strings.TrimSpace(in.ID) == "" {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}
	return s.repo.Delete(ctx, in.ID)
}

// GetPerson は人員を取得します。
func (s *Service) GetPerson(ctx context.Context, in GetPersonInput) (*Person, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}
	return s.repo.FindByID(ctx, in.ID)
}

// ListPersonnel は作成日時の新しい順に全件を返します。
func (s *Service) ListPersonnel(ctx context.Context) ([]*Person, error) {
	return s.repo.List(ctx)
}

// SummarizeCompanies は会社ごとのエンジニア数とインターン数を返します。
func (s *Service) SummarizeCompanies(ctx context.Context) ([]CompanySummary, error) {
	return s.repo.SummarizeByCompany(ctx)
}

// FormatDate は暦日を YYYY-MM-DD で返します。nil は空文字列です。
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

func folderNameFor(p *Person) *string {
	name := drive.GenerateFolderName(p.Name, FormatDate(p.DateOfBirth))
	if name == "" {
		return nil
	}
	return &name
}

func requireText(raw string, invalid error) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", invalid
	}
	return trimmed, nil
}

func optionalText(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func normalizeEmail(raw string) (*string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	// 表示名付きの形式は受け付けず、入力どおりに保存します。
	if err := validate.Var(trimmed, "email"); err != nil {
		return nil, ErrInvalidEmail
	}
	return &trimmed, nil
}

func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	normalized := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &normalized
}

func isValidType(t Type) bool {
	switch t {
	case TypeEngineer, TypeIntern:
		return true
	default:
		return false
	}
}

// ParseType は文字列から Type を得ます。
func ParseType(raw string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(raw)))
	if !isValidType(t) {
		return "", ErrInvalidType
	}
	return t, nil
}

// ParseDate は YYYY-MM-DD 形式の暦日を解釈します。空文字列は nil です。
func ParseDate(raw string) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, trimmed)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
