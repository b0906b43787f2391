package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/ogurasousui/engineer-admin/internal/core/storeerr"
	"golang.org/x/crypto/bcrypt"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

const (
	defaultTokenTTL  = 24 * time.Hour
	minPasswordBytes = 6
)

// Config は認証サービスの設定です。
type Config struct {
	Secret     string
	Issuer     string
	TokenTTL   time.Duration
	BcryptCost int
}

// UseCase は認証ユースケースの公開インターフェースです。
type UseCase interface {
	SignUp(ctx context.Context, email, password string) (*SignInResult, error)
	SignIn(ctx context.Context, email, password string) (*SignInResult, error)
	SignOut(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*Identity, error)
}

// Service はメールアドレスとパスワードによる認証を提供します。
// 認証済みであること以外の権限は扱いません。
type Service struct {
	accounts AccountRepository
	sessions SessionRepository
	tokens   tokenCodec
	ttl      time.Duration
	cost     int
	clock    Clock
	validate *validator.Validate
}

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// NewService は Service を生成します。
func NewService(accounts AccountRepository, sessions SessionRepository, cfg Config, clock Clock) *Service {
	if clock == nil {
		clock = realClock{}
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		accounts: accounts,
		sessions: sessions,
		tokens:   tokenCodec{secret: []byte(cfg.Secret), issuer: cfg.Issuer},
		ttl:      ttl,
		cost:     cost,
		clock:    clock,
		validate: validator.New(),
	}
}

// SignUp はアカウントを作成し、そのままサインインします。
func (s *Service) SignUp(ctx context.Context, email, password string) (*SignInResult, error) {
	email, err := s.checkCredentials(email, password)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordBytes {
		return nil, ErrWeakPassword
	}

	existing, err := s.accounts.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, storeerr.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	account, err := s.accounts.Create(ctx, &Account{
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	return s.openSession(ctx, account)
}

// SignIn は資格情報を検証してセッションを開始します。
func (s *Service) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	email, err := s.checkCredentials(email, password)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.openSession(ctx, account)
}

// SignOut はトークンに対応するセッションを破棄します。無効なトークンや破棄済みのセッションでも成功します。
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := s.tokens.parse(token, s.clock.Now())
	if err != nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, claims.ID); err != nil && !errors.Is(err, storeerr.ErrNotFound) {
		return err
	}
	return nil
}

// Authenticate はトークンを検証し、呼び出し元を返します。
func (s *Service) Authenticate(ctx context.Context, token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthenticated
	}

	now := s.clock.Now()
	claims, err := s.tokens.parse(token, now)
	if err != nil {
		return nil, unauthenticated(err)
	}

	session, err := s.sessions.FindByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if !session.ExpiresAt.After(now) || session.AccountID != claims.Subject {
		return nil, ErrUnauthenticated
	}

	return &Identity{AccountID: claims.Subject, Email: claims.Email, SessionID: claims.ID}, nil
}

func (s *Service) checkCredentials(email, password string) (string, error) {
	in := credentials{Email: strings.ToLower(strings.TrimSpace(email)), Password: password}
	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "Password" {
			return "", ErrWeakPassword
		}
		return "", ErrInvalidEmail
	}
	return in.Email, nil
}

func (s *Service) openSession(ctx context.Context, account *Account) (*SignInResult, error) {
	now := s.clock.Now()
	session, err := s.sessions.Create(ctx, &Session{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	identity := Identity{AccountID: account.ID, Email: account.Email, SessionID: session.ID}
	token, err := s.tokens.sign(identity, now, session.ExpiresAt)
	if err != nil {
		return nil, err
	}

	return &SignInResult{Identity: identity, Token: token, ExpiresAt: session.ExpiresAt}, nil
}
