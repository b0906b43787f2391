package auth

import "time"

// Account はサインイン可能なアカウントです。
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session はサインアウトまで有効なセッションです。トークンの jti と一致します。
type Session struct {
	ID        string
	AccountID string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Identity は認証済みの呼び出し元です。
type Identity struct {
	AccountID string
	Email     string
	SessionID string
}

// SignInResult はサインイン・サインアップの結果です。
type SignInResult struct {
	Identity  Identity
	Token     string
	ExpiresAt time.Time
}
