package auth

import "errors"

// Kind は認証エラーの分類です。
type Kind string

const (
	KindInvalidCredentials Kind = "invalid_credentials"
	KindInvalidEmail       Kind = "invalid_email"
	KindWeakPassword       Kind = "weak_password"
	KindEmailInUse         Kind = "email_in_use"
	KindUnauthenticated    Kind = "unauthenticated"
)

// Error は利用者に提示できる理由を持つ認証エラーです。
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return "auth: " + e.Reason + ": " + e.Err.Error()
	}
	return "auth: " + e.Reason
}

func (e *Error) Unwrap() error { return e.Err }

// Is は Kind が一致する Error を同一とみなします。
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Reason: "email or password is incorrect"}
	ErrInvalidEmail       = &Error{Kind: KindInvalidEmail, Reason: "email address is malformed"}
	ErrWeakPassword       = &Error{Kind: KindWeakPassword, Reason: "password must be at least 6 characters"}
	ErrEmailAlreadyExists = &Error{Kind: KindEmailInUse, Reason: "email address is already in use"}
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated, Reason: "sign-in required"}
)

func unauthenticated(err error) error {
	return &Error{Kind: KindUnauthenticated, Reason: ErrUnauthenticated.Reason, Err: err}
}
