package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims はアクセストークンのクレームです。ID はセッション ID、Subject はアカウント ID です。
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

type tokenCodec struct {
	secret []byte
	issuer string
}

func (c tokenCodec) sign(identity Identity, issuedAt, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        identity.SessionID,
			Subject:   identity.AccountID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: identity.Email,
	})
	return token.SignedString(c.secret)
}

func (c tokenCodec) parse(raw string, now time.Time) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithIssuer(c.issuer), jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.ID == "" || claims.Subject == "" {
		return nil, fmt.Errorf("invalid claims")
	}
	return claims, nil
}
