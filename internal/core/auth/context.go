package auth

import "context"

type identityContextKey struct{}

type tokenContextKey struct{}

// ContextWithIdentity は認証済みの呼び出し元をコンテキストに格納します。
func ContextWithIdentity(ctx context.Context, id Identity, token string) context.Context {
	ctx = context.WithValue(ctx, identityContextKey{}, id)
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// IdentityFromContext はコンテキストの呼び出し元を返します。
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}

// TokenFromContext は呼び出し元が提示したトークンを返します。
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey{}).(string)
	return token
}
