// Package interceptor は gRPC サーバーの単項インターセプターを提供します。
package interceptor

import (
	"context"
	"errors"
	"strings"

	"github.com/ogurasousui/engineer-admin/internal/adapters/grpc/rpc"
	"github.com/ogurasousui/engineer-admin/internal/core/auth"
	"github.com/ogurasousui/engineer-admin/internal/core/storeerr"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
)

const (
	authorizationHeader = "authorization"
	bearerPrefix        = "bearer "
)

// Authenticator はトークンから呼び出し元を得ます。
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Identity, error)
}

// DefaultPublicMethods はサインインなしで呼び出せるメソッドです。
var DefaultPublicMethods = []string{
	rpc.FullMethod(rpc.AuthService, rpc.MethodSignUp),
	rpc.FullMethod(rpc.AuthService, rpc.MethodSignIn),
	rpc.FullMethod(rpc.AuthService, rpc.MethodSignOut),
	"/grpc.health.v1.Health/Check",
	"/grpc.health.v1.Health/Watch",
	"/grpc.health.v1.Health/List",
}

// Auth は公開メソッド以外に authorization: Bearer トークンを要求します。
// 認証済みであれば全てのレコードを読み書きでき、それ以外の権限区分はありません。
func Auth(authn Authenticator, publicMethods ...string) grpc.UnaryServerInterceptor {
	public := make(map[string]struct{}, len(publicMethods))
	for _, m := range publicMethods {
		public[m] = struct{}{}
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		token := bearerToken(ctx)

		if _, ok := public[info.FullMethod]; ok {
			if token != "" {
				ctx = auth.ContextWithIdentity(ctx, auth.Identity{}, token)
			}
			return handler(ctx, req)
		}

		if token == "" {
			return nil, unauthenticated(auth.ErrUnauthenticated.Reason)
		}

		id, err := authn.Authenticate(ctx, token)
		if err != nil {
			return nil, authFailure(err)
		}

		return handler(auth.ContextWithIdentity(ctx, *id, token), req)
	}
}

func bearerToken(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	for _, v := range md.Get(authorizationHeader) {
		if len(v) > len(bearerPrefix) && strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
			return strings.TrimSpace(v[len(bearerPrefix):])
		}
	}
	return ""
}

func unauthenticated(reason string) error {
	return rpc.StatusError(codes.Unauthenticated, rpc.ReasonAuth, reason, map[string]string{
		rpc.MetaAuthKind: string(auth.KindUnauthenticated),
	})
}

// authFailure は認証エラーのみを Unauthenticated にし、セッションストアの失敗は読み取りエラーとして返します。
func authFailure(err error) error {
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		return unauthenticated(auth.ErrUnauthenticated.Reason)
	}

	var readErr *storeerr.ReadError
	if !errors.As(storeerr.Read("sessions", storeerr.OpGet, err), &readErr) {
		return rpc.StatusError(codes.Internal, rpc.ReasonInternal, err.Error(), nil)
	}
	md := map[string]string{
		rpc.MetaCollection: readErr.Collection,
		rpc.MetaOp:         string(readErr.Op),
	}
	if readErr.Err != nil {
		md[rpc.MetaCause] = readErr.Err.Error()
	}
	return rpc.StatusError(codes.Unavailable, rpc.ReasonStoreRead, err.Error(), md)
}
