package handler

import (
	"context"

	"github.com/ogurasousui/engineer-admin/internal/adapters/grpc/rpc"
	"github.com/ogurasousui/engineer-admin/internal/core/auth"
	"google.golang.org/protobuf/types/known/structpb"
)

// AuthGrpcHandler は AuthService の gRPC 実装です。
type AuthGrpcHandler struct {
	svc auth.UseCase
}

// NewAuthGrpcHandler は AuthGrpcHandler を生成します。
func NewAuthGrpcHandler(svc auth.UseCase) *AuthGrpcHandler {
	return &AuthGrpcHandler{svc: svc}
}

// Methods は AuthService のメソッド表を返します。
func (h *AuthGrpcHandler) Methods() rpc.Methods {
	return rpc.Methods{
		rpc.MethodSignUp:  h.SignUp,
		rpc.MethodSignIn:  h.SignIn,
		rpc.MethodSignOut: h.SignOut,
		rpc.MethodWhoAmI:  h.WhoAmI,
	}
}

// SignUp はアカウントを作成してサインインします。
func (h *AuthGrpcHandler) SignUp(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := rpc.Read(req)
	res, err := h.svc.SignUp(ctx, f.String(rpc.FieldEmail), f.String(rpc.FieldPassword))
	if err != nil {
		return nil, toStatusError(err)
	}
	return signInResponse(res)
}

// SignIn は資格情報を検証してトークンを発行します。
func (h *AuthGrpcHandler) SignIn(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := rpc.Read(req)
	res, err := h.svc.SignIn(ctx, f.String(rpc.FieldEmail), f.String(rpc.FieldPassword))
	if err != nil {
		return nil, toStatusError(err)
	}
	return signInResponse(res)
}

// SignOut は呼び出し元のセッションを破棄します。
func (h *AuthGrpcHandler) SignOut(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	if err := h.svc.SignOut(ctx, auth.TokenFromContext(ctx)); err != nil {
		return nil, toStatusError(err)
	}
	return &structpb.Struct{}, nil
}

// WhoAmI は呼び出し元を返します。保存済みトークンの検証に使います。
func (h *AuthGrpcHandler) WhoAmI(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	id, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, toStatusError(auth.ErrUnauthenticated)
	}
	out, err := rpc.EncodeIdentity(id)
	if err != nil {
		return nil, toStatusError(err)
	}
	return rpc.Wrap(rpc.FieldIdentity, out), nil
}

func signInResponse(res *auth.SignInResult) (*structpb.Struct, error) {
	out, err := rpc.EncodeSignIn(res)
	if err != nil {
		return nil, toStatusError(err)
	}
	return out, nil
}
