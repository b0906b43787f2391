package client

import (
	"context"

	"github.com/ogurasousui/engineer-admin/internal/adapters/grpc/rpc"
	"github.com/ogurasousui/engineer-admin/internal/core/auth"
)

var _ auth.UseCase = (*Client)(nil)

// SignUp はアカウントを作成してサインインします。
func (c *Client) SignUp(ctx context.Context, email, password string) (*auth.SignInResult, error) {
	return c.credentials(ctx, rpc.MethodSignUp, email, password)
}

// SignIn はトークンを取得します。
func (c *Client) SignIn(ctx context.Context, email, password string) (*auth.SignInResult, error) {
	return c.credentials(ctx, rpc.MethodSignIn, email, password)
}

// SignOut は token のセッションをサーバー側で破棄します。
func (c *Client) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	_, err := c.call(withToken(ctx, token), rpc.AuthService, rpc.MethodSignOut, nil, "", "")
	return err
}

// Authenticate は token が有効であれば呼び出し元を返します。
func (c *Client) Authenticate(ctx context.Context, token string) (*auth.Identity, error) {
	if token == "" {
		return nil, auth.ErrUnauthenticated
	}
	resp, err := c.call(withToken(ctx, token), rpc.AuthService, rpc.MethodWhoAmI, nil, "", "")
	if err != nil {
		return nil, err
	}
	id := rpc.DecodeIdentity(rpc.Read(resp).Struct(rpc.FieldIdentity))
	return &id, nil
}

func (c *Client) credentials(ctx context.Context, method, email, password string) (*auth.SignInResult, error) {
	req, err := newRequest(map[string]any{
		rpc.FieldEmail:    email,
		rpc.FieldPassword: password,
	})
	if err != nil {
		return nil, err
	}
	resp, err := c.call(ctx, rpc.AuthService, method, req, "", "")
	if err != nil {
		return nil, err
	}
	return rpc.DecodeSignIn(resp)
}
