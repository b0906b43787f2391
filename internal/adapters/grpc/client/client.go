// Package client は engineer-admin の gRPC サービスを呼び出す型付きクライアントです。
// Client は personnel・invoice・transfer・auth の各 UseCase を満たします。
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/ogurasousui/engineer-admin/internal/adapters/grpc/rpc"
	"github.com/ogurasousui/engineer-admin/internal/core/storeerr"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

const authorizationHeader = "authorization"

// TokenSource は各呼び出しに付与するトークンを返します。空文字列の場合は付与しません。
type TokenSource interface {
	Token() string
}

// Client は gRPC 接続上の型付きクライアントです。
type Client struct {
	conn grpc.ClientConnInterface
}

// New は conn を使う Client を生成します。
func New(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Dial は addr へのコネクションを作成します。tokens が nil の場合はトークンを付与しません。
func Dial(addr string, tokens TokenSource, timeout time.Duration, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	base := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(TimeoutInterceptor(timeout), BearerInterceptor(tokens)),
	}
	conn, err := grpc.NewClient(addr, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return conn, nil
}

// BearerInterceptor は tokens のトークンを authorization メタデータとして付与します。
// 呼び出し側が既に authorization を設定している場合はそれを優先します。
func BearerInterceptor(tokens TokenSource) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if tokens != nil && !hasAuthorization(ctx) {
			if token := tokens.Token(); token != "" {
				ctx = withToken(ctx, token)
			}
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// TimeoutInterceptor は期限のない呼び出しに d の期限を設定します。
func TimeoutInterceptor(d time.Duration) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if _, ok := ctx.Deadline(); ok || d <= 0 {
			return invoker(ctx, method, req, reply, cc, opts...)
		}
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

func withToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	md.Set(authorizationHeader, "Bearer "+token)
	return metadata.NewOutgoingContext(ctx, md)
}

func hasAuthorization(ctx context.Context) bool {
	md, ok := metadata.FromOutgoingContext(ctx)
	return ok && len(md.Get(authorizationHeader)) > 0
}

// call はストア操作としての呼び出しです。エラーは collection と op で分類されます。
func (c *Client) call(ctx context.Context, service, method string, req *structpb.Struct, collection string, op storeerr.Op) (*structpb.Struct, error) {
	resp, err := rpc.Invoke(ctx, c.conn, service, method, req)
	if err != nil {
		return nil, fromStatus(err, collection, op)
	}
	return resp, nil
}

func newRequest(fields map[string]any) (*structpb.Struct, error) {
	return rpc.NewStruct(fields)
}

func idRequest(id string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		rpc.FieldID: structpb.NewStringValue(id),
	}}
}

func setString(fields map[string]any, key string, v *string) {
	if v != nil {
		fields[key] = *v
	}
}

func setDate(fields map[string]any, key string, t *time.Time) {
	if t != nil {
		fields[key] = t.Format(rpc.DateLayout)
	}
}
