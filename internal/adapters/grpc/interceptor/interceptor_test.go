package interceptor

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ogurasousui/engineer-admin/internal/adapters/grpc/rpc"
	"github.com/ogurasousui/engineer-admin/internal/core/auth"
	"github.com/ogurasousui/engineer-admin/internal/core/storeerr"
	"github.com/ogurasousui/engineer-admin/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type stubAuthenticator struct {
	tokens map[string]auth.Identity
}

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*auth.Identity, error) {
	id, ok := s.tokens[token]
	if !ok {
		return nil, auth.ErrUnauthenticated
	}
	return &id, nil
}

func withBearer(token string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))
}

func TestAuth(t *testing.T) {
	t.Parallel()

	authn := stubAuthenticator{tokens: map[string]auth.Identity{"good": {AccountID: "a-1", Email: "ops@example.com"}}}
	icpt := Auth(authn, DefaultPublicMethods...)

	protected := &grpc.UnaryServerInfo{FullMethod: rpc.FullMethod(rpc.PersonnelService, rpc.MethodListPersonnel)}
	public := &grpc.UnaryServerInfo{FullMethod: rpc.FullMethod(rpc.AuthService, rpc.MethodSignIn)}

	var seen auth.Identity
	handler := func(ctx context.Context, req any) (any, error) {
		seen, _ = auth.IdentityFromContext(ctx)
		return "ok", nil
	}

	_, err := icpt(context.Background(), nil, protected, handler)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = icpt(withBearer("bad"), nil, protected, handler)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	info := rpc.ErrorInfoOf(err)
	require.NotNil(t, info)
	assert.Equal(t, string(auth.KindUnauthenticated), info.GetMetadata()[rpc.MetaAuthKind])

	resp, err := icpt(withBearer("good"), nil, protected, handler)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Equal(t, "ops@example.com", seen.Email)

	_, err = icpt(context.Background(), nil, public, handler)
	assert.NoError(t, err)
}

type failingAuthenticator struct {
	err error
}

func (f failingAuthenticator) Authenticate(context.Context, string) (*auth.Identity, error) {
	return nil, f.err
}

func TestAuth_SessionStoreFailureIsReadError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	icpt := Auth(failingAuthenticator{err: storeerr.Read("sessions", storeerr.OpGet, cause)}, DefaultPublicMethods...)
	info := &grpc.UnaryServerInfo{FullMethod: rpc.FullMethod(rpc.PersonnelService, rpc.MethodListPersonnel)}

	called := false
	_, err := icpt(withBearer("tok"), nil, info, func(ctx context.Context, req any) (any, error) {
		called = true
		return nil, nil
	})
	require.Error(t, err)
	assert.False(t, called)
	assert.Equal(t, codes.Unavailable, status.Code(err))

	detail := rpc.ErrorInfoOf(err)
	require.NotNil(t, detail)
	assert.Equal(t, rpc.ReasonStoreRead, detail.GetReason())
	assert.Equal(t, "sessions", detail.GetMetadata()[rpc.MetaCollection])
	assert.Equal(t, string(storeerr.OpGet), detail.GetMetadata()[rpc.MetaOp])
	assert.Equal(t, "connection refused", detail.GetMetadata()[rpc.MetaCause])
}

func TestAuth_UnclassifiedFailureIsReadError(t *testing.T) {
	t.Parallel()

	icpt := Auth(failingAuthenticator{err: errors.New("timeout")}, DefaultPublicMethods...)
	info := &grpc.UnaryServerInfo{FullMethod: rpc.FullMethod(rpc.InvoiceService, rpc.MethodListInvoices)}

	_, err := icpt(withBearer("tok"), nil, info, func(ctx context.Context, req any) (any, error) {
		return nil, nil
	})
	assert.Equal(t, codes.Unavailable, status.Code(err))
	assert.Equal(t, rpc.ReasonStoreRead, rpc.ErrorInfoOf(err).GetReason())
}

func TestAuth_PublicMethodKeepsToken(t *testing.T) {
	t.Parallel()

	icpt := Auth(stubAuthenticator{}, DefaultPublicMethods...)
	info := &grpc.UnaryServerInfo{FullMethod: rpc.FullMethod(rpc.AuthService, rpc.MethodSignOut)}

	var token string
	_, err := icpt(withBearer("expired"), nil, info, func(ctx context.Context, req any) (any, error) {
		token = auth.TokenFromContext(ctx)
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "expired", token)
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	icpt := Timeout(50 * time.Millisecond)
	_, err := icpt(context.Background(), nil, &grpc.UnaryServerInfo{}, func(ctx context.Context, req any) (any, error) {
		deadline, ok := ctx.Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)
		return nil, nil
	})
	require.NoError(t, err)

	_, err = Timeout(0)(context.Background(), nil, &grpc.UnaryServerInfo{}, func(ctx context.Context, req any) (any, error) {
		_, ok := ctx.Deadline()
		assert.False(t, ok)
		return nil, nil
	})
	require.NoError(t, err)
}

func TestLogging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	icpt := Logging(logger.NewWithWriter(&buf, "info"))
	ctx := auth.ContextWithIdentity(context.Background(), auth.Identity{Email: "ops@example.com"}, "tok")
	info := &grpc.UnaryServerInfo{FullMethod: rpc.FullMethod(rpc.InvoiceService, rpc.MethodListInvoices)}

	_, err := icpt(ctx, nil, info, func(ctx context.Context, req any) (any, error) {
		return nil, status.Error(codes.Unavailable, "store down")
	})
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `"level":"error"`)
	assert.Contains(t, out, `"method":"/engineeradmin.v1.InvoiceService/ListInvoices"`)
	assert.Contains(t, out, `"code":"Unavailable"`)
	assert.Contains(t, out, `"email":"ops@example.com"`)

	buf.Reset()
	_, err = icpt(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		return nil, errors.New("plain")
	})
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"code":"Unknown"`)
}
