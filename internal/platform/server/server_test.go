package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/ogurasousui/engineer-admin/internal/adapters/grpc/rpc"
	"github.com/ogurasousui/engineer-admin/internal/core/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type tokenAuthenticator string

func (a tokenAuthenticator) Authenticate(_ context.Context, token string) (*auth.Identity, error) {
	if token != string(a) {
		return nil, auth.ErrUnauthenticated
	}
	return &auth.Identity{AccountID: "a-1", Email: "ops@example.com"}, nil
}

func startServer(t *testing.T, srv *Server) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.GracefulStop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestServer_AuthAndDispatch(t *testing.T) {
	t.Parallel()

	echo := rpc.Methods{
		"Echo": func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			id, _ := auth.IdentityFromContext(ctx)
			return structpb.NewStruct(map[string]any{
				"email": id.Email,
				"text":  rpc.Read(req).String("text"),
			})
		},
	}
	srv := New("", Options{RequestTimeout: time.Second, Authenticator: tokenAuthenticator("secret")},
		Service{Name: "engineeradmin.v1.EchoService", Methods: echo})
	conn := startServer(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := structpb.NewStruct(map[string]any{"text": "hi"})
	require.NoError(t, err)

	_, err = rpc.Invoke(ctx, conn, "engineeradmin.v1.EchoService", "Echo", req)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	authed := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer secret")
	resp, err := rpc.Invoke(authed, conn, "engineeradmin.v1.EchoService", "Echo", req)
	require.NoError(t, err)
	assert.Equal(t, "hi", rpc.Read(resp).String("text"))
	assert.Equal(t, "ops@example.com", rpc.Read(resp).String("email"))

	_, err = rpc.Invoke(authed, conn, "engineeradmin.v1.EchoService", "Missing", req)
	assert.Equal(t, codes.Unimplemented, status.Code(err))

	health, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: "engineeradmin.v1.EchoService"})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, health.GetStatus())
}
