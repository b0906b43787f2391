package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/ogurasousui/engineer-admin/internal/adapters/grpc/interceptor"
	"github.com/ogurasousui/engineer-admin/internal/adapters/grpc/rpc"
	"github.com/ogurasousui/engineer-admin/internal/platform/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Service はサーバーに登録する gRPC サービスです。
type Service struct {
	Name    string
	Methods rpc.Methods
}

// Options はサーバー全体に適用するインターセプターの設定です。
type Options struct {
	RequestTimeout time.Duration
	Authenticator  interceptor.Authenticator
	Logger         *logger.Logger
}

// Server は gRPC サーバーのライフサイクルを管理します。
type Server struct {
	listenAddr string
	grpcServer *grpc.Server
	health     *health.Server
	log        *logger.Logger
}

// New は指定されたアドレスで待ち受ける gRPC サーバーを構築します。
// Authenticator が nil の場合、全てのメソッドが認証なしで呼び出せます。
func New(listenAddr string, opts Options, services ...Service) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	chain := []grpc.UnaryServerInterceptor{interceptor.Timeout(opts.RequestTimeout)}
	if opts.Authenticator != nil {
		chain = append(chain, interceptor.Auth(opts.Authenticator, interceptor.DefaultPublicMethods...))
	}
	chain = append(chain, interceptor.Logging(log))

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(chain...))

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	for _, svc := range services {
		rpc.Register(srv, svc.Name, svc.Methods)
		hs.SetServingStatus(svc.Name, healthpb.HealthCheckResponse_SERVING)
	}

	return &Server{
		listenAddr: listenAddr,
		grpcServer: srv,
		health:     hs,
		log:        log,
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると GracefulStop します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}

	go func() {
		<-ctx.Done()
		s.GracefulStop()
	}()

	s.log.Info().Str("addr", lis.Addr().String()).Msg("gRPC server listening")
	return s.Serve(lis)
}

// Serve は lis で待ち受けます。停止されるまで戻りません。
func (s *Server) Serve(lis net.Listener) error {
	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}
	return nil
}

// GracefulStop はヘルスチェックを NOT_SERVING にしてからサーバーを安全に停止します。
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
