package interceptor

import (
	"context"
	"time"

	"github.com/ogurasousui/engineer-admin/internal/core/auth"
	"github.com/ogurasousui/engineer-admin/internal/platform/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Logging は各呼び出しのメソッド・結果コード・所要時間を記録します。
// Auth より内側に置くと呼び出し元のメールアドレスも記録されます。
func Logging(log *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		event := log.Info()
		switch code {
		case codes.OK, codes.InvalidArgument, codes.NotFound, codes.AlreadyExists, codes.Unauthenticated:
		default:
			event = log.Error()
		}

		event = event.
			Str("method", info.FullMethod).
			Str("code", code.String()).
			Dur("duration", time.Since(start))
		if id, ok := auth.IdentityFromContext(ctx); ok && id.Email != "" {
			event = event.Str("email", id.Email)
		}
		if err != nil {
			event = event.Err(err)
		}
		event.Msg("grpc request")

		return resp, err
	}
}
