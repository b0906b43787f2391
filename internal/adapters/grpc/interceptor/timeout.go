package interceptor

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

// Timeout は呼び出しごとに d の期限を設定します。呼び出し元の期限がより短い場合はそちらが優先されます。
func Timeout(d time.Duration) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if d <= 0 {
			return handler(ctx, req)
		}
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return handler(ctx, req)
	}
}
