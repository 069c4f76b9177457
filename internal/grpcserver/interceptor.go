package grpcserver

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// requestIDKey is the metadata key shared with the HTTP X-Request-ID header.
const requestIDKey = "x-request-id"

// requestIDFromCtx returns the caller's request id, or a fresh one.
func requestIDFromCtx(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if vals := md.Get(requestIDKey); len(vals) > 0 && vals[0] != "" {
			return vals[0]
		}
	}
	return uuid.NewString()
}

// LoggingInterceptor logs every unary call with its request id and code,
// and echoes the id back in the response header.
func LoggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	id := requestIDFromCtx(ctx)
	_ = grpc.SetHeader(ctx, metadata.Pairs(requestIDKey, id))

	start := time.Now()
	resp, err := handler(ctx, req)
	slog.Info("grpc request",
		"id", id,
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)
	return resp, err
}
