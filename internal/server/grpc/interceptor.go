package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	s.logger.Info(ctx, "grpc request",
		"method", info.FullMethod,
		"duration", time.Since(start).String(),
		"code", status.Code(err).String(),
	)
	return resp, err
}
