package server

import (
	"context"
	"net"
	"time"

	"github.com/fekuna/omnipos-stock-app/internal/auth"
	"github.com/fekuna/omnipos-stock-app/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// GRPCServer serves grpc.health.v1.Health and reflection. Health reports
// NOT_SERVING until the session gate opens.
type GRPCServer struct {
	server *grpc.Server
	health *health.Server
	logger logger.ZapLogger
}

func NewGRPCServer(log logger.ZapLogger) *GRPCServer {
	s := &GRPCServer{
		server: grpc.NewServer(grpc.UnaryInterceptor(unaryLogger(log))),
		health: health.NewServer(),
		logger: log,
	}
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(s.server, s.health)
	reflection.Register(s.server)
	return s
}

// WatchGate flips health to SERVING once gate opens. It returns early when
// ctx is cancelled first.
func (s *GRPCServer) WatchGate(ctx context.Context, gate *auth.Gate) {
	if err := gate.Wait(ctx); err != nil {
		return
	}
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.logger.Info("gRPC health serving")
}

func (s *GRPCServer) Serve(lis net.Listener) error {
	s.logger.Info("Starting gRPC server", zap.String("addr", lis.Addr().String()))
	return s.server.Serve(lis)
}

func (s *GRPCServer) GracefulStop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}

func unaryLogger(log logger.ZapLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.Debug("grpc",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("latency", time.Since(start)),
		)
		return resp, err
	}
}
