// Package grpc serves the standard gRPC health service for the relay. The
// reported status follows the blob store ping.
package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/atinyakov/go-file-relay/internal/intercepters"
)

// ServiceName is the name clients can ask the health service about besides
// the empty overall name.
const ServiceName = "relay.FileRelay"

// Pinger reports whether the blob store is usable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server wraps the gRPC server and dependencies.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	pinger     Pinger
	port       int
	logger     *zap.Logger
}

// New creates a new gRPC server instance.
func New(logger *zap.Logger, pinger Pinger, trustedSubnet string, port int) *Server {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.UnaryServerInterceptor(intercepters.InterceptorLogger(logger)),
			intercepters.SubnetIPInterceptor,
			intercepters.TrustedSubnet(trustedSubnet),
		),
		grpc.ChainStreamInterceptor(
			logging.StreamServerInterceptor(intercepters.InterceptorLogger(logger)),
		),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)

	return &Server{
		grpcServer: s,
		health:     hs,
		pinger:     pinger,
		port:       port,
		logger:     logger,
	}
}

// Start runs the gRPC server.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		s.logger.Error("gRPC server failed to listen:", zap.Error(err))
		return err
	}

	return s.Serve(lis)
}

// Serve runs the gRPC server on lis.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
	return s.grpcServer.Serve(lis)
}

// CheckHealth pings the blob store once and publishes the result.
func (s *Server) CheckHealth(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	st := healthpb.HealthCheckResponse_SERVING
	if err := s.pinger.PingContext(ctx); err != nil {
		s.logger.Warn("blob store ping failed", zap.Error(err))
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}

	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)

	return st
}

// WatchHealth re-checks the blob store every interval until ctx is done.
func (s *Server) WatchHealth(ctx context.Context, interval time.Duration) {
	s.CheckHealth(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.CheckHealth(ctx)
		}
	}
}

// GracefulStop marks every service as not serving and shuts down the server
// gracefully.
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
