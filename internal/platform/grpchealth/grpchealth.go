// Package grpchealth runs a gRPC server that only exposes the standard
// grpc.health.v1 service and reflection, so orchestrators that probe over
// gRPC can watch the HTTP service's readiness.
package grpchealth

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

type Server struct {
	GRPC    *grpc.Server
	Health  *health.Server
	service string
	log     *zap.Logger
}

// New registers the health service with service reported as NOT_SERVING
// until SetServing is called.
func New(service string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	hs := health.NewServer()
	hs.SetServingStatus(service, healthpb.HealthCheckResponse_NOT_SERVING)

	g := grpc.NewServer()
	healthpb.RegisterHealthServer(g, hs)
	reflection.Register(g)
	return &Server{GRPC: g, Health: hs, service: service, log: log}
}

func (s *Server) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.Health.SetServingStatus(s.service, st)
}

// WatchReady polls ready every interval and mirrors the result into the
// health status until ctx is done.
func (s *Server) WatchReady(ctx context.Context, interval time.Duration, ready func() error) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		s.SetServing(ready() == nil)
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.log.Info("grpc server starting", zap.String("addr", addr))
	return s.GRPC.Serve(lis)
}

// Shutdown drains in-flight RPCs, forcing a hard stop when ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Health.Shutdown()
	stopped := make(chan struct{})
	go func() {
		s.GRPC.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		s.GRPC.Stop()
		return ctx.Err()
	}
}
