package grpchealth

import (
	"context"
	"errors"
	"testing"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func check(t *testing.T, s *Server, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := s.Health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	return resp.GetStatus()
}

func TestNew_StartsNotServing(t *testing.T) {
	s := New("catalog", nil)
	if st := check(t, s, "catalog"); st != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("expected NOT_SERVING, got %v", st)
	}
}

func TestSetServing(t *testing.T) {
	s := New("catalog", nil)
	s.SetServing(true)
	if st := check(t, s, "catalog"); st != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("expected SERVING, got %v", st)
	}
	s.SetServing(false)
	if st := check(t, s, "catalog"); st != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("expected NOT_SERVING, got %v", st)
	}
}

func TestWatchReady_MirrorsReadiness(t *testing.T) {
	s := New("catalog", nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.WatchReady(ctx, time.Hour, func() error { return nil })
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for check(t, s, "catalog") != healthpb.HealthCheckResponse_SERVING {
		if time.Now().After(deadline) {
			t.Fatal("status never flipped to SERVING")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done
}

func TestWatchReady_NotReady(t *testing.T) {
	s := New("catalog", nil)
	s.SetServing(true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.WatchReady(ctx, time.Hour, func() error { return errors.New("catalog not loaded") })

	if st := check(t, s, "catalog"); st != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("expected NOT_SERVING, got %v", st)
	}
}

func TestShutdown_Idle(t *testing.T) {
	s := New("catalog", nil)
	s.SetServing(true)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if st := check(t, s, "catalog"); st != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("expected NOT_SERVING after shutdown, got %v", st)
	}
}
