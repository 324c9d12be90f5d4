package run

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"go.uber.org/zap"
)

func TestRun_CleanExit(t *testing.T) {
	r := New(zap.NewNop())
	code := r.run(context.Background(), func(context.Context) error { return nil })
	if code != 0 {
		t.Fatalf("expected 0, got %d", code)
	}
}

func TestRun_ServerClosedIsClean(t *testing.T) {
	r := New(zap.NewNop())
	code := r.run(context.Background(), func(context.Context) error { return http.ErrServerClosed })
	if code != 0 {
		t.Fatalf("expected 0, got %d", code)
	}
}

func TestRun_ErrorExitCode(t *testing.T) {
	r := New(zap.NewNop())
	code := r.run(context.Background(), func(context.Context) error { return errors.New("listen: address in use") })
	if code != 1 {
		t.Fatalf("expected 1, got %d", code)
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	r := New(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	code := r.run(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
	if code != 0 {
		t.Fatalf("expected 0, got %d", code)
	}
}

func TestGraceful_RunsAllStepsInOrder(t *testing.T) {
	r := New(nil)
	var order []string
	step := func(name string, err error) Step {
		return Step{Name: name, Fn: func(ctx context.Context) error {
			if _, ok := ctx.Deadline(); !ok {
				t.Errorf("step %s: expected a deadline", name)
			}
			order = append(order, name)
			return err
		}}
	}

	r.Graceful(step("http", errors.New("timeout")), step("grpc", nil), step("nats", nil))

	if len(order) != 3 || order[0] != "http" || order[1] != "grpc" || order[2] != "nats" {
		t.Fatalf("unexpected order %v", order)
	}
}
