// Package run owns process lifetime: it waits for a termination signal or a
// fatal server error and then drives an ordered, time-boxed shutdown.
package run

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type Runner struct {
	Logger *zap.Logger
	// Timeout is the total budget shared by all shutdown steps.
	Timeout time.Duration
}

func New(log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{Logger: log, Timeout: shutdownTimeout}
}

// WithSignals runs start until it returns or SIGINT/SIGTERM arrives and maps
// the outcome to a process exit code.
func (r *Runner) WithSignals(start func(ctx context.Context) error) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return r.run(ctx, start)
}

func (r *Runner) run(ctx context.Context, start func(ctx context.Context) error) int {
	errCh := make(chan error, 1)
	go func() {
		errCh <- start(ctx)
	}()

	select {
	case <-ctx.Done():
		r.Logger.Info("shutdown signal received")
		return 0
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		r.Logger.Error("service exited with error", zap.Error(err))
		return 1
	}
}

// Step is one named piece of shutdown work.
type Step struct {
	Name string
	Fn   func(context.Context) error
}

// Graceful runs steps in order under one shared deadline. A failing step is
// logged and does not stop the ones after it.
func (r *Runner) Graceful(steps ...Step) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = shutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for _, s := range steps {
		if err := s.Fn(ctx); err != nil {
			r.Logger.Warn("shutdown step failed", zap.String("step", s.Name), zap.Error(err))
		}
	}
}

func Exit(code int) {
	os.Exit(code)
}
