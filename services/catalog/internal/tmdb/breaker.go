package tmdb

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

type BreakerSettings struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// NewBreaker builds the circuit breaker wrapped around TMDB calls. Only
// upstream trouble trips it: client errors such as 404 for an unknown id, or
// a caller giving up, count as successes.
func NewBreaker(s BreakerSettings, log *zap.Logger) *gobreaker.CircuitBreaker {
	if log == nil {
		log = zap.NewNop()
	}
	threshold := s.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "tmdb",
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			var se *StatusError
			if errors.As(err, &se) {
				return !Retryable(se)
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info("circuit-breaker state change", zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})
}
