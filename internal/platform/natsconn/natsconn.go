// Package natsconn opens the optional NATS connection shared by cache
// invalidation and analytics. A service without NATS_URL runs without it.
package natsconn

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Options configures the NATS connection behaviour.
// Zero values fall back to env vars or built-in defaults.
type Options struct {
	URL           string
	Name          string
	MaxReconnects int           // default from NATS_MAX_RECONNECTS or 5
	ReconnectWait time.Duration // default from NATS_RECONNECT_WAIT or 2s
	Logger        *zap.Logger
}

func (o Options) resolve() Options {
	if o.URL == "" {
		o.URL = strings.TrimSpace(os.Getenv("NATS_URL"))
	}
	if o.MaxReconnects == 0 {
		o.MaxReconnects = envInt("NATS_MAX_RECONNECTS", 5)
	}
	if o.ReconnectWait == 0 {
		o.ReconnectWait = envDuration("NATS_RECONNECT_WAIT", 2*time.Second)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Enabled reports whether a NATS URL is configured, either explicitly or
// through NATS_URL.
func Enabled(opts Options) bool {
	return opts.resolve().URL != ""
}

// Connect dials NATS once and fails fast; reconnects only apply to a
// connection that was established.
func Connect(opts Options) (*nats.Conn, error) {
	o := opts.resolve()
	if o.URL == "" {
		o.URL = nats.DefaultURL
	}
	log := o.Logger

	natsOpts := []nats.Option{
		nats.MaxReconnects(o.MaxReconnects),
		nats.ReconnectWait(o.ReconnectWait),
		nats.RetryOnFailedConnect(false),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			log.Info("nats connection closed")
		}),
	}
	if o.Name != "" {
		natsOpts = append(natsOpts, nats.Name(o.Name))
	}

	nc, err := nats.Connect(o.URL, natsOpts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s (max_reconnects=%d, wait=%s): %w",
			o.URL, o.MaxReconnects, o.ReconnectWait, err)
	}
	log.Info("nats connected", zap.String("url", nc.ConnectedUrl()))
	return nc, nil
}

func envInt(key string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
