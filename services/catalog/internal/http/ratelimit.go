package http

import (
	"math"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/example/stream-catalog/internal/platform/api"
	"github.com/example/stream-catalog/internal/platform/httpserver"
)

const (
	sweepThreshold = 10000
	idleAfter      = 10 * time.Minute
)

// RateLimiter is a per-client-IP token bucket.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   rate.Limit
	burst   int
	now     func() time.Time

	// retryAfter is the whole seconds until one token refills.
	retryAfter int

	// TrustForwardedFor keys clients by the first X-Forwarded-For hop. Only
	// enable it behind a proxy that overwrites the header; otherwise clients
	// can rotate it to dodge the limit.
	TrustForwardedFor bool
}

type client struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a rate limiter with the given rate (req/s) and burst
// size. A burst below 1 is raised to the ceiling of rps.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = max(1, int(math.Ceil(rps)))
	}
	return &RateLimiter{
		clients: make(map[string]*client),
		limit:   rate.Limit(rps),
		burst:   burst,
		now:     time.Now,

		retryAfter: retryAfterSeconds(rps),
	}
}

func retryAfterSeconds(rps float64) int {
	if rps <= 0 {
		return 1
	}
	return max(1, int(math.Ceil(1/rps)))
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	c, ok := rl.clients[key]
	if !ok {
		if len(rl.clients) >= sweepThreshold {
			rl.sweep(now)
		}
		c = &client{lim: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = c
	}
	c.lastSeen = now
	return c.lim.AllowN(now, 1)
}

func (rl *RateLimiter) sweep(now time.Time) {
	for k, c := range rl.clients {
		if now.Sub(c.lastSeen) > idleAfter {
			delete(rl.clients, k)
		}
	}
}

// Middleware returns an HTTP middleware that rate-limits requests by client IP.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r, rl.TrustForwardedFor)) {
			rid := httpserver.RequestIDFromContext(r.Context())
			api.RateLimited(w, "Too many requests", rid, rl.retryAfter)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP drops the port from RemoteAddr. With trustXFF it prefers the first
// X-Forwarded-For hop.
func clientIP(r *http.Request, trustXFF bool) string {
	if fwd := r.Header.Get("X-Forwarded-For"); trustXFF && fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
