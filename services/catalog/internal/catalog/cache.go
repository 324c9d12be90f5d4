package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a non-empty snapshot is served without refetching.
const DefaultTTL = 5 * time.Minute

var ErrNotLoaded = errors.New("catalog not loaded")

type snapshot struct {
	titles    []Title
	fetchedAt time.Time
}

// Cache serves the last successfully fetched title list. A snapshot is
// replaced wholesale on refresh and is never mutated afterwards, so callers
// may share the returned slice but must not modify it.
type Cache struct {
	src          Fetcher
	ttl          time.Duration
	fetchTimeout time.Duration
	log          *zap.Logger
	now          func() time.Time

	mu     sync.RWMutex
	snap   snapshot
	loaded bool
	// gen counts invalidations; a fetch that overlaps one is stored stale.
	gen uint64

	flight singleflight.Group
}

type Option func(*Cache)

func WithLogger(log *zap.Logger) Option {
	return func(c *Cache) { c.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithFetchTimeout bounds a shared refresh independently of the caller that
// happened to start it.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Cache) { c.fetchTimeout = d }
}

func NewCache(src Fetcher, ttl time.Duration, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		src:  src,
		ttl:  ttl,
		log:  zap.NewNop(),
		now:  time.Now,
		snap: snapshot{titles: []Title{}},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Titles returns the current snapshot, refreshing it first when it is empty
// or older than the TTL. A failed refresh is logged and the previous snapshot
// (possibly empty) is returned; callers never see the error.
func (c *Cache) Titles(ctx context.Context) []Title {
	if s, ok := c.fresh(); ok {
		return s.titles
	}
	v, _, _ := c.flight.Do("titles", func() (any, error) {
		return c.refresh(ctx), nil
	})
	return v.([]Title)
}

func (c *Cache) fresh() (snapshot, bool) {
	c.mu.RLock()
	s := c.snap
	c.mu.RUnlock()
	return s, len(s.titles) > 0 && c.now().Sub(s.fetchedAt) < c.ttl
}

func (c *Cache) refresh(ctx context.Context) []Title {
	// A flight that finished just before this one may already have refreshed.
	if s, ok := c.fresh(); ok {
		return s.titles
	}

	fctx := context.WithoutCancel(ctx)
	if c.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(fctx, c.fetchTimeout)
		defer cancel()
	}

	c.mu.RLock()
	startGen := c.gen
	c.mu.RUnlock()

	startedAt := c.now()
	titles, err := c.src.Fetch(fctx)
	if err != nil {
		c.mu.RLock()
		stale := c.snap
		c.mu.RUnlock()
		c.log.Warn("catalog refresh failed, serving previous snapshot",
			zap.Error(err),
			zap.Int("titles", len(stale.titles)),
			zap.Time("fetched_at", stale.fetchedAt),
		)
		return stale.titles
	}
	if titles == nil {
		titles = []Title{}
	}

	c.mu.Lock()
	if c.gen != startGen {
		startedAt = time.Time{}
	}
	c.snap = snapshot{titles: titles, fetchedAt: startedAt}
	c.loaded = true
	c.mu.Unlock()

	c.log.Info("catalog refreshed", zap.Int("titles", len(titles)))
	return titles
}

// Invalidate marks the snapshot stale without discarding it, so the next
// call refetches but can still fall back to the old list. A fetch already in
// flight still stores its result, but as stale.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.snap.fetchedAt = time.Time{}
	c.gen++
	c.mu.Unlock()
}

// Subscribe invalidates the snapshot whenever a message arrives on subject.
func (c *Cache) Subscribe(nc *nats.Conn, subject string) (*nats.Subscription, error) {
	return nc.Subscribe(subject, func(m *nats.Msg) {
		c.log.Info("catalog invalidated", zap.String("subject", m.Subject))
		c.Invalidate()
	})
}

// Ready reports ErrNotLoaded until one refresh has succeeded.
func (c *Cache) Ready() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return ErrNotLoaded
	}
	return nil
}

// FetchedAt is the start time of the fetch that produced the snapshot.
func (c *Cache) FetchedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.fetchedAt
}
