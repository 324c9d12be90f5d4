package main

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/example/stream-catalog/internal/platform/analytics"
	"github.com/example/stream-catalog/internal/platform/config"
	"github.com/example/stream-catalog/internal/platform/grpchealth"
	"github.com/example/stream-catalog/internal/platform/httpserver"
	"github.com/example/stream-catalog/internal/platform/logging"
	"github.com/example/stream-catalog/internal/platform/natsconn"
	"github.com/example/stream-catalog/internal/platform/run"
	"github.com/example/stream-catalog/services/catalog/internal/catalog"
	catalogconfig "github.com/example/stream-catalog/services/catalog/internal/config"
	"github.com/example/stream-catalog/services/catalog/internal/favorites"
	"github.com/example/stream-catalog/services/catalog/internal/handlers"
	cataloghttp "github.com/example/stream-catalog/services/catalog/internal/http"
	"github.com/example/stream-catalog/services/catalog/internal/metadata"
	"github.com/example/stream-catalog/services/catalog/internal/tmdb"
)

const readyPollInterval = 2 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.LogLevel, cfg.ServiceName)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	catCfg, err := catalogconfig.Load()
	if err != nil {
		log.Error("load catalog config", zap.Error(err))
		run.Exit(1)
	}

	// catalog snapshot
	cache := catalog.NewCache(
		catalog.NewHTTPSource(catCfg.FeedURL, catCfg.FetchTimeout),
		catCfg.CacheTTL,
		catalog.WithLogger(log.Named("catalog")),
		catalog.WithFetchTimeout(catCfg.FetchTimeout),
	)

	// cast lookups
	tmdbLog := log.Named("tmdb")
	tmdbClient := tmdb.New(catCfg.TMDBBaseURL, catCfg.TMDBAPIKey,
		tmdb.ClientConfig{MaxRetries: catCfg.TMDBMaxRetries, RetryBaseDelay: catCfg.TMDBRetryBaseDelay},
		tmdb.WithLogger(tmdbLog),
		tmdb.WithRateLimit(catCfg.TMDBRPS),
		tmdb.WithCircuitBreaker(tmdb.NewBreaker(tmdb.BreakerSettings{
			MaxRequests:      catCfg.CBMaxRequests,
			Interval:         catCfg.CBInterval,
			Timeout:          catCfg.CBTimeout,
			FailureThreshold: catCfg.CBFailureThreshold,
		}, tmdbLog)),
	)
	tmdbClient.HTTPClient.Timeout = catCfg.TMDBTimeout
	if !tmdbClient.Configured() {
		log.Warn("TMDB_API_KEY not set, cast lookups will return empty lists")
	}
	gateway := metadata.New(tmdbClient, log.Named("metadata"))

	// messaging (optional)
	var nc *nats.Conn
	if natsconn.Enabled(natsconn.Options{URL: catCfg.NATSURL}) {
		nc, err = natsconn.Connect(natsconn.Options{URL: catCfg.NATSURL, Name: cfg.ServiceName, Logger: log})
		if err != nil {
			log.Error("nats connect", zap.Error(err))
			run.Exit(1)
		}

		if _, err := cache.Subscribe(nc, catCfg.InvalidateSubject); err != nil {
			log.Error("subscribe invalidation", zap.String("subject", catCfg.InvalidateSubject), zap.Error(err))
			run.Exit(1)
		}
	} else {
		log.Info("NATS_URL not set, remote invalidation and analytics disabled")
	}
	events, err := analytics.NewFromConn(nc, log.Named("analytics"))
	if err != nil {
		log.Error("analytics publisher", zap.Error(err))
		run.Exit(1)
	}

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{ReadyFunc: cache.Ready, Logger: log})

	deps := handlers.Deps{
		Catalog:   cache,
		Cast:      gateway,
		Favorites: favorites.NewInMemoryStore(),
		Events:    events,
	}
	r.Group(func(r chi.Router) {
		if catCfg.RateLimitRPS > 0 {
			limiter := cataloghttp.NewRateLimiter(catCfg.RateLimitRPS, catCfg.RateLimitBurst)
			limiter.TrustForwardedFor = catCfg.RateLimitTrustProxy
			r.Use(limiter.Middleware)
		}
		r.Group(handlers.Routes(deps))
		r.Route("/api", handlers.Routes(deps))
	})

	srv := httpserver.New(httpserver.Options{Addr: cfg.HTTP.Addr, Logger: log, Router: r})

	var health *grpchealth.Server
	if cfg.GRPC.Addr != "" {
		health = grpchealth.New(cfg.ServiceName, log.Named("grpc"))
	}

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		go func() {
			titles := cache.Titles(ctx)
			log.Info("catalog warm-up finished", zap.Int("titles", len(titles)))
		}()
		if health != nil {
			go health.WatchReady(ctx, readyPollInterval, cache.Ready)
			go func() {
				if err := health.Serve(cfg.GRPC.Addr); err != nil {
					log.Error("grpc serve", zap.Error(err))
				}
			}()
		}
		return srv.Start(log)
	})

	steps := []run.Step{{Name: "http", Fn: srv.Shutdown}}
	if health != nil {
		steps = append(steps, run.Step{Name: "grpc", Fn: health.Shutdown})
	}
	if nc != nil {
		steps = append(steps, run.Step{Name: "nats", Fn: func(context.Context) error { return nc.Drain() }})
	}
	runner.Graceful(steps...)
	_ = log.Sync()
	run.Exit(code)
}
