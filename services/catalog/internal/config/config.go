package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultFeedURL           = "https://raw.githubusercontent.com/sangamp94/otp/refs/heads/main/movie.json"
	defaultInvalidateSubject = "catalog.invalidate"
)

type CatalogConfig struct {
	FeedURL      string
	CacheTTL     time.Duration
	FetchTimeout time.Duration

	// TMDBAPIKey may be empty; cast lookups then always return an empty list.
	TMDBAPIKey         string
	TMDBBaseURL        string
	TMDBTimeout        time.Duration
	TMDBRPS            float64
	TMDBMaxRetries     int
	TMDBRetryBaseDelay time.Duration

	// Circuit breaker around TMDB calls.
	CBMaxRequests      uint32
	CBInterval         time.Duration
	CBTimeout          time.Duration
	CBFailureThreshold uint32

	// NATS is optional; InvalidateSubject is only used when NATS_URL is set.
	NATSURL           string
	InvalidateSubject string

	// RateLimitRPS <= 0 disables the per-client limiter.
	RateLimitRPS   float64
	RateLimitBurst int
	// RateLimitTrustProxy keys the limiter by X-Forwarded-For; set it only
	// behind a proxy that overwrites that header.
	RateLimitTrustProxy bool
}

func Load() (CatalogConfig, error) {
	cfg := CatalogConfig{
		FeedURL:             strings.TrimSpace(os.Getenv("CATALOG_FEED_URL")),
		CacheTTL:            envDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		FetchTimeout:        envDuration("CATALOG_FETCH_TIMEOUT", 15*time.Second),
		TMDBAPIKey:          strings.TrimSpace(os.Getenv("TMDB_API_KEY")),
		TMDBBaseURL:         strings.TrimSpace(os.Getenv("TMDB_BASE_URL")),
		TMDBTimeout:         envDuration("TMDB_TIMEOUT", 10*time.Second),
		TMDBRPS:             envFloat("TMDB_RPS", 40),
		TMDBMaxRetries:      envInt("TMDB_MAX_RETRIES", 2),
		TMDBRetryBaseDelay:  envDuration("TMDB_RETRY_BASE_DELAY", 250*time.Millisecond),
		CBMaxRequests:       uint32(envInt("CB_MAX_REQUESTS", 5)),
		CBInterval:          envDuration("CB_INTERVAL", 60*time.Second),
		CBTimeout:           envDuration("CB_TIMEOUT", 30*time.Second),
		CBFailureThreshold:  uint32(envInt("CB_FAILURE_THRESHOLD", 5)),
		NATSURL:             strings.TrimSpace(os.Getenv("NATS_URL")),
		InvalidateSubject:   strings.TrimSpace(os.Getenv("CATALOG_INVALIDATE_SUBJECT")),
		RateLimitRPS:        envFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst:      envInt("RATE_LIMIT_BURST", 40),
		RateLimitTrustProxy: envBool("RATE_LIMIT_TRUST_PROXY", false),
	}
	if cfg.FeedURL == "" {
		cfg.FeedURL = defaultFeedURL
	}
	if !strings.HasPrefix(cfg.FeedURL, "http://") && !strings.HasPrefix(cfg.FeedURL, "https://") {
		return CatalogConfig{}, errors.New("CATALOG_FEED_URL must be an http(s) URL")
	}
	if cfg.InvalidateSubject == "" {
		cfg.InvalidateSubject = defaultInvalidateSubject
	}
	if cfg.CBFailureThreshold == 0 {
		cfg.CBFailureThreshold = 5
	}
	return cfg, nil
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return def
	}
	return f
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
