package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CATALOG_FEED_URL", "CATALOG_CACHE_TTL", "CATALOG_FETCH_TIMEOUT",
		"TMDB_API_KEY", "TMDB_BASE_URL", "TMDB_TIMEOUT", "TMDB_RPS", "TMDB_MAX_RETRIES", "TMDB_RETRY_BASE_DELAY",
		"CB_MAX_REQUESTS", "CB_INTERVAL", "CB_TIMEOUT", "CB_FAILURE_THRESHOLD",
		"NATS_URL", "CATALOG_INVALIDATE_SUBJECT", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "RATE_LIMIT_TRUST_PROXY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.FeedURL != defaultFeedURL {
		t.Fatalf("unexpected feed url %q", cfg.FeedURL)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("expected 5m ttl, got %s", cfg.CacheTTL)
	}
	if cfg.TMDBAPIKey != "" {
		t.Fatal("expected no credential by default")
	}
	if cfg.InvalidateSubject != "catalog.invalidate" {
		t.Fatalf("unexpected subject %q", cfg.InvalidateSubject)
	}
	if cfg.TMDBMaxRetries != 2 || cfg.CBFailureThreshold != 5 {
		t.Fatalf("unexpected resilience defaults: %+v", cfg)
	}
	if cfg.RateLimitTrustProxy {
		t.Fatal("forwarded headers must not be trusted by default")
	}
}

func TestLoad_TrustProxy(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_LIMIT_TRUST_PROXY", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.RateLimitTrustProxy {
		t.Fatal("expected proxy to be trusted")
	}

	t.Setenv("RATE_LIMIT_TRUST_PROXY", "maybe")
	if cfg, _ = Load(); cfg.RateLimitTrustProxy {
		t.Fatal("unparseable value must fall back to false")
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CATALOG_FEED_URL", "http://feed.local/titles.json")
	t.Setenv("CATALOG_CACHE_TTL", "30s")
	t.Setenv("TMDB_API_KEY", " secret ")
	t.Setenv("TMDB_RPS", "2.5")
	t.Setenv("RATE_LIMIT_RPS", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.FeedURL != "http://feed.local/titles.json" || cfg.CacheTTL != 30*time.Second {
		t.Fatalf("unexpected feed settings: %+v", cfg)
	}
	if cfg.TMDBAPIKey != "secret" || cfg.TMDBRPS != 2.5 {
		t.Fatalf("unexpected tmdb settings: %+v", cfg)
	}
	if cfg.RateLimitRPS != 0 {
		t.Fatalf("expected limiter disabled, got %v", cfg.RateLimitRPS)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("CATALOG_CACHE_TTL", "soon")
	t.Setenv("TMDB_MAX_RETRIES", "-1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.CacheTTL != 5*time.Minute || cfg.TMDBMaxRetries != 2 {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_RejectsNonHTTPFeed(t *testing.T) {
	clearEnv(t)
	t.Setenv("CATALOG_FEED_URL", "file:///etc/passwd")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-http feed url")
	}
}
