package natsconn

import (
	"strings"
	"testing"
	"time"
)

func TestResolve_Defaults(t *testing.T) {
	t.Setenv("NATS_URL", "")
	t.Setenv("NATS_MAX_RECONNECTS", "")
	t.Setenv("NATS_RECONNECT_WAIT", "")

	o := Options{}.resolve()
	if o.URL != "" || o.MaxReconnects != 5 || o.ReconnectWait != 2*time.Second || o.Logger == nil {
		t.Fatalf("unexpected defaults: %+v", o)
	}
}

func TestResolve_FromEnv(t *testing.T) {
	t.Setenv("NATS_URL", " nats://nats:4222 ")
	t.Setenv("NATS_MAX_RECONNECTS", "7")
	t.Setenv("NATS_RECONNECT_WAIT", "500ms")

	o := Options{}.resolve()
	if o.URL != "nats://nats:4222" || o.MaxReconnects != 7 || o.ReconnectWait != 500*time.Millisecond {
		t.Fatalf("unexpected options: %+v", o)
	}
}

func TestResolve_ExplicitWins(t *testing.T) {
	t.Setenv("NATS_URL", "nats://env:4222")
	o := Options{URL: "nats://explicit:4222", MaxReconnects: 1}.resolve()
	if o.URL != "nats://explicit:4222" || o.MaxReconnects != 1 {
		t.Fatalf("unexpected options: %+v", o)
	}
}

func TestEnvHelpers_InvalidFallsBack(t *testing.T) {
	t.Setenv("NATSCONN_TEST_NEG", "-3")
	if v := envInt("NATSCONN_TEST_NEG", 5); v != 5 {
		t.Fatalf("expected fallback 5, got %d", v)
	}
	t.Setenv("NATSCONN_TEST_DUR", "soon")
	if v := envDuration("NATSCONN_TEST_DUR", time.Second); v != time.Second {
		t.Fatalf("expected fallback 1s, got %s", v)
	}
}

func TestEnabled(t *testing.T) {
	t.Setenv("NATS_URL", "")
	if Enabled(Options{}) {
		t.Fatal("expected disabled without URL")
	}
	if !Enabled(Options{URL: "nats://localhost:4222"}) {
		t.Fatal("expected enabled with explicit URL")
	}
	t.Setenv("NATS_URL", "nats://nats:4222")
	if !Enabled(Options{}) {
		t.Fatal("expected enabled via NATS_URL")
	}
}

func TestConnect_FailsFast(t *testing.T) {
	start := time.Now()
	_, err := Connect(Options{URL: "nats://127.0.0.1:1", MaxReconnects: 1, ReconnectWait: time.Millisecond})
	if err == nil {
		t.Fatal("expected connect error")
	}
	if !strings.Contains(err.Error(), "nats connect nats://127.0.0.1:1") {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatal("connect should not retry an initial failure")
	}
}
