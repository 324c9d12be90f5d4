package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVICE_NAME", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("GRPC_ADDR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServiceName != "stream-catalog" {
		t.Fatalf("unexpected service name %q", cfg.ServiceName)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected http addr %q", cfg.HTTP.Addr)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("unexpected log level %q", cfg.LogLevel)
	}
	if cfg.GRPC.Addr != "" {
		t.Fatalf("grpc should be disabled by default, got %q", cfg.GRPC.Addr)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVICE_NAME", " catalog ")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("GRPC_ADDR", ":9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServiceName != "catalog" || cfg.LogLevel != "debug" || cfg.HTTP.Addr != ":9000" || cfg.GRPC.Addr != ":9090" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoad_RejectsUnknownLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestLoad_RejectsSharedPort(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("GRPC_ADDR", ":8080")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when grpc and http share an address")
	}
}
