// Package config reads the process-wide settings shared by every binary.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
)

const (
	defaultServiceName = "stream-catalog"
	defaultHTTPAddr    = ":8080"
	defaultLogLevel    = "info"
)

type HTTPConfig struct {
	Addr string
}

type GRPCConfig struct {
	// Addr is optional; an empty value disables the gRPC health server.
	Addr string
}

type AppConfig struct {
	ServiceName string
	LogLevel    string
	HTTP        HTTPConfig
	GRPC        GRPCConfig
}

func Load() (AppConfig, error) {
	cfg := AppConfig{
		ServiceName: envOr("SERVICE_NAME", defaultServiceName),
		LogLevel:    strings.ToLower(envOr("LOG_LEVEL", defaultLogLevel)),
		HTTP:        HTTPConfig{Addr: envOr("HTTP_ADDR", defaultHTTPAddr)},
		GRPC:        GRPCConfig{Addr: envOr("GRPC_ADDR", "")},
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return AppConfig{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if cfg.GRPC.Addr != "" && cfg.GRPC.Addr == cfg.HTTP.Addr {
		return AppConfig{}, errors.New("GRPC_ADDR must differ from HTTP_ADDR")
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
