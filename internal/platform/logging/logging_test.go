package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_DefaultsToInfo(t *testing.T) {
	log, err := New("not-a-level", "")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("debug should be disabled for an unknown level")
	}
	if !log.Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("info should be enabled")
	}
}

func TestNew_ParsesLevel(t *testing.T) {
	log, err := New(" DEBUG ", "stream-catalog")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !log.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("expected debug level to be enabled")
	}
}
