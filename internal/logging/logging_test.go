package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", &buf)

	if log.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	log.Warn("degraded", Scope("generator"), Err(errors.New("boom")))

	out := buf.String()
	if !strings.Contains(out, "scope=generator") {
		t.Errorf("expected scope attribute, got %q", out)
	}
	if !strings.Contains(out, "error=boom") {
		t.Errorf("expected error attribute, got %q", out)
	}
}

func TestNewJSONFormat(t *testing.T) {
	t.Setenv("YOUTHSITE_LOG_FORMAT", "json")
	var buf bytes.Buffer
	New("info", &buf).Info("hello")
	if !strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Errorf("expected JSON output, got %q", buf.String())
	}
}
