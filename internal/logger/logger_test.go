package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/zapponejosh/panchangam/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{" ERROR ", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetupWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{Env: config.EnvProduction, LogLevel: "warn", LogFormat: "json"}

	log := SetupWriter(cfg, &buf)
	log.Info().Msg("dropped")
	named := Named(log, "assembler")
	named.Warn().Str("date", "2024-03-15").Msg("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	want := map[string]string{
		"message":   "kept",
		"level":     "warn",
		"component": "assembler",
		"date":      "2024-03-15",
		"env":       "production",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("entry[%q] = %v, want %q", k, entry[k], v)
		}
	}
}

func TestSetupWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{Env: config.EnvStaging, LogLevel: "info", LogFormat: "text"}

	log := SetupWriter(cfg, &buf)
	log.Info().Msg("console-line")

	if !strings.Contains(buf.String(), "console-line") {
		t.Errorf("output %q does not contain message", buf.String())
	}
	if strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Errorf("text format produced JSON: %q", buf.String())
	}
}

func TestFromContext_ScanID(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{Env: config.EnvDevelopment, LogLevel: "info", LogFormat: "json"}
	SetupWriter(cfg, &buf)

	ctx := WithScan(context.Background(), "scan-42")
	if got := ScanID(ctx); got != "scan-42" {
		t.Errorf("ScanID() = %q, want %q", got, "scan-42")
	}
	if got := ScanID(context.Background()); got != "" {
		t.Errorf("ScanID(empty) = %q, want empty", got)
	}

	FromContext(ctx).Error().Err(errors.New("no daylight")).Msg("day skipped")

	out := buf.String()
	for _, want := range []string{`"scan_id":"scan-42"`, `"error":"no daylight"`, `"message":"day skipped"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %s", out, want)
		}
	}
}

func TestNamed_EmptyComponent(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	same := Named(log, "")
	same.Info().Msg("x")
	if strings.Contains(buf.String(), "component") {
		t.Errorf("Named(\"\") added component field: %q", buf.String())
	}
}
