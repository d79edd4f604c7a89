// Package logger provides structured logging using zerolog.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/zapponejosh/panchangam/internal/config"
)

// Context keys for scan-scoped values
type contextKey string

const (
	// ScanIDKey is the context key for scan IDs
	ScanIDKey contextKey = "scan_id"
)

// Setup builds the root logger from configuration and installs it as the
// zerolog default context logger. Call this once at startup.
func Setup(cfg *config.Config) zerolog.Logger {
	return SetupWriter(cfg, os.Stdout)
}

// SetupWriter is Setup with an explicit output.
func SetupWriter(cfg *config.Config, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level := parseLevel(cfg.LogLevel)

	out := w
	if cfg.LogFormat != "json" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: !cfg.IsDevelopment()}
	}

	zctx := zerolog.New(out).Level(level).With().Timestamp().Str("env", cfg.Env)
	if level == zerolog.DebugLevel {
		zctx = zctx.Caller()
	}
	log := zctx.Logger()

	zerolog.DefaultContextLogger = &log
	return log
}

// parseLevel converts a string log level to zerolog.Level.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Named returns a child of l with a component field.
func Named(l zerolog.Logger, component string) zerolog.Logger {
	if component == "" {
		return l
	}
	return l.With().Str("component", component).Logger()
}

// WithScan tags ctx with a scan ID so every log line of one month or year
// build can be correlated.
func WithScan(ctx context.Context, scanID string) context.Context {
	return context.WithValue(ctx, ScanIDKey, scanID)
}

// ScanID extracts the scan ID from context.
func ScanID(ctx context.Context) string {
	if id, ok := ctx.Value(ScanIDKey).(string); ok {
		return id
	}
	return ""
}

// FromContext returns the logger attached to ctx (or the default context
// logger) with scan-scoped fields added.
func FromContext(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if id := ScanID(ctx); id != "" {
		child := l.With().Str("scan_id", id).Logger()
		return &child
	}
	return l
}
