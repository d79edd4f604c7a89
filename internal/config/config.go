// Package config handles engine configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/zapponejosh/panchangam/internal/validation"
)

// Config holds all engine configuration.
// Fields are populated from environment variables.
type Config struct {
	Env string // development, staging, production

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text

	// Static data
	TablesPath string // optional YAML overlay on the default lookup tables
	RulesPath  string // optional YAML/TOML festival catalogue; built-in when empty

	// Calendar defaults
	DefaultRegion   string // region code, or ALL
	DefaultTimezone string // IANA name

	// Engine
	ScanWorkers      int           // concurrent day assemblies per scan
	EphemerisTimeout time.Duration // per provider call
	NightHora        bool          // also compute sunset-to-sunrise horas

	// Metrics
	MetricsEnabled   bool
	MetricsNamespace string

	// Tracing
	TraceExporter     string  // none, stdout
	TraceSamplingRate float64 // 0-1
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// MaxScanWorkers caps SCAN_WORKERS.
const MaxScanWorkers = 64

// Load reads configuration from environment variables.
// In development, it first loads from .env file if present.
func Load() (*Config, error) {
	// Missing .env is fine; production sets env vars directly
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.Env = getEnv("ENV", EnvDevelopment)

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "text")

	cfg.TablesPath = getEnv("TABLES_PATH", "")
	cfg.RulesPath = getEnv("RULES_PATH", "")

	cfg.DefaultRegion = getEnv("DEFAULT_REGION", "ALL")
	cfg.DefaultTimezone = getEnv("DEFAULT_TIMEZONE", "Asia/Kolkata")

	cfg.ScanWorkers = getEnvInt("SCAN_WORKERS", 4)
	cfg.EphemerisTimeout = getEnvDuration("EPHEMERIS_TIMEOUT", 5*time.Second)
	cfg.NightHora = getEnvBool("NIGHT_HORA", false)

	cfg.MetricsEnabled = getEnvBool("METRICS_ENABLED", true)
	cfg.MetricsNamespace = getEnv("METRICS_NAMESPACE", "panchangam")

	cfg.TraceExporter = getEnv("TRACE_EXPORTER", "none")
	cfg.TraceSamplingRate = getEnvFloat("TRACE_SAMPLING_RATE", 1.0)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var errs []error

	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
		// Valid
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of: development, staging, production; got %q", c.Env))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	switch c.LogFormat {
	case "json", "text":
		// Valid
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be one of: json, text; got %q", c.LogFormat))
	}

	if !validation.IsRegion(c.DefaultRegion) {
		errs = append(errs, fmt.Errorf("DEFAULT_REGION must be 2-3 upper-case letters or ALL; got %q", c.DefaultRegion))
	}

	if c.DefaultTimezone == "" {
		errs = append(errs, errors.New("DEFAULT_TIMEZONE is required"))
	} else if _, err := time.LoadLocation(c.DefaultTimezone); err != nil {
		errs = append(errs, fmt.Errorf("DEFAULT_TIMEZONE %q: %w", c.DefaultTimezone, err))
	}

	if c.ScanWorkers < 1 || c.ScanWorkers > MaxScanWorkers {
		errs = append(errs, fmt.Errorf("SCAN_WORKERS must be between 1 and %d, got %d", MaxScanWorkers, c.ScanWorkers))
	}

	if c.EphemerisTimeout <= 0 {
		errs = append(errs, fmt.Errorf("EPHEMERIS_TIMEOUT must be positive, got %s", c.EphemerisTimeout))
	}

	if c.MetricsEnabled && c.MetricsNamespace == "" {
		errs = append(errs, errors.New("METRICS_NAMESPACE is required when metrics are enabled"))
	}

	switch c.TraceExporter {
	case "none", "stdout":
		// Valid
	default:
		errs = append(errs, fmt.Errorf("TRACE_EXPORTER must be one of: none, stdout; got %q", c.TraceExporter))
	}

	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		errs = append(errs, fmt.Errorf("TRACE_SAMPLING_RATE must be between 0 and 1, got %g", c.TraceSamplingRate))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// getEnv reads an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat reads an environment variable as a float with a default fallback.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvBool reads an environment variable as a boolean with a default fallback.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration reads an environment variable as a time.Duration ("5s",
// "250ms") with a default fallback.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
