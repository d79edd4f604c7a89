// Package app wires configuration, logging, static data and the ephemeris
// provider into a ready panchangam engine.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/zapponejosh/panchangam/internal/calendar"
	"github.com/zapponejosh/panchangam/internal/config"
	"github.com/zapponejosh/panchangam/internal/ephemeris"
	"github.com/zapponejosh/panchangam/internal/festival"
	"github.com/zapponejosh/panchangam/internal/logger"
	"github.com/zapponejosh/panchangam/internal/panchangam"
	"github.com/zapponejosh/panchangam/internal/telemetry"
)

// App is the assembled engine. It is safe for concurrent use.
type App struct {
	cfg       *config.Config
	log       zerolog.Logger
	metrics   *telemetry.Metrics
	shutdown  telemetry.ShutdownFunc
	tables    panchangam.Tables
	assembler *panchangam.Assembler
	builder   *festival.Builder
}

type options struct {
	provider    ephemeris.Provider
	logWriter   io.Writer
	traceWriter io.Writer
}

// Option customises New.
type Option func(*options)

// WithProvider replaces the astronomical ephemeris.
func WithProvider(p ephemeris.Provider) Option {
	return func(o *options) { o.provider = p }
}

// WithLogWriter sends logs to w instead of stdout.
func WithLogWriter(w io.Writer) Option {
	return func(o *options) { o.logWriter = w }
}

// WithTraceWriter sends stdout-exported spans to w.
func WithTraceWriter(w io.Writer) Option {
	return func(o *options) { o.traceWriter = w }
}

// Load reads configuration from the environment and builds the engine.
func Load(opts ...Option) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// New builds the engine from cfg.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.provider == nil {
		o.provider = ephemeris.NewAstronomical()
	}

	a := &App{cfg: cfg}
	if o.logWriter != nil {
		a.log = logger.SetupWriter(cfg, o.logWriter)
	} else {
		a.log = logger.Setup(cfg)
	}

	tables := panchangam.DefaultTables()
	if cfg.TablesPath != "" {
		t, err := panchangam.LoadTables(cfg.TablesPath)
		if err != nil {
			return nil, fmt.Errorf("load tables: %w", err)
		}
		tables = t
	}
	a.tables = tables

	var (
		catalogue *festival.Catalogue
		err       error
	)
	if cfg.RulesPath != "" {
		catalogue, err = festival.LoadCatalogue(cfg.RulesPath)
	} else {
		catalogue, err = festival.DefaultCatalogue()
	}
	if err != nil {
		return nil, fmt.Errorf("load catalogue: %w", err)
	}

	a.metrics = telemetry.NewMetrics(telemetry.MetricsConfig{
		Enabled:   cfg.MetricsEnabled,
		Namespace: cfg.MetricsNamespace,
	})
	tracer, shutdown, err := telemetry.SetupTracing(telemetry.TracingConfig{
		Exporter:     cfg.TraceExporter,
		ServiceName:  cfg.MetricsNamespace,
		Environment:  cfg.Env,
		SamplingRate: cfg.TraceSamplingRate,
		Writer:       o.traceWriter,
	})
	if err != nil {
		return nil, fmt.Errorf("setup tracing: %w", err)
	}
	a.shutdown = shutdown

	a.assembler, err = panchangam.NewAssembler(o.provider, tables,
		panchangam.WithLogger(a.log),
		panchangam.WithMetrics(a.metrics),
		panchangam.WithTracer(tracer),
		panchangam.WithTimeout(cfg.EphemerisTimeout),
		panchangam.WithNightHoras(cfg.NightHora),
	)
	if err != nil {
		return nil, fmt.Errorf("create assembler: %w", err)
	}

	a.builder, err = festival.NewBuilder(a.assembler, catalogue,
		festival.WithWorkers(cfg.ScanWorkers),
		festival.WithBuilderLogger(a.log),
		festival.WithBuilderMetrics(a.metrics),
		festival.WithBuilderTracer(tracer),
	)
	if err != nil {
		return nil, fmt.Errorf("create builder: %w", err)
	}

	a.log.Info().
		Str("env", cfg.Env).
		Str("karana_scheme", string(tables.KaranaScheme)).
		Int("rules", catalogue.Len()).
		Int("scan_workers", cfg.ScanWorkers).
		Bool("night_hora", cfg.NightHora).
		Str("trace_exporter", cfg.TraceExporter).
		Msg("panchangam engine ready")

	return a, nil
}

// Config returns the configuration the engine was built from.
func (a *App) Config() *config.Config { return a.cfg }

// Logger returns the root logger.
func (a *App) Logger() zerolog.Logger { return a.log }

// Metrics returns the metrics collector; its Registry is nil when disabled.
func (a *App) Metrics() *telemetry.Metrics { return a.metrics }

// Tables returns a copy of the lookup tables in use.
func (a *App) Tables() panchangam.Tables { return a.tables.Clone() }

// Catalogue returns the festival catalogue new scans use.
func (a *App) Catalogue() *festival.Catalogue { return a.builder.Catalogue() }

// Assembler returns the day assembler.
func (a *App) Assembler() *panchangam.Assembler { return a.assembler }

// Builder returns the festival builder.
func (a *App) Builder() *festival.Builder { return a.builder }

// Location returns a location at lat/lon in the default timezone.
func (a *App) Location(lat, lon float64) panchangam.Location {
	return panchangam.Location{Latitude: lat, Longitude: lon, Timezone: a.cfg.DefaultTimezone}
}

// Day assembles the panchangam of date at loc.
func (a *App) Day(ctx context.Context, date time.Time, loc panchangam.Location) (panchangam.Day, error) {
	return a.assembler.Assemble(ctx, date, loc)
}

// Month builds the festival calendar of a month. An empty region means
// the configured default.
func (a *App) Month(ctx context.Context, year int, month time.Month, loc panchangam.Location, region string) (*festival.Calendar, error) {
	return a.builder.BuildMonth(ctx, year, month, loc, a.region(region))
}

// Year builds the festival calendar of a year.
func (a *App) Year(ctx context.Context, year int, loc panchangam.Location, region string) (*festival.Calendar, error) {
	return a.builder.BuildYear(ctx, year, loc, a.region(region))
}

// Muhurtham assembles date at loc and returns the periods suited to event.
func (a *App) Muhurtham(ctx context.Context, date time.Time, loc panchangam.Location, event festival.EventType) ([]festival.MuhurthamPeriod, error) {
	day, err := a.assembler.Assemble(ctx, date, loc)
	if err != nil {
		return nil, err
	}
	periods, err := festival.Muhurtham(day, event)
	if err != nil {
		return nil, err
	}
	a.log.Debug().
		Str("date", calendar.FormatDate(day.Date)).
		Str("event", string(event)).
		Int("periods", len(periods)).
		Msg("muhurtham computed")
	return periods, nil
}

// Watch reloads the rules file on change until ctx is done. It needs
// RULES_PATH to be set.
func (a *App) Watch(ctx context.Context) error {
	if a.cfg.RulesPath == "" {
		return errors.New("no RULES_PATH to watch")
	}
	w, err := festival.NewCatalogueWatcher(a.cfg.RulesPath, a.builder.SetCatalogue,
		festival.WithWatchLogger(a.log),
	)
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

// Shutdown flushes exported spans.
func (a *App) Shutdown(ctx context.Context) error {
	if err := a.shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown tracing: %w", err)
	}
	a.log.Info().Msg("panchangam engine stopped")
	return nil
}

func (a *App) region(region string) string {
	if region == "" {
		return a.cfg.DefaultRegion
	}
	return region
}
