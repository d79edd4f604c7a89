package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/zapponejosh/panchangam/internal/config"
	"github.com/zapponejosh/panchangam/internal/ephemeris"
	"github.com/zapponejosh/panchangam/internal/festival"
)

// steadyProvider returns fixed longitudes and a 06:00-18:00 day. The Moon
// advances 12 degrees a day from 2024-03-01 so each civil day is one tithi.
type steadyProvider struct{}

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func (steadyProvider) LongitudesAt(_ context.Context, t time.Time) (ephemeris.Longitudes, error) {
	days := t.Sub(epoch).Hours() / 24
	return ephemeris.Longitudes{Sun: 0, Moon: ephemeris.NormalizeDegrees(6 + 12*days)}, nil
}

func (steadyProvider) SunTimes(_ context.Context, date time.Time, _, _ float64, loc *time.Location) (ephemeris.SunTimes, error) {
	y, m, d := date.Date()
	return ephemeris.SunTimes{
		Sunrise: time.Date(y, m, d, 6, 0, 0, 0, loc),
		Sunset:  time.Date(y, m, d, 18, 0, 0, 0, loc),
	}, nil
}

type failingProvider struct{ steadyProvider }

func (failingProvider) LongitudesAt(context.Context, time.Time) (ephemeris.Longitudes, error) {
	return ephemeris.Longitudes{}, errors.New("no data")
}

func testConfig() *config.Config {
	return &config.Config{
		Env:              config.EnvDevelopment,
		LogLevel:         "info",
		LogFormat:        "json",
		DefaultRegion:    "ALL",
		DefaultTimezone:  "UTC",
		ScanWorkers:      4,
		EphemerisTimeout: time.Second,
		MetricsEnabled:   true,
		MetricsNamespace: "apptest",
		TraceExporter:    "none",
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	a, err := New(testConfig(), WithProvider(steadyProvider{}), WithLogWriter(&buf))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if a.Catalogue().Len() != 15 {
		t.Errorf("Catalogue().Len() = %d, want 15", a.Catalogue().Len())
	}
	if a.Metrics().Registry() == nil {
		t.Error("Metrics().Registry() = nil with metrics enabled")
	}
	if !strings.Contains(buf.String(), `"message":"panchangam engine ready"`) {
		t.Errorf("startup log missing:\n%s", buf.String())
	}
	if got := a.Location(13, 80).Timezone; got != "UTC" {
		t.Errorf("Location().Timezone = %q, want UTC", got)
	}
}

func TestNewInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.ScanWorkers = 0
	if _, err := New(cfg, WithProvider(steadyProvider{})); err == nil {
		t.Error("New() expected error for SCAN_WORKERS=0")
	}
}

func TestNewLoadsFiles(t *testing.T) {
	dir := t.TempDir()
	tables := filepath.Join(dir, "tables.yaml")
	rules := filepath.Join(dir, "rules.toml")
	if err := os.WriteFile(tables, []byte("karana_scheme: traditional\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(rules, []byte("[[rules]]\nname = \"Purnima\"\nwhen = \"purnima\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig()
	cfg.TablesPath = tables
	cfg.RulesPath = rules
	a, err := New(cfg, WithProvider(steadyProvider{}), WithLogWriter(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if a.Tables().KaranaScheme != "traditional" {
		t.Errorf("KaranaScheme = %q, want traditional", a.Tables().KaranaScheme)
	}
	if a.Catalogue().Len() != 1 {
		t.Errorf("Catalogue().Len() = %d, want 1", a.Catalogue().Len())
	}

	cfg.RulesPath = filepath.Join(dir, "missing.yaml")
	if _, err := New(cfg, WithProvider(steadyProvider{}), WithLogWriter(&bytes.Buffer{})); err == nil {
		t.Error("New() expected error for missing catalogue")
	}
}

func TestMonth(t *testing.T) {
	a, err := New(testConfig(), WithProvider(steadyProvider{}), WithLogWriter(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	cal, err := a.Month(context.Background(), 2024, time.March, a.Location(13.08, 80.27), "")
	if err != nil {
		t.Fatalf("Month() error = %v", err)
	}
	if cal.Region != "ALL" {
		t.Errorf("Region = %q, want the default ALL", cal.Region)
	}
	if len(cal.Days) != 31 {
		t.Errorf("len(Days) = %d, want 31", len(cal.Days))
	}

	// 1 March is tithi 1, so Purnima falls on the 15th.
	var found bool
	for _, o := range cal.OccurrencesOn(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
		if o.Name == "Purnima" {
			found = true
		}
	}
	if !found {
		t.Errorf("Purnima not found on 15 March; occurrences = %v", cal.Occurrences)
	}
}

func TestDayAndMuhurtham(t *testing.T) {
	a, err := New(testConfig(), WithProvider(steadyProvider{}), WithLogWriter(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()
	loc := a.Location(13.08, 80.27)
	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	day, err := a.Day(ctx, date, loc)
	if err != nil {
		t.Fatalf("Day() error = %v", err)
	}
	if day.Tithi.Index != 5 {
		t.Errorf("Tithi.Index = %d, want 5", day.Tithi.Index)
	}

	periods, err := a.Muhurtham(ctx, date, loc, festival.EventHouseWarming)
	if err != nil {
		t.Fatalf("Muhurtham() error = %v", err)
	}
	if len(periods) != 3 {
		t.Errorf("len(periods) = %d, want 3", len(periods))
	}
}

func TestMuhurthamProviderFailure(t *testing.T) {
	a, err := New(testConfig(), WithProvider(failingProvider{}), WithLogWriter(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_, err = a.Muhurtham(context.Background(), time.Now(), a.Location(0, 0), festival.EventGeneral)
	if !ephemeris.IsUnavailable(err) {
		t.Errorf("Muhurtham() error = %v, want ephemeris unavailable", err)
	}
}

// lockedBuffer lets the span exporter and the test share a buffer.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStdoutTracing(t *testing.T) {
	cfg := testConfig()
	cfg.TraceExporter = "stdout"
	cfg.TraceSamplingRate = 1

	var spans lockedBuffer
	a, err := New(cfg, WithProvider(steadyProvider{}), WithLogWriter(&bytes.Buffer{}), WithTraceWriter(&spans))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := a.Month(context.Background(), 2024, time.March, a.Location(13.08, 80.27), ""); err != nil {
		t.Fatalf("Month() error = %v", err)
	}
	if err := a.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if !strings.Contains(spans.String(), "festival.build_range") {
		t.Errorf("exported spans missing festival.build_range:\n%.500s", spans.String())
	}
}

func TestShutdownWithoutExporter(t *testing.T) {
	a, err := New(testConfig(), WithProvider(steadyProvider{}), WithLogWriter(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := a.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestWatch(t *testing.T) {
	a, err := New(testConfig(), WithProvider(steadyProvider{}), WithLogWriter(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := a.Watch(context.Background()); err == nil {
		t.Error("Watch() without RULES_PATH expected error")
	}

	rules := filepath.Join(t.TempDir(), "rules.toml")
	if err := os.WriteFile(rules, []byte("[[rules]]\nname = \"Purnima\"\nwhen = \"purnima\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig()
	cfg.RulesPath = rules
	a, err = New(cfg, WithProvider(steadyProvider{}), WithLogWriter(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Watch(ctx) }()

	// Keep rewriting until the watcher has picked the new rules up; the
	// first write may land before the watch loop is running.
	two := "[[rules]]\nname = \"Purnima\"\nwhen = \"purnima\"\n\n[[rules]]\nname = \"Amavasya\"\nwhen = \"amavasya\"\n"
	deadline := time.Now().Add(5 * time.Second)
	for a.Catalogue().Len() != 2 && time.Now().Before(deadline) {
		if err := os.WriteFile(rules, []byte(two), 0o600); err != nil {
			t.Fatal(err)
		}
		time.Sleep(250 * time.Millisecond)
	}
	if a.Catalogue().Len() != 2 {
		t.Errorf("Catalogue().Len() = %d after edit, want 2", a.Catalogue().Len())
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch() error = %v", err)
	}
}
