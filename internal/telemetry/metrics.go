// Package telemetry provides prometheus metrics and OpenTelemetry spans for
// the panchangam engine.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsConfig controls metric collection.
type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

// Metrics collects engine metrics on a private registry. A Metrics built
// with Enabled=false, or a nil *Metrics, records nothing.
type Metrics struct {
	daysAssembled     *prometheus.CounterVec
	ephemerisDuration *prometheus.HistogramVec
	ruleEvaluations   *prometheus.CounterVec
	occurrences       *prometheus.CounterVec
	scanDuration      prometheus.Histogram

	registry *prometheus.Registry
}

// NewMetrics creates a metrics collector.
func NewMetrics(cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return &Metrics{}
	}

	ns := cfg.Namespace
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		daysAssembled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "days_assembled_total",
				Help:      "Total number of panchangam days assembled",
			},
			[]string{"status"},
		),
		ephemerisDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: ns,
				Name:      "ephemeris_call_duration_seconds",
				Help:      "Duration of ephemeris provider calls in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"operation", "status"},
		),
		ruleEvaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "rule_evaluations_total",
				Help:      "Total number of festival rule evaluations",
			},
			[]string{"result"},
		),
		occurrences: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "festival_occurrences_total",
				Help:      "Total number of festival occurrences found",
			},
			[]string{"region"},
		),
		scanDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: ns,
				Name:      "scan_duration_seconds",
				Help:      "Duration of calendar range scans in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}

	registry.MustRegister(
		m.daysAssembled,
		m.ephemerisDuration,
		m.ruleEvaluations,
		m.occurrences,
		m.scanDuration,
	)

	return m
}

// Registry returns the private registry, or nil when metrics are disabled.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) enabled() bool {
	return m != nil && m.registry != nil
}

// RecordDay records the outcome of one day assembly: "ok", "unavailable",
// "no_daylight", "computation" or "error".
func (m *Metrics) RecordDay(status string) {
	if !m.enabled() {
		return
	}
	m.daysAssembled.WithLabelValues(status).Inc()
}

// RecordEphemerisCall records one provider call.
func (m *Metrics) RecordEphemerisCall(operation string, duration time.Duration, err error) {
	if !m.enabled() {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.ephemerisDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// RecordRuleEvaluation records a rule result: "match", "no_match" or "error".
func (m *Metrics) RecordRuleEvaluation(result string) {
	if !m.enabled() {
		return
	}
	m.ruleEvaluations.WithLabelValues(result).Inc()
}

// RecordOccurrences adds n festival occurrences for region.
func (m *Metrics) RecordOccurrences(region string, n int) {
	if !m.enabled() || n == 0 {
		return
	}
	m.occurrences.WithLabelValues(region).Add(float64(n))
}

// RecordScan records the duration of one range scan.
func (m *Metrics) RecordScan(duration time.Duration) {
	if !m.enabled() {
		return
	}
	m.scanDuration.Observe(duration.Seconds())
}

// Timer measures elapsed time for an operation.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() Timer {
	return Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created.
func (t Timer) Duration() time.Duration {
	return time.Since(t.start)
}
