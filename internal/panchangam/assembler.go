package panchangam

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zapponejosh/panchangam/internal/calendar"
	"github.com/zapponejosh/panchangam/internal/ephemeris"
	"github.com/zapponejosh/panchangam/internal/logger"
	"github.com/zapponejosh/panchangam/internal/telemetry"
)

// Assembler composes provider data, the resolver and the partitioner into
// one Day. It holds no per-call state and is safe for concurrent use.
type Assembler struct {
	provider    ephemeris.Provider
	resolver    *Resolver
	partitioner *Partitioner

	log        zerolog.Logger
	metrics    *telemetry.Metrics
	tracer     *telemetry.Tracer
	timeout    time.Duration
	nightHoras bool

	zones sync.Map // timezone name -> *time.Location
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Assembler) { a.log = logger.Named(l, "assembler") }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(a *Assembler) { a.metrics = m }
}

// WithTracer sets the span tracer.
func WithTracer(t *telemetry.Tracer) Option {
	return func(a *Assembler) { a.tracer = t }
}

// WithTimeout bounds each provider call. Zero means no bound beyond ctx.
func WithTimeout(d time.Duration) Option {
	return func(a *Assembler) { a.timeout = d }
}

// WithNightHoras makes Assemble also fetch the next sunrise and fill
// Day.NightHoras.
func WithNightHoras(enabled bool) Option {
	return func(a *Assembler) { a.nightHoras = enabled }
}

// NewAssembler creates an assembler over provider and tables.
func NewAssembler(provider ephemeris.Provider, tables Tables, opts ...Option) (*Assembler, error) {
	if provider == nil {
		return nil, errors.New("nil ephemeris provider")
	}
	resolver, err := NewResolver(tables)
	if err != nil {
		return nil, err
	}
	partitioner, err := NewPartitioner(tables)
	if err != nil {
		return nil, err
	}

	a := &Assembler{
		provider:    provider,
		resolver:    resolver,
		partitioner: partitioner,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Resolver returns the assembler's element resolver.
func (a *Assembler) Resolver() *Resolver { return a.resolver }

// Partitioner returns the assembler's daylight partitioner.
func (a *Assembler) Partitioner() *Partitioner { return a.partitioner }

// Assemble computes the panchangam for date's civil day at loc. Only the
// year, month and day of date are used.
//
// Angular elements are taken at local noon, not at sunrise; elements that
// change during the day are reported as they stand at noon.
//
// Provider failures are returned as *ephemeris.UnavailableError; a date
// on which the sun does not rise or set is a *NoDaylightError. Any failure
// fails the whole day.
func (a *Assembler) Assemble(ctx context.Context, date time.Time, loc Location) (day Day, err error) {
	ctx, span := a.tracer.StartSpan(ctx, "panchangam.assemble",
		attribute.String("date", calendar.FormatDate(date)),
		attribute.Float64("latitude", loc.Latitude),
		attribute.Float64("longitude", loc.Longitude),
		attribute.String("timezone", loc.Timezone),
	)
	defer func() {
		a.metrics.RecordDay(statusOf(err))
		telemetry.EndSpan(span, err)
	}()

	if err := loc.Validate(); err != nil {
		return Day{}, err
	}
	tz, err := a.zone(loc)
	if err != nil {
		return Day{}, err
	}

	midnight := calendar.In(date, tz)

	lon, err := a.longitudes(ctx, calendar.LocalNoon(midnight, tz))
	if err != nil {
		return Day{}, fmt.Errorf("assemble %s: %w", calendar.FormatDate(midnight), err)
	}
	sun, err := a.sunTimes(ctx, midnight, loc, tz)
	if err != nil {
		return Day{}, fmt.Errorf("assemble %s: %w", calendar.FormatDate(midnight), err)
	}

	day = Day{
		Date:     midnight,
		Location: loc,
		Weekday:  calendar.ISOWeekday(midnight),
		Sunrise:  sun.Sunrise,
		Sunset:   sun.Sunset,
	}

	if day.Tithi, err = a.resolver.Tithi(lon.Sun, lon.Moon); err != nil {
		return Day{}, err
	}
	if day.Nakshatra, err = a.resolver.Nakshatra(lon.Moon); err != nil {
		return Day{}, err
	}
	if day.Yoga, err = a.resolver.Yoga(lon.Sun, lon.Moon); err != nil {
		return Day{}, err
	}
	if day.Karana, err = a.resolver.Karana(day.Tithi.AngularProgress); err != nil {
		return Day{}, err
	}

	if day.Inauspicious, err = a.partitioner.Inauspicious(sun.Sunrise, sun.Sunset, day.Weekday); err != nil {
		return Day{}, err
	}
	if day.Horas, err = a.partitioner.Horas(sun.Sunrise, sun.Sunset); err != nil {
		return Day{}, err
	}
	if day.Gowri, err = a.partitioner.Gowri(sun.Sunrise, sun.Sunset); err != nil {
		return Day{}, err
	}

	if a.nightHoras {
		next, err := a.sunTimes(ctx, calendar.In(midnight.AddDate(0, 0, 1), tz), loc, tz)
		if err != nil {
			return Day{}, fmt.Errorf("assemble %s night horas: %w", calendar.FormatDate(midnight), err)
		}
		if day.NightHoras, err = a.partitioner.NightHoras(sun.Sunset, next.Sunrise); err != nil {
			return Day{}, err
		}
		day.HasNightHoras = true
	}

	a.log.Debug().
		Str("date", calendar.FormatDate(midnight)).
		Str("tithi", day.Tithi.Name).
		Str("nakshatra", day.Nakshatra.Name).
		Msg("day assembled")

	return day, nil
}

func (a *Assembler) zone(loc Location) (*time.Location, error) {
	if z, ok := a.zones.Load(loc.Timezone); ok {
		return z.(*time.Location), nil
	}
	tz, err := loc.TZ()
	if err != nil {
		return nil, err
	}
	a.zones.Store(loc.Timezone, tz)
	return tz, nil
}

func (a *Assembler) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout > 0 {
		return context.WithTimeout(ctx, a.timeout)
	}
	return context.WithCancel(ctx)
}

func (a *Assembler) longitudes(ctx context.Context, at time.Time) (ephemeris.Longitudes, error) {
	ctx, cancel := a.callContext(ctx)
	defer cancel()

	timer := telemetry.NewTimer()
	lon, err := a.provider.LongitudesAt(ctx, at)
	if err == nil {
		err = ctx.Err()
	}
	a.metrics.RecordEphemerisCall("longitudes", timer.Duration(), err)
	if err != nil {
		return ephemeris.Longitudes{}, ephemeris.Unavailable("longitudes", err)
	}
	return lon, nil
}

func (a *Assembler) sunTimes(ctx context.Context, date time.Time, loc Location, tz *time.Location) (ephemeris.SunTimes, error) {
	ctx, cancel := a.callContext(ctx)
	defer cancel()

	timer := telemetry.NewTimer()
	st, err := a.provider.SunTimes(ctx, date, loc.Latitude, loc.Longitude, tz)
	if errors.Is(err, ephemeris.ErrNoSunrise) {
		a.metrics.RecordEphemerisCall("sun_times", timer.Duration(), nil)
		return ephemeris.SunTimes{}, &NoDaylightError{Err: err}
	}
	if err == nil {
		err = ctx.Err()
	}
	a.metrics.RecordEphemerisCall("sun_times", timer.Duration(), err)
	if err != nil {
		return ephemeris.SunTimes{}, ephemeris.Unavailable("sun_times", err)
	}
	return st, nil
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case ephemeris.IsUnavailable(err):
		return "unavailable"
	case IsNoDaylight(err):
		return "no_daylight"
	case IsComputation(err):
		return "computation"
	default:
		return "error"
	}
}
