package festival

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/zapponejosh/panchangam/internal/calendar"
	"github.com/zapponejosh/panchangam/internal/logger"
	"github.com/zapponejosh/panchangam/internal/panchangam"
	"github.com/zapponejosh/panchangam/internal/telemetry"
	"github.com/zapponejosh/panchangam/internal/validation"
)

// MaxRangeDays caps a single scan at one leap year.
const MaxRangeDays = 366

// DayAssembler produces the panchangam of one day. *panchangam.Assembler
// satisfies it.
type DayAssembler interface {
	Assemble(ctx context.Context, date time.Time, loc panchangam.Location) (panchangam.Day, error)
}

// DayError records a date the scan skipped.
type DayError struct {
	Date time.Time
	Err  error
}

func (e DayError) Error() string {
	return fmt.Sprintf("%s: %v", calendar.FormatDate(e.Date), e.Err)
}

func (e DayError) Unwrap() error { return e.Err }

// RuleError records a rule that could not be evaluated on a date.
type RuleError struct {
	Rule string
	Date time.Time
	Err  error
}

func (e RuleError) Error() string {
	return fmt.Sprintf("%s on %s: %v", e.Rule, calendar.FormatDate(e.Date), e.Err)
}

func (e RuleError) Unwrap() error { return e.Err }

// Calendar is the result of one scan.
type Calendar struct {
	ScanID   string
	Region   string
	Location panchangam.Location
	Start    time.Time
	End      time.Time

	// Days holds every assembled day in date order; skipped dates are absent.
	Days []panchangam.Day
	// Occurrences are sorted by date, then catalogue order.
	Occurrences []Occurrence

	Skipped    []DayError
	RuleErrors []RuleError
}

// Day returns the assembled day for date's civil date.
func (c *Calendar) Day(date time.Time) (panchangam.Day, bool) {
	want := calendar.FormatDate(date)
	for _, d := range c.Days {
		if calendar.FormatDate(d.Date) == want {
			return d, true
		}
	}
	return panchangam.Day{}, false
}

// OccurrencesOn returns the festivals on date's civil date.
func (c *Calendar) OccurrencesOn(date time.Time) []Occurrence {
	want := calendar.FormatDate(date)
	var out []Occurrence
	for _, o := range c.Occurrences {
		if calendar.FormatDate(o.Date) == want {
			out = append(out, o)
		}
	}
	return out
}

// Builder scans date ranges for festival occurrences.
type Builder struct {
	assembler DayAssembler
	catalogue atomic.Pointer[Catalogue]
	workers   int

	log     zerolog.Logger
	metrics *telemetry.Metrics
	tracer  *telemetry.Tracer
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithWorkers sets how many days are assembled concurrently.
func WithWorkers(n int) BuilderOption {
	return func(b *Builder) { b.workers = n }
}

// WithBuilderLogger sets the logger.
func WithBuilderLogger(l zerolog.Logger) BuilderOption {
	return func(b *Builder) { b.log = logger.Named(l, "builder") }
}

// WithBuilderMetrics sets the metrics collector.
func WithBuilderMetrics(m *telemetry.Metrics) BuilderOption {
	return func(b *Builder) { b.metrics = m }
}

// WithBuilderTracer sets the span tracer.
func WithBuilderTracer(t *telemetry.Tracer) BuilderOption {
	return func(b *Builder) { b.tracer = t }
}

// NewBuilder creates a builder. The default is four workers.
func NewBuilder(assembler DayAssembler, catalogue *Catalogue, opts ...BuilderOption) (*Builder, error) {
	if assembler == nil {
		return nil, errors.New("nil day assembler")
	}
	if catalogue == nil {
		return nil, errors.New("nil catalogue")
	}

	b := &Builder{
		assembler: assembler,
		workers:   4,
		log:       zerolog.Nop(),
	}
	b.catalogue.Store(catalogue)
	for _, opt := range opts {
		opt(b)
	}
	if b.workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", b.workers)
	}
	return b, nil
}

// Catalogue returns the catalogue new scans use.
func (b *Builder) Catalogue() *Catalogue { return b.catalogue.Load() }

// SetCatalogue swaps the catalogue. Scans already running keep the rules
// they started with. A nil catalogue is ignored.
func (b *Builder) SetCatalogue(c *Catalogue) {
	if c == nil {
		return
	}
	b.catalogue.Store(c)
}

// BuildMonth scans every day of a month.
func (b *Builder) BuildMonth(ctx context.Context, year int, month time.Month, loc panchangam.Location, region string) (*Calendar, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("month %d outside 1-12", month)
	}
	tz, err := b.prepare(loc, region)
	if err != nil {
		return nil, err
	}
	return b.scan(ctx, calendar.MonthDates(year, month, tz), loc, region)
}

// BuildYear scans every day of a year.
func (b *Builder) BuildYear(ctx context.Context, year int, loc panchangam.Location, region string) (*Calendar, error) {
	tz, err := b.prepare(loc, region)
	if err != nil {
		return nil, err
	}
	return b.scan(ctx, calendar.YearDates(year, tz), loc, region)
}

// BuildRange scans the civil dates start through end inclusive at loc and
// evaluates every rule observed in region on each day.
//
// A date that fails to assemble is logged and recorded in Skipped; a rule
// that fails to evaluate is recorded in RuleErrors. Neither stops the scan.
// Only invalid arguments or a cancelled ctx fail the call.
func (b *Builder) BuildRange(ctx context.Context, start, end time.Time, loc panchangam.Location, region string) (*Calendar, error) {
	tz, err := b.prepare(loc, region)
	if err != nil {
		return nil, err
	}
	dates := calendar.DateRange(start, end, tz)
	if len(dates) == 0 {
		return nil, fmt.Errorf("start %s is after end %s", calendar.FormatDate(start), calendar.FormatDate(end))
	}
	if len(dates) > MaxRangeDays {
		return nil, fmt.Errorf("range of %d days exceeds %d", len(dates), MaxRangeDays)
	}
	return b.scan(ctx, dates, loc, region)
}

// prepare validates the scan arguments and loads the location's timezone.
func (b *Builder) prepare(loc panchangam.Location, region string) (*time.Location, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	if !validation.IsRegion(region) {
		return nil, fmt.Errorf("invalid region %q", region)
	}
	return loc.TZ()
}

// scan assembles dates concurrently and evaluates the regional rules on each.
func (b *Builder) scan(ctx context.Context, dates []time.Time, loc panchangam.Location, region string) (cal *Calendar, err error) {
	scanID := uuid.NewString()
	ctx = logger.WithScan(b.log.WithContext(ctx), scanID)
	log := logger.FromContext(ctx)

	ctx, span := b.tracer.StartSpan(ctx, "festival.build_range",
		attribute.String("scan_id", scanID),
		attribute.String("start", calendar.FormatDate(dates[0])),
		attribute.String("end", calendar.FormatDate(dates[len(dates)-1])),
		attribute.String("region", region),
	)
	timer := telemetry.NewTimer()
	defer func() {
		b.metrics.RecordScan(timer.Duration())
		telemetry.EndSpan(span, err)
	}()

	rules := b.catalogue.Load().ForRegion(region)
	log.Info().
		Str("start", calendar.FormatDate(dates[0])).
		Str("end", calendar.FormatDate(dates[len(dates)-1])).
		Str("region", region).
		Int("rules", len(rules)).
		Msg("building festival calendar")
	if !KnownRegion(region) {
		log.Warn().Str("region", region).Msg("region has no state mapping")
	}

	type slot struct {
		day         panchangam.Day
		err         error
		occurrences []Occurrence
		ruleErrors  []RuleError
	}
	slots := make([]slot, len(dates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, date := range dates {
		i, date := i, date
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			day, err := b.assembler.Assemble(gctx, date, loc)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Warn().
					Str("date", calendar.FormatDate(date)).
					Err(err).
					Msg("skipping day")
				slots[i].err = err
				return nil
			}
			slots[i].day = day
			slots[i].occurrences, slots[i].ruleErrors = b.evaluate(rules, date, day)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build %s..%s: %w", calendar.FormatDate(dates[0]), calendar.FormatDate(dates[len(dates)-1]), err)
	}

	cal = &Calendar{
		ScanID:   scanID,
		Region:   region,
		Location: loc,
		Start:    dates[0],
		End:      dates[len(dates)-1],
		Days:     make([]panchangam.Day, 0, len(dates)),
	}
	found := make(map[string]int)
	for i, s := range slots {
		if s.err != nil {
			cal.Skipped = append(cal.Skipped, DayError{Date: dates[i], Err: s.err})
			continue
		}
		cal.Days = append(cal.Days, s.day)
		cal.Occurrences = append(cal.Occurrences, s.occurrences...)
		cal.RuleErrors = append(cal.RuleErrors, s.ruleErrors...)
		for _, o := range s.occurrences {
			found[o.Region]++
		}
	}
	for r, n := range found {
		b.metrics.RecordOccurrences(r, n)
	}

	log.Info().
		Int("days", len(cal.Days)).
		Int("skipped", len(cal.Skipped)).
		Int("occurrences", len(cal.Occurrences)).
		Msg("festival calendar built")

	return cal, nil
}

// evaluate runs every rule against the day assembled for date.
func (b *Builder) evaluate(rules []*Rule, date time.Time, day panchangam.Day) ([]Occurrence, []RuleError) {
	var (
		occurrences []Occurrence
		ruleErrors  []RuleError
	)
	for _, r := range rules {
		ok, err := r.Matches(day)
		switch {
		case err != nil:
			b.metrics.RecordRuleEvaluation("error")
			ruleErrors = append(ruleErrors, RuleError{Rule: r.Name, Date: date, Err: err})
		case ok:
			b.metrics.RecordRuleEvaluation("match")
			occurrences = append(occurrences, NewOccurrence(r, day))
		default:
			b.metrics.RecordRuleEvaluation("no_match")
		}
	}
	return occurrences, ruleErrors
}
