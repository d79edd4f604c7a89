package panchangam

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// Error Types
// =============================================================================
//
// The resolver and partitioner fail fast with these errors; they never fall
// back to placeholder values. Provider failures are not wrapped here: they
// reach the caller as *ephemeris.UnavailableError.

// ErrComputation matches every ComputationError via errors.Is.
var ErrComputation = errors.New("panchangam computation failed")

// ErrNoDaylight matches every NoDaylightError via errors.Is.
var ErrNoDaylight = errors.New("no daylight")

// ComputationError is returned for non-finite or out-of-domain astronomical input.
type ComputationError struct {
	Element string // tithi, nakshatra, yoga, karana
	Reason  string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("compute %s: %s", e.Element, e.Reason)
}

// Is reports ErrComputation as a match.
func (e *ComputationError) Is(target error) bool { return target == ErrComputation }

// NoDaylightError is returned when sunrise is not strictly before sunset,
// or when the provider reports that the sun does not rise or set at all.
type NoDaylightError struct {
	Sunrise time.Time
	Sunset  time.Time
	Err     error // provider cause, e.g. ephemeris.ErrNoSunrise
}

func (e *NoDaylightError) Error() string {
	if e.Err != nil {
		return "no daylight: " + e.Err.Error()
	}
	if e.Sunrise.IsZero() || e.Sunset.IsZero() {
		return "no daylight: missing sunrise or sunset"
	}
	return fmt.Sprintf("no daylight: sunrise %s is not before sunset %s",
		e.Sunrise.Format(time.RFC3339), e.Sunset.Format(time.RFC3339))
}

// Is reports ErrNoDaylight as a match.
func (e *NoDaylightError) Is(target error) bool { return target == ErrNoDaylight }

func (e *NoDaylightError) Unwrap() error { return e.Err }

// IsComputation checks if an error is a computation error.
func IsComputation(err error) bool {
	return errors.Is(err, ErrComputation)
}

// IsNoDaylight checks if an error is a no-daylight error.
func IsNoDaylight(err error) bool {
	return errors.Is(err, ErrNoDaylight)
}
