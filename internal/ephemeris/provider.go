// Package ephemeris defines the contract the panchangam engine consumes for
// solar and lunar positions and for sunrise/sunset, and ships an adapter that
// satisfies it from published astronomical algorithms.
package ephemeris

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// Longitudes holds sidereal ecliptic longitudes in degrees, normalised to [0,360).
type Longitudes struct {
	Sun  float64
	Moon float64
}

// SunTimes holds the sunrise and sunset instants of one civil day.
type SunTimes struct {
	Sunrise time.Time
	Sunset  time.Time
}

// Provider supplies the raw astronomical inputs for a day.
//
// Implementations must return instants in the requested location and
// degrees in [0,360), and must report failures (unsupported ranges, missing
// data) as errors rather than zero values. A day on which the sun never
// rises or sets is reported with an error wrapping ErrNoSunrise.
type Provider interface {
	// LongitudesAt returns sidereal Sun and Moon longitudes at instant t.
	LongitudesAt(ctx context.Context, t time.Time) (Longitudes, error)

	// SunTimes returns sunrise and sunset for date's civil day at the given
	// coordinates, expressed in loc.
	SunTimes(ctx context.Context, date time.Time, lat, lon float64, loc *time.Location) (SunTimes, error)
}

// ErrUnavailable matches every UnavailableError via errors.Is.
var ErrUnavailable = errors.New("ephemeris unavailable")

// UnavailableError reports a provider failure. The engine propagates it
// unchanged, so callers can tell it apart from computation errors.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("ephemeris %s: unavailable", e.Op)
	}
	return fmt.Sprintf("ephemeris %s: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Is reports ErrUnavailable as a match.
func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }

// Unavailable wraps err as an UnavailableError for op, leaving errors that
// already are one untouched.
func Unavailable(op string, err error) error {
	var ue *UnavailableError
	if errors.As(err, &ue) {
		return err
	}
	return &UnavailableError{Op: op, Err: err}
}

// IsUnavailable checks if an error is an ephemeris failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// NormalizeDegrees maps any finite angle to [0,360).
func NormalizeDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	// -tiny + 360 rounds to 360 in float64
	if d >= 360 {
		d = 0
	}
	return d
}
