package ephemeris

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/nathan-osman/go-sunrise"
	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/solar"
)

// Lahiri ayanamsa at J2000.0 in degrees and its precession in degrees per day.
const (
	lahiriAtJ2000    = 23.857092
	precessionPerDay = 50.2388475 / 3600 / 365.25
	j2000            = 2451545.0
)

// AyanamsaFunc returns the tropical-to-sidereal offset in degrees for a
// Julian day.
type AyanamsaFunc func(jd float64) float64

// Lahiri is the Chitrapaksha ayanamsa, linear in time from its J2000 value.
func Lahiri(jd float64) float64 {
	return lahiriAtJ2000 + (jd-j2000)*precessionPerDay
}

// ErrNoSunrise is wrapped when the sun does not rise or set on a date at a
// location, e.g. polar day or night. It is an answer, not a provider
// failure, so it is never wrapped in UnavailableError.
var ErrNoSunrise = errors.New("sun does not rise or set")

// Astronomical is a Provider backed by Meeus' algorithms for apparent solar
// and lunar longitude and by go-sunrise for rise/set times. It holds no
// external data files, so one value can be shared by every worker.
//
// Precision is that of the truncated series (about 0.01° for the Sun and
// 0.003° for the Moon); ΔT is ignored.
type Astronomical struct {
	Ayanamsa AyanamsaFunc
}

// NewAstronomical returns a provider using the Lahiri ayanamsa.
func NewAstronomical() *Astronomical {
	return &Astronomical{Ayanamsa: Lahiri}
}

// LongitudesAt implements Provider.
func (a *Astronomical) LongitudesAt(ctx context.Context, t time.Time) (Longitudes, error) {
	if err := ctx.Err(); err != nil {
		return Longitudes{}, Unavailable("longitudes", err)
	}
	if t.IsZero() {
		return Longitudes{}, Unavailable("longitudes", errors.New("zero instant"))
	}

	jd := julian.TimeToJD(t.UTC())
	T := base.J2000Century(jd)

	sun := solar.ApparentLongitude(T).Deg()

	// Position is referred to the mean equinox; nutation gives the apparent value
	moonLon, _, _ := moonposition.Position(jd)
	dpsi, _ := nutation.Nutation(jd)
	moon := (moonLon + dpsi).Deg()

	ayanamsa := Lahiri
	if a.Ayanamsa != nil {
		ayanamsa = a.Ayanamsa
	}
	offset := ayanamsa(jd)

	lon := Longitudes{
		Sun:  NormalizeDegrees(sun - offset),
		Moon: NormalizeDegrees(moon - offset),
	}
	if math.IsNaN(lon.Sun) || math.IsNaN(lon.Moon) {
		return Longitudes{}, Unavailable("longitudes", fmt.Errorf("non-finite result at %s", t.UTC().Format(time.RFC3339)))
	}
	return lon, nil
}

// SunTimes implements Provider.
func (a *Astronomical) SunTimes(ctx context.Context, date time.Time, lat, lon float64, loc *time.Location) (SunTimes, error) {
	if err := ctx.Err(); err != nil {
		return SunTimes{}, Unavailable("sun times", err)
	}
	if loc == nil {
		loc = time.UTC
	}

	rise, set := sunrise.SunriseSunset(lat, lon, date.Year(), date.Month(), date.Day())
	if rise.IsZero() || set.IsZero() {
		return SunTimes{}, fmt.Errorf("%w on %s at (%.4f, %.4f)",
			ErrNoSunrise, date.Format("2006-01-02"), lat, lon)
	}

	return SunTimes{
		Sunrise: rise.In(loc),
		Sunset:  set.In(loc),
	}, nil
}
