// Package panchangam derives the classical Vedic calendar elements of a
// civil day: tithi, nakshatra, yoga and karana from Sun and Moon longitudes,
// and the weekday-dependent subdivisions of daylight.
package panchangam

import (
	"fmt"
	"time"

	"github.com/zapponejosh/panchangam/internal/validation"
)

// Cycle lengths of the angular classifications.
const (
	TithiCount     = 30
	NakshatraCount = 27
	YogaCount      = 27
	KaranaCount    = 11
	HoraCount      = 12
	SegmentCount   = 8
)

// AngularProgress locates an instant within a cyclic classification.
// Index is 1-based; Progress is in [0,1).
type AngularProgress struct {
	Index    int     `json:"index"`
	Progress float64 `json:"progress"`
}

// Percentage returns progress as a percentage rounded to two decimals.
func (a AngularProgress) Percentage() float64 {
	return float64(int(a.Progress*10000+0.5)) / 100
}

// Paksha is the lunar fortnight.
type Paksha string

const (
	Shukla  Paksha = "Shukla"  // waxing, tithi 1-15
	Krishna Paksha = "Krishna" // waning, tithi 16-30
)

// TithiElement is a resolved tithi.
type TithiElement struct {
	AngularProgress
	Paksha Paksha `json:"paksha"`
	Name   string `json:"name"`  // "Shukla 15", "Krishna 14"
	Title  string `json:"title"` // "Shukla Purnima"
}

// NumberInPaksha returns the tithi number within its fortnight (1-15).
func (t TithiElement) NumberInPaksha() int {
	if t.Index > 15 {
		return t.Index - 15
	}
	return t.Index
}

// NamedElement is a resolved nakshatra or yoga.
type NamedElement struct {
	AngularProgress
	Name string `json:"name"`
}

// Karana is the half-tithi in effect.
type Karana struct {
	Name     string  `json:"name"`
	Progress float64 `json:"progress"`
}

// TimeInterval is a half-open span [Start, End) of daylight.
type TimeInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns End - Start.
func (ti TimeInterval) Duration() time.Duration {
	return ti.End.Sub(ti.Start)
}

// Contains reports whether t falls in [Start, End).
func (ti TimeInterval) Contains(t time.Time) bool {
	return !t.Before(ti.Start) && t.Before(ti.End)
}

// Overlaps reports whether the two intervals share any instant.
func (ti TimeInterval) Overlaps(other TimeInterval) bool {
	return ti.Start.Before(other.End) && other.Start.Before(ti.End)
}

func (ti TimeInterval) String() string {
	return fmt.Sprintf("%s-%s", ti.Start.Format("15:04"), ti.End.Format("15:04"))
}

// InauspiciousPeriods holds the three weekday-dependent daylight segments.
type InauspiciousPeriods struct {
	RahuKalam    TimeInterval `json:"rahu_kalam"`
	YamaGandam   TimeInterval `json:"yama_gandam"`
	GulikaiKalam TimeInterval `json:"gulikai_kalam"`
}

// Hora is one planetary hour.
type Hora struct {
	Number int    `json:"number"` // 1-12 by day, 13-24 by night
	Planet string `json:"planet"`
	TimeInterval
}

// GowriPeriod is one of the eight named Gowri Panchangam divisions.
type GowriPeriod struct {
	Name       string `json:"name"`
	Auspicious bool   `json:"auspicious"`
	TimeInterval
}

// Location identifies where a day is computed.
type Location struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Timezone  string  `json:"timezone" validate:"required,timezone"`
}

// Validate checks coordinate ranges and that Timezone is a loadable IANA name.
func (l Location) Validate() error {
	if err := validation.Struct(l); err != nil {
		return fmt.Errorf("invalid location: %w", err)
	}
	return nil
}

// TZ loads the location's timezone.
func (l Location) TZ() (*time.Location, error) {
	loc, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", l.Timezone, err)
	}
	return loc, nil
}

// Day is the panchangam of one civil day at one location.
//
// A Day is a value: the engine never mutates one after assembly, and the
// fixed-size arrays mean copies share no state.
type Day struct {
	Date     time.Time `json:"date"` // local midnight
	Location Location  `json:"location"`
	Weekday  int       `json:"weekday"` // Monday=0 .. Sunday=6

	Sunrise time.Time `json:"sunrise"`
	Sunset  time.Time `json:"sunset"`

	Tithi     TithiElement `json:"tithi"`
	Nakshatra NamedElement `json:"nakshatra"`
	Yoga      NamedElement `json:"yoga"`
	Karana    Karana       `json:"karana"`

	Inauspicious InauspiciousPeriods       `json:"inauspicious"`
	Horas        [HoraCount]Hora           `json:"horas"`
	Gowri        [SegmentCount]GowriPeriod `json:"gowri"`

	// NightHoras is populated only when HasNightHoras is set.
	HasNightHoras bool            `json:"has_night_horas"`
	NightHoras    [HoraCount]Hora `json:"night_horas"`
}

// IsZero reports whether d was never assembled.
func (d Day) IsZero() bool {
	return d.Tithi.Index == 0 || d.Sunrise.IsZero()
}

// AuspiciousGowri returns the auspicious Gowri periods in order.
func (d Day) AuspiciousGowri() []GowriPeriod {
	var out []GowriPeriod
	for _, g := range d.Gowri {
		if g.Auspicious {
			out = append(out, g)
		}
	}
	return out
}

// HoraAt returns the day or night hora containing t.
func (d Day) HoraAt(t time.Time) (Hora, bool) {
	for _, h := range d.Horas {
		if h.Contains(t) {
			return h, true
		}
	}
	if d.HasNightHoras {
		for _, h := range d.NightHoras {
			if h.Contains(t) {
				return h, true
			}
		}
	}
	return Hora{}, false
}
