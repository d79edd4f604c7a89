package panchangam

import (
	"fmt"
	"math"
)

// Angular spans of one unit of each classification, in degrees.
const (
	TithiSpan     = 360.0 / TithiCount     // 12°
	NakshatraSpan = 360.0 / NakshatraCount // 13°20′
	YogaSpan      = 360.0 / YogaCount
)

// Resolver converts Sun and Moon longitudes into tithi, nakshatra, yoga and
// karana. It is safe for concurrent use.
type Resolver struct {
	tables Tables
}

// NewResolver creates a resolver over a private copy of tables.
func NewResolver(tables Tables) (*Resolver, error) {
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	return &Resolver{tables: tables.Clone()}, nil
}

// Tithi resolves the lunar day from the Moon-minus-Sun elongation.
// An elongation of exactly 0 is the first instant of tithi 1.
func (r *Resolver) Tithi(sun, moon float64) (TithiElement, error) {
	if err := checkFinite("tithi", sun, moon); err != nil {
		return TithiElement{}, err
	}

	ap := divide(normalize(moon-sun), TithiSpan, TithiCount)
	return TithiElement{
		AngularProgress: ap,
		Paksha:          PakshaOf(ap.Index),
		Name:            TithiName(ap.Index),
		Title:           fmt.Sprintf("%s %s", PakshaOf(ap.Index), r.tables.TithiNames[ap.Index-1]),
	}, nil
}

// Nakshatra resolves the lunar mansion from the Moon's longitude.
func (r *Resolver) Nakshatra(moon float64) (NamedElement, error) {
	if err := checkFinite("nakshatra", moon); err != nil {
		return NamedElement{}, err
	}

	ap := divide(normalize(moon), NakshatraSpan, NakshatraCount)
	return NamedElement{AngularProgress: ap, Name: r.tables.NakshatraNames[ap.Index-1]}, nil
}

// Yoga resolves the luni-solar yoga from the sum of both longitudes.
func (r *Resolver) Yoga(sun, moon float64) (NamedElement, error) {
	if err := checkFinite("yoga", sun, moon); err != nil {
		return NamedElement{}, err
	}

	ap := divide(normalize(sun+moon), YogaSpan, YogaCount)
	return NamedElement{AngularProgress: ap, Name: r.tables.YogaNames[ap.Index-1]}, nil
}

// Karana resolves the half-tithi from a resolved tithi.
func (r *Resolver) Karana(tithi AngularProgress) (Karana, error) {
	if tithi.Index < 1 || tithi.Index > TithiCount {
		return Karana{}, &ComputationError{Element: "karana", Reason: fmt.Sprintf("tithi index %d outside 1-30", tithi.Index)}
	}
	if math.IsNaN(tithi.Progress) || tithi.Progress < 0 || tithi.Progress >= 1 {
		return Karana{}, &ComputationError{Element: "karana", Reason: fmt.Sprintf("tithi progress %v outside [0,1)", tithi.Progress)}
	}

	half := tithi.Progress * 2
	slot := int(math.Floor(half))

	var name string
	if r.tables.KaranaScheme == KaranaTraditional {
		name = r.traditionalKarana(tithi.Index, slot)
	} else {
		name = r.sourceKarana(tithi.Index, slot)
	}

	return Karana{Name: name, Progress: half - float64(slot)}, nil
}

// Karana name indexes into Tables.KaranaNames.
const (
	karanaShakuni     = 7
	karanaChatushpada = 8
	karanaNaga        = 9
	karanaKimstughna  = 10
)

func (r *Resolver) sourceKarana(index, slot int) string {
	names := r.tables.KaranaNames
	switch index {
	case 1, 6, 11, 16, 21, 26:
		if slot == 0 {
			return names[karanaChatushpada]
		}
		return names[karanaNaga]
	case 2, 7, 12, 17, 22, 27:
		if slot == 0 {
			return names[karanaNaga]
		}
		return names[karanaKimstughna]
	default:
		return names[(2*(index-1)+slot)%7]
	}
}

func (r *Resolver) traditionalKarana(index, slot int) string {
	names := r.tables.KaranaNames
	// k counts half-tithis from new moon, 0..59
	switch k := 2*(index-1) + slot; k {
	case 0:
		return names[karanaKimstughna]
	case 57:
		return names[karanaShakuni]
	case 58:
		return names[karanaChatushpada]
	case 59:
		return names[karanaNaga]
	default:
		return names[(k-1)%7]
	}
}

// PakshaOf returns the fortnight of a tithi index.
func PakshaOf(index int) Paksha {
	if index <= 15 {
		return Shukla
	}
	return Krishna
}

// TithiName returns "Shukla n" for tithis 1-15 and "Krishna n-15" otherwise.
func TithiName(index int) string {
	if index <= 15 {
		return fmt.Sprintf("%s %d", Shukla, index)
	}
	return fmt.Sprintf("%s %d", Krishna, index-15)
}

func checkFinite(element string, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &ComputationError{Element: element, Reason: fmt.Sprintf("non-finite longitude %v", v)}
		}
	}
	return nil
}

// normalize maps a finite angle to [0,360).
func normalize(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		d = 0
	}
	return d
}

// divide splits an angle in [0,360) into count units of span degrees.
func divide(deg, span float64, count int) AngularProgress {
	raw := deg / span
	whole := math.Floor(raw)
	idx := int(whole)
	progress := raw - whole
	// deg just below 360 can round raw up to count
	if idx >= count {
		idx = count - 1
		progress = math.Nextafter(1, 0)
	}
	return AngularProgress{Index: idx + 1, Progress: progress}
}
