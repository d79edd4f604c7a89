package panchangam

import (
	"fmt"
	"time"
)

// Partitioner divides daylight into the weekday-dependent inauspicious
// segments, planetary horas and Gowri periods. It is safe for concurrent use.
type Partitioner struct {
	tables Tables
}

// NewPartitioner creates a partitioner over a private copy of tables.
func NewPartitioner(tables Tables) (*Partitioner, error) {
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	return &Partitioner{tables: tables.Clone()}, nil
}

// split divides [start, end) into n contiguous intervals. Boundaries are
// computed from start so rounding never opens a gap.
func split(start, end time.Time, n int) ([]TimeInterval, error) {
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return nil, &NoDaylightError{Sunrise: start, Sunset: end}
	}

	span := int64(end.Sub(start))
	out := make([]TimeInterval, n)
	prev := start
	for k := 1; k <= n; k++ {
		next := end
		if k < n {
			next = start.Add(time.Duration(span * int64(k) / int64(n)))
		}
		out[k-1] = TimeInterval{Start: prev, End: next}
		prev = next
	}
	return out, nil
}

// Segments returns the eight equal divisions of [sunrise, sunset).
func (p *Partitioner) Segments(sunrise, sunset time.Time) ([SegmentCount]TimeInterval, error) {
	var out [SegmentCount]TimeInterval
	parts, err := split(sunrise, sunset, SegmentCount)
	if err != nil {
		return out, err
	}
	copy(out[:], parts)
	return out, nil
}

// Inauspicious selects Rahu Kalam, Yama Gandam and Gulikai Kalam for an ISO
// weekday (Monday=0).
func (p *Partitioner) Inauspicious(sunrise, sunset time.Time, weekday int) (InauspiciousPeriods, error) {
	if weekday < 0 || weekday > 6 {
		return InauspiciousPeriods{}, fmt.Errorf("weekday %d outside 0-6", weekday)
	}
	seg, err := p.Segments(sunrise, sunset)
	if err != nil {
		return InauspiciousPeriods{}, err
	}

	return InauspiciousPeriods{
		RahuKalam:    seg[p.tables.RahuKalam[weekday]-1],
		YamaGandam:   seg[p.tables.YamaGandam[weekday]-1],
		GulikaiKalam: seg[p.tables.GulikaiKalam[weekday]-1],
	}, nil
}

// Horas divides [sunrise, sunset) into twelve planetary hours numbered 1-12,
// starting the planet cycle at its first entry.
func (p *Partitioner) Horas(sunrise, sunset time.Time) ([HoraCount]Hora, error) {
	return p.horas(sunrise, sunset, 0)
}

// NightHoras divides [sunset, nextSunrise) into horas 13-24, continuing the
// planet cycle from the day horas.
func (p *Partitioner) NightHoras(sunset, nextSunrise time.Time) ([HoraCount]Hora, error) {
	return p.horas(sunset, nextSunrise, HoraCount)
}

func (p *Partitioner) horas(start, end time.Time, offset int) ([HoraCount]Hora, error) {
	var out [HoraCount]Hora
	parts, err := split(start, end, HoraCount)
	if err != nil {
		return out, err
	}

	planets := p.tables.HoraPlanets
	for i, iv := range parts {
		n := offset + i
		out[i] = Hora{
			Number:       n + 1,
			Planet:       planets[n%len(planets)],
			TimeInterval: iv,
		}
	}
	return out, nil
}

// Gowri labels the eight equal divisions of [sunrise, sunset) with the
// Gowri Panchangam names in table order.
func (p *Partitioner) Gowri(sunrise, sunset time.Time) ([SegmentCount]GowriPeriod, error) {
	var out [SegmentCount]GowriPeriod
	seg, err := p.Segments(sunrise, sunset)
	if err != nil {
		return out, err
	}

	for i, iv := range seg {
		g := p.tables.Gowri[i]
		out[i] = GowriPeriod{Name: g.Name, Auspicious: g.Auspicious, TimeInterval: iv}
	}
	return out, nil
}
