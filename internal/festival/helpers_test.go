package festival

import (
	"testing"
	"time"

	"github.com/zapponejosh/panchangam/internal/calendar"
	"github.com/zapponejosh/panchangam/internal/panchangam"
)

var (
	ist     = mustZone("Asia/Kolkata")
	chennai = panchangam.Location{Latitude: 13.0827, Longitude: 80.2707, Timezone: "Asia/Kolkata"}
)

func mustZone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// buildDay assembles a day from fixed longitudes with a 06:00-18:00 daylight.
func buildDay(date time.Time, sun, moon float64) (panchangam.Day, error) {
	tables := panchangam.DefaultTables()
	res, err := panchangam.NewResolver(tables)
	if err != nil {
		return panchangam.Day{}, err
	}
	part, err := panchangam.NewPartitioner(tables)
	if err != nil {
		return panchangam.Day{}, err
	}

	date = calendar.In(date, date.Location())
	day := panchangam.Day{
		Date:     date,
		Location: chennai,
		Weekday:  calendar.ISOWeekday(date),
		Sunrise:  date.Add(6 * time.Hour),
		Sunset:   date.Add(18 * time.Hour),
	}
	if day.Tithi, err = res.Tithi(sun, moon); err != nil {
		return panchangam.Day{}, err
	}
	if day.Nakshatra, err = res.Nakshatra(moon); err != nil {
		return panchangam.Day{}, err
	}
	if day.Yoga, err = res.Yoga(sun, moon); err != nil {
		return panchangam.Day{}, err
	}
	if day.Karana, err = res.Karana(day.Tithi.AngularProgress); err != nil {
		return panchangam.Day{}, err
	}
	if day.Inauspicious, err = part.Inauspicious(day.Sunrise, day.Sunset, day.Weekday); err != nil {
		return panchangam.Day{}, err
	}
	if day.Horas, err = part.Horas(day.Sunrise, day.Sunset); err != nil {
		return panchangam.Day{}, err
	}
	if day.Gowri, err = part.Gowri(day.Sunrise, day.Sunset); err != nil {
		return panchangam.Day{}, err
	}
	return day, nil
}

func mustDay(t *testing.T, date time.Time, sun, moon float64) panchangam.Day {
	t.Helper()
	day, err := buildDay(date, sun, moon)
	if err != nil {
		t.Fatalf("buildDay() error = %v", err)
	}
	return day
}

// tithiMoon returns a moon longitude that puts the middle of tithi index
// against a sun at 0.
func tithiMoon(index int) float64 {
	return float64(index-1)*panchangam.TithiSpan + panchangam.TithiSpan/2
}

// tithiDay returns a day on 2024-03-14 (a Thursday) in tithi index.
func tithiDay(t *testing.T, index int) panchangam.Day {
	t.Helper()
	return mustDay(t, time.Date(2024, 3, 14, 0, 0, 0, 0, ist), 0, tithiMoon(index))
}
