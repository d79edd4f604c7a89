// Package calendar provides civil-date helpers shared by the panchangam
// engine and the festival builder.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO 8601 calendar date layout used throughout the engine.
const DateLayout = "2006-01-02"

// ParseDateString parses a date string in YYYY-MM-DD format.
// The result is midnight UTC; use In to move it into a location.
func ParseDateString(dateStr string) (time.Time, error) {
	return time.Parse(DateLayout, dateStr)
}

// FormatDate formats a date as YYYY-MM-DD
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// In returns local midnight of date's civil day in loc.
// Only the year, month and day of date are used.
func In(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
}

// LocalNoon returns 12:00 of date's civil day in loc.
func LocalNoon(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, loc)
}

// ISOWeekday returns the weekday with Monday=0 through Sunday=6.
func ISOWeekday(date time.Time) int {
	return (int(date.Weekday()) + 6) % 7
}

// isoWeekdayNames is indexed by ISOWeekday.
var isoWeekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WeekdayName returns the English name of an ISO weekday (Monday=0).
func WeekdayName(isoWeekday int) string {
	if isoWeekday < 0 || isoWeekday > 6 {
		return ""
	}
	return isoWeekdayNames[isoWeekday]
}

// ParseWeekday converts an English day name (any case) to an ISO weekday.
func ParseWeekday(name string) (int, error) {
	for i, n := range isoWeekdayNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday: %q", name)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month normalises to the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DateRange returns every civil date from start through end inclusive, at
// midnight in loc. It returns nil when start is after end.
func DateRange(start, end time.Time, loc *time.Location) []time.Time {
	first := In(start, loc)
	last := In(end, loc)
	if first.After(last) {
		return nil
	}

	var dates []time.Time
	// AddDate on the civil fields keeps DST transitions from skipping days
	for d := first; !d.After(last); d = In(d.AddDate(0, 0, 1), loc) {
		dates = append(dates, d)
	}
	return dates
}

// MonthDates returns every date of the month at midnight in loc.
func MonthDates(year int, month time.Month, loc *time.Location) []time.Time {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := time.Date(year, month, DaysInMonth(year, month), 0, 0, 0, 0, loc)
	return DateRange(start, end, loc)
}

// YearDates returns every date of the year at midnight in loc.
func YearDates(year int, loc *time.Location) []time.Time {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, loc)
	return DateRange(start, end, loc)
}
