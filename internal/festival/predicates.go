package festival

import (
	"sort"

	"github.com/zapponejosh/panchangam/internal/panchangam"
)

// predicates maps each special condition to its test.
var predicates = map[string]func(*panchangam.Day) bool{
	// Approximation: true Pradosha also depends on the time relative to sunset.
	"pradosha_kala": func(d *panchangam.Day) bool { return d.Tithi.Index == 13 },

	// TODO: check the 96 minutes before sunrise once Day carries the previous night's horas.
	"brahma_muhurta": func(*panchangam.Day) bool { return true },

	"amavasya": func(d *panchangam.Day) bool { return d.Tithi.Index == 30 },
	"purnima":  func(d *panchangam.Day) bool { return d.Tithi.Index == 15 },
	"ekadashi": func(d *panchangam.Day) bool { return d.Tithi.Index == 11 || d.Tithi.Index == 26 },
}

// Predicates returns the names of the special conditions, sorted.
func Predicates() []string {
	names := make([]string, 0, len(predicates))
	for name := range predicates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsPredicate reports whether name is a special condition.
func IsPredicate(name string) bool {
	_, ok := predicates[name]
	return ok
}
