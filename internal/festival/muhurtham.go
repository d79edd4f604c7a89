package festival

import (
	"slices"

	"github.com/zapponejosh/panchangam/internal/panchangam"
)

// EventType is the kind of undertaking a muhurtham is sought for.
type EventType string

const (
	EventMarriage        EventType = "marriage"
	EventHouseWarming    EventType = "house_warming"
	EventBusinessOpening EventType = "business_opening"
	EventVehiclePurchase EventType = "vehicle_purchase"
	EventGeneral         EventType = "general"
)

// EventRule lists the Gowri periods an event prefers and avoids.
type EventRule struct {
	Preferred []string `json:"preferred_periods"`
	Avoid     []string `json:"avoid_periods"`
	Timing    string   `json:"timing"`
	Duration  string   `json:"duration"`
}

var eventRules = map[EventType]EventRule{
	EventMarriage: {
		Preferred: []string{"amrutha", "siddha", "laabha", "dhanam"},
		Avoid:     []string{"marana", "rogam", "kantaka"},
		Timing:    "Morning or evening",
		Duration:  "2-4 hours",
	},
	EventHouseWarming: {
		Preferred: []string{"amrutha", "siddha", "laabha"},
		Avoid:     []string{"marana", "rogam"},
		Timing:    "Morning",
		Duration:  "1-2 hours",
	},
	EventBusinessOpening: {
		Preferred: []string{"amrutha", "siddha", "laabha", "dhanam"},
		Avoid:     []string{"marana", "rogam"},
		Timing:    "Morning",
		Duration:  "1-2 hours",
	},
	EventVehiclePurchase: {
		Preferred: []string{"amrutha", "siddha", "laabha"},
		Avoid:     []string{"marana", "rogam", "kantaka"},
		Timing:    "Morning",
		Duration:  "1 hour",
	},
	EventGeneral: {
		Preferred: []string{"amrutha", "siddha", "laabha", "dhanam", "sugam"},
		Avoid:     []string{"marana", "rogam", "kantaka"},
		Timing:    "Any auspicious time",
		Duration:  "1-2 hours",
	},
}

var suitability = map[string]string{
	"amrutha": "Excellent",
	"siddha":  "Very Good",
	"laabha":  "Good",
	"dhanam":  "Good",
	"sugam":   "Moderate",
	"marana":  "Avoid",
	"rogam":   "Avoid",
	"kantaka": "Avoid",
}

var recommended = map[string][]string{
	"amrutha": {"All auspicious activities", "Starting new ventures", "Important decisions"},
	"siddha":  {"Spiritual practices", "Learning", "Creative work"},
	"laabha":  {"Financial activities", "Business transactions", "Investments"},
	"dhanam":  {"Charity", "Donations", "Helping others"},
	"sugam":   {"Travel", "Communication", "Social activities"},
}

var avoided = map[string][]string{
	"marana":  {"All important activities", "Starting new projects", "Major decisions"},
	"rogam":   {"Health-related activities", "Medical procedures", "Stressful work"},
	"kantaka": {"Sharp objects", "Cutting activities", "Conflicts"},
}

// RuleFor returns the rule for event. Unknown events get the general rule.
func RuleFor(event EventType) EventRule {
	r, ok := eventRules[event]
	if !ok {
		r = eventRules[EventGeneral]
	}
	return EventRule{
		Preferred: slices.Clone(r.Preferred),
		Avoid:     slices.Clone(r.Avoid),
		Timing:    r.Timing,
		Duration:  r.Duration,
	}
}

// MuhurthamPeriod is one Gowri period suited to an event.
type MuhurthamPeriod struct {
	Name string `json:"name"`
	panchangam.TimeInterval
	Suitability string   `json:"suitability"`
	Recommended []string `json:"recommended_activities"`
	Avoid       []string `json:"avoid_activities"`
}

// Muhurtham returns the day's auspicious Gowri periods that event prefers
// and does not avoid, in daylight order.
func Muhurtham(day panchangam.Day, event EventType) ([]MuhurthamPeriod, error) {
	if day.IsZero() {
		return nil, &RuleEvaluationError{Rule: "muhurtham", Pos: -1, Reason: ErrUnassembledDay.Error()}
	}

	rule := RuleFor(event)
	var periods []MuhurthamPeriod
	for _, g := range day.Gowri {
		name := fold(g.Name)
		if !g.Auspicious || slices.Contains(rule.Avoid, name) || !slices.Contains(rule.Preferred, name) {
			continue
		}
		periods = append(periods, MuhurthamPeriod{
			Name:         g.Name,
			TimeInterval: g.TimeInterval,
			Suitability:  suitabilityOf(name),
			Recommended:  activities(recommended, name, "General activities"),
			Avoid:        activities(avoided, name, "None"),
		})
	}
	return periods, nil
}

func suitabilityOf(name string) string {
	if s, ok := suitability[name]; ok {
		return s
	}
	return "Moderate"
}

func activities(table map[string][]string, name, fallback string) []string {
	if a, ok := table[name]; ok {
		return slices.Clone(a)
	}
	return []string{fallback}
}
