package festival

import (
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/zapponejosh/panchangam/internal/calendar"
	"github.com/zapponejosh/panchangam/internal/panchangam"
)

// occurrenceNamespace seeds deterministic occurrence IDs.
var occurrenceNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/zapponejosh/panchangam/occurrence"))

// Elements is the angular state of the day a festival was found on.
type Elements struct {
	Tithi     panchangam.TithiElement `json:"tithi"`
	Nakshatra panchangam.NamedElement `json:"nakshatra"`
	Yoga      panchangam.NamedElement `json:"yoga"`
	Karana    panchangam.Karana       `json:"karana"`
}

// Occurrence is one festival on one date, keyed by date and region.
type Occurrence struct {
	ID         uuid.UUID `json:"id"`
	Rule       *Rule     `json:"-"`
	Name       string    `json:"name"`
	Date       time.Time `json:"date"`
	Region     string    `json:"region"`
	States     []string  `json:"states"`
	ObservedAt time.Time `json:"observed_at"`
	LunarDate  string    `json:"lunar_date"`

	// Classification copied from the rule
	Observe         Observance        `json:"observe"`
	Type            Type              `json:"type"`
	Importance      Importance        `json:"importance"`
	Description     string            `json:"description"`
	PublicHoliday   bool              `json:"public_holiday"`
	BankHoliday     bool              `json:"bank_holiday"`
	OptionalHoliday bool              `json:"optional_holiday"`
	Rituals         map[string]string `json:"rituals"`
	Customs         map[string]string `json:"customs"`

	// AuspiciousTimes are the day's auspicious Gowri periods.
	AuspiciousTimes []panchangam.GowriPeriod `json:"auspicious_times"`
	Elements        Elements                 `json:"elements"`
}

// OccurrenceID derives the stable ID of rule on date in region.
func OccurrenceID(rule, date, region string) uuid.UUID {
	return uuid.NewSHA1(occurrenceNamespace, []byte(rule+"|"+date+"|"+region))
}

// NewOccurrence builds the occurrence of rule on an assembled day.
func NewOccurrence(rule *Rule, day panchangam.Day) Occurrence {
	date := calendar.FormatDate(day.Date)

	lunar := rule.LunarDate
	if lunar == "" {
		lunar = day.Tithi.Name
	}

	return Occurrence{
		ID:              OccurrenceID(rule.Name, date, rule.Region),
		Rule:            rule,
		Name:            rule.Name,
		Date:            day.Date,
		Region:          rule.Region,
		States:          StatesForRegion(rule.Region),
		ObservedAt:      observedAt(rule.Observe, day),
		LunarDate:       lunar,
		Observe:         rule.Observe,
		Type:            rule.Type,
		Importance:      rule.Importance,
		Description:     rule.Description,
		PublicHoliday:   rule.PublicHoliday,
		BankHoliday:     rule.BankHoliday,
		OptionalHoliday: rule.OptionalHoliday,
		Rituals:         maps.Clone(rule.Rituals),
		Customs:         maps.Clone(rule.Customs),
		AuspiciousTimes: day.AuspiciousGowri(),
		Elements: Elements{
			Tithi:     day.Tithi,
			Nakshatra: day.Nakshatra,
			Yoga:      day.Yoga,
			Karana:    day.Karana,
		},
	}
}

// observedAt returns the instant a festival is observed. Midnight is the
// civil midnight that ends the day.
func observedAt(o Observance, day panchangam.Day) time.Time {
	switch o {
	case ObserveSunset:
		return day.Sunset
	case ObserveMidnight:
		return calendar.In(day.Date.AddDate(0, 0, 1), day.Date.Location())
	default:
		return day.Sunrise
	}
}
