package festival

import (
	"fmt"
	"maps"

	"github.com/zapponejosh/panchangam/internal/panchangam"
	"github.com/zapponejosh/panchangam/internal/validation"
)

// Observance is the part of the day a festival is observed at.
type Observance string

const (
	ObserveSunrise  Observance = "sunrise"
	ObserveSunset   Observance = "sunset"
	ObserveMidnight Observance = "midnight"
)

// Type classifies a festival.
type Type string

const (
	TypeReligious Type = "religious"
	TypeNational  Type = "national"
	TypeRegional  Type = "regional"
	TypeSeasonal  Type = "seasonal"
	TypePersonal  Type = "personal"
)

// Importance ranks a festival.
type Importance string

const (
	ImportanceLow      Importance = "low"
	ImportanceMedium   Importance = "medium"
	ImportanceHigh     Importance = "high"
	ImportanceVeryHigh Importance = "very_high"
)

// RegionAll marks a rule observed in every region.
const RegionAll = "ALL"

// Rule defines when a festival occurs and how it is classified.
type Rule struct {
	Name        string     `yaml:"name" toml:"name" validate:"required"`
	When        string     `yaml:"when" toml:"when" validate:"required"`
	Observe     Observance `yaml:"observe" toml:"observe" validate:"omitempty,oneof=sunrise sunset midnight"`
	Region      string     `yaml:"region" toml:"region" validate:"omitempty,region"`
	Type        Type       `yaml:"type" toml:"type" validate:"omitempty,oneof=religious national regional seasonal personal"`
	Importance  Importance `yaml:"importance" toml:"importance" validate:"omitempty,oneof=low medium high very_high"`
	Description string     `yaml:"description" toml:"description"`
	LunarDate   string     `yaml:"lunar_date" toml:"lunar_date"`

	PublicHoliday   bool `yaml:"public_holiday" toml:"public_holiday"`
	BankHoliday     bool `yaml:"bank_holiday" toml:"bank_holiday"`
	OptionalHoliday bool `yaml:"optional_holiday" toml:"optional_holiday"`

	Rituals map[string]string `yaml:"rituals" toml:"rituals"`
	Customs map[string]string `yaml:"customs" toml:"customs"`

	cond *Condition
}

// NewRule compiles r's condition and fills defaults: observed at sunrise,
// in all regions, religious, medium importance.
func NewRule(r Rule) (*Rule, error) {
	if err := validation.Struct(r); err != nil {
		return nil, fmt.Errorf("rule %q: %w", r.Name, err)
	}
	cond, err := ParseCondition(r.When)
	if err != nil {
		return nil, withRule(err, r.Name)
	}

	out := r
	out.cond = cond
	out.Rituals = maps.Clone(r.Rituals)
	out.Customs = maps.Clone(r.Customs)
	if out.Observe == "" {
		out.Observe = ObserveSunrise
	}
	if out.Region == "" {
		out.Region = RegionAll
	}
	if out.Type == "" {
		out.Type = TypeReligious
	}
	if out.Importance == "" {
		out.Importance = ImportanceMedium
	}
	if out.Description == "" {
		out.Description = "Festival: " + out.Name
	}
	if len(out.Rituals) == 0 {
		out.Rituals = map[string]string{"general": "Follow traditional customs"}
	}
	if len(out.Customs) == 0 {
		out.Customs = map[string]string{"general": "Follow regional traditions"}
	}
	return &out, nil
}

// Condition returns the compiled condition.
func (r *Rule) Condition() *Condition { return r.cond }

// Matches reports whether the rule's condition holds on day. A rule not
// built by NewRule has no compiled condition and always errors.
func (r *Rule) Matches(day panchangam.Day) (bool, error) {
	if r.cond == nil {
		return false, &RuleEvaluationError{
			Rule:      r.Name,
			Condition: r.When,
			Pos:       -1,
			Reason:    "rule was not compiled with NewRule",
		}
	}
	ok, err := r.cond.Eval(day)
	if err != nil {
		return false, withRule(err, r.Name)
	}
	return ok, nil
}

// AppliesTo reports whether the rule is observed in region. Rules for
// RegionAll apply everywhere; a RegionAll query matches only those.
func (r *Rule) AppliesTo(region string) bool {
	return r.Region == RegionAll || r.Region == region
}
