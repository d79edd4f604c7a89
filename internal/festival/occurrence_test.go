package festival

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestOccurrenceID(t *testing.T) {
	a := OccurrenceID("Diwali", "2024-11-01", RegionAll)
	b := OccurrenceID("Diwali", "2024-11-01", RegionAll)
	if a != b {
		t.Errorf("OccurrenceID not deterministic: %s != %s", a, b)
	}
	if a.Version() != 5 {
		t.Errorf("Version() = %d, want 5", a.Version())
	}

	others := []uuid.UUID{
		OccurrenceID("Diwali", "2024-11-02", RegionAll),
		OccurrenceID("Diwali", "2024-11-01", "TN"),
		OccurrenceID("Holi", "2024-11-01", RegionAll),
	}
	for _, o := range others {
		if o == a {
			t.Errorf("OccurrenceID collision: %s", o)
		}
	}
}

func TestNewOccurrence(t *testing.T) {
	day := tithiDay(t, 15)

	tests := []struct {
		name     string
		rule     Rule
		observed time.Time
		lunar    string
	}{
		{
			name:     "sunrise",
			rule:     Rule{Name: "Purnima Vrat", When: "purnima"},
			observed: day.Sunrise,
			lunar:    "Shukla 15",
		},
		{
			name:     "sunset",
			rule:     Rule{Name: "Purnima", When: "purnima", Observe: ObserveSunset, LunarDate: "Purnima"},
			observed: day.Sunset,
			lunar:    "Purnima",
		},
		{
			name:     "midnight",
			rule:     Rule{Name: "Vigil", When: "purnima", Observe: ObserveMidnight},
			observed: time.Date(2024, 3, 15, 0, 0, 0, 0, ist),
			lunar:    "Shukla 15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRule(tt.rule)
			if err != nil {
				t.Fatalf("NewRule() error = %v", err)
			}
			o := NewOccurrence(r, day)

			if !o.ObservedAt.Equal(tt.observed) {
				t.Errorf("ObservedAt = %v, want %v", o.ObservedAt, tt.observed)
			}
			if o.LunarDate != tt.lunar {
				t.Errorf("LunarDate = %q, want %q", o.LunarDate, tt.lunar)
			}
			if o.ID != OccurrenceID(tt.rule.Name, "2024-03-14", RegionAll) {
				t.Errorf("ID = %s, want the derived ID", o.ID)
			}
			if o.Elements.Tithi.Index != 15 {
				t.Errorf("Elements.Tithi.Index = %d, want 15", o.Elements.Tithi.Index)
			}
			// amrutha, siddha, laabha, dhanam, sugam
			if len(o.AuspiciousTimes) != 5 {
				t.Errorf("len(AuspiciousTimes) = %d, want 5", len(o.AuspiciousTimes))
			}
		})
	}
}

func TestOccurrenceJSON(t *testing.T) {
	c, err := DefaultCatalogue()
	if err != nil {
		t.Fatalf("DefaultCatalogue() error = %v", err)
	}
	diwali, ok := c.Lookup("Diwali")
	if !ok {
		t.Fatal("Lookup(Diwali) not found")
	}
	occ := NewOccurrence(diwali, tithiDay(t, 30))
	data, err := json.Marshal(occ)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if _, ok := fields["Rule"]; ok {
		t.Error("JSON carries the compiled rule")
	}

	want := map[string]any{
		"name":             "Diwali",
		"region":           RegionAll,
		"observe":          "sunset",
		"type":             "religious",
		"importance":       "very_high",
		"description":      "Festival of lights",
		"lunar_date":       "Krishna 15",
		"public_holiday":   true,
		"bank_holiday":     true,
		"optional_holiday": false,
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("JSON[%q] = %v, want %v", k, fields[k], v)
		}
	}
	rituals, ok := fields["rituals"].(map[string]any)
	if !ok || rituals["puja"] != "Lakshmi puja in the evening" {
		t.Errorf("JSON[rituals] = %v", fields["rituals"])
	}
	customs, ok := fields["customs"].(map[string]any)
	if !ok || customs["gifts"] != "Exchange gifts with family" {
		t.Errorf("JSON[customs] = %v", fields["customs"])
	}

	// The occurrence owns its maps
	occ.Rituals["puja"] = "changed"
	if diwali.Rituals["puja"] != "Lakshmi puja in the evening" {
		t.Error("NewOccurrence shares the rule's rituals map")
	}
}
