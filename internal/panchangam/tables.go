package panchangam

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/zapponejosh/panchangam/internal/validation"
)

// KaranaScheme selects how the four fixed karanas are placed in the month.
type KaranaScheme string

const (
	// KaranaSource places Chatushpada/Naga on tithis 1,6,11,16,21,26 and
	// Naga/Kimstughna on tithis 2,7,12,17,22,27.
	KaranaSource KaranaScheme = "source"

	// KaranaTraditional places Kimstughna on the first half of Shukla
	// Pratipada and Shakuni, Chatushpada, Naga on the last three halves
	// before new moon.
	KaranaTraditional KaranaScheme = "traditional"
)

// GowriName labels one of the eight Gowri divisions.
type GowriName struct {
	Name       string `yaml:"name" validate:"required"`
	Auspicious bool   `yaml:"auspicious"`
}

// Tables is the static lookup data the resolver and partitioner run on.
// Segment tables are indexed Monday=0..Sunday=6 and hold 1-based segment
// numbers (1-8) of the sunrise-sunset eighths.
//
// Tables are read-only once handed to NewResolver or NewPartitioner; both
// take their own copy.
type Tables struct {
	TithiNames     []string     `yaml:"tithi_names" validate:"len=30,dive,required"`
	NakshatraNames []string     `yaml:"nakshatra_names" validate:"len=27,dive,required"`
	YogaNames      []string     `yaml:"yoga_names" validate:"len=27,dive,required"`
	KaranaNames    []string     `yaml:"karana_names" validate:"len=11,dive,required"`
	KaranaScheme   KaranaScheme `yaml:"karana_scheme" validate:"oneof=source traditional"`

	RahuKalam    []int `yaml:"rahu_kalam" validate:"len=7,dive,min=1,max=8"`
	YamaGandam   []int `yaml:"yama_gandam" validate:"len=7,dive,min=1,max=8"`
	GulikaiKalam []int `yaml:"gulikai_kalam" validate:"len=7,dive,min=1,max=8"`

	HoraPlanets []string    `yaml:"hora_planets" validate:"len=7,dive,required"`
	Gowri       []GowriName `yaml:"gowri" validate:"len=8,dive"`
}

// DefaultTables returns the standard tables.
func DefaultTables() Tables {
	return Tables{
		TithiNames: []string{
			"Pratipada", "Dvitiya", "Tritiya", "Chaturthi", "Panchami",
			"Shashthi", "Saptami", "Ashtami", "Navami", "Dashami",
			"Ekadashi", "Dvadashi", "Trayodashi", "Chaturdashi", "Purnima",
			"Pratipada", "Dvitiya", "Tritiya", "Chaturthi", "Panchami",
			"Shashthi", "Saptami", "Ashtami", "Navami", "Dashami",
			"Ekadashi", "Dvadashi", "Trayodashi", "Chaturdashi", "Amavasya",
		},
		NakshatraNames: []string{
			"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira", "Ardra",
			"Punarvasu", "Pushya", "Ashlesha", "Magha", "Purva Phalguni", "Uttara Phalguni",
			"Hasta", "Chitra", "Swati", "Vishakha", "Anuradha", "Jyeshtha",
			"Mula", "Purva Ashadha", "Uttara Ashadha", "Shravana", "Dhanishtha", "Shatabhisha",
			"Purva Bhadrapada", "Uttara Bhadrapada", "Revati",
		},
		YogaNames: []string{
			"Vishkambha", "Preeti", "Ayushman", "Saubhagya", "Shobhana", "Atiganda",
			"Sukarma", "Dhriti", "Shoola", "Ganda", "Vriddhi", "Dhruva",
			"Vyaghata", "Harshana", "Vajra", "Siddhi", "Vyatipata", "Variyan",
			"Parigha", "Shiva", "Siddha", "Sadhya", "Shubha", "Shukla",
			"Brahma", "Indra", "Vaidhriti",
		},
		// Seven moving karanas followed by the four fixed ones
		KaranaNames: []string{
			"Bava", "Balava", "Kaulava", "Taitila", "Garija", "Vanija", "Vishti",
			"Shakuni", "Chatushpada", "Naga", "Kimstughna",
		},
		KaranaScheme: KaranaSource,

		RahuKalam:    []int{2, 7, 5, 6, 4, 3, 8},
		YamaGandam:   []int{4, 3, 2, 1, 7, 6, 5},
		GulikaiKalam: []int{6, 5, 4, 3, 2, 1, 7},

		HoraPlanets: []string{"Sun", "Venus", "Mercury", "Moon", "Saturn", "Jupiter", "Mars"},
		Gowri: []GowriName{
			{Name: "amrutha", Auspicious: true},
			{Name: "siddha", Auspicious: true},
			{Name: "marana", Auspicious: false},
			{Name: "rogam", Auspicious: false},
			{Name: "laabha", Auspicious: true},
			{Name: "dhanam", Auspicious: true},
			{Name: "sugam", Auspicious: true},
			{Name: "kantaka", Auspicious: false},
		},
	}
}

// Validate checks table sizes and ranges, that no weekday assigns two of
// Rahu/Yama/Gulikai to the same segment, and that Gowri names are unique.
func (t Tables) Validate() error {
	if err := validation.Struct(t); err != nil {
		return fmt.Errorf("invalid tables: %w", err)
	}

	var errs []error
	for wd := 0; wd < 7; wd++ {
		r, y, g := t.RahuKalam[wd], t.YamaGandam[wd], t.GulikaiKalam[wd]
		if r == y || r == g || y == g {
			errs = append(errs, fmt.Errorf("weekday %d: rahu=%d yama=%d gulikai=%d share a segment", wd, r, y, g))
		}
	}

	seen := make(map[string]bool, len(t.Gowri))
	for _, g := range t.Gowri {
		if seen[g.Name] {
			errs = append(errs, fmt.Errorf("gowri name %q listed twice", g.Name))
		}
		seen[g.Name] = true
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid tables: %w", errors.Join(errs...))
	}
	return nil
}

// Clone returns a deep copy.
func (t Tables) Clone() Tables {
	return Tables{
		TithiNames:     slices.Clone(t.TithiNames),
		NakshatraNames: slices.Clone(t.NakshatraNames),
		YogaNames:      slices.Clone(t.YogaNames),
		KaranaNames:    slices.Clone(t.KaranaNames),
		KaranaScheme:   t.KaranaScheme,
		RahuKalam:      slices.Clone(t.RahuKalam),
		YamaGandam:     slices.Clone(t.YamaGandam),
		GulikaiKalam:   slices.Clone(t.GulikaiKalam),
		HoraPlanets:    slices.Clone(t.HoraPlanets),
		Gowri:          slices.Clone(t.Gowri),
	}
}

// LoadTables reads a YAML overlay from path on top of DefaultTables.
// Keys absent from the file keep their default values.
func LoadTables(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("read tables: %w", err)
	}
	return ParseTables(data)
}

// ParseTables decodes a YAML overlay on top of DefaultTables and validates it.
func ParseTables(data []byte) (Tables, error) {
	t := DefaultTables()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tables{}, fmt.Errorf("parse tables: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tables{}, err
	}
	return t, nil
}
