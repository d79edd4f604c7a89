package panchangam

import (
	"math"
	"testing"
)

func newTestResolver(t *testing.T, scheme KaranaScheme) *Resolver {
	t.Helper()
	tables := DefaultTables()
	tables.KaranaScheme = scheme
	r, err := NewResolver(tables)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}
	return r
}

func TestResolver_Tithi(t *testing.T) {
	r := newTestResolver(t, KaranaSource)

	tests := []struct {
		name         string
		sun, moon    float64
		wantIndex    int
		wantProgress float64
		wantPaksha   Paksha
		wantName     string
		wantTitle    string
	}{
		{"new moon starts tithi 1", 120, 120, 1, 0, Shukla, "Shukla 1", "Shukla Pratipada"},
		{"wrapped conjunction", 10, 370, 1, 0, Shukla, "Shukla 1", "Shukla Pratipada"},
		{"mid tithi 6", 335, 45, 6, 70.0/12 - 5, Shukla, "Shukla 6", "Shukla Shashthi"},
		{"full moon", 0, 174, 15, 0.5, Shukla, "Shukla 15", "Shukla Purnima"},
		{"first of waning", 0, 180, 16, 0, Krishna, "Krishna 1", "Krishna Pratipada"},
		{"krishna chaturdashi", 0, 342, 29, 0.5, Krishna, "Krishna 14", "Krishna Chaturdashi"},
		{"just before new moon", 100, 99.5, 30, 359.5/12 - 29, Krishna, "Krishna 15", "Krishna Amavasya"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Tithi(tt.sun, tt.moon)
			if err != nil {
				t.Fatalf("Tithi() error = %v", err)
			}
			if got.Index != tt.wantIndex {
				t.Errorf("Index = %d, want %d", got.Index, tt.wantIndex)
			}
			if math.Abs(got.Progress-tt.wantProgress) > 1e-9 {
				t.Errorf("Progress = %v, want %v", got.Progress, tt.wantProgress)
			}
			if got.Paksha != tt.wantPaksha {
				t.Errorf("Paksha = %q, want %q", got.Paksha, tt.wantPaksha)
			}
			if got.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", got.Name, tt.wantName)
			}
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
		})
	}
}

func TestResolver_Nakshatra(t *testing.T) {
	r := newTestResolver(t, KaranaSource)

	tests := []struct {
		moon      float64
		wantIndex int
		wantName  string
	}{
		{0, 1, "Ashwini"},
		{13.3, 1, "Ashwini"},
		{45, 4, "Rohini"},
		{201, 16, "Vishakha"},
		{350, 27, "Revati"},
		{-10, 27, "Revati"},
		{math.Nextafter(360, 0), 27, "Revati"},
	}

	for _, tt := range tests {
		got, err := r.Nakshatra(tt.moon)
		if err != nil {
			t.Fatalf("Nakshatra(%v) error = %v", tt.moon, err)
		}
		if got.Index != tt.wantIndex || got.Name != tt.wantName {
			t.Errorf("Nakshatra(%v) = %d %q, want %d %q", tt.moon, got.Index, got.Name, tt.wantIndex, tt.wantName)
		}
	}

	got, _ := r.Nakshatra(0)
	if got.Progress != 0 {
		t.Errorf("Nakshatra(0).Progress = %v, want 0", got.Progress)
	}
}

func TestResolver_Yoga(t *testing.T) {
	r := newTestResolver(t, KaranaSource)

	tests := []struct {
		sun, moon float64
		wantIndex int
		wantName  string
	}{
		{0, 0, 1, "Vishkambha"},
		{335, 45, 2, "Preeti"},
		{180, 170, 27, "Vaidhriti"},
		{205, 205, 4, "Saubhagya"},
	}

	for _, tt := range tests {
		got, err := r.Yoga(tt.sun, tt.moon)
		if err != nil {
			t.Fatalf("Yoga(%v, %v) error = %v", tt.sun, tt.moon, err)
		}
		if got.Index != tt.wantIndex || got.Name != tt.wantName {
			t.Errorf("Yoga(%v, %v) = %d %q, want %d %q", tt.sun, tt.moon, got.Index, got.Name, tt.wantIndex, tt.wantName)
		}
	}
}

func TestResolver_Ranges(t *testing.T) {
	r := newTestResolver(t, KaranaSource)

	for sun := 0.0; sun < 360; sun += 7.3 {
		for moon := 0.0; moon < 360; moon += 3.1 {
			tithi, err := r.Tithi(sun, moon)
			if err != nil {
				t.Fatalf("Tithi(%v, %v) error = %v", sun, moon, err)
			}
			nak, _ := r.Nakshatra(moon)
			yoga, _ := r.Yoga(sun, moon)

			for _, c := range []struct {
				name string
				ap   AngularProgress
				max  int
			}{
				{"tithi", tithi.AngularProgress, TithiCount},
				{"nakshatra", nak.AngularProgress, NakshatraCount},
				{"yoga", yoga.AngularProgress, YogaCount},
			} {
				if c.ap.Index < 1 || c.ap.Index > c.max {
					t.Fatalf("%s(%v, %v).Index = %d, outside [1,%d]", c.name, sun, moon, c.ap.Index, c.max)
				}
				if c.ap.Progress < 0 || c.ap.Progress >= 1 {
					t.Fatalf("%s(%v, %v).Progress = %v, outside [0,1)", c.name, sun, moon, c.ap.Progress)
				}
			}
		}
	}
}

func TestResolver_NonFinite(t *testing.T) {
	r := newTestResolver(t, KaranaSource)
	inputs := []float64{math.NaN(), math.Inf(1), math.Inf(-1)}

	for _, bad := range inputs {
		if _, err := r.Tithi(bad, 10); !IsComputation(err) {
			t.Errorf("Tithi(%v, 10) error = %v, want ComputationError", bad, err)
		}
		if _, err := r.Tithi(10, bad); !IsComputation(err) {
			t.Errorf("Tithi(10, %v) error = %v, want ComputationError", bad, err)
		}
		if _, err := r.Nakshatra(bad); !IsComputation(err) {
			t.Errorf("Nakshatra(%v) error = %v, want ComputationError", bad, err)
		}
		if _, err := r.Yoga(10, bad); !IsComputation(err) {
			t.Errorf("Yoga(10, %v) error = %v, want ComputationError", bad, err)
		}
	}

	if _, err := r.Karana(AngularProgress{Index: 0}); !IsComputation(err) {
		t.Errorf("Karana(index 0) error = %v, want ComputationError", err)
	}
	if _, err := r.Karana(AngularProgress{Index: 3, Progress: math.NaN()}); !IsComputation(err) {
		t.Errorf("Karana(NaN progress) error = %v, want ComputationError", err)
	}
}

func TestResolver_KaranaSource(t *testing.T) {
	r := newTestResolver(t, KaranaSource)

	tests := []struct {
		index    int
		progress float64
		want     string
	}{
		{1, 0.2, "Chatushpada"},
		{1, 0.7, "Naga"},
		{2, 0.1, "Naga"},
		{2, 0.9, "Kimstughna"},
		{3, 0.0, "Garija"},
		{3, 0.5, "Vanija"},
		{15, 0.0, "Bava"},
		{16, 0.3, "Chatushpada"},
		{27, 0.6, "Kimstughna"},
		{30, 0.6, "Taitila"},
	}

	for _, tt := range tests {
		got, err := r.Karana(AngularProgress{Index: tt.index, Progress: tt.progress})
		if err != nil {
			t.Fatalf("Karana(%d, %v) error = %v", tt.index, tt.progress, err)
		}
		if got.Name != tt.want {
			t.Errorf("Karana(%d, %v) = %q, want %q", tt.index, tt.progress, got.Name, tt.want)
		}
	}
}

func TestResolver_KaranaTraditional(t *testing.T) {
	r := newTestResolver(t, KaranaTraditional)

	tests := []struct {
		index    int
		progress float64
		want     string
	}{
		{1, 0.2, "Kimstughna"},
		{1, 0.7, "Bava"},
		{2, 0.1, "Balava"},
		{15, 0.0, "Vishti"},
		{29, 0.8, "Shakuni"},
		{30, 0.1, "Chatushpada"},
		{30, 0.9, "Naga"},
	}

	for _, tt := range tests {
		got, err := r.Karana(AngularProgress{Index: tt.index, Progress: tt.progress})
		if err != nil {
			t.Fatalf("Karana(%d, %v) error = %v", tt.index, tt.progress, err)
		}
		if got.Name != tt.want {
			t.Errorf("Karana(%d, %v) = %q, want %q", tt.index, tt.progress, got.Name, tt.want)
		}
	}

	// Over one lunar month each moving karana occurs 8 times, each fixed one once
	counts := map[string]int{}
	for idx := 1; idx <= TithiCount; idx++ {
		for _, p := range []float64{0.25, 0.75} {
			k, _ := r.Karana(AngularProgress{Index: idx, Progress: p})
			counts[k.Name]++
		}
	}
	names := DefaultTables().KaranaNames
	for i, name := range names {
		want := 8
		if i >= 7 {
			want = 1
		}
		if counts[name] != want {
			t.Errorf("count[%s] = %d, want %d", name, counts[name], want)
		}
	}
}

func TestResolver_KaranaProgress(t *testing.T) {
	r := newTestResolver(t, KaranaSource)

	tests := []struct {
		progress float64
		want     float64
	}{
		{0, 0},
		{0.25, 0.5},
		{0.5, 0},
		{0.7, 0.4},
	}
	for _, tt := range tests {
		got, err := r.Karana(AngularProgress{Index: 4, Progress: tt.progress})
		if err != nil {
			t.Fatalf("Karana() error = %v", err)
		}
		if math.Abs(got.Progress-tt.want) > 1e-9 {
			t.Errorf("Karana(progress %v).Progress = %v, want %v", tt.progress, got.Progress, tt.want)
		}
	}
}

func TestResolver_IsolatedTables(t *testing.T) {
	tables := DefaultTables()
	r, err := NewResolver(tables)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}
	tables.NakshatraNames[0] = "Mutated"

	got, _ := r.Nakshatra(1)
	if got.Name != "Ashwini" {
		t.Errorf("Nakshatra(1).Name = %q after caller mutation, want Ashwini", got.Name)
	}
}

func TestAngularProgress_Percentage(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{0.5, 50},
		{0.1234, 12.34},
		{0.99999, 100},
	}
	for _, tt := range tests {
		if got := (AngularProgress{Index: 1, Progress: tt.in}).Percentage(); got != tt.want {
			t.Errorf("Percentage(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTithiElement_NumberInPaksha(t *testing.T) {
	for _, tt := range []struct{ index, want int }{{1, 1}, {15, 15}, {16, 1}, {30, 15}} {
		te := TithiElement{AngularProgress: AngularProgress{Index: tt.index}}
		if got := te.NumberInPaksha(); got != tt.want {
			t.Errorf("NumberInPaksha(%d) = %d, want %d", tt.index, got, tt.want)
		}
	}
}
