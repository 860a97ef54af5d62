package catalog

import (
	"math"
	"testing"
)

func sampleRecords() []Exercise {
	return []Exercise{
		{Name: "Push-ups", Area: "Upper", Difficulty: 3},
		{Name: "Squats", Area: "Legs", Difficulty: 4},
		{Name: "Crunches", Area: "Abs", Difficulty: 2},
		{Name: "Pull-ups", Area: "Upper", Difficulty: 5},
		{Name: "Lunges", Area: "Legs", Difficulty: 3},
		{Name: "Plank", Area: "Abs", Difficulty: 4},
	}
}

// TestNewValid verifies a well-formed catalog constructs and exposes its
// records.
func TestNewValid(t *testing.T) {
	cat, err := New(sampleRecords())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Len() != 6 {
		t.Errorf("Len = %d, want 6", cat.Len())
	}
	ex, ok := cat.Lookup("Squats")
	if !ok {
		t.Fatal("Lookup(Squats) not found")
	}
	if ex.Area != "Legs" || ex.Difficulty != 4 {
		t.Errorf("Squats = %+v, want Legs/4", ex)
	}
}

// TestNewRejectsInvalid verifies structural validation fails eagerly at
// construction.
func TestNewRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		records []Exercise
	}{
		{"empty", nil},
		{"blank name", []Exercise{{Name: "", Area: "Legs", Difficulty: 3}}},
		{"blank area", []Exercise{{Name: "Squats", Area: "", Difficulty: 3}}},
		{"NaN difficulty", []Exercise{{Name: "Squats", Area: "Legs", Difficulty: math.NaN()}}},
		{"duplicate name", []Exercise{
			{Name: "Squats", Area: "Legs", Difficulty: 3},
			{Name: "Squats", Area: "Abs", Difficulty: 4},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.records); err == nil {
				t.Errorf("New(%s) succeeded, want error", tt.name)
			}
		})
	}
}

// TestDefensiveCopy verifies mutating the source slice after construction
// cannot be observed through the catalog.
func TestDefensiveCopy(t *testing.T) {
	records := sampleRecords()
	cat, err := New(records)
	if err != nil {
		t.Fatal(err)
	}

	records[0].Name = "Mutated"

	if _, ok := cat.Lookup("Push-ups"); !ok {
		t.Error("catalog observed external mutation of source records")
	}
}

// TestAreasFirstSeenOrder verifies areas come back in the order they first
// appear in the records, which the quota contract depends on.
func TestAreasFirstSeenOrder(t *testing.T) {
	cat, err := New(sampleRecords())
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"Upper", "Legs", "Abs"}
	got := cat.Areas()
	if len(got) != len(want) {
		t.Fatalf("Areas = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Areas[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestByArea verifies per-area subsets keep catalog order.
func TestByArea(t *testing.T) {
	cat, err := New(sampleRecords())
	if err != nil {
		t.Fatal(err)
	}

	legs := cat.ByArea("Legs")
	if len(legs) != 2 {
		t.Fatalf("ByArea(Legs) returned %d records, want 2", len(legs))
	}
	if legs[0].Name != "Squats" || legs[1].Name != "Lunges" {
		t.Errorf("ByArea(Legs) = %v, want [Squats Lunges]", legs)
	}
	if got := cat.ByArea("Arms"); len(got) != 0 {
		t.Errorf("ByArea(Arms) = %v, want empty", got)
	}
}

// TestMeanDifficulty verifies placeholder entries, unknown names, and
// duplicates are excluded from the mean, and that no valid names yield 0.
func TestMeanDifficulty(t *testing.T) {
	cat, err := New(sampleRecords())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		names []string
		want  float64
	}{
		{"simple", []string{"Push-ups", "Pull-ups"}, 4},
		{"skips placeholders", []string{"Squats", "", "Lunges", ""}, 3.5},
		{"skips unknown", []string{"Squats", "Nonexistent"}, 4},
		{"dedupes", []string{"Squats", "Squats", "Lunges"}, 3.5},
		{"empty", nil, 0},
		{"only placeholders", []string{"", ""}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cat.MeanDifficulty(tt.names); got != tt.want {
				t.Errorf("MeanDifficulty(%v) = %v, want %v", tt.names, got, tt.want)
			}
		})
	}
}

// TestAreaSummary verifies per-area statistics in first-seen order.
func TestAreaSummary(t *testing.T) {
	cat, err := New(sampleRecords())
	if err != nil {
		t.Fatal(err)
	}

	summary := cat.AreaSummary()
	if len(summary) != 3 {
		t.Fatalf("summary has %d areas, want 3", len(summary))
	}

	upper := summary[0]
	if upper.Area != "Upper" {
		t.Fatalf("summary[0].Area = %q, want Upper", upper.Area)
	}
	if upper.Count != 2 || upper.MeanDifficulty != 4 || upper.MinDifficulty != 3 || upper.MaxDifficulty != 5 {
		t.Errorf("Upper stats = %+v, want count=2 mean=4 min=3 max=5", upper)
	}
}

// TestFilterByDifficulty verifies range filtering is inclusive on both ends.
func TestFilterByDifficulty(t *testing.T) {
	cat, err := New(sampleRecords())
	if err != nil {
		t.Fatal(err)
	}

	got := cat.FilterByDifficulty(3, 4)
	if len(got) != 4 {
		t.Fatalf("FilterByDifficulty(3,4) returned %d records, want 4", len(got))
	}
	for _, ex := range got {
		if ex.Difficulty < 3 || ex.Difficulty > 4 {
			t.Errorf("exercise %s has difficulty %v outside [3,4]", ex.Name, ex.Difficulty)
		}
	}
}
