package catalog

import (
	"fmt"
	"math"
	"slices"
)

// Exercise is one catalog row: a named movement tagged with a muscle-group
// area and a numeric difficulty score.
type Exercise struct {
	Name       string  `json:"exercise"`
	Area       string  `json:"area"`
	Difficulty float64 `json:"difficulty"`
}

// Catalog is an immutable, validated collection of exercises. It owns a
// private copy of the records handed to New, so callers may mutate their
// slice afterwards without affecting allocations already in flight.
//
// Exercise names are unique within a catalog; this makes difficulty lookup
// by name unambiguous even when areas overlap in content.
type Catalog struct {
	records []Exercise
	byName  map[string]int
	areas   []string // first-seen order
	byArea  map[string][]int
}

// New validates records and builds a Catalog. It fails on an empty input,
// blank names or areas, non-finite difficulties, and duplicate names.
func New(records []Exercise) (*Catalog, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("catalog: no exercises")
	}

	c := &Catalog{
		records: slices.Clone(records),
		byName:  make(map[string]int, len(records)),
		byArea:  make(map[string][]int),
	}

	for i, rec := range c.records {
		if rec.Name == "" {
			return nil, fmt.Errorf("catalog: row %d: empty exercise name", i)
		}
		if rec.Area == "" {
			return nil, fmt.Errorf("catalog: row %d (%s): empty area", i, rec.Name)
		}
		if math.IsNaN(rec.Difficulty) || math.IsInf(rec.Difficulty, 0) {
			return nil, fmt.Errorf("catalog: row %d (%s): difficulty is not a finite number", i, rec.Name)
		}
		if _, dup := c.byName[rec.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate exercise name %q", rec.Name)
		}
		c.byName[rec.Name] = i
		if _, seen := c.byArea[rec.Area]; !seen {
			c.areas = append(c.areas, rec.Area)
		}
		c.byArea[rec.Area] = append(c.byArea[rec.Area], i)
	}

	return c, nil
}

// Len returns the number of exercises.
func (c *Catalog) Len() int {
	return len(c.records)
}

// At returns the exercise at index i.
func (c *Catalog) At(i int) Exercise {
	return c.records[i]
}

// Exercises returns a copy of all records in catalog order.
func (c *Catalog) Exercises() []Exercise {
	return slices.Clone(c.records)
}

// Areas returns the distinct area names in first-seen order. The order is
// part of the contract: quota remainder distribution depends on it.
func (c *Catalog) Areas() []string {
	return slices.Clone(c.areas)
}

// HasArea reports whether the catalog contains the given area.
func (c *Catalog) HasArea(area string) bool {
	_, ok := c.byArea[area]
	return ok
}

// ByArea returns the exercises tagged with the given area, in catalog order.
// Unknown areas yield an empty slice.
func (c *Catalog) ByArea(area string) []Exercise {
	idx := c.byArea[area]
	out := make([]Exercise, len(idx))
	for i, j := range idx {
		out[i] = c.records[j]
	}
	return out
}

// Lookup returns the exercise with the given name.
func (c *Catalog) Lookup(name string) (Exercise, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Exercise{}, false
	}
	return c.records[i], true
}

// MeanDifficulty averages the difficulty of the named exercises. Placeholder
// (empty) entries, unknown names, and repeated names are skipped; an input
// with no valid names yields 0.
func (c *Catalog) MeanDifficulty(names []string) float64 {
	var sum float64
	var n int
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		i, ok := c.byName[name]
		if !ok {
			continue
		}
		sum += c.records[i].Difficulty
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// AreaStats summarizes the exercises available for one area.
type AreaStats struct {
	Area           string  `json:"area"`
	Count          int     `json:"count"`
	MeanDifficulty float64 `json:"mean_difficulty"`
	MinDifficulty  float64 `json:"min_difficulty"`
	MaxDifficulty  float64 `json:"max_difficulty"`
}

// AreaSummary returns per-area statistics in first-seen area order.
func (c *Catalog) AreaSummary() []AreaStats {
	out := make([]AreaStats, 0, len(c.areas))
	for _, area := range c.areas {
		stats := AreaStats{Area: area, MinDifficulty: math.Inf(1), MaxDifficulty: math.Inf(-1)}
		var sum float64
		for _, j := range c.byArea[area] {
			d := c.records[j].Difficulty
			sum += d
			stats.MinDifficulty = math.Min(stats.MinDifficulty, d)
			stats.MaxDifficulty = math.Max(stats.MaxDifficulty, d)
			stats.Count++
		}
		stats.MeanDifficulty = sum / float64(stats.Count)
		out = append(out, stats)
	}
	return out
}

// FilterByDifficulty returns all exercises whose difficulty lies in
// [min, max], in catalog order.
func (c *Catalog) FilterByDifficulty(min, max float64) []Exercise {
	var out []Exercise
	for _, rec := range c.records {
		if rec.Difficulty >= min && rec.Difficulty <= max {
			out = append(out, rec)
		}
	}
	return out
}
