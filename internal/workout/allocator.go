package workout

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/Norris36/conegliano-utilities/internal/catalog"
)

// Placeholder marks a slot the allocator could not fill. Callers detect
// degraded results by the empty string, never by an error.
const Placeholder = ""

// maxAttempts bounds every rejection-sampling loop.
const maxAttempts = 1000

// Status tags how a selection was produced.
type Status int

const (
	// StatusSatisfied means the mean difficulty is within tolerance of the target.
	StatusSatisfied Status = iota
	// StatusRelaxed means the coverage fallback ran and the difficulty
	// tolerance was not enforced.
	StatusRelaxed
	// StatusPartial means the result contains placeholder entries.
	StatusPartial
)

func (s Status) String() string {
	switch s {
	case StatusSatisfied:
		return "satisfied"
	case StatusRelaxed:
		return "relaxed"
	case StatusPartial:
		return "partial"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// StatusFromString is the inverse of Status.String. Unknown strings map to
// StatusPartial, the most conservative reading.
func StatusFromString(s string) Status {
	switch s {
	case "satisfied":
		return StatusSatisfied
	case "relaxed":
		return StatusRelaxed
	default:
		return StatusPartial
	}
}

// MarshalJSON renders the status as its string form.
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON parses the string form produced by MarshalJSON.
func (s *Status) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}
	*s = StatusFromString(str)
	return nil
}

// Result is one selection of exercises. Mean is the achieved mean difficulty
// over the non-placeholder entries; with StatusRelaxed or StatusPartial it
// may lie outside the requested tolerance.
type Result struct {
	Exercises []string `json:"exercises"`
	Mean      float64  `json:"mean"`
	Status    Status   `json:"status"`
}

// Allocator selects exercises from a catalog by bounded rejection sampling.
// It is not safe for concurrent use: the random source is shared between
// calls. Separate goroutines should each construct their own Allocator.
type Allocator struct {
	cat *catalog.Catalog
	rng *rand.Rand
	log *slog.Logger
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithRand sets the random source. Tests inject a fixed-seed generator here
// to make selections deterministic.
func WithRand(rng *rand.Rand) Option {
	return func(a *Allocator) { a.rng = rng }
}

// WithLogger sets the logger used for sampling warnings.
func WithLogger(log *slog.Logger) Option {
	return func(a *Allocator) { a.log = log }
}

// NewAllocator creates an Allocator over the given catalog. Without WithRand
// it uses a PCG seeded from process entropy.
func NewAllocator(cat *catalog.Catalog, opts ...Option) *Allocator {
	a := &Allocator{
		cat: cat,
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Catalog returns the catalog this allocator selects from.
func (a *Allocator) Catalog() *catalog.Catalog {
	return a.cat
}

// SelectByArea picks count distinct exercises from one area whose mean
// difficulty lies within tolerance of target.
//
// When the area holds fewer than count exercises, all of them are returned
// padded with placeholders (StatusPartial). When no acceptable draw is found
// within the attempt bound, the result is count placeholders — sampling
// exhaustion is a degraded result, not an error.
func (a *Allocator) SelectByArea(area string, target float64, count int, tolerance float64) (Result, error) {
	if !a.cat.HasArea(area) {
		return Result{}, &UnknownAreaError{Area: area, Available: a.cat.Areas()}
	}
	if count < 0 {
		return Result{}, fmt.Errorf("workout: negative count %d", count)
	}

	pool := a.cat.ByArea(area)

	if len(pool) < count {
		a.log.Warn("not enough exercises in area",
			"area", area, "available", len(pool), "requested", count)
		names := make([]string, count)
		for i, ex := range pool {
			names[i] = ex.Name
		}
		return Result{Exercises: names, Mean: a.cat.MeanDifficulty(names), Status: StatusPartial}, nil
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		names := make([]string, count)
		for i := range names {
			names[i] = pool[a.rng.IntN(len(pool))].Name
		}
		if hasDuplicates(names) {
			continue
		}
		mean := a.cat.MeanDifficulty(names)
		if math.Abs(mean-target) <= tolerance {
			return Result{Exercises: names, Mean: mean, Status: StatusSatisfied}, nil
		}
	}

	a.log.Debug("no draw satisfied the difficulty target",
		"area", area, "target", target, "tolerance", tolerance, "count", count)
	return Result{Exercises: make([]string, count), Status: StatusPartial}, nil
}

// SelectWithCoverage picks count distinct exercises, at least one per area,
// whose overall mean difficulty lies within tolerance of target. Each attempt
// draws one exercise per area and fills the remaining slots from the whole
// catalog.
//
// On exhaustion it falls back to one representative per area plus random
// distinct fill without enforcing the tolerance; such results are tagged
// StatusRelaxed so callers can tell them apart from a constrained draw.
func (a *Allocator) SelectWithCoverage(target float64, count int, tolerance float64) (Result, error) {
	areas := a.cat.Areas()
	if count < len(areas) {
		return Result{}, &InsufficientCountError{Count: count, Areas: len(areas)}
	}

	pools := make([][]catalog.Exercise, len(areas))
	for i, area := range areas {
		pools[i] = a.cat.ByArea(area)
	}
	all := a.cat.Exercises()

	for attempt := 0; attempt < maxAttempts; attempt++ {
		selected := make([]string, 0, count)
		for _, pool := range pools {
			selected = append(selected, pool[a.rng.IntN(len(pool))].Name)
		}
		for len(selected) < count {
			selected = append(selected, all[a.rng.IntN(len(all))].Name)
		}
		if hasDuplicates(selected) {
			continue
		}
		mean := a.cat.MeanDifficulty(selected)
		if math.Abs(mean-target) <= tolerance {
			return Result{Exercises: selected, Mean: mean, Status: StatusSatisfied}, nil
		}
	}

	a.log.Debug("no covered draw satisfied the difficulty target",
		"target", target, "tolerance", tolerance, "count", count)

	// Fallback: keep the coverage guarantee, drop the difficulty constraint.
	// Exercise names are catalog-unique, so one pick per area cannot collide.
	selected := make([]string, 0, count)
	seen := make(map[string]struct{}, count)
	for _, pool := range pools {
		name := pool[a.rng.IntN(len(pool))].Name
		selected = append(selected, name)
		seen[name] = struct{}{}
	}
	for fill := 0; fill < maxAttempts && len(selected) < count; fill++ {
		name := all[a.rng.IntN(len(all))].Name
		if _, dup := seen[name]; dup {
			continue
		}
		selected = append(selected, name)
		seen[name] = struct{}{}
	}

	status := StatusRelaxed
	for len(selected) < count {
		selected = append(selected, Placeholder)
		status = StatusPartial
	}

	return Result{Exercises: selected, Mean: a.cat.MeanDifficulty(selected), Status: status}, nil
}

// AreaQuota is one area's share of a plan's exercise slots.
type AreaQuota struct {
	Area  string `json:"area"`
	Count int    `json:"count"`
}

// AreaQuotas partitions total across all areas in first-seen catalog order:
// an even base share with the remainder going to the earliest areas. When
// privilegedArea names an existing area, one slot is deducted from the pool
// first and granted to it on top of its share. Quotas always sum to total.
func (a *Allocator) AreaQuotas(total int, privilegedArea string) []AreaQuota {
	areas := a.cat.Areas()
	quotas := make([]AreaQuota, len(areas))

	pool := total
	bonus := privilegedArea != "" && a.cat.HasArea(privilegedArea) && total >= 1
	if bonus {
		pool--
	}
	base := pool / len(areas)
	rem := pool % len(areas)

	for i, area := range areas {
		n := base
		if i < rem {
			n++
		}
		if bonus && area == privilegedArea {
			n++
		}
		quotas[i] = AreaQuota{Area: area, Count: n}
	}
	return quotas
}

func hasDuplicates(names []string) bool {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			return true
		}
		seen[name] = struct{}{}
	}
	return false
}
