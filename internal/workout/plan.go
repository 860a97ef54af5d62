package workout

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Defaults for plan building, matching the classic generator behavior.
const (
	DefaultPrivilegedArea = "Abs"
	DefaultTolerance      = 0.5
)

// Day is one generated column of a plan: the exercises selected for a single
// difficulty level, with the achieved mean and how the draw was produced.
type Day struct {
	Level     int      `json:"level"`
	Mean      float64  `json:"mean"`
	Status    Status   `json:"status"`
	Exercises []string `json:"exercises"`
}

// Plan is a multi-day workout table. Labels holds the information column:
// Labels[0] is the literal "mean" and Labels[i+1] tags exercise row i with
// its muscle-group origin. Every Day has exactly len(Labels)-1 exercises.
type Plan struct {
	Labels []string `json:"labels"`
	Days   []Day    `json:"days"`
}

// BuildOptions selects the allocation strategy for a plan.
type BuildOptions struct {
	// Quotas gives explicit per-area exercise counts. Setting it switches the
	// build to quota mode regardless of Coverage.
	Quotas []AreaQuota
	// Coverage selects coverage mode: at least one exercise per area, the
	// rest filled at random across the whole catalog.
	Coverage bool
}

// Builder assembles workout plans from an Allocator. One BuildPlan call uses
// a single allocation mode for all levels, which keeps the row count
// identical across columns.
type Builder struct {
	alloc *Allocator
	log   *slog.Logger

	// PrivilegedArea receives one extra slot in computed quotas and a third
	// slot in the default per-level total.
	PrivilegedArea string
	// Tolerance is the allowed deviation between achieved and target mean.
	Tolerance float64
}

// NewBuilder creates a Builder with the default privileged area and tolerance.
func NewBuilder(alloc *Allocator, log *slog.Logger) *Builder {
	return &Builder{
		alloc:          alloc,
		log:            log,
		PrivilegedArea: DefaultPrivilegedArea,
		Tolerance:      DefaultTolerance,
	}
}

// defaultTotal is the classic per-level exercise count: two per area, three
// for the privileged one.
func (b *Builder) defaultTotal() int {
	total := 0
	for _, area := range b.alloc.Catalog().Areas() {
		if area == b.PrivilegedArea {
			total += 3
		} else {
			total += 2
		}
	}
	return total
}

// BuildPlan produces one plan column per difficulty level. Coverage mode
// labels rows by the areas of the selected exercises ("Unknown" for
// placeholders); quota mode labels rows by the quota layout.
func (b *Builder) BuildPlan(levels []int, opts BuildOptions) (*Plan, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("workout: no difficulty levels given")
	}

	coverage := opts.Coverage && len(opts.Quotas) == 0
	plan := &Plan{}
	var labels []string

	for _, level := range levels {
		var day Day
		var err error
		if coverage {
			day, labels, err = b.buildCoverageDay(level)
		} else {
			day, labels, err = b.buildQuotaDay(level, opts.Quotas)
		}
		if err != nil {
			return nil, err
		}
		plan.Days = append(plan.Days, day)
	}

	plan.Labels = append([]string{"mean"}, labels...)
	return plan, nil
}

func (b *Builder) buildCoverageDay(level int) (Day, []string, error) {
	res, err := b.alloc.SelectWithCoverage(float64(level), b.defaultTotal(), b.Tolerance)
	if err != nil {
		return Day{}, nil, err
	}

	labels := make([]string, len(res.Exercises))
	for i, name := range res.Exercises {
		if ex, ok := b.alloc.Catalog().Lookup(name); ok {
			labels[i] = ex.Area
		} else {
			labels[i] = "Unknown"
		}
	}

	return Day{Level: level, Mean: res.Mean, Status: res.Status, Exercises: res.Exercises}, labels, nil
}

func (b *Builder) buildQuotaDay(level int, quotas []AreaQuota) (Day, []string, error) {
	if len(quotas) == 0 {
		quotas = b.alloc.AreaQuotas(b.defaultTotal(), b.PrivilegedArea)
	}

	var exercises []string
	var labels []string
	status := StatusSatisfied

	for _, q := range quotas {
		res, err := b.alloc.SelectByArea(q.Area, float64(level), q.Count, b.Tolerance)
		if err != nil {
			return Day{}, nil, err
		}
		exercises = append(exercises, res.Exercises...)
		for range res.Exercises {
			labels = append(labels, q.Area)
		}
		if res.Status == StatusPartial {
			status = StatusPartial
		}
	}

	mean := b.alloc.Catalog().MeanDifficulty(exercises)
	return Day{Level: level, Mean: mean, Status: status, Exercises: exercises}, labels, nil
}

// WriteCSV renders the plan in the classic layout: an information column
// followed by one column per difficulty level, with the achieved mean in the
// first data row.
func (p *Plan) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(p.Days)+1)
	header = append(header, "information")
	for _, d := range p.Days {
		header = append(header, strconv.Itoa(d.Level))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("workout: writing CSV header: %w", err)
	}

	for i, label := range p.Labels {
		rec := make([]string, 0, len(p.Days)+1)
		rec = append(rec, label)
		for _, d := range p.Days {
			if i == 0 {
				rec = append(rec, strconv.FormatFloat(d.Mean, 'f', -1, 64))
			} else {
				rec = append(rec, d.Exercises[i-1])
			}
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("workout: writing CSV row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveToDir writes the plan CSV to dir as workout_<levels>_<timestamp>.csv
// and refreshes latest_workout.csv. Persistence is a side effect: failures
// are logged and swallowed, never returned, so a full disk cannot break plan
// generation.
func (p *Plan) SaveToDir(dir string, log *slog.Logger) {
	if err := p.saveToDir(dir); err != nil {
		log.Warn("saving workout plan failed", "dir", dir, "error", err)
	}
}

func (p *Plan) saveToDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	levels := make([]string, len(p.Days))
	for i, d := range p.Days {
		levels[i] = strconv.Itoa(d.Level)
	}
	name := fmt.Sprintf("workout_%s_%s.csv", strings.Join(levels, "_"), time.Now().Format("20060102_150405"))

	if err := p.writeFile(filepath.Join(dir, name)); err != nil {
		return err
	}
	return p.writeFile(filepath.Join(dir, "latest_workout.csv"))
}

func (p *Plan) writeFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := p.WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
