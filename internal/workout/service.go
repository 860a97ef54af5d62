package workout

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/Norris36/conegliano-utilities/internal/catalog"
	"github.com/Norris36/conegliano-utilities/internal/storage"
	"github.com/google/uuid"
)

// GenerateRequest parameterizes one plan generation.
type GenerateRequest struct {
	// Levels are the target difficulty levels, one plan column each.
	Levels []int `json:"levels"`
	// Coverage selects coverage mode. Ignored when Quotas is set.
	Coverage bool `json:"coverage"`
	// Quotas gives explicit per-area counts. Keys must be catalog areas;
	// allocation order follows the catalog's area order, not the map's.
	Quotas map[string]int `json:"quotas,omitempty"`
	// Tolerance overrides the service default when > 0.
	Tolerance float64 `json:"tolerance,omitempty"`
	// Seed fixes the random source for reproducible plans.
	Seed *uint64 `json:"seed,omitempty"`
}

// PlanRecord is a stored, generated plan.
type PlanRecord struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Coverage  bool      `json:"coverage"`
	Plan      *Plan     `json:"plan"`
}

// PlanSummary is a plan listing entry.
type PlanSummary struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Coverage  bool      `json:"coverage"`
	Levels    []int     `json:"levels"`
}

// Service generates workout plans from the catalog in storage and records
// the results. It is the single entry point shared by the HTTP handlers and
// the MCP tools.
type Service struct {
	db  *storage.DB
	log *slog.Logger

	// PrivilegedArea and Tolerance seed each Builder; see Builder.
	PrivilegedArea string
	Tolerance      float64
	// DataDir, when non-empty, receives a CSV dump of every generated plan.
	DataDir string
}

// NewService creates a Service with default builder settings.
func NewService(db *storage.DB, log *slog.Logger) *Service {
	return &Service{
		db:             db,
		log:            log,
		PrivilegedArea: DefaultPrivilegedArea,
		Tolerance:      DefaultTolerance,
	}
}

func (s *Service) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	records, err := s.db.QueryExercises(ctx)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.New(records)
	if err != nil {
		return nil, fmt.Errorf("workout: stored catalog invalid: %w", err)
	}
	return cat, nil
}

// resolveQuotas orders a quota map by catalog area order and rejects unknown
// areas, so map iteration order never influences the allocation.
func resolveQuotas(cat *catalog.Catalog, quotas map[string]int) ([]AreaQuota, error) {
	for area := range quotas {
		if !cat.HasArea(area) {
			return nil, &UnknownAreaError{Area: area, Available: cat.Areas()}
		}
	}
	var out []AreaQuota
	for _, area := range cat.Areas() {
		if count, ok := quotas[area]; ok {
			out = append(out, AreaQuota{Area: area, Count: count})
		}
	}
	return out, nil
}

// GeneratePlan builds a plan from the stored catalog, persists it, and
// optionally dumps it to the data directory.
func (s *Service) GeneratePlan(ctx context.Context, req GenerateRequest) (*PlanRecord, error) {
	if len(req.Levels) == 0 {
		return nil, fmt.Errorf("workout: no difficulty levels given")
	}

	cat, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	opts := []Option{WithLogger(s.log)}
	if req.Seed != nil {
		opts = append(opts, WithRand(rand.New(rand.NewPCG(*req.Seed, 0))))
	}
	alloc := NewAllocator(cat, opts...)

	builder := NewBuilder(alloc, s.log)
	builder.PrivilegedArea = s.PrivilegedArea
	builder.Tolerance = s.Tolerance
	if req.Tolerance > 0 {
		builder.Tolerance = req.Tolerance
	}

	var buildOpts BuildOptions
	if len(req.Quotas) > 0 {
		buildOpts.Quotas, err = resolveQuotas(cat, req.Quotas)
		if err != nil {
			return nil, err
		}
	} else {
		buildOpts.Coverage = req.Coverage
	}

	plan, err := builder.BuildPlan(req.Levels, buildOpts)
	if err != nil {
		return nil, err
	}

	record := &PlanRecord{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		Coverage:  buildOpts.Coverage,
		Plan:      plan,
	}

	if err := s.db.InsertPlan(ctx, planToRow(record)); err != nil {
		return nil, fmt.Errorf("workout: storing plan: %w", err)
	}

	if s.DataDir != "" {
		plan.SaveToDir(s.DataDir, s.log)
	}

	return record, nil
}

// Catalog returns the stored exercise catalog.
func (s *Service) Catalog(ctx context.Context) ([]catalog.Exercise, error) {
	return s.db.QueryExercises(ctx)
}

// ReplaceCatalog validates and stores a new exercise catalog.
func (s *Service) ReplaceCatalog(ctx context.Context, records []catalog.Exercise) error {
	if _, err := catalog.New(records); err != nil {
		return err
	}
	return s.db.ReplaceCatalog(ctx, records)
}

// AreaSummary returns per-area statistics of the stored catalog.
func (s *Service) AreaSummary(ctx context.Context) ([]catalog.AreaStats, error) {
	cat, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return cat.AreaSummary(), nil
}

// FindExercises returns stored exercises whose difficulty lies in [min, max].
func (s *Service) FindExercises(ctx context.Context, min, max float64) ([]catalog.Exercise, error) {
	cat, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return cat.FilterByDifficulty(min, max), nil
}

// RecentPlans lists the most recently generated plans, newest first.
func (s *Service) RecentPlans(ctx context.Context, limit int) ([]PlanSummary, error) {
	rows, err := s.db.QueryPlans(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]PlanSummary, len(rows))
	for i, row := range rows {
		levels := make([]int, len(row.Levels))
		for j, l := range row.Levels {
			levels[j] = int(l)
		}
		out[i] = PlanSummary{ID: row.ID, CreatedAt: row.CreatedAt, Coverage: row.Coverage, Levels: levels}
	}
	return out, nil
}

// GetPlan retrieves one stored plan by ID.
func (s *Service) GetPlan(ctx context.Context, id uuid.UUID) (*PlanRecord, error) {
	row, err := s.db.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	return rowToPlan(row), nil
}

// LatestPlan retrieves the most recently generated plan.
func (s *Service) LatestPlan(ctx context.Context) (*PlanRecord, error) {
	row, err := s.db.LatestPlan(ctx)
	if err != nil {
		return nil, err
	}
	return rowToPlan(row), nil
}

func planToRow(rec *PlanRecord) storage.PlanRow {
	row := storage.PlanRow{
		ID:        rec.ID,
		CreatedAt: rec.CreatedAt,
		Coverage:  rec.Coverage,
		Labels:    rec.Plan.Labels,
	}
	for _, day := range rec.Plan.Days {
		row.Days = append(row.Days, storage.PlanDayRow{
			Level:     day.Level,
			Mean:      day.Mean,
			Status:    day.Status.String(),
			Exercises: day.Exercises,
		})
	}
	return row
}

func rowToPlan(row *storage.PlanRow) *PlanRecord {
	plan := &Plan{Labels: row.Labels}
	for _, day := range row.Days {
		plan.Days = append(plan.Days, Day{
			Level:     day.Level,
			Mean:      day.Mean,
			Status:    StatusFromString(day.Status),
			Exercises: day.Exercises,
		})
	}
	return &PlanRecord{
		ID:        row.ID,
		CreatedAt: row.CreatedAt,
		Coverage:  row.Coverage,
		Plan:      plan,
	}
}
