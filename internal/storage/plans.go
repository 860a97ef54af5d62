package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PlanRow is a stored workout plan with all its day columns.
type PlanRow struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Coverage  bool
	Labels    []string
	Days      []PlanDayRow
}

// PlanDayRow is one difficulty-level column of a stored plan.
type PlanDayRow struct {
	Level     int
	Mean      float64
	Status    string
	Exercises []string
}

// PlanSummaryRow is a plan listing entry without the per-day exercise data.
type PlanSummaryRow struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Coverage  bool
	Levels    []int32
}

// InsertPlan stores a generated plan and its days in one transaction.
func (db *DB) InsertPlan(ctx context.Context, row PlanRow) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning plan insert: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`INSERT INTO plans (id, created_at, coverage, labels) VALUES ($1,$2,$3,$4)`,
		row.ID, row.CreatedAt, row.Coverage, row.Labels); err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}

	for i, day := range row.Days {
		if _, err := tx.Exec(ctx,
			`INSERT INTO plan_days (plan_id, position, level, achieved_mean, status, exercises)
			 VALUES ($1,$2,$3,$4,$5,$6)`,
			row.ID, i, day.Level, day.Mean, day.Status, day.Exercises); err != nil {
			return fmt.Errorf("inserting plan day %d: %w", day.Level, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing plan insert: %w", err)
	}
	return nil
}

// QueryPlans lists the most recent plans, newest first.
func (db *DB) QueryPlans(ctx context.Context, limit int) ([]PlanSummaryRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT p.id, p.created_at, p.coverage,
		        array_agg(d.level ORDER BY d.position) AS levels
		 FROM plans p
		 JOIN plan_days d ON d.plan_id = p.id
		 GROUP BY p.id, p.created_at, p.coverage
		 ORDER BY p.created_at DESC
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	var result []PlanSummaryRow
	for rows.Next() {
		var s PlanSummaryRow
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.Coverage, &s.Levels); err != nil {
			return nil, fmt.Errorf("scanning plan summary: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// GetPlan retrieves one plan with all its days.
func (db *DB) GetPlan(ctx context.Context, id uuid.UUID) (*PlanRow, error) {
	var p PlanRow
	err := db.Pool.QueryRow(ctx,
		`SELECT id, created_at, coverage, labels FROM plans WHERE id = $1`, id).
		Scan(&p.ID, &p.CreatedAt, &p.Coverage, &p.Labels)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying plan: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT level, achieved_mean, status, exercises
		 FROM plan_days WHERE plan_id = $1 ORDER BY position ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("querying plan days: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d PlanDayRow
		if err := rows.Scan(&d.Level, &d.Mean, &d.Status, &d.Exercises); err != nil {
			return nil, fmt.Errorf("scanning plan day: %w", err)
		}
		p.Days = append(p.Days, d)
	}
	return &p, rows.Err()
}

// LatestPlan retrieves the most recently generated plan.
func (db *DB) LatestPlan(ctx context.Context) (*PlanRow, error) {
	var id uuid.UUID
	err := db.Pool.QueryRow(ctx,
		`SELECT id FROM plans ORDER BY created_at DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest plan: %w", err)
	}
	return db.GetPlan(ctx, id)
}
