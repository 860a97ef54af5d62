package mcp

import (
	"context"

	"github.com/Norris36/conegliano-utilities/internal/catalog"
	"github.com/Norris36/conegliano-utilities/internal/workout"
	"github.com/google/uuid"
)

// DataSource abstracts the plan layer for MCP tools. Both *workout.Service
// (local, direct database access) and HTTPClient (remote via REST API)
// satisfy this interface.
type DataSource interface {
	GeneratePlan(ctx context.Context, req workout.GenerateRequest) (*workout.PlanRecord, error)
	Catalog(ctx context.Context) ([]catalog.Exercise, error)
	AreaSummary(ctx context.Context) ([]catalog.AreaStats, error)
	FindExercises(ctx context.Context, min, max float64) ([]catalog.Exercise, error)
	RecentPlans(ctx context.Context, limit int) ([]workout.PlanSummary, error)
	GetPlan(ctx context.Context, id uuid.UUID) (*workout.PlanRecord, error)
	LatestPlan(ctx context.Context) (*workout.PlanRecord, error)
}

// Compile-time check: *workout.Service satisfies DataSource.
var _ DataSource = (*workout.Service)(nil)
