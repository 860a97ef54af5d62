package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Norris36/conegliano-utilities/internal/catalog"
	"github.com/Norris36/conegliano-utilities/internal/workout"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// planService is the surface the HTTP handlers need. *workout.Service
// satisfies it; tests substitute a fake.
type planService interface {
	GeneratePlan(ctx context.Context, req workout.GenerateRequest) (*workout.PlanRecord, error)
	Catalog(ctx context.Context) ([]catalog.Exercise, error)
	ReplaceCatalog(ctx context.Context, records []catalog.Exercise) error
	AreaSummary(ctx context.Context) ([]catalog.AreaStats, error)
	FindExercises(ctx context.Context, min, max float64) ([]catalog.Exercise, error)
	RecentPlans(ctx context.Context, limit int) ([]workout.PlanSummary, error)
	GetPlan(ctx context.Context, id uuid.UUID) (*workout.PlanRecord, error)
	LatestPlan(ctx context.Context) (*workout.PlanRecord, error)
}

var _ planService = (*workout.Service)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	svc    planService
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(svc planService, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		svc:    svc,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Mutating endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/plans", s.handleGeneratePlan)
		r.Put("/api/v1/catalog", s.handleReplaceCatalog)
	})

	// Read endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/plans", s.handleListPlans)
	s.router.Get("/api/v1/plans/latest", s.handleLatestPlan)
	s.router.Get("/api/v1/plans/{id}", s.handleGetPlan)
	s.router.Get("/api/v1/plans/{id}/csv", s.handleGetPlanCSV)
	s.router.Get("/api/v1/catalog", s.handleGetCatalog)
	s.router.Get("/api/v1/catalog/summary", s.handleCatalogSummary)
	s.router.Get("/api/v1/catalog/exercises", s.handleFindExercises)
}
