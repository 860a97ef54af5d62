package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Norris36/conegliano-utilities/internal/catalog"
	"github.com/Norris36/conegliano-utilities/internal/storage"
	"github.com/Norris36/conegliano-utilities/internal/workout"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	var req workout.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	record, err := s.svc.GeneratePlan(r.Context(), req)
	if err != nil {
		var unknownArea *workout.UnknownAreaError
		var insufficient *workout.InsufficientCountError
		if errors.As(err, &unknownArea) || errors.As(err, &insufficient) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		s.log.Error("plan generation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}

	plans, err := s.svc.RecentPlans(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleLatestPlan(w http.ResponseWriter, r *http.Request) {
	record, err := s.svc.LatestPlan(r.Context())
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no plans generated yet"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	record, ok := s.planByID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleGetPlanCSV(w http.ResponseWriter, r *http.Request) {
	record, ok := s.planByID(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=workout_%s.csv", record.ID))
	if err := record.Plan.WriteCSV(w); err != nil {
		s.log.Error("streaming plan CSV", "plan_id", record.ID, "error", err)
	}
}

func (s *Server) planByID(w http.ResponseWriter, r *http.Request) (*workout.PlanRecord, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid plan ID"})
		return nil, false
	}

	record, err := s.svc.GetPlan(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "plan not found"})
		return nil, false
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}
	return record, true
}

func (s *Server) handleReplaceCatalog(w http.ResponseWriter, r *http.Request) {
	cat, err := catalog.ParseCSV(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	records := cat.Exercises()
	if err := s.svc.ReplaceCatalog(r.Context(), records); err != nil {
		s.log.Error("catalog replace failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	s.log.Info("catalog replaced", "exercises", len(records))
	writeJSON(w, http.StatusOK, map[string]int{"exercises": len(records)})
}

func (s *Server) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	records, err := s.svc.Catalog(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleCatalogSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.AreaSummary(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleFindExercises(w http.ResponseWriter, r *http.Request) {
	min, err := parseFloatParam(r, "min", 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	max, err := parseFloatParam(r, "max", 10)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	records, err := s.svc.FindExercises(r.Context(), min, max)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func parseFloatParam(r *http.Request, name string, def float64) (float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s parameter %q", name, v)
	}
	return f, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
