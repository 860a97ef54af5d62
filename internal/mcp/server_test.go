package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/Norris36/conegliano-utilities/internal/catalog"
	"github.com/Norris36/conegliano-utilities/internal/workout"
)

// TestParseLevels verifies the comma-separated level syntax accepted by the
// generate_plan tool.
func TestParseLevels(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"3", []int{3}, false},
		{"3,4,5", []int{3, 4, 5}, false},
		{" 3 , 4 ", []int{3, 4}, false},
		{"3,,4", []int{3, 4}, false},
		{"", nil, true},
		{",", nil, true},
		{"3,x", nil, true},
	}

	for _, tt := range tests {
		got, err := parseLevels(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseLevels(%q) succeeded, want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseLevels(%q): %v", tt.in, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseLevels(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// TestHTTPClientGeneratePlan verifies the remote client posts the request
// with the API key and decodes the stored record.
func TestHTTPClientGeneratePlan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/plans" {
			t.Errorf("request = %s %s, want POST /api/v1/plans", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("X-API-Key"); got != "test-key" {
			t.Errorf("X-API-Key = %q, want test-key", got)
		}
		var req workout.GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if len(req.Levels) != 2 || req.Levels[0] != 3 {
			t.Errorf("levels = %v, want [3 4]", req.Levels)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(workout.PlanRecord{
			Plan: &workout.Plan{Labels: []string{"mean", "Legs"}},
		})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "test-key")
	record, err := client.GeneratePlan(context.Background(), workout.GenerateRequest{Levels: []int{3, 4}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Plan == nil || record.Plan.Labels[0] != "mean" {
		t.Errorf("record = %+v, want decoded plan", record)
	}
}

// TestHTTPClientCatalog verifies catalog retrieval and error propagation on
// non-2xx responses.
func TestHTTPClientCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/catalog":
			json.NewEncoder(w).Encode([]catalog.Exercise{{Name: "Squats", Area: "Legs", Difficulty: 4}})
		default:
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL+"/", "")

	records, err := client.Catalog(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].Name != "Squats" {
		t.Errorf("catalog = %v, want [Squats]", records)
	}

	if _, err := client.LatestPlan(context.Background()); err == nil {
		t.Error("LatestPlan on 404 succeeded, want error")
	}
}

// TestHTTPClientFindExercises verifies the difficulty range lands in the
// query string.
func TestHTTPClientFindExercises(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("min"); got != "2.5" {
			t.Errorf("min = %q, want 2.5", got)
		}
		if got := r.URL.Query().Get("max"); got != "4" {
			t.Errorf("max = %q, want 4", got)
		}
		json.NewEncoder(w).Encode([]catalog.Exercise{})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "")
	if _, err := client.FindExercises(context.Background(), 2.5, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
