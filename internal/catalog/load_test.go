package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestParseCSV verifies a straightforward catalog CSV parses with the
// columns in any order.
func TestParseCSV(t *testing.T) {
	in := "area,difficulty,exercise\nLegs,4,Squats\nAbs,2,Crunches\n"

	cat, err := ParseCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("Len = %d, want 2", cat.Len())
	}
	ex, ok := cat.Lookup("Squats")
	if !ok || ex.Area != "Legs" || ex.Difficulty != 4 {
		t.Errorf("Squats = %+v, want Legs/4", ex)
	}
}

// TestParseCSVHeaderTypo verifies the misspelled "diffucility" header from
// the original dataset is accepted as an alias.
func TestParseCSVHeaderTypo(t *testing.T) {
	in := "Exercise,Area,Diffucility\nPush-ups,Upper,3\n"

	cat, err := ParseCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ex, ok := cat.Lookup("Push-ups")
	if !ok || ex.Difficulty != 3 {
		t.Errorf("Push-ups = %+v, want difficulty 3", ex)
	}
}

// TestParseCSVErrors verifies malformed input is rejected with an error.
func TestParseCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"missing columns", "exercise,area\nSquats,Legs\n"},
		{"bad difficulty", "exercise,area,difficulty\nSquats,Legs,hard\n"},
		{"empty body", "exercise,area,difficulty\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCSV(strings.NewReader(tt.in)); err == nil {
				t.Errorf("ParseCSV(%s) succeeded, want error", tt.name)
			}
		})
	}
}

// TestLoadFile verifies loading a catalog from disk.
func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")
	if err := os.WriteFile(path, []byte("exercise,area,difficulty\nSquats,Legs,4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Len() != 1 {
		t.Errorf("Len = %d, want 1", cat.Len())
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("LoadFile(missing) succeeded, want error")
	}
}

// TestFetch verifies retrieving a catalog over HTTP, including non-200
// responses.
func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.csv" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("exercise,area,difficulty\nSquats,Legs,4\nCrunches,Abs,2\n"))
	}))
	defer srv.Close()

	cat, err := Fetch(context.Background(), nil, srv.URL+"/catalog.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Len() != 2 {
		t.Errorf("Len = %d, want 2", cat.Len())
	}

	if _, err := Fetch(context.Background(), srv.Client(), srv.URL+"/missing.csv"); err == nil {
		t.Error("Fetch(404) succeeded, want error")
	}
}
