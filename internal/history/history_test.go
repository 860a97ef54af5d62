package history

import (
	"path/filepath"
	"testing"
)

// TestRecordAndRecent verifies entries come back newest first with their
// fields intact.
func TestRecordAndRecent(t *testing.T) {
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("opening history db: %v", err)
	}
	defer db.Close()

	if err := db.Record(Entry{Levels: "3,4", Means: "3.2,4.1", Coverage: true, CSVPath: "/tmp/a.csv"}); err != nil {
		t.Fatal(err)
	}
	if err := db.Record(Entry{Levels: "5", Means: "5.0", Coverage: false}); err != nil {
		t.Fatal(err)
	}

	entries, err := db.Recent(10)
	if err != nil {
		t.Fatalf("querying history: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Levels != "5" {
		t.Errorf("entries[0].Levels = %q, want newest first", entries[0].Levels)
	}
	if entries[1].Levels != "3,4" || !entries[1].Coverage || entries[1].CSVPath != "/tmp/a.csv" {
		t.Errorf("entries[1] = %+v, want levels=3,4 coverage=true csv_path=/tmp/a.csv", entries[1])
	}
}

// TestRecentLimit verifies the LIMIT clause is honored.
func TestRecentLimit(t *testing.T) {
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	for i := 0; i < 5; i++ {
		if err := db.Record(Entry{Levels: "3", Means: "3"}); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := db.Recent(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}
}

// TestOpenCreatesDir verifies Open creates missing parent directories.
func TestOpenCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")

	db, err := Open(dir)
	if err != nil {
		t.Fatalf("opening history db in nested dir: %v", err)
	}
	db.Close()

	db2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopening history db: %v", err)
	}
	db2.Close()
}
