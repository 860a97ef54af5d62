// Package history keeps a local SQLite ledger of plans generated by the CLI,
// so past workouts can be listed without a server.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one recorded plan generation.
type Entry struct {
	ID        int64
	CreatedAt time.Time
	Levels    string // comma-separated difficulty levels, e.g. "3,4,5"
	Means     string // comma-separated achieved means, aligned with Levels
	Coverage  bool
	CSVPath   string // where the plan CSV was written, if anywhere
}

// DB wraps the SQLite history database.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the history database at dir/history.db.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS generated_plans (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		levels     TEXT NOT NULL,
		means      TEXT NOT NULL,
		coverage   INTEGER NOT NULL,
		csv_path   TEXT NOT NULL DEFAULT ''
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history table: %w", err)
	}

	return &DB{db: db}, nil
}

// Record appends a generated plan to the ledger.
func (d *DB) Record(e Entry) error {
	_, err := d.db.Exec(
		`INSERT INTO generated_plans (levels, means, coverage, csv_path) VALUES (?, ?, ?, ?)`,
		e.Levels, e.Means, e.Coverage, e.CSVPath,
	)
	if err != nil {
		return fmt.Errorf("recording plan: %w", err)
	}
	return nil
}

// Recent returns the latest n entries, newest first.
func (d *DB) Recent(n int) ([]Entry, error) {
	rows, err := d.db.Query(
		`SELECT id, created_at, levels, means, coverage, csv_path
		 FROM generated_plans ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var coverage int
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.Levels, &e.Means, &coverage, &e.CSVPath); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		e.Coverage = coverage != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the history database.
func (d *DB) Close() error {
	return d.db.Close()
}
