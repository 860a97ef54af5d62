package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/Norris36/conegliano-utilities/internal/catalog"
)

// ReplaceCatalog swaps the stored exercise catalog for the given records in
// one transaction. Row positions preserve catalog order, which downstream
// quota computation depends on.
func (db *DB) ReplaceCatalog(ctx context.Context, exercises []catalog.Exercise) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning catalog replace: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM exercises`); err != nil {
		return fmt.Errorf("clearing exercises: %w", err)
	}

	if len(exercises) > 0 {
		query := `INSERT INTO exercises (position, name, area, difficulty) VALUES `
		args := make([]any, 0, len(exercises)*4)
		valueStrings := make([]string, 0, len(exercises))

		for i, ex := range exercises {
			base := i * 4
			valueStrings = append(valueStrings, fmt.Sprintf(
				"($%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4))
			args = append(args, i, ex.Name, ex.Area, ex.Difficulty)
		}

		if _, err := tx.Exec(ctx, query+strings.Join(valueStrings, ","), args...); err != nil {
			return fmt.Errorf("inserting exercises: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing catalog replace: %w", err)
	}
	return nil
}

// QueryExercises retrieves the stored catalog in its original row order.
func (db *DB) QueryExercises(ctx context.Context) ([]catalog.Exercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT name, area, difficulty FROM exercises ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []catalog.Exercise
	for rows.Next() {
		var ex catalog.Exercise
		if err := rows.Scan(&ex.Name, &ex.Area, &ex.Difficulty); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, ex)
	}
	return result, rows.Err()
}
