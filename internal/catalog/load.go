package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// difficultyHeaders lists the accepted names for the difficulty column.
// "diffucility" survives from the original dataset, which shipped with the
// typo in its header row.
var difficultyHeaders = []string{"difficulty", "diffucility"}

// ParseCSV reads a catalog from CSV with columns exercise, area and
// difficulty. Column order is free; header matching is case-insensitive.
func ParseCSV(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("catalog: reading CSV header: %w", err)
	}

	nameCol, areaCol, diffCol := -1, -1, -1
	for i, col := range header {
		switch name := strings.ToLower(strings.TrimSpace(col)); {
		case name == "exercise":
			nameCol = i
		case name == "area":
			areaCol = i
		default:
			for _, alias := range difficultyHeaders {
				if name == alias {
					diffCol = i
				}
			}
		}
	}
	if nameCol < 0 || areaCol < 0 || diffCol < 0 {
		return nil, fmt.Errorf("catalog: CSV header %v missing required columns (exercise, area, difficulty)", header)
	}

	var records []Exercise
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("catalog: reading CSV line %d: %w", line, err)
		}

		difficulty, err := strconv.ParseFloat(strings.TrimSpace(row[diffCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("catalog: CSV line %d: bad difficulty %q", line, row[diffCol])
		}
		records = append(records, Exercise{
			Name:       strings.TrimSpace(row[nameCol]),
			Area:       strings.TrimSpace(row[areaCol]),
			Difficulty: difficulty,
		})
	}

	return New(records)
}

// LoadFile reads a catalog from a CSV file on disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: opening %s: %w", path, err)
	}
	defer f.Close()
	return ParseCSV(f)
}

// Fetch retrieves a catalog CSV over HTTP, e.g. the raw-file URL of a
// repository-hosted dataset. A nil client gets a 30s-timeout default.
func Fetch(ctx context.Context, client *http.Client, url string) (*Catalog, error) {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetching %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: fetching %s: status %d", url, resp.StatusCode)
	}

	return ParseCSV(resp.Body)
}
