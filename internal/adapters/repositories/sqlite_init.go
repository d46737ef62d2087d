package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the SQLite schema: the activity catalog and the last-fix cache.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createActivitiesQuery := `
	CREATE TABLE IF NOT EXISTS activities (
		activity_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		region TEXT NOT NULL DEFAULT '',
		rating REAL NOT NULL DEFAULT 0,
		lat REAL NOT NULL,
		lon REAL NOT NULL
	);
	`

	createPositionCacheQuery := `
	CREATE TABLE IF NOT EXISTS position_cache (
		subject TEXT PRIMARY KEY,
		lat REAL NOT NULL,
		lon REAL NOT NULL,
		accuracy_meters REAL NOT NULL,
		captured_at_ms INTEGER NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_activities_category_region
	ON activities(category, region);
	`

	statements := []string{
		createActivitiesQuery,
		createPositionCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type ActivitySeed struct {
	ActivityID int     `json:"activity_id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Region     string  `json:"region"`
	Rating     float64 `json:"rating"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
}

// Populate the catalog from a JSON seed file. Re-running is idempotent.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed activities: read %q: %w", jsonPath, err)
	}

	var data []ActivitySeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed activities: parse json: %w", err)
	}

	rows := make([]ActivitySeed, 0, len(data))
	for i, item := range data {
		if item.ActivityID <= 0 {
			return fmt.Errorf("seed activities: invalid activity_id at index %d: %d", i+1, item.ActivityID)
		}

		name := strings.TrimSpace(item.Name)
		if name == "" {
			return fmt.Errorf("seed activities: item at index %d: name cannot be empty", i+1)
		}

		if item.Lat < -90 || item.Lat > 90 || item.Lon < -180 || item.Lon > 180 {
			return fmt.Errorf(
				"seed activities: item at index %d: coordinates (%v, %v) out of range",
				i+1, item.Lat, item.Lon,
			)
		}

		item.Name = name
		rows = append(rows, item)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed activities: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT OR REPLACE INTO activities (
		activity_id,
		name,
		category,
		region,
		rating,
		lat,
		lon
	)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed activities: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range rows {
		if _, err := stmt.Exec(a.ActivityID, a.Name, a.Category, a.Region, a.Rating, a.Lat, a.Lon); err != nil {
			return fmt.Errorf("seed activities: insert activity_id=%d: %w", a.ActivityID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed activities: commit tx: %w", err)
	}

	return nil
}
