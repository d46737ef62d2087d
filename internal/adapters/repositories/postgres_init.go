package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the Postgres schema. Mirrors the SQLite schema with the
// Postgres upsert dialect.
func InitSchemaPostgres(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`
	CREATE TABLE IF NOT EXISTS activities (
		activity_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		region TEXT NOT NULL DEFAULT '',
		rating DOUBLE PRECISION NOT NULL DEFAULT 0,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS position_cache (
		subject TEXT PRIMARY KEY,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		accuracy_meters DOUBLE PRECISION NOT NULL,
		captured_at_ms BIGINT NOT NULL
	);
	`,
		`
	CREATE INDEX IF NOT EXISTS idx_activities_category_region
	ON activities(category, region);
	`,
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

// Populate the Postgres catalog from the same JSON seed file used for
// SQLite. Re-running is idempotent.
func SeedFromJSONPostgres(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed activities: read %q: %w", jsonPath, err)
	}

	var data []ActivitySeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed activities: parse json: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed activities: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO activities (
		activity_id,
		name,
		category,
		region,
		rating,
		lat,
		lon
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (activity_id) DO UPDATE
	SET name = EXCLUDED.name,
		category = EXCLUDED.category,
		region = EXCLUDED.region,
		rating = EXCLUDED.rating,
		lat = EXCLUDED.lat,
		lon = EXCLUDED.lon;
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed activities: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, a := range data {
		if a.ActivityID <= 0 {
			return fmt.Errorf("seed activities: invalid activity_id at index %d: %d", i+1, a.ActivityID)
		}
		if strings.TrimSpace(a.Name) == "" {
			return fmt.Errorf("seed activities: item at index %d: name cannot be empty", i+1)
		}

		if _, err := stmt.Exec(a.ActivityID, strings.TrimSpace(a.Name), a.Category, a.Region, a.Rating, a.Lat, a.Lon); err != nil {
			return fmt.Errorf("seed activities: insert activity_id=%d: %w", a.ActivityID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed activities: commit tx: %w", err)
	}

	return nil
}
