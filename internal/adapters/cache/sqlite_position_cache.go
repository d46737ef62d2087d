package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"activity-finder-service/internal/domain"
)

// Subject key for the single device this process locates. Kept as a column
// so a multi-tenant deployment can store one row per subject.
const DefaultSubject = "device"

// SQLite-backed store for the last known fix, so a restarted process can
// serve a stale (clearly timestamped) position before the first live
// acquisition completes.
type SqlitePositionCache struct{ DB *sql.DB }

func NewSqlitePositionCache(db *sql.DB) *SqlitePositionCache {
	return &SqlitePositionCache{DB: db}
}

// Load the persisted fix for a subject. Returns ok=false when none exists.
func (s *SqlitePositionCache) Load(subject string) (domain.Coordinate, bool, error) {
	if s.DB == nil {
		return domain.Coordinate{}, false, errors.New("position cache: db is nil")
	}
	if subject == "" {
		return domain.Coordinate{}, false, errors.New("load position cache: subject must not be empty")
	}

	query := `
	SELECT lat, lon, accuracy_meters, captured_at_ms
	FROM position_cache
	WHERE subject = ?;
	`

	var lat, lon, accuracy float64
	var capturedMs int64
	err := s.DB.QueryRow(query, subject).Scan(&lat, &lon, &accuracy, &capturedMs)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinate{}, false, nil
	}
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("load position cache: query: %w", err)
	}

	fix, err := domain.NewCoordinate(lat, lon, accuracy, time.UnixMilli(capturedMs))
	if err != nil {
		// A corrupt row must not poison startup; treat it as absent.
		return domain.Coordinate{}, false, nil
	}

	return fix, true, nil
}

// Store upserts the persisted fix for a subject.
func (s *SqlitePositionCache) Store(subject string, fix domain.Coordinate) error {
	if s.DB == nil {
		return errors.New("position cache: db is nil")
	}
	if subject == "" {
		return errors.New("store position cache: subject must not be empty")
	}
	if err := fix.Validate(); err != nil {
		return fmt.Errorf("store position cache: %w", err)
	}

	query := `
	INSERT OR REPLACE INTO position_cache (
		subject,
		lat,
		lon,
		accuracy_meters,
		captured_at_ms
	)
	VALUES (?, ?, ?, ?, ?);
	`

	if _, err := s.DB.Exec(query, subject, fix.Lat, fix.Lon, fix.AccuracyMeters, fix.CapturedAt.UnixMilli()); err != nil {
		return fmt.Errorf("store position cache: exec: %w", err)
	}

	return nil
}
