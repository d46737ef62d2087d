package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"activity-finder-service/internal/domain"
	"activity-finder-service/internal/ports"
)

// SQLite-backed implementation of the ActivityRepository port.
type SqliteActivityRepository struct{ DB *sql.DB }

func NewSqliteActivityRepository(db *sql.DB) *SqliteActivityRepository {
	return &SqliteActivityRepository{DB: db}
}

// Return activities matching the filter, ordered by id.
func (s *SqliteActivityRepository) ListActivities(ctx context.Context, filter ports.ActivityFilter) ([]domain.Activity, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite activity repository: DB is nil")
	}

	query := `
	SELECT
		activity_id,
		name,
		category,
		region,
		rating,
		lat,
		lon
	FROM activities
	`

	where := make([]string, 0, 3)
	args := make([]any, 0, 3)
	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Region != "" {
		where = append(where, "region = ?")
		args = append(args, filter.Region)
	}
	if filter.MinRating > 0 {
		where = append(where, "rating >= ?")
		args = append(args, filter.MinRating)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY activity_id;"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: query activities table: %w", err)
	}
	defer rows.Close()

	return scanActivities(rows)
}

// Return activities for the given ids, preserving the requested order.
// Unknown ids are skipped, not errors.
func (s *SqliteActivityRepository) GetActivities(ctx context.Context, ids []int) ([]domain.Activity, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite activity repository: DB is nil")
	}

	if len(ids) == 0 {
		return []domain.Activity{}, nil
	}

	ph := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		ph = append(ph, "?")
		args = append(args, id)
	}

	// SQLite does not support binding slices directly in an IN (...) clause.
	// Only the placeholder structure is interpolated; all values remain
	// parameterized.
	query := fmt.Sprintf(`
	SELECT
		activity_id,
		name,
		category,
		region,
		rating,
		lat,
		lon
	FROM activities
	WHERE activity_id IN (%s);
	`, strings.Join(ph, ","))

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get activities: query activities table: %w", err)
	}
	defer rows.Close()

	found, err := scanActivities(rows)
	if err != nil {
		return nil, fmt.Errorf("get activities: %w", err)
	}

	byID := make(map[int]domain.Activity, len(found))
	for _, a := range found {
		byID[a.ID] = a
	}

	out := make([]domain.Activity, 0, len(ids))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			out = append(out, a)
		}
	}

	return out, nil
}

func scanActivities(rows *sql.Rows) ([]domain.Activity, error) {
	activities := make([]domain.Activity, 0, 64)
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.ID, &a.Name, &a.Category, &a.Region, &a.Rating, &a.Lat, &a.Lon); err != nil {
			return nil, fmt.Errorf("scan activity row: %w", err)
		}
		activities = append(activities, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("activity row iteration: %w", err)
	}

	return activities, nil
}
