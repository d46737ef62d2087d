package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"activity-finder-service/internal/domain"
	"activity-finder-service/internal/platform/obs"
	"activity-finder-service/internal/ports"
)

// Postgres implementation of the ActivityRepository port, for deployments
// where the catalog lives in a shared database instead of the embedded
// SQLite file.
type PostgresActivityRepository struct{ DB *sql.DB }

func NewPostgresActivityRepository(db *sql.DB) *PostgresActivityRepository {
	return &PostgresActivityRepository{DB: db}
}

func (p *PostgresActivityRepository) ListActivities(ctx context.Context, filter ports.ActivityFilter) (_ []domain.Activity, err error) {
	defer obs.Time(ctx, "activities.pg.List")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres activity repository: DB is nil")
	}

	query, args := listActivitiesQueryPostgres(filter)

	rows, err := p.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: query activities table: %w", err)
	}
	defer rows.Close()

	return scanActivities(rows)
}

// listActivitiesQueryPostgres builds the filtered catalog query with $N
// placeholders numbered in argument order.
func listActivitiesQueryPostgres(filter ports.ActivityFilter) (string, []any) {
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
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Region != "" {
		args = append(args, filter.Region)
		where = append(where, fmt.Sprintf("region = $%d", len(args)))
	}
	if filter.MinRating > 0 {
		args = append(args, filter.MinRating)
		where = append(where, fmt.Sprintf("rating >= $%d", len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY activity_id;"

	return query, args
}

func (p *PostgresActivityRepository) GetActivities(ctx context.Context, ids []int) (_ []domain.Activity, err error) {
	defer obs.Time(ctx, "activities.pg.Get")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres activity repository: DB is nil")
	}

	if len(ids) == 0 {
		return []domain.Activity{}, nil
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
	WHERE activity_id = ANY($1::int[]);
	`

	rows, err := p.DB.QueryContext(ctx, query, ids)
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
