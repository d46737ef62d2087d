package ports

import (
	"context"

	"activity-finder-service/internal/domain"
)

// Catalog filters. Zero values mean "no constraint".
type ActivityFilter struct {
	Category  string
	Region    string
	MinRating float64
}

// Port: a boundary for retrieving catalog activities from a data source.
type ActivityRepository interface {
	// Retrieve activities matching the filter, ordered by id.
	ListActivities(ctx context.Context, filter ActivityFilter) ([]domain.Activity, error)

	// Retrieve activities by id, preserving the requested order and
	// skipping unknown ids.
	GetActivities(ctx context.Context, ids []int) ([]domain.Activity, error)
}
