package ports

import (
	"context"

	"activity-finder-service/internal/domain"
)

// Port: a coarse geographic index over the catalog. Used to prefilter
// candidates before exact Haversine matching; the proximity matcher remains
// the authority on distance, radius and ordering.
type GeoIndex interface {
	// Index or re-index an activity position.
	Add(ctx context.Context, activity domain.Activity) error

	// Return ids of indexed activities within radiusKm of the origin,
	// nearest first, capped at limit.
	NearbyIDs(ctx context.Context, origin domain.Coordinate, radiusKm float64, limit int) ([]int, error)
}
