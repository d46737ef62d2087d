// Package geoindex keeps a coarse Redis GEO index over the activity catalog.
// It narrows the candidate set for nearby queries; exact membership and
// ordering stay with the pure proximity matcher.
package geoindex

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"activity-finder-service/internal/domain"
)

const indexKey = "activities:geo"

type RedisGeoIndex struct {
	client *redis.Client
}

func NewRedisGeoIndex(client *redis.Client) *RedisGeoIndex {
	return &RedisGeoIndex{client: client}
}

// Add indexes or re-indexes one activity position.
func (r *RedisGeoIndex) Add(ctx context.Context, activity domain.Activity) error {
	if err := activity.Coordinate().Validate(); err != nil {
		return fmt.Errorf("geo index add: activity id=%d: %w", activity.ID, err)
	}

	err := r.client.GeoAdd(ctx, indexKey, &redis.GeoLocation{
		Name:      strconv.Itoa(activity.ID),
		Longitude: activity.Lon,
		Latitude:  activity.Lat,
	}).Err()
	if err != nil {
		return fmt.Errorf("geo index add: activity id=%d: %w", activity.ID, err)
	}

	return nil
}

// Rebuild replaces the whole index with the given activities.
func (r *RedisGeoIndex) Rebuild(ctx context.Context, activities []domain.Activity) error {
	if err := r.client.Del(ctx, indexKey).Err(); err != nil {
		return fmt.Errorf("geo index rebuild: clear: %w", err)
	}

	for _, a := range activities {
		if a.Coordinate().Validate() != nil {
			continue
		}
		if err := r.Add(ctx, a); err != nil {
			return fmt.Errorf("geo index rebuild: %w", err)
		}
	}

	return nil
}

// NearbyIDs returns ids of indexed activities within radiusKm of the origin,
// nearest first. A non-positive limit means no cap.
func (r *RedisGeoIndex) NearbyIDs(ctx context.Context, origin domain.Coordinate, radiusKm float64, limit int) ([]int, error) {
	if err := origin.Validate(); err != nil {
		return nil, fmt.Errorf("geo index nearby: origin: %w", err)
	}
	if radiusKm <= 0 {
		return []int{}, nil
	}

	names, err := r.client.GeoSearch(ctx, indexKey, &redis.GeoSearchQuery{
		Longitude:  origin.Lon,
		Latitude:   origin.Lat,
		Radius:     radiusKm,
		RadiusUnit: "km",
		Sort:       "ASC",
		Count:      limit,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("geo index nearby: geosearch: %w", err)
	}

	ids := make([]int, 0, len(names))
	for _, name := range names {
		id, err := strconv.Atoi(name)
		if err != nil {
			return nil, fmt.Errorf("geo index nearby: non-numeric member %q: %w", name, err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}
