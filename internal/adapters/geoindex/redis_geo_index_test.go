package geoindex

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"activity-finder-service/internal/domain"
)

func newTestIndex(t *testing.T) *RedisGeoIndex {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisGeoIndex(client)
}

func TestRedisGeoIndexNearbyIDs(t *testing.T) {
	index := newTestIndex(t)
	ctx := context.Background()

	activities := []domain.Activity{
		{ID: 1, Name: "cable car", Lat: 41.6477, Lon: 41.6464},  // ~5 km
		{ID: 2, Name: "boulevard", Lat: 41.6757, Lon: 41.6399},  // ~2 km
		{ID: 3, Name: "waterfall", Lat: 41.5592, Lon: 41.8560},  // ~23 km
	}
	for _, a := range activities {
		if err := index.Add(ctx, a); err != nil {
			t.Fatalf("add id=%d: %v", a.ID, err)
		}
	}

	origin := domain.Coordinate{Lat: 41.6938, Lon: 41.6401}

	ids, err := index.NearbyIDs(ctx, origin, 10, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ids) != 2 {
		t.Fatalf("expected 2 ids within 10km, got %v", ids)
	}
	if ids[0] != 2 || ids[1] != 1 {
		t.Errorf("expected nearest-first [2 1], got %v", ids)
	}
}

func TestRedisGeoIndexNearbyIDsNonPositiveRadius(t *testing.T) {
	index := newTestIndex(t)
	ctx := context.Background()

	if err := index.Add(ctx, domain.Activity{ID: 1, Lat: 41.69, Lon: 41.64}); err != nil {
		t.Fatalf("add: %v", err)
	}

	ids, err := index.NearbyIDs(ctx, domain.Coordinate{Lat: 41.69, Lon: 41.64}, 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected empty result for zero radius, got %v", ids)
	}
}

func TestRedisGeoIndexAddRejectsInvalidCoordinates(t *testing.T) {
	index := newTestIndex(t)

	err := index.Add(context.Background(), domain.Activity{ID: 1, Lat: 999, Lon: 41.64})
	if err == nil {
		t.Fatal("expected error for out-of-range coordinates")
	}
}

func TestRedisGeoIndexRebuild(t *testing.T) {
	index := newTestIndex(t)
	ctx := context.Background()

	if err := index.Add(ctx, domain.Activity{ID: 99, Lat: 41.69, Lon: 41.64}); err != nil {
		t.Fatalf("add: %v", err)
	}

	fresh := []domain.Activity{
		{ID: 1, Lat: 41.6757, Lon: 41.6399},
		{ID: 2, Lat: 41.6477, Lon: 41.6464},
	}
	if err := index.Rebuild(ctx, fresh); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	ids, err := index.NearbyIDs(ctx, domain.Coordinate{Lat: 41.6938, Lon: 41.6401}, 10, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, id := range ids {
		if id == 99 {
			t.Error("rebuild must drop previously indexed entries")
		}
	}
	if len(ids) != 2 {
		t.Errorf("expected 2 ids after rebuild, got %v", ids)
	}
}
