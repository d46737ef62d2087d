package services

import (
	"context"
	"fmt"
	"log"
	"math"

	"activity-finder-service/internal/domain"
	"activity-finder-service/internal/ports"
)

// Geo index prefilter fans out slightly wider than the requested radius so
// that index precision loss near the boundary cannot drop a true match.
const indexRadiusSlack = 1.1

type NearbyRequest struct {
	Origin     domain.Coordinate
	Filter     ports.ActivityFilter
	RadiusKm   float64
	Sort       SortKey
	MaxResults int
}

// FindNearby loads candidates from the catalog and runs the proximity query.
//
// When a geo index is configured it is used as a coarse candidate prefilter;
// the exact Haversine filter still decides membership and order. An index
// failure degrades to a full catalog scan rather than failing the request.
func FindNearby(
	ctx context.Context,
	req NearbyRequest,
	repo ports.ActivityRepository,
	index ports.GeoIndex,
) ([]Match, error) {
	if err := req.Origin.Validate(); err != nil {
		return nil, fmt.Errorf("find nearby: origin: %w", err)
	}

	candidates, err := loadCandidates(ctx, req, repo, index)
	if err != nil {
		return nil, fmt.Errorf("find nearby: %w", err)
	}

	// Entities without usable coordinates never reach the matcher.
	valid := make([]domain.Activity, 0, len(candidates))
	for _, c := range candidates {
		if c.Coordinate().Validate() != nil {
			log.Printf("nearby: skipping activity id=%d with invalid coordinates", c.ID)
			continue
		}
		valid = append(valid, c)
	}

	return Query(ProximityQuery{
		Origin:     req.Origin,
		Candidates: valid,
		RadiusKm:   req.RadiusKm,
		Sort:       req.Sort,
		MaxResults: req.MaxResults,
	})
}

func loadCandidates(
	ctx context.Context,
	req NearbyRequest,
	repo ports.ActivityRepository,
	index ports.GeoIndex,
) ([]domain.Activity, error) {
	if index != nil && req.RadiusKm > 0 {
		indexRadius := req.RadiusKm * indexRadiusSlack
		ids, err := index.NearbyIDs(ctx, req.Origin, indexRadius, indexLimit(req.MaxResults))
		if err == nil {
			if len(ids) == 0 {
				return []domain.Activity{}, nil
			}

			candidates, err := repo.GetActivities(ctx, ids)
			if err != nil {
				return nil, fmt.Errorf("get indexed activities: %w", err)
			}
			return applyFilter(candidates, req.Filter), nil
		}
		log.Printf("nearby: geo index lookup failed, falling back to full scan: %v", err)
	}

	candidates, err := repo.ListActivities(ctx, req.Filter)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return candidates, nil
}

// indexLimit over-fetches from the index because catalog filters are applied
// after the id lookup and may discard prefiltered candidates.
func indexLimit(maxResults int) int {
	if maxResults <= 0 || maxResults > math.MaxInt/4 {
		return 0
	}
	return maxResults * 4
}

func applyFilter(activities []domain.Activity, f ports.ActivityFilter) []domain.Activity {
	out := make([]domain.Activity, 0, len(activities))
	for _, a := range activities {
		if f.Category != "" && a.Category != f.Category {
			continue
		}
		if f.Region != "" && a.Region != f.Region {
			continue
		}
		if f.MinRating > 0 && a.Rating < f.MinRating {
			continue
		}
		out = append(out, a)
	}
	return out
}
