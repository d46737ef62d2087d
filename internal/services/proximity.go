package services

import (
	"errors"
	"fmt"
	"sort"

	"activity-finder-service/internal/domain"
)

// Result ordering key for Query.
type SortKey string

const (
	SortByDistance SortKey = "distance"
	SortByRating   SortKey = "rating"
	SortByName     SortKey = "name"
)

func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case SortByDistance, SortByRating, SortByName:
		return SortKey(s), nil
	case "":
		return SortByDistance, nil
	}
	return "", fmt.Errorf("parse sort key: unknown value %q", s)
}

// Transient per-request value; constructed per query, never persisted.
type ProximityQuery struct {
	Origin     domain.Coordinate
	Candidates []domain.Activity
	RadiusKm   float64
	Sort       SortKey
	MaxResults int
}

// One ranked candidate with its great-circle distance from the origin.
type Match struct {
	Activity   domain.Activity
	DistanceKm float64
}

// FilterWithinRadius returns the candidates whose Haversine distance from
// origin is at most radiusKm, preserving input order. The input slice is not
// mutated. Distance is computed once per candidate and carried on the Match.
func FilterWithinRadius(origin domain.Coordinate, candidates []domain.Activity, radiusKm float64) []Match {
	if radiusKm <= 0 {
		return []Match{}
	}

	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		d := HaversineKm(origin, c.Coordinate())
		if d <= radiusKm {
			matches = append(matches, Match{Activity: c, DistanceKm: d})
		}
	}

	return matches
}

// RankAndLimit orders matches by the sort key and truncates to maxResults.
//
// Ordering: distance ascending, rating descending, name ascending (byte
// order). Ties always break by ascending activity id so identical inputs
// produce identical output.
func RankAndLimit(matches []Match, key SortKey, maxResults int) []Match {
	ranked := make([]Match, len(matches))
	copy(ranked, matches)

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		switch key {
		case SortByRating:
			if a.Activity.Rating != b.Activity.Rating {
				return a.Activity.Rating > b.Activity.Rating
			}
		case SortByName:
			if a.Activity.Name != b.Activity.Name {
				return a.Activity.Name < b.Activity.Name
			}
		default:
			if a.DistanceKm != b.DistanceKm {
				return a.DistanceKm < b.DistanceKm
			}
		}
		return a.Activity.ID < b.Activity.ID
	})

	if maxResults > 0 && maxResults < len(ranked) {
		ranked = ranked[:maxResults]
	}

	return ranked
}

// Query composes filter, rank and limit. This is the single entry point the
// API layer needs; the sub-operations exist for focused testing.
//
// Empty candidate lists and non-positive radii yield an empty result, not an
// error: an empty nearby list is a normal outcome. Malformed coordinates are
// an error and are never coerced into a default distance.
func Query(q ProximityQuery) ([]Match, error) {
	if err := q.Origin.Validate(); err != nil {
		return nil, fmt.Errorf("proximity query: origin: %w", err)
	}
	for _, c := range q.Candidates {
		if err := c.Coordinate().Validate(); err != nil {
			return nil, fmt.Errorf("proximity query: candidate id=%d: %w", c.ID, err)
		}
	}
	if q.MaxResults < 0 {
		return nil, errors.New("proximity query: maxResults must not be negative")
	}

	filtered := FilterWithinRadius(q.Origin, q.Candidates, q.RadiusKm)
	return RankAndLimit(filtered, q.Sort, q.MaxResults), nil
}
