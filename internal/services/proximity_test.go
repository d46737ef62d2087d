package services

import (
	"errors"
	"math"
	"testing"

	"activity-finder-service/internal/domain"
)

// Batumi city center, the origin for most scenarios below.
var batumi = domain.Coordinate{Lat: 41.6938, Lon: 41.6401}

func TestFilterWithinRadius(t *testing.T) {
	candidates := []domain.Activity{
		{ID: 1, Name: "boulevard", Lat: 41.6527, Lon: 41.6381},  // ~4.6 km
		{ID: 2, Name: "botanical", Lat: 41.6926, Lon: 41.7067},  // ~5.5 km
		{ID: 3, Name: "waterfall", Lat: 41.5592, Lon: 41.8560},  // ~23 km
		{ID: 4, Name: "kobuleti", Lat: 41.8205, Lon: 41.7776},   // ~18 km
		{ID: 5, Name: "same spot", Lat: 41.6938, Lon: 41.6401},  // 0 km
	}

	got := FilterWithinRadius(batumi, candidates, 10)

	if len(got) != 3 {
		t.Fatalf("expected 3 survivors, got %d", len(got))
	}

	// Stable filter: survivors keep input order.
	wantIDs := []int{1, 2, 5}
	for i, m := range got {
		if m.Activity.ID != wantIDs[i] {
			t.Errorf("survivor[%d].ID = %d, want %d", i, m.Activity.ID, wantIDs[i])
		}
		if m.DistanceKm > 10 {
			t.Errorf("survivor id=%d distance %v exceeds radius", m.Activity.ID, m.DistanceKm)
		}
	}

	// Everything excluded must genuinely be beyond the radius.
	excluded := map[int]bool{3: true, 4: true}
	for _, c := range candidates {
		if !excluded[c.ID] {
			continue
		}
		if d := HaversineKm(batumi, c.Coordinate()); d <= 10 {
			t.Errorf("id=%d was excluded but distance %v <= radius", c.ID, d)
		}
	}
}

func TestFilterWithinRadiusNonPositiveRadius(t *testing.T) {
	candidates := []domain.Activity{{ID: 1, Lat: 41.6938, Lon: 41.6401}}

	for _, radius := range []float64{0, -1} {
		if got := FilterWithinRadius(batumi, candidates, radius); len(got) != 0 {
			t.Errorf("radius %v: expected empty result, got %d entries", radius, len(got))
		}
	}
}

func TestRankAndLimitByDistance(t *testing.T) {
	matches := []Match{
		{Activity: domain.Activity{ID: 3}, DistanceKm: 5},
		{Activity: domain.Activity{ID: 1}, DistanceKm: 2},
		{Activity: domain.Activity{ID: 2}, DistanceKm: 8},
	}

	got := RankAndLimit(matches, SortByDistance, 0)

	wantIDs := []int{1, 3, 2}
	for i, m := range got {
		if m.Activity.ID != wantIDs[i] {
			t.Errorf("ranked[%d].ID = %d, want %d", i, m.Activity.ID, wantIDs[i])
		}
	}
}

func TestRankAndLimitDistanceTieBreaksByID(t *testing.T) {
	matches := []Match{
		{Activity: domain.Activity{ID: 7}, DistanceKm: 3},
		{Activity: domain.Activity{ID: 2}, DistanceKm: 3},
		{Activity: domain.Activity{ID: 5}, DistanceKm: 3},
	}

	got := RankAndLimit(matches, SortByDistance, 0)

	wantIDs := []int{2, 5, 7}
	for i, m := range got {
		if m.Activity.ID != wantIDs[i] {
			t.Errorf("ranked[%d].ID = %d, want %d", i, m.Activity.ID, wantIDs[i])
		}
	}
}

func TestRankAndLimitByRating(t *testing.T) {
	matches := []Match{
		{Activity: domain.Activity{ID: 1, Rating: 4.2}},
		{Activity: domain.Activity{ID: 2, Rating: 4.8}},
		{Activity: domain.Activity{ID: 4, Rating: 4.8}},
		{Activity: domain.Activity{ID: 3}}, // missing rating sorts last
	}

	got := RankAndLimit(matches, SortByRating, 0)

	wantIDs := []int{2, 4, 1, 3}
	for i, m := range got {
		if m.Activity.ID != wantIDs[i] {
			t.Errorf("ranked[%d].ID = %d, want %d", i, m.Activity.ID, wantIDs[i])
		}
	}
}

func TestRankAndLimitByName(t *testing.T) {
	matches := []Match{
		{Activity: domain.Activity{ID: 2, Name: "Gonio Fortress"}},
		{Activity: domain.Activity{ID: 3, Name: "Argo Cable Car"}},
		{Activity: domain.Activity{ID: 4, Name: "Argo Cable Car"}},
		{Activity: domain.Activity{ID: 1, Name: "Old Town Food Tour"}},
	}

	got := RankAndLimit(matches, SortByName, 0)

	wantIDs := []int{3, 4, 2, 1}
	for i, m := range got {
		if m.Activity.ID != wantIDs[i] {
			t.Errorf("ranked[%d].ID = %d, want %d", i, m.Activity.ID, wantIDs[i])
		}
	}
}

func TestRankAndLimitCap(t *testing.T) {
	matches := make([]Match, 10)
	for i := range matches {
		matches[i] = Match{Activity: domain.Activity{ID: i + 1}, DistanceKm: float64(i)}
	}

	got := RankAndLimit(matches, SortByDistance, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}

	// Input must not be reordered by ranking.
	if matches[0].Activity.ID != 1 || matches[9].Activity.ID != 10 {
		t.Error("input slice was mutated")
	}
}

func TestQueryEmptyCandidates(t *testing.T) {
	got, err := Query(ProximityQuery{
		Origin:     batumi,
		Candidates: []domain.Activity{},
		RadiusKm:   10,
		Sort:       SortByDistance,
		MaxResults: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d entries", len(got))
	}
}

func TestQueryInvalidOrigin(t *testing.T) {
	invalid := []domain.Coordinate{
		{Lat: math.NaN(), Lon: 41.64},
		{Lat: 91, Lon: 0},
		{Lat: 0, Lon: -181},
		{Lat: math.Inf(1), Lon: 0},
	}

	for _, origin := range invalid {
		_, err := Query(ProximityQuery{Origin: origin, RadiusKm: 10, MaxResults: 5})
		if !errors.Is(err, domain.ErrInvalidCoordinate) {
			t.Errorf("origin %v: expected ErrInvalidCoordinate, got %v", origin, err)
		}
	}
}

func TestQueryInvalidCandidate(t *testing.T) {
	_, err := Query(ProximityQuery{
		Origin:     batumi,
		Candidates: []domain.Activity{{ID: 9, Lat: math.NaN(), Lon: 41.6}},
		RadiusKm:   10,
		MaxResults: 5,
	})
	if !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Fatalf("expected ErrInvalidCoordinate, got %v", err)
	}
}

// The end-to-end scenario: five candidates spanning roughly 2km to 50km,
// radius 10km, nearest first, capped at 3.
func TestQueryEndToEnd(t *testing.T) {
	candidates := []domain.Activity{
		{ID: 1, Name: "cable car", Lat: 41.6477, Lon: 41.6464},   // ~5.2 km
		{ID: 2, Name: "boulevard", Lat: 41.6757, Lon: 41.6399},   // ~2.0 km
		{ID: 3, Name: "botanical", Lat: 41.6926, Lon: 41.7067},   // ~5.5 km
		{ID: 4, Name: "waterfall", Lat: 41.5592, Lon: 41.8560},   // ~23 km
		{ID: 5, Name: "mountain pass", Lat: 41.85, Lon: 42.2},    // ~50 km
	}

	got, err := Query(ProximityQuery{
		Origin:     batumi,
		Candidates: candidates,
		RadiusKm:   10,
		Sort:       SortByDistance,
		MaxResults: 3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}

	wantIDs := []int{2, 1, 3}
	for i, m := range got {
		if m.Activity.ID != wantIDs[i] {
			t.Errorf("result[%d].ID = %d, want %d", i, m.Activity.ID, wantIDs[i])
		}
		if m.DistanceKm > 10 {
			t.Errorf("result[%d] distance %v exceeds radius", i, m.DistanceKm)
		}
	}

	for i := 1; i < len(got); i++ {
		if got[i].DistanceKm < got[i-1].DistanceKm {
			t.Errorf("results not ordered nearest-first at index %d", i)
		}
	}
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in      string
		want    SortKey
		wantErr bool
	}{
		{in: "", want: SortByDistance},
		{in: "distance", want: SortByDistance},
		{in: "rating", want: SortByRating},
		{in: "name", want: SortByName},
		{in: "popularity", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseSortKey(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseSortKey(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSortKey(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSortKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
