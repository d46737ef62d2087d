package repositories

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"activity-finder-service/internal/domain"
	"activity-finder-service/internal/ports"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	return db
}

func insertActivities(t *testing.T, db *sql.DB, activities []domain.Activity) {
	t.Helper()

	for _, a := range activities {
		_, err := db.Exec(
			`INSERT INTO activities (activity_id, name, category, region, rating, lat, lon) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.Name, a.Category, a.Region, a.Rating, a.Lat, a.Lon,
		)
		if err != nil {
			t.Fatalf("insert activity id=%d: %v", a.ID, err)
		}
	}
}

func testActivities() []domain.Activity {
	return []domain.Activity{
		{ID: 1, Name: "Argo Cable Car", Category: "sightseeing", Region: "Adjara", Rating: 4.5, Lat: 41.6477, Lon: 41.6464},
		{ID: 2, Name: "Boulevard Bike Tour", Category: "outdoor", Region: "Adjara", Rating: 4.7, Lat: 41.6527, Lon: 41.6381},
		{ID: 3, Name: "Kazbegi Day Trip", Category: "outdoor", Region: "Mtskheta-Mtianeti", Rating: 4.9, Lat: 42.6569, Lon: 44.6434},
	}
}

func TestSqliteListActivities(t *testing.T) {
	db := newTestDB(t)
	insertActivities(t, db, testActivities())
	repo := NewSqliteActivityRepository(db)

	tests := []struct {
		name    string
		filter  ports.ActivityFilter
		wantIDs []int
	}{
		{name: "no filter", filter: ports.ActivityFilter{}, wantIDs: []int{1, 2, 3}},
		{name: "by category", filter: ports.ActivityFilter{Category: "outdoor"}, wantIDs: []int{2, 3}},
		{name: "by region", filter: ports.ActivityFilter{Region: "Adjara"}, wantIDs: []int{1, 2}},
		{name: "by min rating", filter: ports.ActivityFilter{MinRating: 4.6}, wantIDs: []int{2, 3}},
		{name: "combined", filter: ports.ActivityFilter{Category: "outdoor", Region: "Adjara"}, wantIDs: []int{2}},
		{name: "no matches", filter: ports.ActivityFilter{Category: "food"}, wantIDs: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ListActivities(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d activities, want %d", len(got), len(tt.wantIDs))
			}
			for i, a := range got {
				if a.ID != tt.wantIDs[i] {
					t.Errorf("activity[%d].ID = %d, want %d", i, a.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestSqliteGetActivities(t *testing.T) {
	db := newTestDB(t)
	insertActivities(t, db, testActivities())
	repo := NewSqliteActivityRepository(db)

	// Requested order preserved, unknown ids skipped.
	got, err := repo.GetActivities(context.Background(), []int{3, 42, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d activities, want 2", len(got))
	}
	if got[0].ID != 3 || got[1].ID != 1 {
		t.Errorf("expected order [3 1], got [%d %d]", got[0].ID, got[1].ID)
	}

	empty, err := repo.GetActivities(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty result for no ids, got %d", len(empty))
	}
}

func TestSeedFromJSONIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	seedPath := writeSeedFile(t)

	for i := 0; i < 2; i++ {
		if err := SeedFromJSON(db, seedPath); err != nil {
			t.Fatalf("seed run %d: %v", i+1, err)
		}
	}

	repo := NewSqliteActivityRepository(db)
	got, err := repo.ListActivities(context.Background(), ports.ActivityFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 activities after double seed, got %d", len(got))
	}
}
