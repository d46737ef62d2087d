package repositories

import (
	"context"
	"strings"
	"testing"

	"activity-finder-service/internal/ports"
)

func TestPostgresListQueryPlaceholders(t *testing.T) {
	tests := []struct {
		name      string
		filter    ports.ActivityFilter
		wantWhere []string
		wantArgs  []any
	}{
		{
			name:      "no filter",
			filter:    ports.ActivityFilter{},
			wantWhere: nil,
			wantArgs:  []any{},
		},
		{
			name:      "category only",
			filter:    ports.ActivityFilter{Category: "outdoor"},
			wantWhere: []string{"category = $1"},
			wantArgs:  []any{"outdoor"},
		},
		{
			name:      "region only",
			filter:    ports.ActivityFilter{Region: "Adjara"},
			wantWhere: []string{"region = $1"},
			wantArgs:  []any{"Adjara"},
		},
		{
			name:      "min rating only",
			filter:    ports.ActivityFilter{MinRating: 4.5},
			wantWhere: []string{"rating >= $1"},
			wantArgs:  []any{4.5},
		},
		{
			name:      "all filters number placeholders in order",
			filter:    ports.ActivityFilter{Category: "outdoor", Region: "Adjara", MinRating: 4.5},
			wantWhere: []string{"category = $1", "region = $2", "rating >= $3"},
			wantArgs:  []any{"outdoor", "Adjara", 4.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := listActivitiesQueryPostgres(tt.filter)

			if len(tt.wantWhere) == 0 {
				if strings.Contains(query, "WHERE") {
					t.Errorf("expected no WHERE clause, got %q", query)
				}
			}
			for _, clause := range tt.wantWhere {
				if !strings.Contains(query, clause) {
					t.Errorf("query %q missing clause %q", query, clause)
				}
			}
			if !strings.Contains(query, "ORDER BY activity_id") {
				t.Errorf("query %q missing deterministic ordering", query)
			}

			if len(args) != len(tt.wantArgs) {
				t.Fatalf("got %d args, want %d", len(args), len(tt.wantArgs))
			}
			for i := range args {
				if args[i] != tt.wantArgs[i] {
					t.Errorf("args[%d] = %v, want %v", i, args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestPostgresRepositoryNilDB(t *testing.T) {
	repo := NewPostgresActivityRepository(nil)
	ctx := context.Background()

	if _, err := repo.ListActivities(ctx, ports.ActivityFilter{}); err == nil {
		t.Error("expected error for nil DB on ListActivities")
	}
	if _, err := repo.GetActivities(ctx, []int{1}); err == nil {
		t.Error("expected error for nil DB on GetActivities")
	}
}
