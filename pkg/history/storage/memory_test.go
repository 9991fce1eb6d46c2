package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"helmsman-hq/chartward/pkg/history"
)

func record(id, chart, env string, startedAt time.Time) *history.RunRecord {
	return &history.RunRecord{
		ID:           id,
		ChartName:    chart,
		ChartVersion: "1.0.0",
		Environment:  env,
		Valid:        true,
		Duration:     time.Millisecond,
		StartedAt:    startedAt.UTC(),
		RecordedAt:   startedAt.UTC(),
	}
}

// seed stores n records one minute apart, oldest first.
func seed(t *testing.T, s history.Storage, n int, chart, env string) time.Time {
	t.Helper()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		r := record(fmt.Sprintf("rec-%02d", i), chart, env, base.Add(time.Duration(i)*time.Minute))
		if err := s.Store(context.Background(), r); err != nil {
			t.Fatalf("Store() error = %v", err)
		}
	}
	return base
}

func TestMemoryStorageQueryNewestFirst(t *testing.T) {
	s := NewMemoryStorage()
	seed(t, s, 3, "my-app", "default")

	results, err := s.Query(context.Background(), nil)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	if results[0].ID != "rec-02" || results[2].ID != "rec-00" {
		t.Errorf("order = %s..%s, want rec-02..rec-00", results[0].ID, results[2].ID)
	}
}

func TestMemoryStorageQueryFilters(t *testing.T) {
	s := NewMemoryStorage()
	base := seed(t, s, 4, "my-app", "default")
	seed2 := record("other", "other-app", "production", base)
	if err := s.Store(context.Background(), seed2); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	tests := []struct {
		name  string
		query *history.Query
		want  int
	}{
		{"by chart", &history.Query{ChartName: "my-app"}, 4},
		{"by environment", &history.Query{Environment: "production"}, 1},
		{"since cutoff", &history.Query{ChartName: "my-app", Since: base.Add(2 * time.Minute)}, 2},
		{"limit", &history.Query{ChartName: "my-app", Limit: 2}, 2},
		{"offset past end", &history.Query{Offset: 100}, 0},
		{"no match", &history.Query{ChartName: "absent"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := s.Query(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if len(results) != tt.want {
				t.Errorf("results = %d, want %d", len(results), tt.want)
			}
		})
	}
}

func TestMemoryStorageDeleteBefore(t *testing.T) {
	s := NewMemoryStorage()
	base := seed(t, s, 5, "my-app", "default")

	deleted, err := s.DeleteBefore(context.Background(), base.Add(3*time.Minute))
	if err != nil {
		t.Fatalf("DeleteBefore() error = %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}

	count, err := s.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestMemoryStorageTrimToCount(t *testing.T) {
	s := NewMemoryStorage()
	seed(t, s, 5, "my-app", "default")

	deleted, err := s.TrimToCount(context.Background(), 2)
	if err != nil {
		t.Fatalf("TrimToCount() error = %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}

	// The newest records survive.
	results, err := s.Query(context.Background(), nil)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(results) != 2 || results[0].ID != "rec-04" || results[1].ID != "rec-03" {
		t.Errorf("survivors = %+v, want rec-04, rec-03", results)
	}
}

func TestMemoryStorageTrimNoop(t *testing.T) {
	s := NewMemoryStorage()
	seed(t, s, 2, "my-app", "default")

	deleted, err := s.TrimToCount(context.Background(), 10)
	if err != nil {
		t.Fatalf("TrimToCount() error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, want 0", deleted)
	}
}

func TestMemoryStorageCopiesRecords(t *testing.T) {
	s := NewMemoryStorage()
	r := record("rec-00", "my-app", "default", time.Now())
	if err := s.Store(context.Background(), r); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	// Mutating the caller's record must not affect the stored copy.
	r.ChartName = "mutated"

	results, err := s.Query(context.Background(), nil)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if results[0].ChartName != "my-app" {
		t.Errorf("stored chart = %q, want my-app", results[0].ChartName)
	}
}
