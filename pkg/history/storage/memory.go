package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"helmsman-hq/chartward/pkg/history"
)

// MemoryStorage implements history.Storage with an in-memory slice.
type MemoryStorage struct {
	mu      sync.RWMutex
	records []*history.RunRecord
}

// NewMemoryStorage creates an in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Store persists a record.
func (s *MemoryStorage) Store(ctx context.Context, record *history.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *record
	s.records = append(s.records, &copied)
	return nil
}

// Query returns matching records, newest first.
func (s *MemoryStorage) Query(ctx context.Context, query *history.Query) ([]*history.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if query == nil {
		query = &history.Query{}
	}

	var results []*history.RunRecord
	for _, record := range s.records {
		if matches(record, query) {
			copied := *record
			results = append(results, &copied)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].StartedAt.After(results[j].StartedAt)
	})

	if query.Offset > 0 {
		if query.Offset >= len(results) {
			return nil, nil
		}
		results = results[query.Offset:]
	}
	if query.Limit > 0 && query.Limit < len(results) {
		results = results[:query.Limit]
	}

	return results, nil
}

// Count returns the number of stored records.
func (s *MemoryStorage) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records), nil
}

// DeleteBefore removes records that started before the cutoff.
func (s *MemoryStorage) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	var deleted int64
	for _, record := range s.records {
		if record.StartedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, record)
	}
	s.records = kept
	return deleted, nil
}

// TrimToCount keeps only the newest max records.
func (s *MemoryStorage) TrimToCount(ctx context.Context, max int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if max < 0 || len(s.records) <= max {
		return 0, nil
	}

	sort.Slice(s.records, func(i, j int) bool {
		return s.records[i].StartedAt.After(s.records[j].StartedAt)
	})
	deleted := int64(len(s.records) - max)
	s.records = s.records[:max]
	return deleted, nil
}

// Close releases resources; a no-op for memory storage.
func (s *MemoryStorage) Close() error {
	return nil
}

func matches(record *history.RunRecord, query *history.Query) bool {
	if query.ChartName != "" && record.ChartName != query.ChartName {
		return false
	}
	if query.Environment != "" && record.Environment != query.Environment {
		return false
	}
	if !query.Since.IsZero() && record.StartedAt.Before(query.Since) {
		return false
	}
	return true
}
