package history

import (
	"context"
	"sync"
	"testing"
	"time"

	"helmsman-hq/chartward/pkg/policy"
)

// stubStorage collects stored records and optionally blocks writes.
type stubStorage struct {
	mu      sync.Mutex
	stored  []*RunRecord
	release chan struct{}
}

func (s *stubStorage) Store(ctx context.Context, record *RunRecord) error {
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stored = append(s.stored, record)
	return nil
}

func (s *stubStorage) Query(ctx context.Context, query *Query) ([]*RunRecord, error) {
	return nil, nil
}
func (s *stubStorage) Count(ctx context.Context) (int, error)                      { return 0, nil }
func (s *stubStorage) DeleteBefore(ctx context.Context, t time.Time) (int64, error) { return 0, nil }
func (s *stubStorage) TrimToCount(ctx context.Context, max int) (int64, error)      { return 0, nil }
func (s *stubStorage) Close() error                                                 { return nil }

func (s *stubStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stored)
}

func testRecord(id string) *RunRecord {
	r := NewRunRecord(
		policy.Chart{Name: "my-app", Version: "1.0.0"},
		"default",
		&policy.Result{Valid: true, Metadata: policy.ResultMetadata{PluginCount: 2}},
		time.Now(),
	)
	if id != "" {
		r.ID = id
	}
	return r
}

func TestNewRunRecord(t *testing.T) {
	started := time.Now().Add(-time.Second)
	result := &policy.Result{
		Valid:      false,
		Violations: []policy.Violation{{Plugin: "p", Severity: policy.SeverityError, Message: "x"}},
		Warnings:   []policy.Violation{{}, {}},
		Metadata: policy.ResultMetadata{
			ExecutionTime: 42 * time.Millisecond,
			PluginCount:   3,
			ManifestCount: 5,
		},
	}

	record := NewRunRecord(policy.Chart{Name: "my-app", Version: "1.2.0"}, "production", result, started)

	if record.ID == "" {
		t.Error("ID is empty")
	}
	if record.ChartName != "my-app" || record.ChartVersion != "1.2.0" || record.Environment != "production" {
		t.Errorf("identity fields = %+v", record)
	}
	if record.Valid {
		t.Error("Valid = true, want false")
	}
	if record.ViolationCount != 1 || record.WarningCount != 2 {
		t.Errorf("counts = %d/%d, want 1/2", record.ViolationCount, record.WarningCount)
	}
	if record.PluginCount != 3 || record.ManifestCount != 5 {
		t.Errorf("metadata counts = %d/%d", record.PluginCount, record.ManifestCount)
	}
	if record.Duration != 42*time.Millisecond {
		t.Errorf("Duration = %v", record.Duration)
	}
	if !record.StartedAt.Equal(started.UTC()) {
		t.Errorf("StartedAt = %v, want %v", record.StartedAt, started.UTC())
	}
	if record.RecordedAt.IsZero() {
		t.Error("RecordedAt is zero")
	}
}

func TestRecorderStoresAsynchronously(t *testing.T) {
	store := &stubStorage{}
	r := NewRecorder(store, nil, nil)

	r.Record(testRecord("a"))
	r.Record(testRecord("b"))
	r.Close()

	if got := store.count(); got != 2 {
		t.Errorf("stored = %d, want 2", got)
	}
}

func TestRecorderDropsWhenBufferFull(t *testing.T) {
	store := &stubStorage{release: make(chan struct{})}
	r := NewRecorder(store, &RecorderConfig{Buffer: 1, WriteTimeout: time.Second}, nil)

	// The writer blocks on the first record; one more fits the buffer,
	// everything past that is dropped without blocking.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			r.Record(testRecord(""))
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record() blocked on a full buffer")
	}

	close(store.release)
	r.Close()

	if got := store.count(); got > 2 {
		t.Errorf("stored = %d, want at most 2 (in-flight plus buffered)", got)
	}
}

func TestRecorderCloseIdempotent(t *testing.T) {
	r := NewRecorder(&stubStorage{}, nil, nil)
	r.Close()
	r.Close()
}

func TestStorageErrorUnwrap(t *testing.T) {
	cause := context.DeadlineExceeded
	err := NewStorageError("sqlite", "store", cause)

	if err.Error() != "history storage sqlite: store failed: context deadline exceeded" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v", err.Unwrap())
	}
}
