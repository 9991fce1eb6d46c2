package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"helmsman-hq/chartward/pkg/policy"
)

// RunRecord is the condensed audit record of one validation run.
type RunRecord struct {
	// ID is a UUID v4 assigned at record creation.
	ID string `json:"id"`

	ChartName    string `json:"chart_name"`
	ChartVersion string `json:"chart_version"`
	Environment  string `json:"environment"`

	Valid          bool `json:"valid"`
	ViolationCount int  `json:"violation_count"`
	WarningCount   int  `json:"warning_count"`
	PluginCount    int  `json:"plugin_count"`
	ManifestCount  int  `json:"manifest_count"`

	Duration   time.Duration `json:"duration"`
	StartedAt  time.Time     `json:"started_at"`
	RecordedAt time.Time     `json:"recorded_at"`
}

// NewRunRecord condenses a validation result into a record.
func NewRunRecord(chart policy.Chart, environment string, result *policy.Result, startedAt time.Time) *RunRecord {
	return &RunRecord{
		ID:             uuid.NewString(),
		ChartName:      chart.Name,
		ChartVersion:   chart.Version,
		Environment:    environment,
		Valid:          result.Valid,
		ViolationCount: len(result.Violations),
		WarningCount:   len(result.Warnings),
		PluginCount:    result.Metadata.PluginCount,
		ManifestCount:  result.Metadata.ManifestCount,
		Duration:       result.Metadata.ExecutionTime,
		StartedAt:      startedAt.UTC(),
		RecordedAt:     time.Now().UTC(),
	}
}

// Query filters stored run records. Zero values mean "no constraint".
type Query struct {
	ChartName   string
	Environment string
	Since       time.Time
	Limit       int
	Offset      int
}

// Storage persists run records.
type Storage interface {
	// Store persists a record.
	Store(ctx context.Context, record *RunRecord) error

	// Query returns records matching the query, newest first.
	Query(ctx context.Context, query *Query) ([]*RunRecord, error)

	// Count returns the total number of stored records.
	Count(ctx context.Context) (int, error)

	// DeleteBefore removes records that started before the cutoff and
	// returns how many were removed.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// TrimToCount keeps only the newest max records and returns how many
	// were removed.
	TrimToCount(ctx context.Context, max int) (int64, error)

	// Close releases storage resources.
	Close() error
}

// StorageError wraps a storage backend failure with its backend and
// operation.
type StorageError struct {
	Backend string
	Op      string
	Err     error
}

// Error returns the error message.
func (e *StorageError) Error() string {
	return fmt.Sprintf("history storage %s: %s failed: %v", e.Backend, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a StorageError.
func NewStorageError(backend, op string, err error) *StorageError {
	return &StorageError{Backend: backend, Op: op, Err: err}
}
