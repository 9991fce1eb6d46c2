package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"helmsman-hq/chartward/pkg/history"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 4.
	MaxOpenConns int

	// WALMode enables Write-Ahead Logging for better concurrency.
	// Default: true.
	WALMode bool

	// BusyTimeout is how long to wait when the database is locked.
	// Default: 5 seconds.
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig(path string) *SQLiteConfig {
	return &SQLiteConfig{
		Path:         path,
		MaxOpenConns: 4,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements history.Storage on SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens (creating if needed) the history database.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil || config.Path == "" {
		return nil, history.NewStorageError("sqlite", "open", fmt.Errorf("database path is required"))
	}

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, history.NewStorageError("sqlite", "open", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: slog.Default().With("component", "history.storage.sqlite"),
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Debug("history database ready",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)

	return s, nil
}

// initialize applies pragmas and creates the schema.
func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return history.NewStorageError("sqlite", "enable_wal", err)
		}
	}

	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return history.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return history.NewStorageError("sqlite", "create_schema", err)
	}

	return nil
}

// Store persists a record.
func (s *SQLiteStorage) Store(ctx context.Context, record *history.RunRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO validation_runs (
			id, chart_name, chart_version, environment,
			valid, violation_count, warning_count, plugin_count, manifest_count,
			duration_ms, started_at, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.ChartName, record.ChartVersion, record.Environment,
		boolToInt(record.Valid), record.ViolationCount, record.WarningCount,
		record.PluginCount, record.ManifestCount,
		record.Duration.Milliseconds(), record.StartedAt.UTC(), record.RecordedAt.UTC(),
	)
	if err != nil {
		return history.NewStorageError("sqlite", "store", err)
	}
	return nil
}

// Query returns matching records, newest first.
func (s *SQLiteStorage) Query(ctx context.Context, query *history.Query) ([]*history.RunRecord, error) {
	if query == nil {
		query = &history.Query{}
	}

	var (
		conds []string
		args  []any
	)
	if query.ChartName != "" {
		conds = append(conds, "chart_name = ?")
		args = append(args, query.ChartName)
	}
	if query.Environment != "" {
		conds = append(conds, "environment = ?")
		args = append(args, query.Environment)
	}
	if !query.Since.IsZero() {
		conds = append(conds, "started_at >= ?")
		args = append(args, query.Since.UTC())
	}

	q := `SELECT id, chart_name, chart_version, environment,
		valid, violation_count, warning_count, plugin_count, manifest_count,
		duration_ms, started_at, recorded_at
		FROM validation_runs`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY started_at DESC"
	if query.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, query.Limit)
		if query.Offset > 0 {
			q += " OFFSET ?"
			args = append(args, query.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, history.NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	var records []*history.RunRecord
	for rows.Next() {
		var (
			record     history.RunRecord
			valid      int
			durationMS int64
		)
		err := rows.Scan(
			&record.ID, &record.ChartName, &record.ChartVersion, &record.Environment,
			&valid, &record.ViolationCount, &record.WarningCount,
			&record.PluginCount, &record.ManifestCount,
			&durationMS, &record.StartedAt, &record.RecordedAt,
		)
		if err != nil {
			return nil, history.NewStorageError("sqlite", "scan", err)
		}
		record.Valid = valid != 0
		record.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, history.NewStorageError("sqlite", "query", err)
	}

	return records, nil
}

// Count returns the number of stored records.
func (s *SQLiteStorage) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM validation_runs").Scan(&count)
	if err != nil {
		return 0, history.NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// DeleteBefore removes records that started before the cutoff.
func (s *SQLiteStorage) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM validation_runs WHERE started_at < ?", cutoff.UTC())
	if err != nil {
		return 0, history.NewStorageError("sqlite", "delete_before", err)
	}
	return res.RowsAffected()
}

// TrimToCount keeps only the newest max records.
func (s *SQLiteStorage) TrimToCount(ctx context.Context, max int) (int64, error) {
	if max < 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM validation_runs WHERE id NOT IN (
			SELECT id FROM validation_runs ORDER BY started_at DESC LIMIT ?
		)`, max)
	if err != nil {
		return 0, history.NewStorageError("sqlite", "trim", err)
	}
	return res.RowsAffected()
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
