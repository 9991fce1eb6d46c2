package storage

// Schema is the SQLite schema for validation run history.
const Schema = `
CREATE TABLE IF NOT EXISTS validation_runs (
	id TEXT PRIMARY KEY,
	chart_name TEXT NOT NULL,
	chart_version TEXT NOT NULL,
	environment TEXT NOT NULL,
	valid INTEGER NOT NULL,
	violation_count INTEGER NOT NULL,
	warning_count INTEGER NOT NULL,
	plugin_count INTEGER NOT NULL,
	manifest_count INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	started_at TIMESTAMP NOT NULL,
	recorded_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON validation_runs(started_at);
CREATE INDEX IF NOT EXISTS idx_runs_chart_name ON validation_runs(chart_name);
CREATE INDEX IF NOT EXISTS idx_runs_environment ON validation_runs(environment);
`
