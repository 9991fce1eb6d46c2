package config

// Config is the root configuration structure for chartward. It covers
// the chart under validation, engine behavior, per-plugin settings,
// run history, and telemetry.
type Config struct {
	// Chart identifies the Helm chart being validated.
	Chart ChartConfig `yaml:"chart"`

	// Validation contains policy engine settings.
	Validation ValidationConfig `yaml:"validation"`

	// Plugins contains per-plugin configuration keyed by plugin name.
	// Values override each plugin's declared defaults.
	Plugins map[string]map[string]any `yaml:"plugins"`

	// History contains run history persistence settings.
	History HistoryConfig `yaml:"history"`

	// Telemetry contains logging and metrics settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ChartConfig identifies the chart under validation.
type ChartConfig struct {
	// Name is the chart name. Required unless provided on the command line.
	Name string `yaml:"name"`

	// Version is the chart version.
	Version string `yaml:"version"`

	// Environment is the deployment environment the manifests target.
	// Example: "production", "staging".
	// Default: "default"
	Environment string `yaml:"environment"`
}

// ValidationConfig contains policy engine settings.
type ValidationConfig struct {
	// Timeout is the per-plugin execution timeout.
	// Default: 30s
	Timeout Duration `yaml:"timeout"`

	// Parallel runs plugins concurrently instead of in registration order.
	// Default: false
	Parallel bool `yaml:"parallel"`

	// FailFast stops sequential validation at the first plugin failure.
	// Ignored when Parallel is true.
	// Default: false
	FailFast bool `yaml:"fail_fast"`

	// GracefulDegradation converts plugin failures into error-severity
	// violations instead of aborting the run.
	// Default: true
	GracefulDegradation bool `yaml:"graceful_degradation"`

	// Format selects the output format.
	// Options: "human", "json", "compact", "ci", "sarif"
	// Default: "human"
	Format string `yaml:"format"`
}

// HistoryConfig contains run history settings.
type HistoryConfig struct {
	// Enabled controls whether validation runs are recorded.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file for run records.
	// Default: "chartward-history.db"
	Path string `yaml:"path"`

	// RetentionDays is the number of days to retain run records.
	// 0 keeps records forever.
	// Default: 90
	RetentionDays int `yaml:"retention_days"`

	// MaxRecords is the maximum number of records to keep.
	// 0 means unlimited.
	// Default: 0
	MaxRecords int `yaml:"max_records"`

	// PruneSchedule is a cron expression for scheduled pruning in watch
	// mode. Empty disables scheduled pruning.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig contains observability settings.
type TelemetryConfig struct {
	// Logging contains logging settings.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics settings.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled controls whether the metrics endpoint is served in watch
	// mode.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Address is the listen address for the metrics endpoint.
	// Default: "127.0.0.1:9464"
	Address string `yaml:"address"`

	// Namespace is the metric name prefix.
	// Default: "chartward"
	Namespace string `yaml:"namespace"`
}
