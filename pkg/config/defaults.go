package config

import "time"

// Default returns a configuration with all defaults applied.
//
// GracefulDegradation defaults to true and is set here rather than in
// ApplyDefaults: a zero bool cannot be told apart from an explicit
// false, so loading starts from Default and lets the file override it.
func Default() *Config {
	cfg := &Config{
		Validation: ValidationConfig{GracefulDegradation: true},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills in zero-valued fields with their defaults.
// Explicitly configured values are never overwritten.
func ApplyDefaults(cfg *Config) {
	if cfg.Chart.Environment == "" {
		cfg.Chart.Environment = "default"
	}

	if cfg.Validation.Timeout == 0 {
		cfg.Validation.Timeout = Duration(30 * time.Second)
	}
	if cfg.Validation.Format == "" {
		cfg.Validation.Format = "human"
	}

	if cfg.Plugins == nil {
		cfg.Plugins = make(map[string]map[string]any)
	}

	if cfg.History.Path == "" {
		cfg.History.Path = "chartward-history.db"
	}
	if cfg.History.RetentionDays == 0 {
		cfg.History.RetentionDays = 90
	}
	if cfg.History.PruneSchedule == "" {
		cfg.History.PruneSchedule = "0 3 * * *"
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = "info"
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = "text"
	}

	if cfg.Telemetry.Metrics.Address == "" {
		cfg.Telemetry.Metrics.Address = "127.0.0.1:9464"
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = "chartward"
	}
}
