package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

var validFormats = map[string]bool{
	"human":   true,
	"json":    true,
	"compact": true,
	"ci":      true,
	"sarif":   true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the configuration for invalid values. It collects all
// problems so a bad file is reported in one pass.
func Validate(cfg *Config) error {
	var problems []string

	if cfg.Validation.Timeout < 0 {
		problems = append(problems, "validation.timeout must not be negative")
	}
	if !validFormats[cfg.Validation.Format] {
		problems = append(problems, fmt.Sprintf(
			"validation.format %q is not one of: human, json, compact, ci, sarif",
			cfg.Validation.Format))
	}

	if cfg.History.RetentionDays < 0 {
		problems = append(problems, "history.retention_days must not be negative")
	}
	if cfg.History.MaxRecords < 0 {
		problems = append(problems, "history.max_records must not be negative")
	}
	if cfg.History.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.History.PruneSchedule); err != nil {
			problems = append(problems, fmt.Sprintf(
				"history.prune_schedule %q is not a valid cron expression",
				cfg.History.PruneSchedule))
		}
	}

	if !validLogLevels[cfg.Telemetry.Logging.Level] {
		problems = append(problems, fmt.Sprintf(
			"telemetry.logging.level %q is not one of: debug, info, warn, error",
			cfg.Telemetry.Logging.Level))
	}
	if f := cfg.Telemetry.Logging.Format; f != "json" && f != "text" {
		problems = append(problems, fmt.Sprintf(
			"telemetry.logging.format %q is not one of: json, text", f))
	}
	if cfg.Telemetry.Metrics.Enabled && cfg.Telemetry.Metrics.Address == "" {
		problems = append(problems, "telemetry.metrics.address is required when metrics are enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}
