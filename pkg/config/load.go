package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file. The file is decoded
// over Default so absent keys keep their default values; the result is
// validated before being returned.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}
	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the naming
// convention CHARTWARD_SECTION_FIELD (e.g. CHARTWARD_VALIDATION_TIMEOUT)
// and always take precedence over file values.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies CHARTWARD_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("CHARTWARD_CHART_NAME"); val != "" {
		cfg.Chart.Name = val
	}
	if val := os.Getenv("CHARTWARD_CHART_VERSION"); val != "" {
		cfg.Chart.Version = val
	}
	if val := os.Getenv("CHARTWARD_CHART_ENVIRONMENT"); val != "" {
		cfg.Chart.Environment = val
	}

	if val := os.Getenv("CHARTWARD_VALIDATION_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Validation.Timeout = Duration(d)
		}
	}
	if val := os.Getenv("CHARTWARD_VALIDATION_PARALLEL"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Validation.Parallel = b
		}
	}
	if val := os.Getenv("CHARTWARD_VALIDATION_FAIL_FAST"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Validation.FailFast = b
		}
	}
	if val := os.Getenv("CHARTWARD_VALIDATION_GRACEFUL_DEGRADATION"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Validation.GracefulDegradation = b
		}
	}
	if val := os.Getenv("CHARTWARD_VALIDATION_FORMAT"); val != "" {
		cfg.Validation.Format = val
	}

	if val := os.Getenv("CHARTWARD_HISTORY_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.History.Enabled = b
		}
	}
	if val := os.Getenv("CHARTWARD_HISTORY_PATH"); val != "" {
		cfg.History.Path = val
	}
	if val := os.Getenv("CHARTWARD_HISTORY_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.History.RetentionDays = i
		}
	}
	if val := os.Getenv("CHARTWARD_HISTORY_MAX_RECORDS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.History.MaxRecords = i
		}
	}
	if val := os.Getenv("CHARTWARD_HISTORY_PRUNE_SCHEDULE"); val != "" {
		cfg.History.PruneSchedule = val
	}

	if val := os.Getenv("CHARTWARD_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("CHARTWARD_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("CHARTWARD_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("CHARTWARD_METRICS_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.Address = val
	}
	if val := os.Getenv("CHARTWARD_METRICS_NAMESPACE"); val != "" {
		cfg.Telemetry.Metrics.Namespace = val
	}
}
