package config

import (
	"strings"
	"testing"
)

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Validation.Timeout = -1
	cfg.Validation.Format = "xml"
	cfg.History.RetentionDays = -5
	cfg.History.PruneSchedule = "every day at dawn"
	cfg.Telemetry.Logging.Level = "loud"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}

	for _, want := range []string{
		"validation.timeout",
		`validation.format "xml"`,
		"history.retention_days",
		"history.prune_schedule",
		`telemetry.logging.level "loud"`,
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q\n%v", want, err)
		}
	}
}

func TestValidateMetricsAddressRequired(t *testing.T) {
	cfg := Default()
	cfg.Telemetry.Metrics.Enabled = true
	cfg.Telemetry.Metrics.Address = ""

	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "telemetry.metrics.address") {
		t.Errorf("error = %v, want metrics address problem", err)
	}
}

func TestValidateEmptyPruneScheduleAllowed(t *testing.T) {
	cfg := Default()
	cfg.History.PruneSchedule = ""

	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() error = %v, want nil with empty schedule", err)
	}
}

func TestValidateLogFormats(t *testing.T) {
	for _, format := range []string{"json", "text"} {
		cfg := Default()
		cfg.Telemetry.Logging.Format = format
		if err := Validate(cfg); err != nil {
			t.Errorf("Validate() with log format %q error = %v", format, err)
		}
	}

	cfg := Default()
	cfg.Telemetry.Logging.Format = "logfmt"
	if err := Validate(cfg); err == nil {
		t.Error("Validate() accepted log format logfmt")
	}
}
