package policy

import (
	"log/slog"
	"strings"
	"time"
	"unicode"
)

// Severity classifies a violation. It is the sole determinant of pass/fail:
// a result is invalid exactly when it contains at least one error-severity
// violation.
type Severity string

const (
	// SeverityError fails validation.
	SeverityError Severity = "error"

	// SeverityWarning is reported but does not fail validation.
	SeverityWarning Severity = "warning"

	// SeverityInfo is informational only.
	SeverityInfo Severity = "info"
)

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// Violation is a single finding produced by a plugin.
type Violation struct {
	// Plugin is the name of the plugin that produced the finding.
	Plugin string `json:"plugin"`

	// Severity is error, warning, or info.
	Severity Severity `json:"severity"`

	// Message describes the finding.
	Message string `json:"message"`

	// ResourcePath identifies the offending resource ("Kind/name").
	ResourcePath string `json:"resourcePath,omitempty"`

	// Field is the manifest field the finding concerns.
	Field string `json:"field,omitempty"`

	// Suggestion is an optional remediation hint.
	Suggestion string `json:"suggestion,omitempty"`
}

// Category derives a stable rule category from the violation message:
// lowercased, non-alphanumeric runs collapsed to "-", truncated to the
// first three words. It feeds summary aggregation and SARIF rule ids.
func (v Violation) Category() string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(v.Message) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteRune('-')
			lastDash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "uncategorized"
	}
	parts := strings.Split(slug, "-")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return strings.Join(parts, "-")
}

// Chart identifies the chart under validation.
type Chart struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Context is the read-only per-call view handed to every plugin. The
// engine builds a fresh Context per plugin per Validate call; plugins must
// not retain it past the call.
type Context struct {
	// Chart is the chart metadata.
	Chart Chart

	// Config is this plugin's merged configuration.
	Config map[string]any

	// Environment is the deployment environment being validated for.
	Environment string

	// Logger is scoped to the plugin.
	Logger *slog.Logger
}

// Result is the aggregate outcome of one Validate call. It is a fresh
// value per call, owned by the caller, and fully JSON-serializable.
type Result struct {
	// Valid is true exactly when Violations is empty.
	Valid bool `json:"valid"`

	// Violations holds every error-severity finding, in plugin
	// registration order.
	Violations []Violation `json:"violations"`

	// Warnings holds every warning- and info-severity finding, in plugin
	// registration order.
	Warnings []Violation `json:"warnings"`

	// Metadata describes the run itself.
	Metadata ResultMetadata `json:"metadata"`

	// Summary aggregates findings for reporting.
	Summary Summary `json:"summary"`
}

// ResultMetadata describes a single validation run.
type ResultMetadata struct {
	// ExecutionTime is the elapsed wall time of the run.
	ExecutionTime time.Duration `json:"executionTime"`

	// PluginCount is the number of plugins actually invoked. Fail-fast
	// skips are not counted.
	PluginCount int `json:"pluginCount"`

	// ManifestCount is the number of manifests in the validated batch.
	ManifestCount int `json:"manifestCount"`
}

// Summary aggregates findings by severity, plugin, and derived category.
type Summary struct {
	ViolationsBySeverity map[Severity]int `json:"violationsBySeverity"`
	ViolationsByPlugin   map[string]int   `json:"violationsByPlugin"`
	TopViolationTypes    []ViolationType  `json:"topViolationTypes"`
}

// ViolationType is one entry of the top-violation-type list.
type ViolationType struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}
