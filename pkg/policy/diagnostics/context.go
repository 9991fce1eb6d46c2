package diagnostics

import (
	"fmt"
	"strings"
	"time"

	"helmsman-hq/chartward/pkg/policy"
)

// PluginInfo identifies the plugin behind a finding.
type PluginInfo struct {
	Name          string        `json:"name"`
	ExecutionTime time.Duration `json:"executionTime,omitempty"`
}

// ErrorDetail carries the finding's message.
type ErrorDetail struct {
	Message string `json:"message"`
}

// ChartInfo is the chart/environment context a violation occurred in.
type ChartInfo struct {
	ChartName    string `json:"chartName"`
	ChartVersion string `json:"chartVersion"`
	Environment  string `json:"environment"`
}

// ErrorContext is the enriched diagnostic view of a single violation.
type ErrorContext struct {
	Timestamp         time.Time          `json:"timestamp"`
	Environment       string             `json:"environment,omitempty"`
	Plugin            PluginInfo         `json:"plugin"`
	Error             ErrorDetail        `json:"error"`
	ValidationContext *ChartInfo         `json:"validationContext,omitempty"`
	RelatedViolations []policy.Violation `json:"relatedViolations"`
	Hints             []string           `json:"hints"`
}

// debugHints are generic pointers that apply to any failed validation.
var debugHints = []string{
	"Re-run with --format json to inspect the full structured result.",
	"Check the plugin's merged configuration for this environment; inline config overrides plugin defaults key by key.",
	"A synthetic 'plugin execution failed' violation means the plugin itself errored or timed out, not that a manifest is invalid.",
	"Increase the engine timeout if plugins are being cut off on large manifest batches.",
}

// GenerateContext builds the enriched diagnostic context for one
// violation. relatedViolations from the same plugin are drawn from all,
// with the input itself excluded.
func GenerateContext(v policy.Violation, vc *policy.Context, all []policy.Violation, executionTime time.Duration) *ErrorContext {
	ec := &ErrorContext{
		Timestamp: time.Now().UTC(),
		Plugin: PluginInfo{
			Name:          v.Plugin,
			ExecutionTime: executionTime,
		},
		Error:             ErrorDetail{Message: v.Message},
		RelatedViolations: relatedViolations(v, all),
		Hints:             debugHints,
	}

	if vc != nil {
		ec.Environment = vc.Environment
		ec.ValidationContext = &ChartInfo{
			ChartName:    vc.Chart.Name,
			ChartVersion: vc.Chart.Version,
			Environment:  vc.Environment,
		}
	}

	return ec
}

// relatedViolations returns every other finding emitted by the same
// plugin, excluding the input itself.
func relatedViolations(v policy.Violation, all []policy.Violation) []policy.Violation {
	related := make([]policy.Violation, 0)
	for _, other := range all {
		if other.Plugin != v.Plugin {
			continue
		}
		if other == v {
			continue
		}
		related = append(related, other)
	}
	return related
}

// GenerateErrorReport renders a multi-line human report for a single
// violation, combining the finding's own fields with chart context when
// available.
func GenerateErrorReport(v policy.Violation, vc *policy.Context) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s: %s\n", v.Severity, v.Plugin, v.Message))
	if v.ResourcePath != "" {
		sb.WriteString(fmt.Sprintf("  resource: %s\n", v.ResourcePath))
	}
	if v.Field != "" {
		sb.WriteString(fmt.Sprintf("  field: %s\n", v.Field))
	}
	if v.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  suggestion: %s\n", v.Suggestion))
	}
	if vc != nil {
		sb.WriteString(fmt.Sprintf("  chart: %s", vc.Chart.Name))
		if vc.Chart.Version != "" {
			sb.WriteString(fmt.Sprintf("@%s", vc.Chart.Version))
		}
		sb.WriteString("\n")
		if vc.Environment != "" {
			sb.WriteString(fmt.Sprintf("  environment: %s\n", vc.Environment))
		}
	}

	return sb.String()
}
