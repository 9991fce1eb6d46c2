package format

import (
	"fmt"
	"strings"

	"helmsman-hq/chartward/pkg/policy"
)

// HumanFormatter renders the default terminal report: a pass/fail
// banner, itemized violations then warnings with plugin attribution, and
// closing counts.
type HumanFormatter struct{}

// NewHuman creates the default human-readable formatter.
func NewHuman() *HumanFormatter {
	return &HumanFormatter{}
}

// Format renders the result.
func (f *HumanFormatter) Format(result *policy.Result) (string, error) {
	if result == nil {
		return "", fmt.Errorf("result cannot be nil")
	}

	var sb strings.Builder

	if result.Valid {
		sb.WriteString("Chart validation PASSED\n")
	} else {
		sb.WriteString("Chart validation FAILED\n")
	}

	if len(result.Violations) > 0 {
		sb.WriteString(fmt.Sprintf("\nViolations (%d):\n", len(result.Violations)))
		for _, v := range result.Violations {
			writeItem(&sb, "✗", v)
		}
	}

	if len(result.Warnings) > 0 {
		sb.WriteString(fmt.Sprintf("\nWarnings (%d):\n", len(result.Warnings)))
		for _, v := range result.Warnings {
			writeItem(&sb, "!", v)
		}
	}

	sb.WriteString(fmt.Sprintf("\n%d error(s), %d warning(s) in %v across %d manifest(s)\n",
		len(result.Violations),
		len(result.Warnings),
		result.Metadata.ExecutionTime,
		result.Metadata.ManifestCount,
	))

	return sb.String(), nil
}

// writeItem renders one finding with its optional detail lines.
func writeItem(sb *strings.Builder, marker string, v policy.Violation) {
	sb.WriteString(fmt.Sprintf("  %s [%s] %s\n", marker, v.Plugin, v.Message))
	if v.ResourcePath != "" {
		sb.WriteString(fmt.Sprintf("      resource: %s\n", v.ResourcePath))
	}
	if v.Field != "" {
		sb.WriteString(fmt.Sprintf("      field: %s\n", v.Field))
	}
	if v.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("      suggestion: %s\n", v.Suggestion))
	}
}
