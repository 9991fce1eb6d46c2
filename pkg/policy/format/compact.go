package format

import (
	"fmt"
	"strings"

	"helmsman-hq/chartward/pkg/policy"
)

// CompactFormatter renders one status line plus one terse line per
// finding, for dense logs and quick scanning.
type CompactFormatter struct{}

// NewCompact creates the compact formatter.
func NewCompact() *CompactFormatter {
	return &CompactFormatter{}
}

// Format renders the result.
func (f *CompactFormatter) Format(result *policy.Result) (string, error) {
	if result == nil {
		return "", fmt.Errorf("result cannot be nil")
	}

	status := "PASS"
	if !result.Valid {
		status = "FAIL"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %d error(s) %d warning(s) %v\n",
		status,
		len(result.Violations),
		len(result.Warnings),
		result.Metadata.ExecutionTime,
	))

	for _, v := range result.Violations {
		writeCompact(&sb, "E", v)
	}
	for _, v := range result.Warnings {
		writeCompact(&sb, "W", v)
	}

	return sb.String(), nil
}

func writeCompact(sb *strings.Builder, marker string, v policy.Violation) {
	line := fmt.Sprintf("%s [%s] %s", marker, v.Plugin, v.Message)
	if v.ResourcePath != "" {
		line += " (" + v.ResourcePath + ")"
	}
	sb.WriteString(line + "\n")
}
