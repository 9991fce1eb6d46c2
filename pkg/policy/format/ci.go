package format

import (
	"fmt"
	"strings"

	"helmsman-hq/chartward/pkg/policy"
)

// CIFormatter emits one workflow-command annotation per finding in the
// GitHub Actions syntax, plus a notice with the overall status when the
// result is valid.
type CIFormatter struct{}

// NewCI creates the CI annotation formatter.
func NewCI() *CIFormatter {
	return &CIFormatter{}
}

// Format renders the result.
func (f *CIFormatter) Format(result *policy.Result) (string, error) {
	if result == nil {
		return "", fmt.Errorf("result cannot be nil")
	}

	var sb strings.Builder

	for _, v := range result.Violations {
		sb.WriteString(annotation("error", v))
	}
	for _, v := range result.Warnings {
		sb.WriteString(annotation("warning", v))
	}

	if result.Valid {
		sb.WriteString(fmt.Sprintf("::notice::chart validation passed (%d warning(s), %d manifest(s))\n",
			len(result.Warnings), result.Metadata.ManifestCount))
	}

	return sb.String(), nil
}

// annotation renders one workflow command. Newlines in messages would
// terminate the command early, so they are escaped the way the runner
// expects.
func annotation(level string, v policy.Violation) string {
	msg := v.Message
	if v.ResourcePath != "" {
		msg += " [" + v.ResourcePath + "]"
	}
	msg = strings.ReplaceAll(msg, "%", "%25")
	msg = strings.ReplaceAll(msg, "\r", "%0D")
	msg = strings.ReplaceAll(msg, "\n", "%0A")
	return fmt.Sprintf("::%s title=%s::%s\n", level, v.Plugin, msg)
}
