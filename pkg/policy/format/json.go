package format

import (
	"encoding/json"
	"fmt"

	"helmsman-hq/chartward/pkg/policy"
)

// JSONFormatter serializes the full result structure.
type JSONFormatter struct {
	// Indent is the indentation string; empty means compact output.
	Indent string
}

// NewJSON creates a JSON formatter with two-space indentation.
func NewJSON() *JSONFormatter {
	return &JSONFormatter{Indent: "  "}
}

// Format renders the result as JSON. The output re-parses to a result
// logically equal to the input.
func (f *JSONFormatter) Format(result *policy.Result) (string, error) {
	if result == nil {
		return "", fmt.Errorf("result cannot be nil")
	}

	var (
		data []byte
		err  error
	)
	if f.Indent != "" {
		data, err = json.MarshalIndent(result, "", f.Indent)
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return "", fmt.Errorf("failed to serialize result: %w", err)
	}
	return string(data), nil
}
