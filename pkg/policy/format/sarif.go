package format

import (
	"encoding/json"
	"fmt"

	"helmsman-hq/chartward/pkg/policy"
)

// SARIF envelope constants.
const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"

	sarifToolName = "chartward"
	sarifToolURI  = "https://github.com/helmsman-hq/chartward"
)

// SARIFFormatter renders the result as a SARIF 2.1.0 document with a
// single run: one result entry per violation and per warning, with rule
// ids derived as "<plugin>/<category>".
type SARIFFormatter struct {
	// ToolVersion is reported as the driver version.
	ToolVersion string
}

// NewSARIF creates the SARIF formatter.
func NewSARIF() *SARIFFormatter {
	return &SARIFFormatter{ToolVersion: "dev"}
}

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string `json:"name"`
	Version        string `json:"version,omitempty"`
	InformationURI string `json:"informationUri,omitempty"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	LogicalLocations []sarifLogicalLocation `json:"logicalLocations"`
}

type sarifLogicalLocation struct {
	FullyQualifiedName string `json:"fullyQualifiedName"`
}

// Format renders the result. The document's result count always equals
// len(Violations)+len(Warnings).
func (f *SARIFFormatter) Format(result *policy.Result) (string, error) {
	if result == nil {
		return "", fmt.Errorf("result cannot be nil")
	}

	results := make([]sarifResult, 0, len(result.Violations)+len(result.Warnings))
	for _, v := range result.Violations {
		results = append(results, toSARIFResult(v))
	}
	for _, v := range result.Warnings {
		results = append(results, toSARIFResult(v))
	}

	log := sarifLog{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:           sarifToolName,
				Version:        f.ToolVersion,
				InformationURI: sarifToolURI,
			}},
			Results: results,
		}},
	}

	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize SARIF document: %w", err)
	}
	return string(data), nil
}

func toSARIFResult(v policy.Violation) sarifResult {
	r := sarifResult{
		RuleID:  v.Plugin + "/" + v.Category(),
		Level:   sarifLevel(v.Severity),
		Message: sarifMessage{Text: v.Message},
	}
	if v.ResourcePath != "" {
		r.Locations = []sarifLocation{{
			LogicalLocations: []sarifLogicalLocation{{FullyQualifiedName: v.ResourcePath}},
		}}
	}
	return r
}

// sarifLevel maps severities onto SARIF levels.
func sarifLevel(s policy.Severity) string {
	switch s {
	case policy.SeverityError:
		return "error"
	case policy.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}
