package engine

import (
	"sort"
	"time"

	"helmsman-hq/chartward/pkg/policy"
)

// topViolationTypeLimit bounds the summary's derived category list.
const topViolationTypeLimit = 5

// buildResult partitions aggregated findings into violations and
// warnings and computes run metadata and the summary.
func buildResult(findings []policy.Violation, elapsed time.Duration, pluginCount, manifestCount int) *policy.Result {
	violations := make([]policy.Violation, 0)
	warnings := make([]policy.Violation, 0)
	for _, v := range findings {
		if v.Severity == policy.SeverityError {
			violations = append(violations, v)
		} else {
			warnings = append(warnings, v)
		}
	}

	return &policy.Result{
		Valid:      len(violations) == 0,
		Violations: violations,
		Warnings:   warnings,
		Metadata: policy.ResultMetadata{
			ExecutionTime: elapsed,
			PluginCount:   pluginCount,
			ManifestCount: manifestCount,
		},
		Summary: buildSummary(findings),
	}
}

// buildSummary aggregates findings by severity, plugin, and derived
// category.
func buildSummary(findings []policy.Violation) policy.Summary {
	bySeverity := make(map[policy.Severity]int)
	byPlugin := make(map[string]int)
	byCategory := make(map[string]int)

	for _, v := range findings {
		bySeverity[v.Severity]++
		byPlugin[v.Plugin]++
		byCategory[v.Category()]++
	}

	types := make([]policy.ViolationType, 0, len(byCategory))
	for cat, count := range byCategory {
		types = append(types, policy.ViolationType{Category: cat, Count: count})
	}
	sort.Slice(types, func(i, j int) bool {
		if types[i].Count != types[j].Count {
			return types[i].Count > types[j].Count
		}
		return types[i].Category < types[j].Category
	})
	if len(types) > topViolationTypeLimit {
		types = types[:topViolationTypeLimit]
	}

	return policy.Summary{
		ViolationsBySeverity: bySeverity,
		ViolationsByPlugin:   byPlugin,
		TopViolationTypes:    types,
	}
}
