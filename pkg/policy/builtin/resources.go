package builtin

import (
	"context"
	"fmt"

	"helmsman-hq/chartward/pkg/manifest"
	"helmsman-hq/chartward/pkg/policy"
)

// ResourceLimitsPlugin warns about containers that omit resource limits,
// which makes scheduling and eviction behavior unpredictable.
type ResourceLimitsPlugin struct{}

// NewResourceLimits creates the resource limits plugin.
func NewResourceLimits() *ResourceLimitsPlugin {
	return &ResourceLimitsPlugin{}
}

func (p *ResourceLimitsPlugin) Name() string    { return "resource-limits" }
func (p *ResourceLimitsPlugin) Version() string { return "1.0.0" }

func (p *ResourceLimitsPlugin) Description() string {
	return "Warns about containers without CPU/memory resource limits"
}

func (p *ResourceLimitsPlugin) ConfigSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"requiredLimits": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"severity": map[string]any{
				"type": "string",
				"enum": []any{"error", "warning", "info"},
			},
		},
		"additionalProperties": false,
	}
}

func (p *ResourceLimitsPlugin) Metadata() *policy.Metadata {
	return &policy.Metadata{
		DefaultConfig: map[string]any{
			"requiredLimits": []any{"cpu", "memory"},
			"severity":       "warning",
		},
		Author: "chartward",
		Tags:   []string{"resources", "workload"},
	}
}

// Validate checks every workload container for the configured limits.
func (p *ResourceLimitsPlugin) Validate(ctx context.Context, manifests []manifest.Manifest, vc *policy.Context) ([]policy.Violation, error) {
	required := configStrings(vc, "requiredLimits", []string{"cpu", "memory"})
	severity := configSeverity(vc, policy.SeverityWarning)

	var violations []policy.Violation
	for _, m := range manifests {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for _, c := range containersOf(m) {
			for _, limit := range required {
				if c.hasField("resources", "limits", limit) {
					continue
				}
				violations = append(violations, policy.Violation{
					Severity:     severity,
					Message:      fmt.Sprintf("container %q is missing a %s limit", c.name(), limit),
					ResourcePath: m.ResourcePath(),
					Field:        c.path + ".resources.limits." + limit,
					Suggestion:   fmt.Sprintf("Set resources.limits.%s on the container", limit),
				})
			}
		}
	}

	return violations, nil
}

// configStrings reads a string list from the plugin's merged
// configuration, tolerating []any as produced by YAML/JSON decoding.
func configStrings(vc *policy.Context, key string, fallback []string) []string {
	if vc == nil || vc.Config == nil {
		return fallback
	}
	switch v := vc.Config[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return fallback
}

// configSeverity reads a severity from the plugin's merged configuration.
func configSeverity(vc *policy.Context, fallback policy.Severity) policy.Severity {
	if vc == nil || vc.Config == nil {
		return fallback
	}
	if s, ok := vc.Config["severity"].(string); ok {
		if sev := policy.Severity(s); sev.Valid() {
			return sev
		}
	}
	return fallback
}
