package builtin

import (
	"context"
	"fmt"

	"helmsman-hq/chartward/pkg/manifest"
	"helmsman-hq/chartward/pkg/policy"
)

// SecurityContextPlugin flags containers that may run as root or request
// privileged mode. Root findings are errors; they fail validation.
type SecurityContextPlugin struct{}

// NewSecurityContext creates the security context plugin.
func NewSecurityContext() *SecurityContextPlugin {
	return &SecurityContextPlugin{}
}

func (p *SecurityContextPlugin) Name() string    { return "security-context" }
func (p *SecurityContextPlugin) Version() string { return "1.0.0" }

func (p *SecurityContextPlugin) Description() string {
	return "Flags privileged containers and containers that may run as root"
}

func (p *SecurityContextPlugin) ConfigSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"allowPrivileged": map[string]any{"type": "boolean"},
			"requireRunAsNonRoot": map[string]any{"type": "boolean"},
		},
		"additionalProperties": false,
	}
}

func (p *SecurityContextPlugin) Metadata() *policy.Metadata {
	return &policy.Metadata{
		DefaultConfig: map[string]any{
			"allowPrivileged":     false,
			"requireRunAsNonRoot": true,
		},
		Author: "chartward",
		Tags:   []string{"security", "workload"},
	}
}

// Validate checks every workload container in the batch.
func (p *SecurityContextPlugin) Validate(ctx context.Context, manifests []manifest.Manifest, vc *policy.Context) ([]policy.Violation, error) {
	allowPrivileged := configBool(vc, "allowPrivileged", false)
	requireNonRoot := configBool(vc, "requireRunAsNonRoot", true)

	var violations []policy.Violation
	for _, m := range manifests {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		podNonRoot, podNonRootSet := mapBool(podSecurityContext(m), "runAsNonRoot")

		for _, c := range containersOf(m) {
			if privileged, ok := c.boolField("securityContext", "privileged"); ok && privileged && !allowPrivileged {
				violations = append(violations, policy.Violation{
					Severity:     policy.SeverityError,
					Message:      fmt.Sprintf("container %q requests privileged mode", c.name()),
					ResourcePath: m.ResourcePath(),
					Field:        c.path + ".securityContext.privileged",
					Suggestion:   "Drop privileged mode or add the container to the allow list",
				})
			}

			if runAsUser, ok := c.int64Field("securityContext", "runAsUser"); ok && runAsUser == 0 {
				violations = append(violations, policy.Violation{
					Severity:     policy.SeverityError,
					Message:      fmt.Sprintf("container %q runs as root (runAsUser: 0)", c.name()),
					ResourcePath: m.ResourcePath(),
					Field:        c.path + ".securityContext.runAsUser",
					Suggestion:   "Set runAsUser to a non-zero UID",
				})
				continue
			}

			if !requireNonRoot {
				continue
			}
			nonRoot, ok := c.boolField("securityContext", "runAsNonRoot")
			if !ok {
				nonRoot, ok = podNonRoot, podNonRootSet
			}
			if !ok || !nonRoot {
				violations = append(violations, policy.Violation{
					Severity:     policy.SeverityError,
					Message:      fmt.Sprintf("container %q does not enforce runAsNonRoot", c.name()),
					ResourcePath: m.ResourcePath(),
					Field:        c.path + ".securityContext.runAsNonRoot",
					Suggestion:   "Set securityContext.runAsNonRoot: true on the container or pod",
				})
			}
		}
	}

	return violations, nil
}

// configBool reads a bool from the plugin's merged configuration.
func configBool(vc *policy.Context, key string, fallback bool) bool {
	if vc == nil || vc.Config == nil {
		return fallback
	}
	if b, ok := vc.Config[key].(bool); ok {
		return b
	}
	return fallback
}
