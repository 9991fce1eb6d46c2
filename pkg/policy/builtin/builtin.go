package builtin

import "helmsman-hq/chartward/pkg/policy"

// All returns one instance of every bundled plugin, in the order they
// are registered by default.
func All() []policy.Plugin {
	return []policy.Plugin{
		NewSecurityContext(),
		NewResourceLimits(),
		NewImageTag(),
	}
}

// Names returns the names of every bundled plugin.
func Names() []string {
	plugins := All()
	names := make([]string, len(plugins))
	for i, p := range plugins {
		names[i] = p.Name()
	}
	return names
}
