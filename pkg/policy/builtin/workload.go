package builtin

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"helmsman-hq/chartward/pkg/manifest"
)

// container is the subset of a container spec the builtin plugins read.
type container struct {
	path string
	spec map[string]any
}

// podSpecPath returns the field path to the pod spec for workload kinds
// that embed one, or nil for kinds without containers.
func podSpecPath(kind string) []string {
	switch kind {
	case "Pod":
		return []string{"spec"}
	case "Deployment", "StatefulSet", "DaemonSet", "ReplicaSet", "Job":
		return []string{"spec", "template", "spec"}
	case "CronJob":
		return []string{"spec", "jobTemplate", "spec", "template", "spec"}
	}
	return nil
}

// containersOf extracts the containers (and initContainers) of a
// workload manifest. Non-workload kinds yield nothing.
//
// Manifests come straight out of a YAML decoder, so numeric values may be
// int rather than int64; all field access goes through NestedFieldNoCopy
// with explicit type switches instead of the typed apimachinery helpers.
func containersOf(m manifest.Manifest) []container {
	base := podSpecPath(m.Kind())
	if base == nil {
		return nil
	}

	var out []container
	for _, field := range []string{"containers", "initContainers"} {
		v, found, err := unstructured.NestedFieldNoCopy(m, append(base, field)...)
		if !found || err != nil {
			continue
		}
		list, ok := v.([]any)
		if !ok {
			continue
		}
		for _, item := range list {
			spec, ok := item.(map[string]any)
			if !ok {
				continue
			}
			out = append(out, container{
				path: joinPath(append(base, field)),
				spec: spec,
			})
		}
	}
	return out
}

// podSecurityContext returns the pod-level securityContext, if any.
func podSecurityContext(m manifest.Manifest) map[string]any {
	base := podSpecPath(m.Kind())
	if base == nil {
		return nil
	}
	v, found, err := unstructured.NestedFieldNoCopy(m, append(base, "securityContext")...)
	if !found || err != nil {
		return nil
	}
	sc, _ := v.(map[string]any)
	return sc
}

func joinPath(parts []string) string {
	path := parts[0]
	for _, p := range parts[1:] {
		path += "." + p
	}
	return path
}

// name returns the container's name, or "" if absent.
func (c container) name() string {
	s, _ := c.stringField("name")
	return s
}

// boolField reads a nested bool from the container spec.
func (c container) boolField(fields ...string) (bool, bool) {
	v, found, err := unstructured.NestedFieldNoCopy(c.spec, fields...)
	if !found || err != nil {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// int64Field reads a nested integer from the container spec, tolerating
// the numeric types YAML and JSON decoders produce.
func (c container) int64Field(fields ...string) (int64, bool) {
	v, found, err := unstructured.NestedFieldNoCopy(c.spec, fields...)
	if !found || err != nil {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}
	return 0, false
}

// stringField reads a nested string from the container spec.
func (c container) stringField(fields ...string) (string, bool) {
	v, found, err := unstructured.NestedFieldNoCopy(c.spec, fields...)
	if !found || err != nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// hasField reports whether a nested field exists at all.
func (c container) hasField(fields ...string) bool {
	_, found, err := unstructured.NestedFieldNoCopy(c.spec, fields...)
	return found && err == nil
}

// mapBool reads a bool out of an untyped map.
func mapBool(m map[string]any, key string) (bool, bool) {
	if m == nil {
		return false, false
	}
	v, ok := m[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}
