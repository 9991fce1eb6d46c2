package manifest

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Manifest is a single Kubernetes manifest document. Plugins treat it as
// opaque data; the accessors below cover the fields every manifest carries.
type Manifest map[string]any

// Kind returns the manifest's kind, or "" if absent.
func (m Manifest) Kind() string {
	s, _, _ := unstructured.NestedString(m, "kind")
	return s
}

// APIVersion returns the manifest's apiVersion, or "" if absent.
func (m Manifest) APIVersion() string {
	s, _, _ := unstructured.NestedString(m, "apiVersion")
	return s
}

// Name returns metadata.name, or "" if absent.
func (m Manifest) Name() string {
	s, _, _ := unstructured.NestedString(m, "metadata", "name")
	return s
}

// Namespace returns metadata.namespace, or "" if absent.
func (m Manifest) Namespace() string {
	s, _, _ := unstructured.NestedString(m, "metadata", "namespace")
	return s
}

// ResourcePath returns a stable "Kind/name" identifier for attributing
// violations to a resource.
func (m Manifest) ResourcePath() string {
	kind := m.Kind()
	name := m.Name()
	switch {
	case kind == "" && name == "":
		return ""
	case name == "":
		return kind
	case kind == "":
		return name
	}
	return kind + "/" + name
}

// Decode reads a YAML stream and returns one Manifest per non-empty
// document.
func Decode(r io.Reader) ([]Manifest, error) {
	dec := yaml.NewDecoder(r)

	var manifests []Manifest
	for {
		var doc map[string]any
		err := dec.Decode(&doc)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode manifest document %d: %w", len(manifests)+1, err)
		}
		if len(doc) == 0 {
			continue
		}
		manifests = append(manifests, Manifest(doc))
	}

	return manifests, nil
}

// DecodeBytes decodes a YAML byte slice, see Decode.
func DecodeBytes(data []byte) ([]Manifest, error) {
	return Decode(bytes.NewReader(data))
}
