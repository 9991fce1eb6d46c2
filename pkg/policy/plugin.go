package policy

import (
	"context"
	"fmt"

	"helmsman-hq/chartward/pkg/manifest"
)

// Plugin is the capability interface implemented by every validation
// plugin. Name is the plugin's identity: it must be unique within a
// registry and is immutable once registered.
type Plugin interface {
	// Name returns the unique plugin name.
	Name() string

	// Version returns the plugin version.
	Version() string

	// Validate checks a manifest batch and returns its findings. The
	// context carries the engine's per-plugin deadline; well-behaved
	// plugins observe ctx.Done for long-running work.
	Validate(ctx context.Context, manifests []manifest.Manifest, vc *Context) ([]Violation, error)
}

// Describer is implemented by plugins that carry a human description.
type Describer interface {
	Description() string
}

// SchemaProvider is implemented by plugins that declare a JSON-Schema
// document for their configuration. The configuration loader validates
// merged configs against it.
type SchemaProvider interface {
	ConfigSchema() map[string]any
}

// Metadata carries optional plugin metadata.
type Metadata struct {
	// DefaultConfig is the plugin's built-in default configuration; the
	// configuration loader merges inline config over it.
	DefaultConfig map[string]any

	Author             string
	Tags               []string
	KubernetesVersions []string
}

// MetadataProvider is implemented by plugins that carry metadata.
type MetadataProvider interface {
	Metadata() *Metadata
}

// ContractChecker lets a plugin implementation participate in the
// registration-time contract check beyond the name/version checks the
// registry performs itself.
type ContractChecker interface {
	CheckContract() error
}

// ValidateFunc is the signature of a plugin's validation logic.
type ValidateFunc func(ctx context.Context, manifests []manifest.Manifest, vc *Context) ([]Violation, error)

// Spec describes a plugin assembled from plain values, for plugins that
// do not warrant a dedicated type.
type Spec struct {
	Name         string
	Version      string
	Description  string
	ConfigSchema map[string]any
	Metadata     *Metadata
	ValidateFunc ValidateFunc
}

// New builds a Plugin from a Spec. Contract violations (empty name or
// version, nil validate func) surface at registration time, not here.
func New(spec Spec) Plugin {
	return &specPlugin{spec: spec}
}

type specPlugin struct {
	spec Spec
}

func (p *specPlugin) Name() string    { return p.spec.Name }
func (p *specPlugin) Version() string { return p.spec.Version }

func (p *specPlugin) Description() string { return p.spec.Description }

func (p *specPlugin) ConfigSchema() map[string]any { return p.spec.ConfigSchema }

func (p *specPlugin) Metadata() *Metadata { return p.spec.Metadata }

func (p *specPlugin) CheckContract() error {
	if p.spec.ValidateFunc == nil {
		return fmt.Errorf("validate function is nil")
	}
	return nil
}

func (p *specPlugin) Validate(ctx context.Context, manifests []manifest.Manifest, vc *Context) ([]Violation, error) {
	if p.spec.ValidateFunc == nil {
		return nil, &PluginError{Plugin: p.spec.Name, Cause: fmt.Errorf("validate function is nil")}
	}
	return p.spec.ValidateFunc(ctx, manifests, vc)
}
