package policy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Config layer sources recorded in LoadedConfig provenance entries.
const (
	ConfigSourceDefault = "default"
	ConfigSourceInline  = "inline"
)

// ConfigEntry records one configuration layer that was applied, for
// audit and debugging.
type ConfigEntry struct {
	Source string         `json:"source"`
	Value  map[string]any `json:"value"`
}

// LoadedConfig is the outcome of resolving a plugin's configuration.
type LoadedConfig struct {
	// Config is the merged configuration.
	Config map[string]any `json:"config"`

	// Validated is true only if schema validation was attempted and
	// passed.
	Validated bool `json:"validated"`

	// Entries records the provenance of each layer applied.
	Entries []ConfigEntry `json:"entries"`

	// ValidationErrors holds schema violations, if any. The merged config
	// is returned unchanged regardless; the loader only reports.
	ValidationErrors []string `json:"validationErrors,omitempty"`
}

// Loader resolves a plugin's effective configuration: the plugin's
// built-in defaults shallow-merged with caller-supplied inline
// configuration, optionally checked against the plugin's declared schema.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a configuration loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// LoadPluginConfiguration merges the plugin's default configuration with
// the inline configuration and validates the merged result when the
// plugin declares a schema. The merge is a shallow, key-by-key override:
// inline keys win, default-only keys are preserved, nested values are
// never merged recursively.
//
// Schema failures are soft: they populate ValidationErrors and leave
// Validated false, but the merged config is still returned unchanged.
func (l *Loader) LoadPluginConfiguration(p Plugin, environment string, inline map[string]any) (*LoadedConfig, error) {
	if p == nil {
		return nil, &EngineError{Code: "config_load", Message: "plugin is nil"}
	}

	loaded := &LoadedConfig{
		Config: make(map[string]any),
	}

	if mp, ok := p.(MetadataProvider); ok {
		if md := mp.Metadata(); md != nil && md.DefaultConfig != nil {
			for k, v := range md.DefaultConfig {
				loaded.Config[k] = v
			}
			loaded.Entries = append(loaded.Entries, ConfigEntry{
				Source: ConfigSourceDefault,
				Value:  md.DefaultConfig,
			})
		}
	}

	if inline != nil {
		for k, v := range inline {
			loaded.Config[k] = v
		}
		loaded.Entries = append(loaded.Entries, ConfigEntry{
			Source: ConfigSourceInline,
			Value:  inline,
		})
	}

	if sp, ok := p.(SchemaProvider); ok {
		if schema := sp.ConfigSchema(); schema != nil {
			l.validateAgainstSchema(p.Name(), schema, loaded)
		}
	}

	l.logger.Debug("resolved plugin configuration",
		"plugin", p.Name(),
		"environment", environment,
		"layers", len(loaded.Entries),
		"validated", loaded.Validated,
		"validation_errors", len(loaded.ValidationErrors),
	)

	return loaded, nil
}

// validateAgainstSchema checks the merged config against the plugin's
// declared JSON Schema and records the outcome on loaded.
func (l *Loader) validateAgainstSchema(pluginName string, schema map[string]any, loaded *LoadedConfig) {
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		loaded.ValidationErrors = append(loaded.ValidationErrors,
			fmt.Sprintf("schema is not serializable: %v", err))
		return
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("config.schema.json", bytes.NewReader(schemaJSON)); err != nil {
		loaded.ValidationErrors = append(loaded.ValidationErrors,
			fmt.Sprintf("schema could not be loaded: %v", err))
		return
	}
	compiled, err := compiler.Compile("config.schema.json")
	if err != nil {
		loaded.ValidationErrors = append(loaded.ValidationErrors,
			fmt.Sprintf("schema could not be compiled: %v", err))
		return
	}

	// Round-trip through JSON so numbers and nested maps are in the
	// shape the validator expects.
	instance, err := normalizeInstance(loaded.Config)
	if err != nil {
		loaded.ValidationErrors = append(loaded.ValidationErrors,
			fmt.Sprintf("config is not serializable: %v", err))
		return
	}

	if err := compiled.Validate(instance); err != nil {
		loaded.ValidationErrors = append(loaded.ValidationErrors, flattenSchemaError(err)...)
		l.logger.Warn("plugin configuration failed schema validation",
			"plugin", pluginName,
			"errors", len(loaded.ValidationErrors),
		)
		return
	}

	loaded.Validated = true
}

// normalizeInstance converts a config map into the generic JSON value
// tree the schema validator operates on.
func normalizeInstance(config map[string]any) (any, error) {
	data, err := json.Marshal(config)
	if err != nil {
		return nil, err
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return nil, err
	}
	return instance, nil
}

// flattenSchemaError turns a jsonschema validation error into flat
// human-readable strings.
func flattenSchemaError(err error) []string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{err.Error()}
	}

	var msgs []string
	for _, be := range ve.BasicOutput().Errors {
		// The basic output includes structural entries with empty
		// messages; keep only the leaves.
		if be.Error == "" {
			continue
		}
		loc := be.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		msgs = append(msgs, fmt.Sprintf("%s: %s", loc, be.Error))
	}
	if len(msgs) == 0 {
		msgs = []string{ve.Error()}
	}
	return msgs
}
