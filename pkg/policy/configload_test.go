package policy

import (
	"testing"
)

func schemaPlugin(defaults, schema map[string]any) Plugin {
	return New(Spec{
		Name:         "schema-plugin",
		Version:      "1.0.0",
		ConfigSchema: schema,
		Metadata:     &Metadata{DefaultConfig: defaults},
		ValidateFunc: noopValidate,
	})
}

func TestLoadPluginConfigurationDefaultsOnly(t *testing.T) {
	l := NewLoader(nil)
	p := schemaPlugin(map[string]any{"allowPrivileged": false, "maxReplicas": 3}, nil)

	loaded, err := l.LoadPluginConfiguration(p, "default", nil)
	if err != nil {
		t.Fatalf("LoadPluginConfiguration() error = %v", err)
	}

	if loaded.Config["allowPrivileged"] != false {
		t.Errorf("config[allowPrivileged] = %v, want false", loaded.Config["allowPrivileged"])
	}
	if loaded.Config["maxReplicas"] != 3 {
		t.Errorf("config[maxReplicas] = %v, want 3", loaded.Config["maxReplicas"])
	}
	if len(loaded.Entries) != 1 || loaded.Entries[0].Source != ConfigSourceDefault {
		t.Errorf("Entries = %+v, want single default layer", loaded.Entries)
	}
}

func TestLoadPluginConfigurationInlineOverridesShallow(t *testing.T) {
	l := NewLoader(nil)
	p := schemaPlugin(map[string]any{
		"allowPrivileged": false,
		"nested":          map[string]any{"keep": true, "drop": true},
	}, nil)

	inline := map[string]any{
		"allowPrivileged": true,
		"nested":          map[string]any{"replaced": true},
	}
	loaded, err := l.LoadPluginConfiguration(p, "production", inline)
	if err != nil {
		t.Fatalf("LoadPluginConfiguration() error = %v", err)
	}

	if loaded.Config["allowPrivileged"] != true {
		t.Errorf("inline key did not override default: %v", loaded.Config["allowPrivileged"])
	}

	// Shallow merge: the nested map is replaced wholesale, never merged.
	nested, ok := loaded.Config["nested"].(map[string]any)
	if !ok {
		t.Fatalf("config[nested] type = %T, want map", loaded.Config["nested"])
	}
	if _, kept := nested["keep"]; kept {
		t.Error("nested default key survived, want wholesale replacement")
	}
	if nested["replaced"] != true {
		t.Error("nested inline value missing")
	}

	if len(loaded.Entries) != 2 {
		t.Fatalf("Entries len = %d, want 2", len(loaded.Entries))
	}
	if loaded.Entries[0].Source != ConfigSourceDefault || loaded.Entries[1].Source != ConfigSourceInline {
		t.Errorf("layer order = %s, %s; want default, inline", loaded.Entries[0].Source, loaded.Entries[1].Source)
	}
}

func TestLoadPluginConfigurationSchemaPass(t *testing.T) {
	l := NewLoader(nil)
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"allowPrivileged": map[string]any{"type": "boolean"},
		},
	}
	p := schemaPlugin(map[string]any{"allowPrivileged": false}, schema)

	loaded, err := l.LoadPluginConfiguration(p, "default", map[string]any{"allowPrivileged": true})
	if err != nil {
		t.Fatalf("LoadPluginConfiguration() error = %v", err)
	}
	if !loaded.Validated {
		t.Errorf("Validated = false, want true; errors: %v", loaded.ValidationErrors)
	}
	if len(loaded.ValidationErrors) != 0 {
		t.Errorf("ValidationErrors = %v, want none", loaded.ValidationErrors)
	}
}

func TestLoadPluginConfigurationSchemaFailureIsSoft(t *testing.T) {
	l := NewLoader(nil)
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"allowPrivileged": map[string]any{"type": "boolean"},
		},
	}
	p := schemaPlugin(map[string]any{"allowPrivileged": false}, schema)

	loaded, err := l.LoadPluginConfiguration(p, "default", map[string]any{"allowPrivileged": "yes"})
	if err != nil {
		t.Fatalf("LoadPluginConfiguration() error = %v, want soft failure", err)
	}

	if loaded.Validated {
		t.Error("Validated = true, want false after schema violation")
	}
	if len(loaded.ValidationErrors) == 0 {
		t.Error("ValidationErrors empty, want at least one")
	}
	// The merged config is returned unchanged.
	if loaded.Config["allowPrivileged"] != "yes" {
		t.Errorf("config[allowPrivileged] = %v, want the invalid inline value", loaded.Config["allowPrivileged"])
	}
}

func TestLoadPluginConfigurationNoSchemaNotValidated(t *testing.T) {
	l := NewLoader(nil)
	p := testPlugin("bare", "1.0.0")

	loaded, err := l.LoadPluginConfiguration(p, "default", map[string]any{"x": 1})
	if err != nil {
		t.Fatalf("LoadPluginConfiguration() error = %v", err)
	}
	if loaded.Validated {
		t.Error("Validated = true without a schema, want false")
	}
	if loaded.Config["x"] != 1 {
		t.Errorf("config[x] = %v, want 1", loaded.Config["x"])
	}
}

func TestLoadPluginConfigurationNilPlugin(t *testing.T) {
	l := NewLoader(nil)
	if _, err := l.LoadPluginConfiguration(nil, "default", nil); err == nil {
		t.Fatal("LoadPluginConfiguration(nil) succeeded, want error")
	}
}
