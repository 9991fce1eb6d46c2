package policy

import (
	"strings"
	"sync"
)

// Registry stores validated plugin descriptors and their per-plugin
// configuration. It is pure bookkeeping: registration mutates it, all
// other accessors are reads. Mutation is expected to finish before the
// first validation run, but the registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
	order   []string
	configs map[string]map[string]any
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		plugins: make(map[string]Plugin),
		configs: make(map[string]map[string]any),
	}
}

// Register validates the plugin contract and stores the plugin with its
// optional configuration. Duplicate names and contract violations return
// a RegistrationError.
func (r *Registry) Register(p Plugin, config map[string]any) error {
	if err := validateContract(p); err != nil {
		return err
	}

	name := p.Name()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[name]; exists {
		return &RegistrationError{Plugin: name, Reason: "a plugin with this name is already registered"}
	}

	r.plugins[name] = p
	r.order = append(r.order, name)
	if config != nil {
		r.configs[name] = config
	}

	return nil
}

// GetPlugin returns the plugin registered under name.
func (r *Registry) GetPlugin(name string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plugins[name]
	return p, ok
}

// GetAllPlugins returns every registered plugin in registration order.
func (r *Registry) GetAllPlugins() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plugins := make([]Plugin, 0, len(r.order))
	for _, name := range r.order {
		plugins = append(plugins, r.plugins[name])
	}
	return plugins
}

// GetPluginCount returns the number of successfully registered plugins.
func (r *Registry) GetPluginCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// GetPluginConfig returns the configuration supplied at registration.
func (r *Registry) GetPluginConfig(name string) (map[string]any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.configs[name]
	return cfg, ok
}

// PluginNames returns the registered names in registration order.
func (r *Registry) PluginNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// validateContract checks the plugin contract once, at registration.
func validateContract(p Plugin) error {
	if p == nil {
		return &RegistrationError{Reason: "plugin is nil"}
	}
	if strings.TrimSpace(p.Name()) == "" {
		return &RegistrationError{Reason: "plugin name must be a non-empty string"}
	}
	if strings.TrimSpace(p.Version()) == "" {
		return &RegistrationError{Plugin: p.Name(), Reason: "plugin version must be a non-empty string"}
	}
	if c, ok := p.(ContractChecker); ok {
		if err := c.CheckContract(); err != nil {
			return &RegistrationError{Plugin: p.Name(), Reason: err.Error()}
		}
	}
	return nil
}
