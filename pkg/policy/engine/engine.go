package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"helmsman-hq/chartward/pkg/manifest"
	"helmsman-hq/chartward/pkg/policy"
	"helmsman-hq/chartward/pkg/policy/format"
)

// Engine runs registered plugins against manifest batches. An Engine is
// long-lived across Validate calls; each call is stateless with respect
// to prior calls apart from the registry and cached configurations.
//
// Registration (Use) mutates shared state and is expected to complete
// before the first Validate call; Validate itself performs no mutation
// and is safe to call repeatedly.
type Engine struct {
	chart       policy.Chart
	environment string

	registry *policy.Registry
	loader   *policy.Loader
	configs  map[string]*policy.LoadedConfig

	mu     sync.RWMutex
	opts   Options
	logger *slog.Logger
}

// New creates an engine for the given chart and environment.
func New(chart policy.Chart, environment string, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		chart:       chart,
		environment: environment,
		registry:    policy.NewRegistry(),
		loader:      policy.NewLoader(logger),
		configs:     make(map[string]*policy.LoadedConfig),
		opts:        DefaultOptions(),
		logger:      logger.With("component", "policy.engine"),
	}
	return e.Configure(opts...)
}

// Configure applies options over the current option state and returns
// the engine for chaining.
func (e *Engine) Configure(opts ...Option) *Engine {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, opt := range opts {
		opt(&e.opts)
	}
	return e
}

// Options returns a copy of the current options.
func (e *Engine) Options() Options {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.opts
}

// Registry exposes the underlying plugin registry for introspection.
func (e *Engine) Registry() *policy.Registry {
	return e.registry
}

// Use registers a plugin and eagerly resolves its merged configuration
// for the engine's environment. Contract violations and duplicate names
// fail the call immediately; setup-time failures are never degraded.
//
// When config is nil the engine falls back to Options.PluginConfig keyed
// by plugin name.
func (e *Engine) Use(p policy.Plugin, config map[string]any) error {
	if config == nil && p != nil {
		e.mu.RLock()
		config = e.opts.PluginConfig[p.Name()]
		e.mu.RUnlock()
	}

	if err := e.registry.Register(p, config); err != nil {
		return err
	}

	loaded, err := e.loader.LoadPluginConfiguration(p, e.environment, config)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.configs[p.Name()] = loaded
	e.mu.Unlock()

	e.logger.Debug("plugin registered",
		"plugin", p.Name(),
		"version", p.Version(),
		"config_validated", loaded.Validated,
	)

	return nil
}

// PluginConfiguration returns the cached merged configuration resolved
// for a plugin at registration time.
func (e *Engine) PluginConfiguration(name string) (*policy.LoadedConfig, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	cfg, ok := e.configs[name]
	return cfg, ok
}

// Validate runs all registered plugins against the manifest batch under
// the configured scheduling and failure policy.
func (e *Engine) Validate(ctx context.Context, manifests []manifest.Manifest) (*policy.Result, error) {
	opts := e.Options()
	start := time.Now()
	plugins := e.registry.GetAllPlugins()

	var (
		findings []policy.Violation
		invoked  int
		err      error
	)
	if opts.Parallel {
		findings, invoked, err = e.runParallel(ctx, plugins, manifests, opts)
	} else {
		findings, invoked, err = e.runSequential(ctx, plugins, manifests, opts)
	}
	elapsed := time.Since(start)

	if err != nil {
		if opts.metrics != nil {
			opts.metrics.RecordRun("aborted", elapsed)
		}
		return nil, err
	}

	result := buildResult(findings, elapsed, invoked, len(manifests))

	if opts.metrics != nil {
		outcome := "passed"
		if !result.Valid {
			outcome = "failed"
		}
		opts.metrics.RecordRun(outcome, elapsed)
		for _, v := range append(result.Violations, result.Warnings...) {
			opts.metrics.RecordViolation(v.Plugin, string(v.Severity))
		}
	}

	e.logger.Info("validation complete",
		"valid", result.Valid,
		"violations", len(result.Violations),
		"warnings", len(result.Warnings),
		"plugins", invoked,
		"manifests", len(manifests),
		"elapsed", elapsed,
	)

	return result, nil
}

// FormatResult renders a result with the configured formatter, defaulting
// to the human-readable formatter.
func (e *Engine) FormatResult(result *policy.Result) (string, error) {
	opts := e.Options()
	f := opts.Formatter
	if f == nil {
		f = format.NewHuman()
	}
	return f.Format(result)
}

// runSequential invokes plugins one at a time, in registration order.
func (e *Engine) runSequential(ctx context.Context, plugins []policy.Plugin, manifests []manifest.Manifest, opts Options) ([]policy.Violation, int, error) {
	var findings []policy.Violation
	invoked := 0

	for _, p := range plugins {
		invoked++
		vs, err := e.invoke(ctx, p, manifests, opts)
		if err != nil {
			if ctx.Err() != nil {
				return nil, invoked, ctx.Err()
			}
			if !opts.GracefulDegradation {
				return nil, invoked, err
			}
			vs = []policy.Violation{degradedViolation(p.Name(), err)}
		}
		findings = append(findings, vs...)

		if opts.FailFast && hasErrorSeverity(vs) {
			e.logger.Debug("fail-fast triggered, skipping remaining plugins",
				"plugin", p.Name(),
				"skipped", len(plugins)-invoked,
			)
			break
		}
	}

	return findings, invoked, nil
}

// runParallel launches every plugin before awaiting any of them, then
// re-sorts results by registration index so aggregation order matches
// sequential mode.
func (e *Engine) runParallel(ctx context.Context, plugins []policy.Plugin, manifests []manifest.Manifest, opts Options) ([]policy.Violation, int, error) {
	results := make([][]policy.Violation, len(plugins))
	errs := make([]error, len(plugins))

	var wg sync.WaitGroup
	for i, p := range plugins {
		wg.Add(1)
		go func(i int, p policy.Plugin) {
			defer wg.Done()
			results[i], errs[i] = e.invoke(ctx, p, manifests, opts)
		}(i, p)
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil, len(plugins), ctx.Err()
	}

	var findings []policy.Violation
	var failed []string
	var causes []error
	for i, p := range plugins {
		if errs[i] != nil {
			if opts.GracefulDegradation {
				findings = append(findings, degradedViolation(p.Name(), errs[i]))
				continue
			}
			failed = append(failed, p.Name())
			causes = append(causes, errs[i])
			continue
		}
		findings = append(findings, results[i]...)
	}

	if len(causes) > 0 {
		return nil, len(plugins), &policy.OrchestrationError{Plugins: failed, Causes: causes}
	}

	return findings, len(plugins), nil
}

// invoke runs a single plugin raced against the configured timeout. The
// plugin receives a context cancelled at the deadline; on timeout the
// engine abandons the invocation without waiting for the goroutine.
func (e *Engine) invoke(ctx context.Context, p policy.Plugin, manifests []manifest.Manifest, opts Options) ([]policy.Violation, error) {
	name := p.Name()
	vc := e.contextFor(p)

	pctx := ctx
	cancel := context.CancelFunc(func() {})
	if opts.Timeout > 0 {
		pctx, cancel = context.WithTimeout(ctx, opts.Timeout)
	}
	defer cancel()

	type outcome struct {
		violations []policy.Violation
		err        error
	}
	done := make(chan outcome, 1)

	start := time.Now()
	go func() {
		vs, err := p.Validate(pctx, manifests, vc)
		done <- outcome{violations: vs, err: err}
	}()

	var (
		vs  []policy.Violation
		err error
	)
	select {
	case out := <-done:
		vs, err = out.violations, out.err
		if err != nil && !isTimeout(err) {
			err = &policy.PluginError{Plugin: name, Cause: err}
		}
	case <-pctx.Done():
		if ctx.Err() != nil {
			// The caller's context ended; not a per-plugin timeout.
			err = ctx.Err()
		} else {
			err = &policy.TimeoutError{Plugin: name, Timeout: opts.Timeout}
		}
	}
	elapsed := time.Since(start)

	if opts.metrics != nil {
		opts.metrics.RecordPlugin(name, pluginStatus(err), elapsed)
	}

	if err != nil {
		e.logger.Warn("plugin execution failed",
			"plugin", name,
			"error", err,
			"elapsed", elapsed,
		)
		return nil, err
	}

	return stampPlugin(name, vs), nil
}

// contextFor builds the per-call read-only view handed to a plugin.
func (e *Engine) contextFor(p policy.Plugin) *policy.Context {
	name := p.Name()

	e.mu.RLock()
	loaded := e.configs[name]
	e.mu.RUnlock()

	var config map[string]any
	if loaded != nil {
		config = loaded.Config
	}

	return &policy.Context{
		Chart:       e.chart,
		Config:      config,
		Environment: e.environment,
		Logger:      e.logger.With("plugin", name),
	}
}

// stampPlugin fills in plugin attribution on findings that omit it.
func stampPlugin(name string, vs []policy.Violation) []policy.Violation {
	for i := range vs {
		if vs[i].Plugin == "" {
			vs[i].Plugin = name
		}
	}
	return vs
}

// degradedViolation synthesizes the single error-severity violation that
// represents a failed plugin under graceful degradation. Only the
// failure's message string is carried over.
func degradedViolation(name string, err error) policy.Violation {
	return policy.Violation{
		Plugin:   name,
		Severity: policy.SeverityError,
		Message:  fmt.Sprintf("plugin execution failed: %s", err.Error()),
	}
}

func hasErrorSeverity(vs []policy.Violation) bool {
	for _, v := range vs {
		if v.Severity == policy.SeverityError {
			return true
		}
	}
	return false
}

func isTimeout(err error) bool {
	var te *policy.TimeoutError
	return errors.As(err, &te)
}

func pluginStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case isTimeout(err):
		return "timeout"
	default:
		return "failed"
	}
}
