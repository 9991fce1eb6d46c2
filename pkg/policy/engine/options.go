package engine

import (
	"time"

	"helmsman-hq/chartward/pkg/policy/format"
	"helmsman-hq/chartward/pkg/telemetry/metrics"
)

// Options controls engine scheduling, failure handling, and output.
type Options struct {
	// Timeout bounds each individual plugin invocation.
	// Default: 30s.
	Timeout time.Duration

	// Parallel launches every plugin before awaiting any of them.
	// Results are re-sorted to registration order before aggregation, so
	// output is deterministic either way. Default: false.
	Parallel bool

	// FailFast stops invoking subsequent plugins once a plugin yields an
	// error-severity finding. It applies only in sequential mode and is
	// ignored when Parallel is set. Default: false.
	FailFast bool

	// GracefulDegradation converts an in-flight plugin failure or timeout
	// into a single synthetic error-severity violation attributed to that
	// plugin, instead of aborting the whole run. Default: true.
	GracefulDegradation bool

	// Formatter renders results in FormatResult. Default: the human
	// formatter.
	Formatter format.Formatter

	// PluginConfig supplies inline configuration per plugin name, used by
	// Use when no explicit config is passed.
	PluginConfig map[string]map[string]any

	// metrics instruments validation runs when set, see WithMetrics.
	metrics *metrics.ValidationMetrics
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		Timeout:             30 * time.Second,
		GracefulDegradation: true,
	}
}

// Option mutates engine options. Configure applies options over the
// current state, so later calls only touch what they name.
type Option func(*Options)

// WithTimeout sets the per-plugin timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) { o.Timeout = d }
}

// WithParallel toggles concurrent plugin execution.
func WithParallel(parallel bool) Option {
	return func(o *Options) { o.Parallel = parallel }
}

// WithFailFast toggles sequential fail-fast.
func WithFailFast(failFast bool) Option {
	return func(o *Options) { o.FailFast = failFast }
}

// WithGracefulDegradation toggles degradation of plugin failures into
// synthetic violations.
func WithGracefulDegradation(graceful bool) Option {
	return func(o *Options) { o.GracefulDegradation = graceful }
}

// WithFormatter sets the formatter used by FormatResult.
func WithFormatter(f format.Formatter) Option {
	return func(o *Options) { o.Formatter = f }
}

// WithPluginConfig sets per-plugin inline configuration.
func WithPluginConfig(configs map[string]map[string]any) Option {
	return func(o *Options) { o.PluginConfig = configs }
}

// WithMetrics attaches validation metrics instrumentation.
func WithMetrics(m *metrics.ValidationMetrics) Option {
	return func(o *Options) { o.metrics = m }
}
