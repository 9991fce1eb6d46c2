package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ValidationMetrics tracks metrics for chart validation.
//
// Metrics:
//   - chartward_validation_runs_total: validation runs by outcome
//   - chartward_validation_run_duration_seconds: run duration
//   - chartward_plugin_executions_total: plugin executions by plugin and status
//   - chartward_plugin_duration_seconds: per-plugin execution duration
//   - chartward_violations_total: findings by plugin and severity
type ValidationMetrics struct {
	runsTotal   *prometheus.CounterVec
	runDuration prometheus.Histogram

	pluginExecutions *prometheus.CounterVec
	pluginDuration   *prometheus.HistogramVec

	violationsTotal *prometheus.CounterVec
}

// NewValidationMetrics creates and registers validation metrics with the
// provided registry.
func NewValidationMetrics(namespace string, registry *prometheus.Registry) *ValidationMetrics {
	if namespace == "" {
		namespace = "chartward"
	}

	vm := &ValidationMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_runs_total",
				Help:      "Total number of validation runs by outcome",
			},
			[]string{"outcome"},
		),

		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "validation_run_duration_seconds",
				Help:      "Duration of complete validation runs in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to 16s
			},
		),

		pluginExecutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "plugin_executions_total",
				Help:      "Total number of plugin executions by plugin and status",
			},
			[]string{"plugin", "status"},
		),

		pluginDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "plugin_duration_seconds",
				Help:      "Duration of individual plugin executions in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 15), // 100µs to 1.6s
			},
			[]string{"plugin"},
		),

		violationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "violations_total",
				Help:      "Total number of findings by plugin and severity",
			},
			[]string{"plugin", "severity"},
		),
	}

	registry.MustRegister(
		vm.runsTotal,
		vm.runDuration,
		vm.pluginExecutions,
		vm.pluginDuration,
		vm.violationsTotal,
	)

	return vm
}

// RecordRun records a completed validation run.
// Outcome is "passed", "failed", or "aborted".
func (vm *ValidationMetrics) RecordRun(outcome string, duration time.Duration) {
	vm.runsTotal.WithLabelValues(outcome).Inc()
	vm.runDuration.Observe(duration.Seconds())
}

// RecordPlugin records a single plugin execution.
// Status is "ok", "failed", or "timeout".
func (vm *ValidationMetrics) RecordPlugin(plugin, status string, duration time.Duration) {
	vm.pluginExecutions.WithLabelValues(plugin, status).Inc()
	vm.pluginDuration.WithLabelValues(plugin).Observe(duration.Seconds())
}

// RecordViolation records one finding.
func (vm *ValidationMetrics) RecordViolation(plugin, severity string) {
	vm.violationsTotal.WithLabelValues(plugin, severity).Inc()
}
