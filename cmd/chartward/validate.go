package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"helmsman-hq/chartward/pkg/config"
	"helmsman-hq/chartward/pkg/history"
	"helmsman-hq/chartward/pkg/history/retention"
	"helmsman-hq/chartward/pkg/history/storage"
	"helmsman-hq/chartward/pkg/manifest"
	"helmsman-hq/chartward/pkg/policy"
	"helmsman-hq/chartward/pkg/policy/builtin"
	"helmsman-hq/chartward/pkg/policy/diagnostics"
	"helmsman-hq/chartward/pkg/policy/engine"
	"helmsman-hq/chartward/pkg/policy/format"
	"helmsman-hq/chartward/pkg/telemetry/metrics"
)

var validateFlags struct {
	chartName    string
	chartVersion string
	environment  string
	outputFormat string
	timeout      time.Duration
	parallel     bool
	failFast     bool
	strict       bool
	watch        bool
}

var validateCmd = &cobra.Command{
	Use:   "validate PATH",
	Short: "Validate rendered chart manifests against policy plugins",
	Long: `Validate rendered Kubernetes manifests at PATH (a YAML file or a
directory of YAML files) against the registered policy plugins.

The command exits non-zero when any error-severity violation is found.

Examples:
  # Validate a directory of rendered manifests
  chartward validate ./rendered

  # Name the chart and target environment
  chartward validate ./rendered --chart my-app --environment production

  # Run plugins concurrently with a tighter per-plugin timeout
  chartward validate ./rendered --parallel --timeout 5s

  # Abort on the first plugin failure instead of degrading it
  chartward validate ./rendered --strict

  # Emit SARIF for code scanning integrations
  chartward validate ./rendered --format sarif

  # Keep validating as the chart is regenerated
  chartward validate ./rendered --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFlags.chartName, "chart", "", "chart name under validation")
	validateCmd.Flags().StringVar(&validateFlags.chartVersion, "chart-version", "", "chart version under validation")
	validateCmd.Flags().StringVarP(&validateFlags.environment, "environment", "e", "", "target deployment environment")
	validateCmd.Flags().StringVarP(&validateFlags.outputFormat, "format", "f", "", "output format (human, json, compact, ci, sarif)")
	validateCmd.Flags().DurationVar(&validateFlags.timeout, "timeout", 0, "per-plugin execution timeout")
	validateCmd.Flags().BoolVar(&validateFlags.parallel, "parallel", false, "run plugins concurrently")
	validateCmd.Flags().BoolVar(&validateFlags.failFast, "fail-fast", false, "stop at the first error-severity violation (sequential only)")
	validateCmd.Flags().BoolVar(&validateFlags.strict, "strict", false, "abort on plugin failure instead of degrading it to a violation")
	validateCmd.Flags().BoolVarP(&validateFlags.watch, "watch", "w", false, "re-validate when manifests change")
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}
	applyValidateFlags(cfg)

	logger, err := setupLogging(cfg)
	if err != nil {
		return err
	}

	formatter, err := format.New(cfg.Validation.Format)
	if err != nil {
		return err
	}

	chart := policy.Chart{Name: cfg.Chart.Name, Version: cfg.Chart.Version}
	eng, err := buildEngine(chart, cfg, logger, formatter)
	if err != nil {
		return err
	}

	recorder, store, cleanup, err := setupHistory(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	loader := manifest.NewLoader(logger)

	if validateFlags.watch {
		return watchAndValidate(cmd.Context(), eng, loader, path, chart, cfg, recorder, store, logger)
	}

	result, err := validateOnce(cmd.Context(), eng, loader, path, chart, cfg, recorder)
	if err != nil {
		return err
	}
	if !result.Valid {
		return fmt.Errorf("validation failed: %d violation(s)", len(result.Violations))
	}
	return nil
}

// applyValidateFlags layers command-line flags over the file config.
func applyValidateFlags(cfg *config.Config) {
	if validateFlags.chartName != "" {
		cfg.Chart.Name = validateFlags.chartName
	}
	if validateFlags.chartVersion != "" {
		cfg.Chart.Version = validateFlags.chartVersion
	}
	if validateFlags.environment != "" {
		cfg.Chart.Environment = validateFlags.environment
	}
	if validateFlags.outputFormat != "" {
		cfg.Validation.Format = validateFlags.outputFormat
	}
	if validateFlags.timeout > 0 {
		cfg.Validation.Timeout = config.Duration(validateFlags.timeout)
	}
	if validateFlags.parallel {
		cfg.Validation.Parallel = true
	}
	if validateFlags.failFast {
		cfg.Validation.FailFast = true
	}
	if validateFlags.strict {
		cfg.Validation.GracefulDegradation = false
	}
}

// buildEngine assembles the policy engine with all builtin plugins and
// the configuration's per-plugin settings.
func buildEngine(chart policy.Chart, cfg *config.Config, logger *slog.Logger, formatter format.Formatter) (*engine.Engine, error) {
	known := builtin.Names()
	for name := range cfg.Plugins {
		if !contains(known, name) {
			logger.Warn("config references unknown plugin",
				"plugin", name,
				"hint", diagnostics.SuggestPluginName(name, known),
			)
		}
	}

	eng := engine.New(chart, cfg.Chart.Environment, logger,
		engine.WithTimeout(cfg.Validation.Timeout.Std()),
		engine.WithParallel(cfg.Validation.Parallel),
		engine.WithFailFast(cfg.Validation.FailFast),
		engine.WithGracefulDegradation(cfg.Validation.GracefulDegradation),
		engine.WithPluginConfig(cfg.Plugins),
		engine.WithFormatter(formatter),
	)

	for _, p := range builtin.All() {
		if err := eng.Use(p, nil); err != nil {
			return nil, fmt.Errorf("failed to register plugin %q: %w", p.Name(), err)
		}
	}

	return eng, nil
}

// setupHistory opens run-history storage when enabled. The returned
// cleanup is always safe to call.
func setupHistory(cfg *config.Config, logger *slog.Logger) (*history.Recorder, history.Storage, func(), error) {
	if !cfg.History.Enabled {
		return nil, nil, func() {}, nil
	}

	store, err := storage.NewSQLiteStorage(storage.DefaultSQLiteConfig(cfg.History.Path))
	if err != nil {
		return nil, nil, func() {}, fmt.Errorf("failed to open history storage: %w", err)
	}

	recorder := history.NewRecorder(store, nil, logger)
	cleanup := func() {
		recorder.Close()
		if err := store.Close(); err != nil {
			logger.Warn("failed to close history storage", "error", err)
		}
	}
	return recorder, store, cleanup, nil
}

// validateOnce loads manifests, runs the engine, and prints the result.
func validateOnce(ctx context.Context, eng *engine.Engine, loader *manifest.Loader, path string, chart policy.Chart, cfg *config.Config, recorder *history.Recorder) (*policy.Result, error) {
	manifests, err := loader.LoadPath(path)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := eng.Validate(ctx, manifests)
	if err != nil {
		return nil, err
	}

	output, err := eng.FormatResult(result)
	if err != nil {
		return nil, err
	}
	fmt.Println(output)

	if recorder != nil {
		recorder.Record(history.NewRunRecord(chart, cfg.Chart.Environment, result, start))
	}

	return result, nil
}

// watchAndValidate runs an initial validation, then re-validates after
// each debounced burst of manifest changes until interrupted. Watch mode
// never exits non-zero on findings; failures are reported per run.
func watchAndValidate(parent context.Context, eng *engine.Engine, loader *manifest.Loader, path string, chart policy.Chart, cfg *config.Config, recorder *history.Recorder, store history.Storage, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		vm := metrics.NewValidationMetrics(cfg.Telemetry.Metrics.Namespace, registry)
		eng.Configure(engine.WithMetrics(vm))
		go serveMetrics(ctx, cfg.Telemetry.Metrics.Address, registry, logger)
	}

	if store != nil && cfg.History.PruneSchedule != "" {
		pruner := retention.NewPruner(store, &retention.Config{
			RetentionDays: cfg.History.RetentionDays,
			MaxRecords:    cfg.History.MaxRecords,
			PruneSchedule: cfg.History.PruneSchedule,
		})
		if err := pruner.Start(ctx); err != nil {
			return err
		}
		defer pruner.Stop()
	}

	watcher, err := manifest.NewWatcher(manifest.DefaultWatcherConfig(path), logger)
	if err != nil {
		return err
	}
	events, err := watcher.Start(ctx)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	if _, err := validateOnce(ctx, eng, loader, path, chart, cfg, recorder); err != nil {
		logger.Error("validation run failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("watch mode stopped")
			return nil
		case _, ok := <-events:
			if !ok {
				return nil
			}
			if _, err := validateOnce(ctx, eng, loader, path, chart, cfg, recorder); err != nil {
				logger.Error("validation run failed", "error", err)
			}
		}
	}
}

// serveMetrics exposes the Prometheus endpoint until the context ends.
func serveMetrics(ctx context.Context, addr string, registry *prometheus.Registry, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(registry))

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", "address", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics server failed", "error", err)
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
