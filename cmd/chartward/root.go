package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"helmsman-hq/chartward/pkg/config"
	"helmsman-hq/chartward/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "chartward",
	Short: "Chartward - policy validation for generated Helm chart manifests",
	Long: `Chartward validates generated Kubernetes manifests against a set of
policy plugins before they ship.

It provides:
  - Pluggable validation rules with per-environment configuration
  - Sequential and parallel plugin execution with per-plugin timeouts
  - Human, JSON, compact, CI-annotation, and SARIF output formats
  - Validation run history with retention pruning
  - A watch mode that re-validates as manifests are regenerated`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfiguration loads the config file when one is present, falling
// back to defaults. An explicitly passed --config that cannot be loaded
// is an error; a missing default file is not.
func loadConfiguration() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadConfigWithEnvOverrides(cfgFile)
	}

	const defaultPath = "chartward.yaml"
	if _, err := os.Stat(defaultPath); err == nil {
		return config.LoadConfigWithEnvOverrides(defaultPath)
	}
	return config.Default(), nil
}

// setupLogging builds the process logger from config, honoring the
// --verbose flag, and installs it as the slog default.
func setupLogging(cfg *config.Config) (*slog.Logger, error) {
	level := cfg.Telemetry.Logging.Level
	if verbose {
		level = "debug"
	}

	logger, err := logging.New(&logging.Config{
		Level:     level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}
	slog.SetDefault(logger)
	return logger, nil
}
