// sandctl runs the falling-sand sandbox without a window.
//
// Usage:
//
//	sandctl run              - Simulate a scene and log tick statistics
//	sandctl types            - List the particle catalog
//	sandctl scenes           - List the built-in scenes
//	sandctl sweep            - Run one world per seed on a worker pool
//
// Global flags:
//
//	--config <path>     - Sandbox config file (default search: ~/.sandpit, ./configs, built-in)
//	--scene <name>      - Scene name or .yaml path
//	--seed <value>      - RNG seed (0 = configured seed)
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"sandpit/internal/sims/sandbox"
)

var (
	flagConfig   string
	flagScene    string
	flagSeed     int64
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sandctl",
	Short: "Headless driver for the sandpit particle sandbox",
	Long: `sandctl loads sandbox scenes and advances them without opening a window.

Examples:
  sandctl run --scene volcano --ticks 1200 --snapshot
  sandctl types
  sandctl scenes
  sandctl sweep --scene hourglass --seeds 16`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Sandbox config file")
	rootCmd.PersistentFlags().StringVar(&flagScene, "scene", "", "Scene name or .yaml path (overrides the config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = configured seed)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(scenesCmd)
	rootCmd.AddCommand(sweepCmd)
}

func newLogger() (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "sandctl",
		Level:           level,
	})
	return logger, nil
}

// worldConfig loads the sandbox config and applies the global overrides.
func worldConfig() (sandbox.Config, error) {
	cfg, err := sandbox.LoadConfig(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagScene != "" {
		cfg.Scene = flagScene
	}
	if flagSeed != 0 {
		cfg.Seed = flagSeed
	}
	return cfg, nil
}
