package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/KaramelBytes/racestats/internal/analysis"
	cfgpkg "github.com/KaramelBytes/racestats/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags (override config when set)
	cfgFile     string
	debug       bool
	flagDataDir string
	flagTopN    int

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "racestats",
	Short: "racestats: statistics over per-year race result tables",
	Long: `racestats loads one results table per race year (CSV, TSV or XLSX) and answers a fixed
set of questions about finish times, ages, countries and gender, with trend correlations,
a finish-time prediction and two charts.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.racestats/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "directory holding the per-year tables (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagTopN, "top", 0, "number of leading finishers per year, 0 for all (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
	applyFlagOverrides()
}

// applyFlagOverrides copies explicitly set global flags over the config.
func applyFlagOverrides() {
	f := rootCmd.PersistentFlags()
	if f.Changed("data-dir") && flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if f.Changed("top") && flagTopN >= 0 {
		cfg.TopN = flagTopN
	}
}

// ensureConfig loads the configuration when OnInitialize has not run, as in
// tests that call rootCmd.Execute directly.
func ensureConfig() error {
	if cfg != nil {
		return nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = c
	applyFlagOverrides()
	return nil
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadPipeline builds a pipeline from the effective config and loads the
// data directory.
func loadPipeline() (*analysis.Pipeline, error) {
	if err := ensureConfig(); err != nil {
		return nil, err
	}
	opts, err := cfg.Options(newLogger())
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	p := analysis.New(opts)
	if err := p.Load(cfg.DataDir); err != nil {
		return nil, err
	}
	return p, nil
}
