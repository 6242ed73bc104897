package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"payrollguard/preflight/pkg/cli"
	"payrollguard/preflight/pkg/config"
	"payrollguard/preflight/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

// exitCode is set by commands whose outcome maps to a non-zero exit code
// without being an error, such as a RED check result.
var exitCode int

var rootCmd = &cobra.Command{
	Use:   "preflight",
	Short: "SECURE 2.0 payroll compliance preflight checker",
	Long: `Preflight evaluates payroll CSV snapshots against SECURE 2.0 compliance
rules before the payroll run is finalized.

Checks include:
  - Roth-only catch-up enforcement for highly compensated employees
  - Potential-HCE detection from annualized compensation
  - Long-term part-time (LTPT) eligibility from multi-year hours history
  - Auto-enrollment and escalation checks

The result is a GREEN/YELLOW/RED status with an exception report. GREEN and
YELLOW exit 0; RED and processing errors exit 2.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits the process.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitViolation)
	}
	os.Exit(exitCode)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "preflight.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the configuration file named by --config. When the flag
// is left at its default and the file does not exist, the built-in defaults
// apply, so `preflight check` works without any setup.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config") {
			return config.Default()
		}
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger from the telemetry configuration,
// respecting --verbose.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	logCfg := cfg.Telemetry.Logging
	if verbose {
		logCfg.Level = "debug"
	}
	return logging.New(&logCfg, nil)
}
