package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"payrollguard/preflight/pkg/cli"
	"payrollguard/preflight/pkg/history"
	"payrollguard/preflight/pkg/rules/engine"
	"payrollguard/preflight/pkg/telemetry/metrics"
	"payrollguard/preflight/pkg/watcher"
)

var watchFlags struct {
	inboxDir string
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch an inbox directory for payroll files",
	Long: `Watch the configured inbox directory and check every payroll CSV
dropped into it.

Each file is processed once: the exception report and summary are written
into a timestamped output directory, the input moves to the processed
directory (or the failed directory on error), the run is recorded in
history storage, and metrics are updated. Files present at startup are
picked up by an initial sweep; a scheduled re-sweep catches missed events.

The watcher runs until interrupted (SIGINT/SIGTERM).

Examples:
  # Watch with the configured directories
  preflight watch --config preflight.yaml

  # Override the inbox directory
  preflight watch --inbox /var/payroll/inbox`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchFlags.inboxDir, "inbox", "", "override the inbox directory")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	if watchFlags.inboxDir != "" {
		cfg.Watch.InboxDir = watchFlags.inboxDir
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	eng, err := engine.New(cfg, logger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	store, err := history.Open(cfg, logger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer store.Close()

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		go func() {
			addr := cfg.Telemetry.Metrics.ListenAddress
			logger.Info("metrics endpoint listening", "address", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Error("metrics endpoint failed", "error", err)
			}
		}()
	}

	processor := watcher.NewProcessor(cfg, eng, store, collector, logger)
	w, err := watcher.NewInboxWatcher(cfg, processor, logger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	ctx := cli.SetupSignalHandler()
	if err := w.Run(ctx); err != nil {
		return cli.NewCommandError("watch", err)
	}
	return nil
}
