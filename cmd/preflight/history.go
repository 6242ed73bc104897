package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"payrollguard/preflight/pkg/cli"
	"payrollguard/preflight/pkg/history"
	"payrollguard/preflight/pkg/rules/engine"
)

var historyFlags struct {
	status string
	file   string
	since  string
	limit  int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past preflight runs",
	Long: `List recorded preflight runs from history storage, most recent first.

Only runs recorded by the watch workflow (or a sqlite-backed check) appear;
with the default in-memory backend there is nothing to list across
processes.

Examples:
  # Show the last runs
  preflight history

  # Only RED runs since a date
  preflight history --status RED --since 2024-06-01

  # Runs for one input file
  preflight history --file inbox/payroll.csv`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyFlags.status, "status", "", "filter by status: GREEN, YELLOW, RED")
	historyCmd.Flags().StringVar(&historyFlags.file, "file", "", "filter by input file path")
	historyCmd.Flags().StringVar(&historyFlags.since, "since", "", "only runs started on/after this date (YYYY-MM-DD)")
	historyCmd.Flags().IntVar(&historyFlags.limit, "limit", 20, "maximum number of runs to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	store, err := history.Open(cfg, logger)
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	defer store.Close()

	q := &history.Query{
		Status:    engine.Status(historyFlags.status),
		InputFile: historyFlags.file,
		Limit:     historyFlags.limit,
	}
	if historyFlags.since != "" {
		since, err := time.Parse(time.DateOnly, historyFlags.since)
		if err != nil {
			return cli.NewCommandError("history", fmt.Errorf("invalid --since date: %w", err))
		}
		q.Since = &since
	}

	runs, err := store.List(context.Background(), q)
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tSTATUS\tRED\tYELLOW\tRECORDS\tFILE\tEMPLOYEES")
	for _, run := range runs {
		status := string(run.Status)
		if run.Error != "" {
			status = "ERROR"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			run.StartedAt.Format("2006-01-02 15:04:05"),
			status,
			run.RedCount,
			run.YellowCount,
			run.Records,
			run.InputFile,
			strings.Join(run.Employees, ","),
		)
	}
	return w.Flush()
}
