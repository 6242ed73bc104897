package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"payrollguard/preflight/pkg/cli"
	"payrollguard/preflight/pkg/payroll"
	"payrollguard/preflight/pkg/report"
	"payrollguard/preflight/pkg/rules/engine"
)

var checkFlags struct {
	payrollFile string
	hoursFile   string
	outputFile  string
	summary     bool
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check one payroll file",
	Long: `Run the compliance rules against a single payroll CSV and print the
result.

The exit code reflects the outcome: GREEN and YELLOW exit 0, RED exits 2.
Processing errors (unreadable file, missing required columns, invalid
configuration) also exit 2.

Examples:
  # Check a payroll file with the default configuration
  preflight check --payroll payroll.csv

  # Include an hours history so the LTPT rule can run
  preflight check --payroll payroll.csv --hours hours.csv

  # Write the exception report to a specific path
  preflight check --payroll payroll.csv --output exceptions.csv`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkFlags.payrollFile, "payroll", "p", "", "payroll CSV file (required)")
	checkCmd.Flags().StringVar(&checkFlags.hoursFile, "hours", "", "multi-year hours history CSV")
	checkCmd.Flags().StringVarP(&checkFlags.outputFile, "output", "o", "", "exception report path (default: no report file)")
	checkCmd.Flags().BoolVar(&checkFlags.summary, "summary", true, "print the run summary")
	checkCmd.MarkFlagRequired("payroll")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cli.NewCommandError("check", err)
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return cli.NewCommandError("check", err)
	}

	eng, err := engine.New(cfg, logger)
	if err != nil {
		return cli.NewCommandError("check", err)
	}

	records, columns, err := payroll.LoadPayroll(checkFlags.payrollFile)
	if err != nil {
		return cli.NewCommandError("check", err)
	}

	input := &engine.Input{Records: records, Columns: columns}
	if checkFlags.hoursFile != "" {
		hours, err := payroll.LoadHours(checkFlags.hoursFile)
		if err != nil {
			return cli.NewCommandError("check", err)
		}
		input.Hours = hours
	}

	result := eng.Run(input)

	if checkFlags.outputFile != "" {
		if err := report.WriteExceptionsFile(checkFlags.outputFile, result.Findings); err != nil {
			return cli.NewCommandError("check", err)
		}
	}
	if checkFlags.summary {
		if err := report.WriteSummary(os.Stdout, result, checkFlags.outputFile); err != nil {
			return cli.NewCommandError("check", err)
		}
	} else {
		fmt.Println(result.Status)
	}

	exitCode = cli.ExitCode(result.Status)
	return nil
}
