// Preflight is a SECURE 2.0 payroll compliance checker.
//
// It evaluates payroll CSV snapshots against configurable compliance rules
// (Roth-only catch-up for highly compensated employees, potential-HCE
// detection, long-term part-time eligibility, auto-enrollment checks) and
// reports findings as a GREEN/YELLOW/RED status with an exception report.
//
// Usage:
//
//	# Check a single payroll file
//	preflight check --payroll payroll.csv
//
//	# Check with an hours history for LTPT eligibility
//	preflight check --payroll payroll.csv --hours hours.csv
//
//	# Watch an inbox directory for dropped payroll files
//	preflight watch --config preflight.yaml
//
//	# Validate a configuration file
//	preflight validate --config preflight.yaml
//
//	# Show past runs
//	preflight history
package main

func main() {
	Execute()
}
