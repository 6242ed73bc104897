// Package engine evaluates normalized payroll records against a configurable
// set of retirement-plan compliance checks and produces a severity-classified
// exception report.
//
// This is the decision core of the preflight checker. It annualizes
// partial-year compensation, determines highly-compensated-employee (HCE)
// status against a configured threshold, detects long-term part-time (LTPT)
// eligibility from multi-year hours histories, checks auto-enrollment and
// escalation handling, and aggregates the resulting findings into a
// three-level traffic-light status.
//
// # Evaluation Flow
//
//	payroll records (+ optional hours history) + resolved config
//	       ↓
//	For each rule in fixed order:
//	  disabled in config?        → SkipRecord{DISABLED_IN_CONFIG}
//	  auxiliary input missing?   → SkipRecord{REQUIRED_INPUT_MISSING}
//	  required columns missing?  → SkipRecord{REQUIRED_COLUMNS_MISSING}
//	  otherwise                  → evaluate, collect findings
//	       ↓
//	RunResult (ordered findings, skips, per-rule outcomes, status)
//
// The rule table is declarative: each rule declares its enabled-flag
// accessor, required columns and auxiliary-input requirement, and the
// orchestrator consults the table uniformly instead of scattering per-rule
// conditionals.
//
// # Error Isolation
//
// A malformed record (for example an inverted pay period) is excluded from
// the affected rule's evaluation and reported as a data-quality note; it
// never aborts the rule or the run. Configuration problems are fatal before
// any rule executes. An empty finding set is a valid, successful GREEN
// outcome.
//
// # Concurrency
//
// A run is single-threaded and synchronous. Each Run call takes fresh inputs
// and returns a fresh RunResult; the Engine holds no mutable state, so one
// Engine may serve concurrent runs on independent inputs.
package engine
