// Package report renders engine run results for people and downstream
// tooling: an exception CSV listing every finding, and a console summary
// with the run status, counts and per-rule diagnostics.
package report
