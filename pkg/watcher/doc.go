// Package watcher implements the drop-folder workflow: payroll CSVs placed
// in an inbox directory are picked up, checked, and moved on.
//
// A fsnotify watcher reacts to file events with per-file debouncing so
// partially written files settle before processing. A cron sweep rescans
// the inbox on a schedule to catch files whose events were missed. Files
// are processed one at a time; each run writes an exception report and a
// summary into a timestamped output directory, moves the input to the
// processed or failed directory, records the run in history storage and
// updates metrics.
package watcher
