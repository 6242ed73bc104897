// Package logging builds the process-wide structured logger from the
// telemetry configuration: level and format, written to stderr so report
// output on stdout stays clean.
package logging
