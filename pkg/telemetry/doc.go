// Package telemetry groups the observability subpackages: logging builds
// the structured logger and metrics exposes Prometheus metrics for the
// watch workflow.
package telemetry
