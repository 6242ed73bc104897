// Package metrics provides Prometheus metrics for the preflight checker.
//
// A Collector owns the registry and the run metrics recorded by the watch
// workflow: run counts by status, findings by rule and severity, skipped
// rules by reason, run duration and records processed. Handler exposes the
// registry in the standard exposition format.
//
// Usage:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordRun(result, duration, records)
//	http.Handle("/metrics", collector.Handler())
package metrics
