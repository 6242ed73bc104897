package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"payrollguard/preflight/pkg/config"
	"payrollguard/preflight/pkg/rules/engine"
)

// RunMetrics tracks metrics for preflight runs.
//
// Metrics:
//   - preflight_runs_total: Run count by final status
//   - preflight_findings_total: Findings by rule and severity
//   - preflight_rules_skipped_total: Skipped rules by rule and reason
//   - preflight_run_duration_seconds: Run duration histogram
//   - preflight_records_processed_total: Payroll records processed
type RunMetrics struct {
	runsTotal         *prometheus.CounterVec
	findingsTotal     *prometheus.CounterVec
	rulesSkippedTotal *prometheus.CounterVec
	runDuration       prometheus.Histogram
	recordsProcessed  prometheus.Counter
}

// NewRunMetrics creates and registers run metrics with the provided registry.
func NewRunMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RunMetrics {
	rm := &RunMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "runs_total",
				Help:      "Total number of preflight runs by final status",
			},
			[]string{"status"},
		),

		findingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "findings_total",
				Help:      "Total number of findings by rule and severity",
			},
			[]string{"rule", "severity"},
		),

		rulesSkippedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rules_skipped_total",
				Help:      "Total number of skipped rule evaluations by reason",
			},
			[]string{"rule", "reason"},
		),

		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "run_duration_seconds",
				Help:      "Duration of preflight runs in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms to ~4.4min
			},
		),

		recordsProcessed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "records_processed_total",
				Help:      "Total number of payroll records processed",
			},
		),
	}

	registry.MustRegister(
		rm.runsTotal,
		rm.findingsTotal,
		rm.rulesSkippedTotal,
		rm.runDuration,
		rm.recordsProcessed,
	)

	return rm
}

// RecordRun records metrics for one completed run.
func (rm *RunMetrics) RecordRun(result *engine.RunResult, duration time.Duration, records int) {
	rm.runsTotal.WithLabelValues(string(result.Status)).Inc()
	rm.runDuration.Observe(duration.Seconds())
	rm.recordsProcessed.Add(float64(records))

	for _, f := range result.Findings {
		rm.findingsTotal.WithLabelValues(string(f.Rule), string(f.Severity)).Inc()
	}
	for _, s := range result.Skips {
		rm.rulesSkippedTotal.WithLabelValues(string(s.Rule), string(s.Reason)).Inc()
	}
}

// RecordFailure records a run that failed before producing a result.
func (rm *RunMetrics) RecordFailure(duration time.Duration) {
	rm.runsTotal.WithLabelValues("ERROR").Inc()
	rm.runDuration.Observe(duration.Seconds())
}
