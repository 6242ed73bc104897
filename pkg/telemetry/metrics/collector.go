package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"payrollguard/preflight/pkg/config"
	"payrollguard/preflight/pkg/rules/engine"
)

// Collector owns the Prometheus registry and the run metrics. It is safe
// for concurrent use.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	runMetrics *RunMetrics
}

// NewCollector creates a metrics collector with the specified configuration
// and registry. If registry is nil, a fresh registry is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "preflight"
	}

	return &Collector{
		config:     cfg,
		registry:   registry,
		runMetrics: NewRunMetrics(cfg, registry),
	}
}

// RecordRun records metrics for one completed run.
func (c *Collector) RecordRun(result *engine.RunResult, duration time.Duration, records int) {
	c.runMetrics.RecordRun(result, duration, records)
}

// RecordFailure records a run that failed before producing a result.
func (c *Collector) RecordFailure(duration time.Duration) {
	c.runMetrics.RecordFailure(duration)
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler for the metrics endpoint, typically
// mounted at "/metrics".
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(
		c.registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			ErrorHandling:     promhttp.ContinueOnError,
		},
	)
}
