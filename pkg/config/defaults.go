package config

import (
	"time"

	"github.com/shopspring/decimal"
)

// Default values applied to unset configuration fields.
var (
	// DefaultLTPTHoursThreshold is the statutory LTPT hours minimum.
	DefaultLTPTHoursThreshold = decimal.NewFromInt(500)

	// DefaultAutoEnrollRate is the default plan deferral rate.
	DefaultAutoEnrollRate = decimal.NewFromFloat(0.03)
)

// ApplyDefaults fills unset fields with their default values. It never
// overwrites a value the operator set explicitly.
func ApplyDefaults(cfg *Config) {
	if cfg.Annualization.Method == "" {
		cfg.Annualization.Method = MethodGrossOrYTD
	}

	if cfg.Rules.LTPT.HoursThreshold.IsZero() {
		cfg.Rules.LTPT.HoursThreshold = DefaultLTPTHoursThreshold
	}
	if cfg.Rules.LTPT.ConsecutiveYears == 0 {
		cfg.Rules.LTPT.ConsecutiveYears = 3
	}
	if cfg.Rules.LTPT.LatestYear == 0 {
		cfg.Rules.LTPT.LatestYear = cfg.HCEThreshold.CurrentYear
	}

	if cfg.Rules.AutoEnroll.DefaultRate.IsZero() {
		cfg.Rules.AutoEnroll.DefaultRate = DefaultAutoEnrollRate
	}
	if cfg.Rules.AutoEnroll.EscalationEffectiveMonth == 0 {
		cfg.Rules.AutoEnroll.EscalationEffectiveMonth = 1
	}

	if cfg.Watch.InboxDir == "" {
		cfg.Watch.InboxDir = "inbox"
	}
	if cfg.Watch.ProcessedDir == "" {
		cfg.Watch.ProcessedDir = "processed"
	}
	if cfg.Watch.FailedDir == "" {
		cfg.Watch.FailedDir = "failed"
	}
	if cfg.Watch.OutputDir == "" {
		cfg.Watch.OutputDir = "preflight_outputs"
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.SweepSchedule == "" {
		cfg.Watch.SweepSchedule = "@every 30s"
	}

	if cfg.History.Backend == "" {
		cfg.History.Backend = "memory"
	}
	if cfg.History.SQLitePath == "" {
		cfg.History.SQLitePath = "data/preflight_history.db"
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = "info"
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = "text"
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = "127.0.0.1:9464"
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = "preflight"
	}
}
