package config

import (
	"time"

	"github.com/shopspring/decimal"
)

// Config is the root configuration for the preflight checker. It covers the
// rule engine thresholds, per-rule enablement, the drop-folder workflow, run
// history storage and telemetry.
type Config struct {
	// HCEThreshold contains the highly-compensated-employee determination
	// parameters.
	HCEThreshold HCEThresholdConfig `yaml:"hce_threshold"`

	// CatchUp contains catch-up contribution rule parameters.
	CatchUp CatchUpConfig `yaml:"catch_up"`

	// Annualization selects how partial-year compensation is projected to a
	// full-year figure.
	Annualization AnnualizationConfig `yaml:"annualization"`

	// Rules contains per-rule enablement flags and rule-specific settings.
	Rules RulesConfig `yaml:"rules"`

	// Watch configures drop-folder mode.
	Watch WatchConfig `yaml:"watch"`

	// History configures run-history storage.
	History HistoryConfig `yaml:"history"`

	// Telemetry configures logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// HCEThresholdConfig contains the HCE determination parameters.
type HCEThresholdConfig struct {
	// CurrentYear is the plan year under evaluation.
	// Valid range: 2000-2100.
	CurrentYear int `yaml:"current_year"`

	// CompensationLimit is the annual compensation threshold at or above
	// which an employee is treated as highly compensated. Must be positive.
	CompensationLimit decimal.Decimal `yaml:"compensation_limit"`
}

// CatchUpConfig contains catch-up contribution rule parameters.
type CatchUpConfig struct {
	// RothOnlyRiskYear is the first plan year from which HCE catch-up
	// contributions must be Roth-only. Valid range: 2000-2100.
	RothOnlyRiskYear int `yaml:"roth_only_risk_year"`

	// AgeThreshold is the minimum age for catch-up provisions. Payroll input
	// carries no age field, so this value is advisory and gates no rule.
	AgeThreshold int `yaml:"age_threshold"`
}

// AnnualizationMethod selects the compensation projection method.
type AnnualizationMethod string

const (
	// MethodGross annualizes the current pay period's gross by the number
	// of periods per year inferred from the period length.
	MethodGross AnnualizationMethod = "gross"

	// MethodYTD extrapolates year-to-date gross by the elapsed fraction of
	// the year, falling back to the gross projection when YTD is zero.
	MethodYTD AnnualizationMethod = "ytd"

	// MethodGrossOrYTD prefers the YTD projection when YTD data is
	// available and otherwise uses the gross projection.
	MethodGrossOrYTD AnnualizationMethod = "gross_or_ytd"
)

// AnnualizationConfig selects the annualization method.
type AnnualizationConfig struct {
	// Method is one of "gross", "ytd", "gross_or_ytd".
	// Default: "gross_or_ytd".
	Method AnnualizationMethod `yaml:"method"`
}

// RulesConfig contains per-rule enablement and rule-specific settings.
type RulesConfig struct {
	// RothCatchup enables the Roth-only catch-up check (RED findings).
	RothCatchup RuleToggle `yaml:"roth_catchup"`

	// PotentialHCE enables the potential-HCE advisory check (YELLOW).
	PotentialHCE RuleToggle `yaml:"potential_hce"`

	// LTPT configures the long-term part-time eligibility check (YELLOW).
	LTPT LTPTConfig `yaml:"ltpt"`

	// AutoEnroll configures the auto-enrollment and escalation checks.
	AutoEnroll AutoEnrollConfig `yaml:"auto_enroll"`
}

// RuleToggle is a bare enable/disable switch for a rule.
type RuleToggle struct {
	Enabled bool `yaml:"enabled"`
}

// LTPTConfig configures long-term part-time eligibility detection.
type LTPTConfig struct {
	// Enabled turns the LTPT check on.
	Enabled bool `yaml:"enabled"`

	// HoursThreshold is the statutory minimum hours per year.
	// Default: 500.
	HoursThreshold decimal.Decimal `yaml:"hours_threshold"`

	// ConsecutiveYears is the required consecutive-year window.
	// Must be 2 or 3. Default: 3.
	ConsecutiveYears int `yaml:"consecutive_years"`

	// LatestYear is the final year of the window. Zero means the current
	// plan year. Must not exceed hce_threshold.current_year.
	LatestYear int `yaml:"latest_year"`

	// RequireDeferralAbsent suppresses findings for employees who already
	// have a deferral election on file.
	RequireDeferralAbsent bool `yaml:"require_deferral_absent"`
}

// AutoEnrollConfig configures the auto-enrollment and escalation checks.
type AutoEnrollConfig struct {
	// Enabled turns the auto-enrollment miss check on.
	Enabled bool `yaml:"enabled"`

	// WaitDays is the enrollment waiting period after hire.
	WaitDays int `yaml:"wait_days"`

	// DefaultRate is the plan's default deferral rate.
	// Default: 0.03.
	DefaultRate decimal.Decimal `yaml:"default_rate"`

	// EscalationEnabled turns the escalation miss check on.
	EscalationEnabled bool `yaml:"escalation_enabled"`

	// EscalationEffectiveMonth is the month (1-12) from which the yearly
	// escalation should have taken effect. Default: 1.
	EscalationEffectiveMonth int `yaml:"escalation_effective_month"`
}

// WatchConfig configures drop-folder mode.
type WatchConfig struct {
	// InboxDir is the directory watched for new payroll CSV files.
	// Default: "inbox".
	InboxDir string `yaml:"inbox_dir"`

	// ProcessedDir receives files whose run completed, whatever the status.
	// Default: "processed".
	ProcessedDir string `yaml:"processed_dir"`

	// FailedDir receives files whose run failed with a processing error.
	// Default: "failed".
	FailedDir string `yaml:"failed_dir"`

	// OutputDir is the base directory for per-run output folders.
	// Default: "preflight_outputs".
	OutputDir string `yaml:"output_dir"`

	// HoursFile is an optional hours-history CSV supplied to every run.
	HoursFile string `yaml:"hours_file"`

	// Debounce is the quiet period after a file event before the file is
	// processed, so partially written files settle. Default: 500ms.
	Debounce time.Duration `yaml:"debounce"`

	// SweepSchedule is a cron expression for rescanning the inbox for files
	// whose filesystem events were missed. Empty disables the sweep.
	// Default: "@every 30s".
	SweepSchedule string `yaml:"sweep_schedule"`
}

// HistoryConfig configures run-history storage.
type HistoryConfig struct {
	// Backend is "memory" or "sqlite". Default: "memory".
	Backend string `yaml:"backend"`

	// SQLitePath is the database file path for the sqlite backend.
	// Default: "data/preflight_history.db".
	SQLitePath string `yaml:"sqlite_path"`
}

// TelemetryConfig configures logging and metrics.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	// Default: "info".
	Level string `yaml:"level"`

	// Format is "json" or "text". Default: "text".
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus metrics endpoint.
type MetricsConfig struct {
	// Enabled turns the metrics endpoint on in watch mode.
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the metrics HTTP listen address.
	// Default: "127.0.0.1:9464".
	ListenAddress string `yaml:"listen_address"`

	// Namespace and Subsystem prefix every metric name.
	// Defaults: "preflight", "".
	Namespace string `yaml:"namespace"`
	Subsystem string `yaml:"subsystem"`
}
