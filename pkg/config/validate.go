package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g., "hce_threshold.compensation_limit").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration. All field errors are collected and reported together.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any rule fails. It returns nil for a valid configuration.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateHCEThreshold(&cfg.HCEThreshold)...)
	errs = append(errs, validateCatchUp(&cfg.CatchUp)...)
	errs = append(errs, validateAnnualization(&cfg.Annualization)...)
	errs = append(errs, validateRules(cfg)...)
	errs = append(errs, validateWatch(&cfg.Watch)...)
	errs = append(errs, validateHistory(&cfg.History)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateHCEThreshold(cfg *HCEThresholdConfig) []FieldError {
	var errs []FieldError

	if cfg.CurrentYear < 2000 || cfg.CurrentYear > 2100 {
		errs = append(errs, FieldError{
			Field:   "hce_threshold.current_year",
			Message: "must be a valid year (2000-2100)",
		})
	}
	if !cfg.CompensationLimit.IsPositive() {
		errs = append(errs, FieldError{
			Field:   "hce_threshold.compensation_limit",
			Message: "must be positive",
		})
	}
	return errs
}

func validateCatchUp(cfg *CatchUpConfig) []FieldError {
	var errs []FieldError

	if cfg.RothOnlyRiskYear < 2000 || cfg.RothOnlyRiskYear > 2100 {
		errs = append(errs, FieldError{
			Field:   "catch_up.roth_only_risk_year",
			Message: "must be a valid year (2000-2100)",
		})
	}
	if cfg.AgeThreshold < 0 {
		errs = append(errs, FieldError{
			Field:   "catch_up.age_threshold",
			Message: "must not be negative",
		})
	}
	return errs
}

func validateAnnualization(cfg *AnnualizationConfig) []FieldError {
	switch cfg.Method {
	case MethodGross, MethodYTD, MethodGrossOrYTD:
		return nil
	default:
		return []FieldError{{
			Field:   "annualization.method",
			Message: fmt.Sprintf("must be one of: %s, %s, %s", MethodGross, MethodYTD, MethodGrossOrYTD),
		}}
	}
}

func validateRules(cfg *Config) []FieldError {
	var errs []FieldError

	ltpt := &cfg.Rules.LTPT
	if ltpt.ConsecutiveYears != 2 && ltpt.ConsecutiveYears != 3 {
		errs = append(errs, FieldError{
			Field:   "rules.ltpt.consecutive_years",
			Message: "must be 2 or 3",
		})
	}
	if !ltpt.HoursThreshold.IsPositive() {
		errs = append(errs, FieldError{
			Field:   "rules.ltpt.hours_threshold",
			Message: "must be positive",
		})
	}
	if ltpt.LatestYear > cfg.HCEThreshold.CurrentYear {
		errs = append(errs, FieldError{
			Field:   "rules.ltpt.latest_year",
			Message: "must not be later than hce_threshold.current_year",
		})
	}

	ae := &cfg.Rules.AutoEnroll
	if ae.WaitDays < 0 {
		errs = append(errs, FieldError{
			Field:   "rules.auto_enroll.wait_days",
			Message: "must not be negative",
		})
	}
	if ae.DefaultRate.IsNegative() {
		errs = append(errs, FieldError{
			Field:   "rules.auto_enroll.default_rate",
			Message: "must not be negative",
		})
	}
	if ae.EscalationEffectiveMonth < 1 || ae.EscalationEffectiveMonth > 12 {
		errs = append(errs, FieldError{
			Field:   "rules.auto_enroll.escalation_effective_month",
			Message: "must be between 1 and 12",
		})
	}
	return errs
}

func validateWatch(cfg *WatchConfig) []FieldError {
	var errs []FieldError

	if cfg.InboxDir == "" {
		errs = append(errs, FieldError{
			Field:   "watch.inbox_dir",
			Message: "inbox directory is required",
		})
	}
	if cfg.Debounce < 0 {
		errs = append(errs, FieldError{
			Field:   "watch.debounce",
			Message: "must not be negative",
		})
	}
	if cfg.SweepSchedule != "" {
		if _, err := cron.ParseStandard(cfg.SweepSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "watch.sweep_schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}
	return errs
}

func validateHistory(cfg *HistoryConfig) []FieldError {
	switch cfg.Backend {
	case "memory", "sqlite":
		return nil
	default:
		return []FieldError{{
			Field:   "history.backend",
			Message: `must be "memory" or "sqlite"`,
		}}
	}
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: "must be one of: debug, info, warn, error",
		})
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: `must be "json" or "text"`,
		})
	}

	if cfg.Metrics.Enabled && cfg.Metrics.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.listen_address",
			Message: "required when metrics are enabled",
		})
	}
	return errs
}
