package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Load loads configuration from a YAML file at the specified path. It applies
// default values, environment variable overrides and validation, and returns
// the final immutable configuration for the run.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when no file is supplied: defaults
// plus environment variable overrides.
func Default() (*Config, error) {
	var cfg Config
	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Variables use the format PREFLIGHT_SECTION_FIELD and always
// take precedence over file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("PREFLIGHT_HCE_CURRENT_YEAR"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.HCEThreshold.CurrentYear = i
		}
	}
	if val := os.Getenv("PREFLIGHT_HCE_COMPENSATION_LIMIT"); val != "" {
		if d, err := decimal.NewFromString(val); err == nil {
			cfg.HCEThreshold.CompensationLimit = d
		}
	}
	if val := os.Getenv("PREFLIGHT_CATCHUP_ROTH_ONLY_RISK_YEAR"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.CatchUp.RothOnlyRiskYear = i
		}
	}
	if val := os.Getenv("PREFLIGHT_ANNUALIZATION_METHOD"); val != "" {
		cfg.Annualization.Method = AnnualizationMethod(val)
	}

	if val := os.Getenv("PREFLIGHT_RULES_ROTH_CATCHUP_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Rules.RothCatchup.Enabled = b
		}
	}
	if val := os.Getenv("PREFLIGHT_RULES_POTENTIAL_HCE_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Rules.PotentialHCE.Enabled = b
		}
	}
	if val := os.Getenv("PREFLIGHT_RULES_LTPT_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Rules.LTPT.Enabled = b
		}
	}
	if val := os.Getenv("PREFLIGHT_RULES_AUTO_ENROLL_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Rules.AutoEnroll.Enabled = b
		}
	}

	if val := os.Getenv("PREFLIGHT_WATCH_INBOX_DIR"); val != "" {
		cfg.Watch.InboxDir = val
	}
	if val := os.Getenv("PREFLIGHT_WATCH_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Watch.Debounce = d
		}
	}
	if val := os.Getenv("PREFLIGHT_HISTORY_BACKEND"); val != "" {
		cfg.History.Backend = val
	}
	if val := os.Getenv("PREFLIGHT_HISTORY_SQLITE_PATH"); val != "" {
		cfg.History.SQLitePath = val
	}

	if val := os.Getenv("PREFLIGHT_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("PREFLIGHT_LOG_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("PREFLIGHT_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("PREFLIGHT_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
}
