package engine

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"payrollguard/preflight/pkg/config"
	"payrollguard/preflight/pkg/payroll"
)

// ruleSpec declares one rule for the orchestrator: its identity, severity,
// enablement accessor, input requirements and evaluation function. The
// orchestrator iterates the table uniformly; no rule has a hand-coded call
// site.
type ruleSpec struct {
	name     RuleName
	severity Severity

	// enabled reads the rule's flag from the run configuration.
	enabled func(*config.Config) bool

	// requiredColumns must all be declared in the payroll input.
	requiredColumns []string

	// needsHours marks rules that require the hours-history input.
	needsHours bool

	evaluate func(*runContext) []Finding
}

// ruleTable is the fixed evaluation order. Deterministic ordering keeps
// output stable for identical inputs.
var ruleTable = []ruleSpec{
	{
		name:            RuleRothOnlyCatchup,
		severity:        SeverityRed,
		enabled:         func(c *config.Config) bool { return c.Rules.RothCatchup.Enabled },
		requiredColumns: []string{payroll.ColCatchUpContribution, payroll.ColCatchUpType},
		evaluate:        checkRothOnlyCatchup,
	},
	{
		name:            RulePotentialHCE,
		severity:        SeverityYellow,
		enabled:         func(c *config.Config) bool { return c.Rules.PotentialHCE.Enabled },
		requiredColumns: []string{payroll.ColGrossPay, payroll.ColYTDGrossPay},
		evaluate:        checkPotentialHCE,
	},
	{
		name:       RuleLTPTEligible,
		severity:   SeverityYellow,
		enabled:    func(c *config.Config) bool { return c.Rules.LTPT.Enabled },
		needsHours: true,
		evaluate:   checkLTPTEligibility,
	},
	{
		name:            RuleAutoEnrollMiss,
		severity:        SeverityRed,
		enabled:         func(c *config.Config) bool { return c.Rules.AutoEnroll.Enabled },
		requiredColumns: autoEnrollColumns,
		evaluate:        checkAutoEnrollMiss,
	},
	{
		name:            RuleAutoEnrollBelowDefault,
		severity:        SeverityYellow,
		enabled:         func(c *config.Config) bool { return c.Rules.AutoEnroll.Enabled },
		requiredColumns: autoEnrollColumns,
		evaluate:        checkAutoEnrollBelowDefault,
	},
	{
		name:            RuleEscalationMiss,
		severity:        SeverityYellow,
		enabled:         func(c *config.Config) bool { return c.Rules.AutoEnroll.EscalationEnabled },
		requiredColumns: autoEnrollColumns,
		evaluate:        checkEscalationMiss,
	},
}

var autoEnrollColumns = []string{
	payroll.ColHireDate,
	payroll.ColDeferralRate,
	payroll.ColDeferralStartDate,
}

// Engine evaluates payroll snapshots against the configured rule set.
// An Engine is immutable after construction and safe to reuse across runs.
type Engine struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New creates an engine for the given fully-resolved configuration. A nil or
// invalid configuration fails with a *ConfigurationError before any rule can
// execute.
func New(cfg *config.Config, logger *slog.Logger) (*Engine, error) {
	if cfg == nil {
		return nil, &ConfigurationError{Message: "configuration is required"}
	}
	if err := config.Validate(cfg); err != nil {
		return nil, &ConfigurationError{Message: "invalid configuration", Cause: err}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		cfg:    cfg,
		logger: logger.With("component", "rules.engine"),
	}, nil
}

// runContext carries one run's inputs and accumulating diagnostics through
// the rule evaluations.
type runContext struct {
	cfg    *config.Config
	input  *Input
	logger *slog.Logger

	// hoursByEmployee is the per-employee year→hours index, built lazily
	// for the LTPT check.
	hoursByEmployee map[string]map[int]decimal.Decimal

	// rule is the table entry currently being evaluated.
	rule *ruleSpec

	dataQuality []DataQualityNote
}

// skipRecord notes a record excluded from the current rule because of a
// malformed field. Evaluation continues with the remaining records; one bad
// row never aborts a rule.
func (rc *runContext) skipRecord(employeeID string, err error) {
	rc.dataQuality = append(rc.dataQuality, DataQualityNote{
		Rule:       rc.rule.name,
		EmployeeID: employeeID,
		Reason:     err.Error(),
	})
	rc.logger.Warn("record excluded from rule evaluation",
		"rule", rc.rule.name,
		"employee_id", employeeID,
		"reason", err.Error(),
	)
}

// classify runs the HCE determination for a record, recording a data-quality
// skip and reporting ok=false when the record cannot be annualized.
func (rc *runContext) classify(rec *payroll.Record) (HCEClass, bool) {
	class, err := ClassifyHCE(rec, rc.cfg)
	if err != nil {
		rc.skipRecord(rec.EmployeeID, err)
		return HCEClass{}, false
	}
	return class, true
}

// Run evaluates one payroll snapshot to completion and returns a fresh
// RunResult. The run is synchronous and touches no shared state.
func (e *Engine) Run(input *Input) *RunResult {
	if input == nil {
		input = &Input{}
	}

	rc := &runContext{
		cfg:    e.cfg,
		input:  input,
		logger: e.logger,
	}

	result := &RunResult{}
	for i := range ruleTable {
		rule := &ruleTable[i]
		rc.rule = rule

		if skip := e.skipReason(rule, input); skip != nil {
			result.Skips = append(result.Skips, *skip)
			result.Outcomes = append(result.Outcomes, RuleOutcome{
				Rule:   rule.name,
				Reason: skip.Reason,
				Detail: skip.Detail,
			})
			e.logger.Info("rule skipped",
				"rule", rule.name,
				"reason", skip.Reason,
				"detail", skip.Detail,
			)
			continue
		}

		findings := rule.evaluate(rc)
		result.Findings = append(result.Findings, findings...)
		result.Outcomes = append(result.Outcomes, RuleOutcome{
			Rule:     rule.name,
			Executed: true,
			Findings: len(findings),
		})
		e.logger.Info("rule executed",
			"rule", rule.name,
			"findings", len(findings),
		)
	}

	result.DataQuality = rc.dataQuality
	result.Status = AggregateStatus(result.Findings)

	e.logger.Info("run complete",
		"status", result.Status,
		"red", result.RedCount(),
		"yellow", result.YellowCount(),
		"records", len(input.Records),
	)
	return result
}

// skipReason decides whether a rule is eligible to run. The checks are
// ordered: disabled in config first, then missing auxiliary input, then
// missing columns.
func (e *Engine) skipReason(rule *ruleSpec, input *Input) *SkipRecord {
	if !rule.enabled(e.cfg) {
		return &SkipRecord{Rule: rule.name, Reason: SkipDisabledInConfig}
	}
	if rule.needsHours && !input.HoursSupplied() {
		return &SkipRecord{
			Rule:   rule.name,
			Reason: SkipRequiredInputMissing,
			Detail: "hours history not supplied",
		}
	}
	if missing := input.Columns.Missing(rule.requiredColumns...); len(missing) > 0 {
		return &SkipRecord{
			Rule:   rule.name,
			Reason: SkipRequiredColumnsMissing,
			Detail: fmt.Sprintf("missing columns: %s", strings.Join(missing, ", ")),
		}
	}
	return nil
}
