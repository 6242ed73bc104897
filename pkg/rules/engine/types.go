package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"payrollguard/preflight/pkg/payroll"
)

// RuleName identifies a compliance rule check.
type RuleName string

const (
	// RuleRothOnlyCatchup flags HCEs whose catch-up contributions are not
	// exclusively Roth from the configured risk year onward. RED.
	RuleRothOnlyCatchup RuleName = "ROTH_ONLY_CATCHUP_HCE"

	// RulePotentialHCE flags employees whose projected annual compensation
	// meets or exceeds the HCE threshold. YELLOW, informational.
	RulePotentialHCE RuleName = "POTENTIAL_HCE"

	// RuleLTPTEligible flags employees with enough consecutive qualifying
	// years of hours for long-term part-time eligibility. YELLOW.
	RuleLTPTEligible RuleName = "LTPT_ELIGIBLE"

	// RuleAutoEnrollMiss flags employees past the enrollment wait window
	// with no deferral election. RED.
	RuleAutoEnrollMiss RuleName = "AUTO_ENROLL_MISS"

	// RuleAutoEnrollBelowDefault flags enrolled employees deferring below
	// the plan default rate. YELLOW.
	RuleAutoEnrollBelowDefault RuleName = "AUTO_ENROLL_BELOW_DEFAULT"

	// RuleEscalationMiss flags enrolled employees still below the default
	// rate after the escalation effective month. YELLOW.
	RuleEscalationMiss RuleName = "ESCALATION_POSSIBLE_MISS"
)

// Severity classifies a finding. A rule always produces the same severity.
type Severity string

const (
	SeverityRed    Severity = "RED"
	SeverityYellow Severity = "YELLOW"
)

// Status is the three-level traffic-light result of a run.
type Status string

const (
	// StatusGreen means no findings.
	StatusGreen Status = "GREEN"

	// StatusYellow means advisory findings only.
	StatusYellow Status = "YELLOW"

	// StatusRed means at least one violation-level finding.
	StatusRed Status = "RED"
)

// SkipReason explains why a configured rule did not execute.
type SkipReason string

const (
	// SkipDisabledInConfig means the rule's enabled flag is off.
	SkipDisabledInConfig SkipReason = "DISABLED_IN_CONFIG"

	// SkipRequiredInputMissing means an auxiliary input (the hours history)
	// was not supplied.
	SkipRequiredInputMissing SkipReason = "REQUIRED_INPUT_MISSING"

	// SkipRequiredColumnsMissing means the payroll input lacks columns the
	// rule needs.
	SkipRequiredColumnsMissing SkipReason = "REQUIRED_COLUMNS_MISSING"
)

// Finding is a single rule violation or risk flag attached to one employee
// record. Findings are immutable once created.
type Finding struct {
	// Rule identifies the check that produced the finding.
	Rule RuleName

	// Severity is fully determined by Rule.
	Severity Severity

	EmployeeID   string
	EmployeeName string

	// Description is a human-readable explanation with supporting amounts.
	Description string

	// ProjectedAnnualCompensation is the annualized figure behind
	// compensation-based findings, zero otherwise.
	ProjectedAnnualCompensation decimal.Decimal

	// CatchUpAmount and CatchUpType carry the record's catch-up fields for
	// the exception report.
	CatchUpAmount decimal.Decimal
	CatchUpType   payroll.CatchUpType

	PayPeriodStart time.Time
	PayPeriodEnd   time.Time
}

// SkipRecord reports one rule that did not execute and why.
type SkipRecord struct {
	Rule   RuleName
	Reason SkipReason

	// Detail carries specifics, such as the missing column names.
	Detail string
}

// RuleOutcome is one diagnostics entry: a rule either executed (with a
// finding count) or was skipped with a reason. Every configured rule has
// exactly one outcome per run, in fixed evaluation order.
type RuleOutcome struct {
	Rule     RuleName
	Executed bool

	// Findings is the number of findings the rule produced. Zero when
	// skipped.
	Findings int

	// Reason and Detail are set only for skipped rules.
	Reason SkipReason
	Detail string
}

// DataQualityNote reports a record that was excluded from one rule's
// evaluation because of a malformed field. The exclusion is local: the rule
// continues with the remaining records.
type DataQualityNote struct {
	Rule       RuleName
	EmployeeID string
	Reason     string
}

// Input is one payroll snapshot to evaluate. All fields are read-only for
// the duration of the run.
type Input struct {
	// Records is the ordered payroll snapshot.
	Records []payroll.Record

	// Columns declares which CSV columns were present in the payroll input.
	Columns payroll.ColumnSet

	// Hours is the optional multi-year hours history. A nil slice means the
	// input was not supplied; an empty non-nil slice is a supplied, empty
	// history.
	Hours []payroll.HoursRecord
}

// HoursSupplied reports whether an hours-history input was provided.
func (in *Input) HoursSupplied() bool {
	return in.Hours != nil
}

// RunResult is the complete outcome of one engine run.
type RunResult struct {
	// Findings in rule evaluation order, then discovery order within a rule.
	Findings []Finding

	// Skips lists every configured rule that did not execute.
	Skips []SkipRecord

	// Outcomes lists every configured rule in evaluation order, executed or
	// skipped.
	Outcomes []RuleOutcome

	// DataQuality lists records excluded from individual rules.
	DataQuality []DataQualityNote

	// Status is the aggregated traffic-light status.
	Status Status
}

// RedCount returns the number of RED findings.
func (r *RunResult) RedCount() int {
	return r.countSeverity(SeverityRed)
}

// YellowCount returns the number of YELLOW findings.
func (r *RunResult) YellowCount() int {
	return r.countSeverity(SeverityYellow)
}

func (r *RunResult) countSeverity(s Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == s {
			n++
		}
	}
	return n
}

// EmployeeIDs returns the distinct employee IDs involved in findings,
// RED findings first, preserving discovery order within each severity.
func (r *RunResult) EmployeeIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, sev := range []Severity{SeverityRed, SeverityYellow} {
		for _, f := range r.Findings {
			if f.Severity != sev {
				continue
			}
			if _, ok := seen[f.EmployeeID]; ok {
				continue
			}
			seen[f.EmployeeID] = struct{}{}
			ids = append(ids, f.EmployeeID)
		}
	}
	return ids
}
