package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Column names recognized in payroll CSV input. The first six are required;
// the rest are optional and enable additional rule checks when present.
const (
	ColEmployeeID          = "employee_id"
	ColEmployeeName        = "employee_name"
	ColGrossPay            = "gross_pay"
	ColYTDGrossPay         = "ytd_gross_pay"
	ColPayPeriodStart      = "pay_period_start"
	ColPayPeriodEnd        = "pay_period_end"
	ColCatchUpContribution = "catch_up_contribution"
	ColCatchUpType         = "catch_up_type"
	ColHireDate            = "hire_date"
	ColDeferralRate        = "deferral_rate"
	ColDeferralStartDate   = "deferral_start_date"
)

// RequiredColumns is the set of columns every payroll CSV must declare.
var RequiredColumns = []string{
	ColEmployeeID,
	ColEmployeeName,
	ColGrossPay,
	ColYTDGrossPay,
	ColPayPeriodStart,
	ColPayPeriodEnd,
}

// CatchUpType identifies the tax treatment of a catch-up contribution.
type CatchUpType string

const (
	// CatchUpNone means no catch-up type was reported for the record.
	CatchUpNone CatchUpType = ""

	// CatchUpRoth is a post-tax (Roth) catch-up contribution.
	CatchUpRoth CatchUpType = "Roth"

	// CatchUpTraditional is a pre-tax (traditional) catch-up contribution.
	CatchUpTraditional CatchUpType = "Traditional"
)

// IsRothOnly reports whether the catch-up is exclusively post-tax.
func (t CatchUpType) IsRothOnly() bool {
	return t == CatchUpRoth
}

// Record is one normalized payroll row for a single employee and pay period.
// Records are immutable once constructed; the engine never modifies them.
type Record struct {
	// EmployeeID uniquely identifies the employee within a run.
	EmployeeID string

	// EmployeeName is for display only and carries no identity semantics.
	EmployeeName string

	// GrossPay is the gross compensation for the current pay period.
	GrossPay decimal.Decimal

	// YTDGrossPay is the year-to-date gross compensation through this period.
	YTDGrossPay decimal.Decimal

	// PayPeriodStart and PayPeriodEnd bound the pay period (inclusive).
	PayPeriodStart time.Time
	PayPeriodEnd   time.Time

	// CatchUpContribution is the catch-up amount for the period, zero when
	// the column is absent or blank.
	CatchUpContribution decimal.Decimal

	// CatchUpType is the reported catch-up tax treatment, CatchUpNone when
	// not reported.
	CatchUpType CatchUpType

	// HireDate is the employee's hire date when the hire_date column is
	// present and parseable, nil otherwise. Used by auto-enrollment checks.
	HireDate *time.Time

	// DeferralRate is the elected deferral rate when present and parseable,
	// nil otherwise.
	DeferralRate *decimal.Decimal

	// DeferralStartDate is the raw deferral start date string. Only its
	// presence is evaluated; blank means no deferral election on file.
	DeferralStartDate string
}

// HasCatchUp reports whether the record carries a positive catch-up
// contribution with a reported type.
func (r *Record) HasCatchUp() bool {
	return r.CatchUpContribution.IsPositive() && r.CatchUpType != CatchUpNone
}

// HasDeferral reports whether the employee has an active deferral election:
// a deferral start date on file or a positive deferral rate.
func (r *Record) HasDeferral() bool {
	if r.DeferralStartDate != "" {
		return true
	}
	return r.DeferralRate != nil && r.DeferralRate.IsPositive()
}

// HoursRecord is one year of hours worked for one employee, from the optional
// hours-history reference input. Many HoursRecords may exist per employee,
// one per year.
type HoursRecord struct {
	EmployeeID string
	Year       int
	Hours      decimal.Decimal
}

// ColumnSet records which columns were declared in a CSV header. The engine
// uses it to determine whether a rule's required columns are present.
type ColumnSet map[string]struct{}

// NewColumnSet builds a ColumnSet from a CSV header row.
func NewColumnSet(header []string) ColumnSet {
	cs := make(ColumnSet, len(header))
	for _, name := range header {
		cs[name] = struct{}{}
	}
	return cs
}

// Has reports whether the named column was declared.
func (cs ColumnSet) Has(name string) bool {
	_, ok := cs[name]
	return ok
}

// Missing returns the subset of names not declared in the set, in input order.
func (cs ColumnSet) Missing(names ...string) []string {
	var missing []string
	for _, name := range names {
		if !cs.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}
