package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"payrollguard/preflight/pkg/config"
	"payrollguard/preflight/pkg/payroll"
)

var daysPerYear = decimal.NewFromInt(365)

// ProjectionBasis identifies which input the annualization used.
type ProjectionBasis string

const (
	// BasisGrossPeriod means the current pay period's gross was scaled by
	// the inferred number of periods per year.
	BasisGrossPeriod ProjectionBasis = "gross_period"

	// BasisYTD means year-to-date gross was extrapolated by the elapsed
	// fraction of the year.
	BasisYTD ProjectionBasis = "ytd"
)

// Projection is an annualized compensation figure.
type Projection struct {
	// Amount is the projected full-year compensation.
	Amount decimal.Decimal

	// Basis identifies the projection input.
	Basis ProjectionBasis

	// FullYear reports whether the projection input already reflects
	// full-year wages (a YTD figure through the end of the plan year), as
	// opposed to a partial-year extrapolation.
	FullYear bool
}

// Annualize projects a full-year compensation figure for one payroll record
// using the configured method.
//
// An inverted or zero-length pay period fails with a *ValidationError: the
// record is a data-quality problem, not a rule violation, and is excluded
// from compensation-based evaluation. A zero elapsed fraction of the year
// cannot be extrapolated from, so YTD-based methods fall back to the
// gross-period projection in that case.
func Annualize(rec *payroll.Record, method config.AnnualizationMethod, currentYear int) (Projection, error) {
	periodDays := inclusiveDays(rec.PayPeriodStart, rec.PayPeriodEnd)
	if periodDays <= 0 {
		return Projection{}, &ValidationError{
			EmployeeID: rec.EmployeeID,
			Field:      "pay_period",
			Message:    "zero-length or inverted pay period",
		}
	}

	fromGross := func() Projection {
		amount := rec.GrossPay.Mul(daysPerYear).Div(decimal.NewFromInt(periodDays))
		return Projection{Amount: amount, Basis: BasisGrossPeriod}
	}

	if method == config.MethodGross {
		return fromGross(), nil
	}

	// ytd and gross_or_ytd both prefer the YTD extrapolation when YTD data
	// and a positive elapsed fraction are available.
	yearStart := time.Date(currentYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	elapsedDays := inclusiveDays(yearStart, rec.PayPeriodEnd)
	if !rec.YTDGrossPay.IsPositive() || elapsedDays <= 0 {
		return fromGross(), nil
	}

	amount := rec.YTDGrossPay.Mul(daysPerYear).Div(decimal.NewFromInt(elapsedDays))
	return Projection{
		Amount:   amount,
		Basis:    BasisYTD,
		FullYear: !rec.PayPeriodEnd.Before(time.Date(currentYear, time.December, 31, 0, 0, 0, 0, time.UTC)),
	}, nil
}

// inclusiveDays counts calendar days from a through b, both ends included.
func inclusiveDays(a, b time.Time) int64 {
	return int64(b.Sub(a).Hours()/24) + 1
}
