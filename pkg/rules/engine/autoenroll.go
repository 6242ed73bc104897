package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// checkAutoEnrollMiss flags employees past the enrollment waiting period with
// no deferral election on file: no deferral start date, or a zero rate.
func checkAutoEnrollMiss(rc *runContext) []Finding {
	cfg := &rc.cfg.Rules.AutoEnroll

	var findings []Finding
	for i := range rc.input.Records {
		rec := &rc.input.Records[i]
		if rec.HireDate == nil {
			continue
		}

		eligibleFrom := rec.HireDate.AddDate(0, 0, cfg.WaitDays)
		if rec.PayPeriodEnd.Before(eligibleFrom) {
			// Still inside the waiting period.
			continue
		}

		rate := decimal.Zero
		if rec.DeferralRate != nil {
			rate = *rec.DeferralRate
		}
		if rec.DeferralStartDate != "" && !rate.IsZero() {
			continue
		}

		findings = append(findings, Finding{
			Rule:         RuleAutoEnrollMiss,
			Severity:     SeverityRed,
			EmployeeID:   rec.EmployeeID,
			EmployeeName: rec.EmployeeName,
			Description: fmt.Sprintf(
				"Auto-enrollment miss: hired %s, eligible from %s, but no deferral start date or deferral rate is 0",
				rec.HireDate.Format(time.DateOnly), eligibleFrom.Format(time.DateOnly),
			),
			PayPeriodStart: rec.PayPeriodStart,
			PayPeriodEnd:   rec.PayPeriodEnd,
		})
	}
	return findings
}

// checkAutoEnrollBelowDefault flags enrolled employees whose deferral rate is
// below the plan's default rate.
func checkAutoEnrollBelowDefault(rc *runContext) []Finding {
	cfg := &rc.cfg.Rules.AutoEnroll

	var findings []Finding
	for i := range rc.input.Records {
		rec := &rc.input.Records[i]
		if rec.DeferralStartDate == "" || rec.DeferralRate == nil {
			continue
		}
		if !rec.DeferralRate.LessThan(cfg.DefaultRate) {
			continue
		}

		findings = append(findings, Finding{
			Rule:         RuleAutoEnrollBelowDefault,
			Severity:     SeverityYellow,
			EmployeeID:   rec.EmployeeID,
			EmployeeName: rec.EmployeeName,
			Description: fmt.Sprintf(
				"Auto-enrolled employee below default rate: deferral_rate=%s, default=%s",
				formatRate(*rec.DeferralRate), formatRate(cfg.DefaultRate),
			),
			PayPeriodStart: rec.PayPeriodStart,
			PayPeriodEnd:   rec.PayPeriodEnd,
		})
	}
	return findings
}

// checkEscalationMiss flags enrolled employees still deferring below the
// default rate once the pay period reaches the escalation effective month.
func checkEscalationMiss(rc *runContext) []Finding {
	cfg := &rc.cfg.Rules.AutoEnroll

	var findings []Finding
	for i := range rc.input.Records {
		rec := &rc.input.Records[i]
		if rec.DeferralStartDate == "" || rec.DeferralRate == nil {
			continue
		}
		if int(rec.PayPeriodEnd.Month()) < cfg.EscalationEffectiveMonth {
			// Escalation not yet due this year.
			continue
		}
		if !rec.DeferralRate.LessThan(cfg.DefaultRate) {
			continue
		}

		findings = append(findings, Finding{
			Rule:         RuleEscalationMiss,
			Severity:     SeverityYellow,
			EmployeeID:   rec.EmployeeID,
			EmployeeName: rec.EmployeeName,
			Description: fmt.Sprintf(
				"Possible escalation miss: deferral_rate=%s is below default=%s after escalation effective month (%d). Verify plan schedule and election history.",
				formatRate(*rec.DeferralRate), formatRate(cfg.DefaultRate), cfg.EscalationEffectiveMonth,
			),
			PayPeriodStart: rec.PayPeriodStart,
			PayPeriodEnd:   rec.PayPeriodEnd,
		})
	}
	return findings
}

// formatRate renders a fractional rate as a percentage, e.g. 0.03 -> "3.0%".
func formatRate(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}
