package engine

import "fmt"

// checkRothOnlyCatchup identifies HCEs whose catch-up contributions are not
// exclusively Roth. From the configured risk year onward, a highly
// compensated employee's catch-up must be made to a post-tax (Roth) account;
// a traditional catch-up is the prohibited state.
func checkRothOnlyCatchup(rc *runContext) []Finding {
	cfg := rc.cfg
	if cfg.HCEThreshold.CurrentYear < cfg.CatchUp.RothOnlyRiskYear {
		// Requirement not yet in effect; the rule runs but nothing can
		// violate it.
		return nil
	}

	var findings []Finding
	for i := range rc.input.Records {
		rec := &rc.input.Records[i]
		if !rec.HasCatchUp() {
			continue
		}

		class, ok := rc.classify(rec)
		if !ok {
			continue
		}
		if !class.HCE {
			continue
		}
		if rec.CatchUpType.IsRothOnly() {
			continue
		}

		basis := "projected"
		if class.Confirmed {
			basis = "confirmed"
		}
		findings = append(findings, Finding{
			Rule:         RuleRothOnlyCatchup,
			Severity:     SeverityRed,
			EmployeeID:   rec.EmployeeID,
			EmployeeName: rec.EmployeeName,
			Description: fmt.Sprintf(
				"Catch-up contributions must be Roth-only for this %s HCE from %d onward; %s catch-up reported. Projected annual compensation: $%s",
				basis, cfg.CatchUp.RothOnlyRiskYear, rec.CatchUpType, class.Projection.Amount.StringFixed(2),
			),
			ProjectedAnnualCompensation: class.Projection.Amount,
			CatchUpAmount:               rec.CatchUpContribution,
			CatchUpType:                 rec.CatchUpType,
			PayPeriodStart:              rec.PayPeriodStart,
			PayPeriodEnd:                rec.PayPeriodEnd,
		})
	}
	return findings
}
