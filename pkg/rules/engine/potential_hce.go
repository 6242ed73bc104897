package engine

import "fmt"

// checkPotentialHCE flags every record whose annualized compensation meets or
// exceeds the compensation limit. The engine treats each qualifying record as
// "potential"; de-duplication against an authoritative HCE list is the
// surrounding system's concern.
func checkPotentialHCE(rc *runContext) []Finding {
	var findings []Finding
	for i := range rc.input.Records {
		rec := &rc.input.Records[i]

		class, ok := rc.classify(rec)
		if !ok {
			continue
		}
		if !class.HCE {
			continue
		}

		findings = append(findings, Finding{
			Rule:         RulePotentialHCE,
			Severity:     SeverityYellow,
			EmployeeID:   rec.EmployeeID,
			EmployeeName: rec.EmployeeName,
			Description: fmt.Sprintf(
				"Potential HCE based on projected annual compensation: $%s",
				class.Projection.Amount.StringFixed(2),
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
