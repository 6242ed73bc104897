package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// checkLTPTEligibility flags employees who worked at least the statutory
// minimum hours in each of the configured number of consecutive years ending
// at the configured latest year. A gap year or a history shorter than the
// window means "not yet eligible", never an error.
func checkLTPTEligibility(rc *runContext) []Finding {
	cfg := &rc.cfg.Rules.LTPT
	hours := rc.hoursIndex()

	var findings []Finding
	for i := range rc.input.Records {
		rec := &rc.input.Records[i]

		byYear, ok := hours[rec.EmployeeID]
		if !ok {
			continue
		}

		qualifying := qualifyingYears(byYear, cfg.LatestYear, cfg.ConsecutiveYears, cfg.HoursThreshold)
		if len(qualifying) < cfg.ConsecutiveYears {
			continue
		}

		if cfg.RequireDeferralAbsent && rec.HasDeferral() {
			continue
		}

		parts := make([]string, len(qualifying))
		for j, q := range qualifying {
			parts[j] = fmt.Sprintf("%d (%s hrs)", q.year, q.hours.StringFixed(0))
		}
		findings = append(findings, Finding{
			Rule:         RuleLTPTEligible,
			Severity:     SeverityYellow,
			EmployeeID:   rec.EmployeeID,
			EmployeeName: rec.EmployeeName,
			Description: fmt.Sprintf(
				"Possible LTPT eligibility: worked >= %s hours in %d consecutive years (%s). Verify eligibility and enrollment status.",
				cfg.HoursThreshold.StringFixed(0), cfg.ConsecutiveYears, strings.Join(parts, ", "),
			),
			PayPeriodStart: rec.PayPeriodStart,
			PayPeriodEnd:   rec.PayPeriodEnd,
		})
	}
	return findings
}

type yearHours struct {
	year  int
	hours decimal.Decimal
}

// qualifyingYears returns the window years in ascending order if every year
// in [latest-(n-1), latest] has hours at or above the threshold, stopping
// short at the first gap or sub-threshold year.
func qualifyingYears(byYear map[int]decimal.Decimal, latest, n int, threshold decimal.Decimal) []yearHours {
	var qualifying []yearHours
	for year := latest - (n - 1); year <= latest; year++ {
		h, ok := byYear[year]
		if !ok || h.LessThan(threshold) {
			return nil
		}
		qualifying = append(qualifying, yearHours{year: year, hours: h})
	}
	return qualifying
}

// hoursIndex lazily builds the per-employee year→hours map from the hours
// input. Duplicate (employee, year) rows keep the last value.
func (rc *runContext) hoursIndex() map[string]map[int]decimal.Decimal {
	if rc.hoursByEmployee != nil {
		return rc.hoursByEmployee
	}

	index := make(map[string]map[int]decimal.Decimal)
	for _, h := range rc.input.Hours {
		if h.EmployeeID == "" {
			continue
		}
		byYear, ok := index[h.EmployeeID]
		if !ok {
			byYear = make(map[int]decimal.Decimal)
			index[h.EmployeeID] = byYear
		}
		byYear[h.Year] = h.Hours
	}
	rc.hoursByEmployee = index
	return index
}
