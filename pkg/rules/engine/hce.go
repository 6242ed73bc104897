package engine

import (
	"payrollguard/preflight/pkg/config"
	"payrollguard/preflight/pkg/payroll"
)

// HCEClass is the highly-compensated-employee determination for one record.
type HCEClass struct {
	// Projection is the annualized compensation behind the determination.
	Projection Projection

	// HCE reports whether the projection meets or exceeds the configured
	// compensation limit.
	HCE bool

	// Confirmed distinguishes a determination backed by full-year wage data
	// from one based on a partial-year extrapolation ("potential").
	Confirmed bool
}

// ClassifyHCE determines HCE status for a record by annualizing its
// compensation and comparing against the configured compensation limit.
// It fails with a *ValidationError when the record cannot be annualized.
func ClassifyHCE(rec *payroll.Record, cfg *config.Config) (HCEClass, error) {
	proj, err := Annualize(rec, cfg.Annualization.Method, cfg.HCEThreshold.CurrentYear)
	if err != nil {
		return HCEClass{}, err
	}

	hce := proj.Amount.GreaterThanOrEqual(cfg.HCEThreshold.CompensationLimit)
	return HCEClass{
		Projection: proj,
		HCE:        hce,
		Confirmed:  hce && proj.FullYear,
	}, nil
}
