package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"payrollguard/preflight/pkg/rules/engine"
)

// exceptionHeader is the fixed column order of the exception report.
var exceptionHeader = []string{
	"employee_id",
	"employee_name",
	"violation_type",
	"violation_description",
	"projected_annual_compensation",
	"catch_up_amount",
	"catch_up_type",
	"pay_period_start",
	"pay_period_end",
	"severity",
}

// WriteExceptions writes the exception CSV for a run's findings. The header
// row is always written, so an empty findings list still produces a valid,
// readable file.
func WriteExceptions(w io.Writer, findings []engine.Finding) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(exceptionHeader); err != nil {
		return fmt.Errorf("writing exception header: %w", err)
	}
	for i := range findings {
		if err := cw.Write(exceptionRow(&findings[i])); err != nil {
			return fmt.Errorf("writing exception row for %s: %w", findings[i].EmployeeID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing exception report: %w", err)
	}
	return nil
}

// WriteExceptionsFile writes the exception CSV to path, creating or
// truncating the file.
func WriteExceptionsFile(path string, findings []engine.Finding) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating exception report %s: %w", path, err)
	}
	if err := WriteExceptions(f, findings); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing exception report %s: %w", path, err)
	}
	return nil
}

func exceptionRow(f *engine.Finding) []string {
	projected := ""
	if !f.ProjectedAnnualCompensation.IsZero() {
		projected = f.ProjectedAnnualCompensation.StringFixed(2)
	}
	catchUp := ""
	if !f.CatchUpAmount.IsZero() {
		catchUp = f.CatchUpAmount.StringFixed(2)
	}

	return []string{
		f.EmployeeID,
		f.EmployeeName,
		string(f.Rule),
		f.Description,
		projected,
		catchUp,
		string(f.CatchUpType),
		formatDate(f.PayPeriodStart),
		formatDate(f.PayPeriodEnd),
		string(f.Severity),
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}
