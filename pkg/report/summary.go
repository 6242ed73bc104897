package report

import (
	"fmt"
	"io"
	"strings"

	"payrollguard/preflight/pkg/rules/engine"
)

// maxListedEmployees caps the employee list in the console summary.
const maxListedEmployees = 10

// WriteSummary renders the human-readable run summary: overall status,
// finding counts, the employees involved (worst first), per-rule
// diagnostics and data-quality notes. outputPath names the exception
// report location; empty means no report was written.
func WriteSummary(w io.Writer, result *engine.RunResult, outputPath string) error {
	var b strings.Builder

	b.WriteString("SECURE 2.0 preflight check\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	fmt.Fprintf(&b, "STATUS: %s\n", result.Status)
	fmt.Fprintf(&b, "Findings: %d RED, %d YELLOW\n", result.RedCount(), result.YellowCount())

	if ids := result.EmployeeIDs(); len(ids) > 0 {
		shown := ids
		if len(shown) > maxListedEmployees {
			shown = shown[:maxListedEmployees]
		}
		fmt.Fprintf(&b, "Employees flagged (%d): %s", len(ids), strings.Join(shown, ", "))
		if len(ids) > len(shown) {
			fmt.Fprintf(&b, " (+%d more)", len(ids)-len(shown))
		}
		b.WriteString("\n")
	}

	b.WriteString("\nRules:\n")
	for _, o := range result.Outcomes {
		if o.Executed {
			fmt.Fprintf(&b, "  %-28s executed, %d finding(s)\n", o.Rule, o.Findings)
			continue
		}
		line := fmt.Sprintf("  %-28s skipped: %s", o.Rule, o.Reason)
		if o.Detail != "" {
			line += " (" + o.Detail + ")"
		}
		b.WriteString(line + "\n")
	}

	if len(result.DataQuality) > 0 {
		b.WriteString("\nData quality:\n")
		for _, n := range result.DataQuality {
			fmt.Fprintf(&b, "  %s [%s]: %s\n", n.EmployeeID, n.Rule, n.Reason)
		}
	}

	if outputPath != "" {
		fmt.Fprintf(&b, "\nException report: %s\n", outputPath)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
