package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"payrollguard/preflight/pkg/config"
	"payrollguard/preflight/pkg/payroll"
)

// testConfig returns a valid run configuration with the Roth and
// potential-HCE rules enabled, matching the common deployment shape.
func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.HCEThreshold.CurrentYear = 2024
	cfg.HCEThreshold.CompensationLimit = decimal.NewFromInt(150000)
	cfg.CatchUp.RothOnlyRiskYear = 2024
	cfg.Rules.RothCatchup.Enabled = true
	cfg.Rules.PotentialHCE.Enabled = true
	config.ApplyDefaults(cfg)
	return cfg
}

func catchUpColumns() payroll.ColumnSet {
	return payroll.NewColumnSet(append(append([]string{}, payroll.RequiredColumns...),
		payroll.ColCatchUpContribution, payroll.ColCatchUpType))
}

// e1Record is the reference high-earner record: projected compensation well
// above the 150k limit, with a 5k catch-up.
func e1Record(catchUpType payroll.CatchUpType) payroll.Record {
	return payroll.Record{
		EmployeeID:          "E1",
		EmployeeName:        "Pat Example",
		GrossPay:            decimal.NewFromInt(8000),
		YTDGrossPay:         decimal.NewFromInt(152000),
		PayPeriodStart:      date(2024, time.September, 1),
		PayPeriodEnd:        date(2024, time.September, 15),
		CatchUpContribution: decimal.NewFromInt(5000),
		CatchUpType:         catchUpType,
	}
}

func mustNew(t *testing.T, cfg *config.Config) *Engine {
	t.Helper()
	eng, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return eng
}

// TestRun_TraditionalCatchUpHCE tests the RED scenario: a projected HCE with
// a traditional catch-up yields both a potential-HCE finding and a Roth-only
// violation, and the run goes RED.
func TestRun_TraditionalCatchUpHCE(t *testing.T) {
	eng := mustNew(t, testConfig())
	rec := e1Record(payroll.CatchUpTraditional)

	result := eng.Run(&Input{Records: []payroll.Record{rec}, Columns: catchUpColumns()})

	if result.Status != StatusRed {
		t.Errorf("Status = %v, want RED", result.Status)
	}
	if got := len(result.Findings); got != 2 {
		t.Fatalf("got %d findings, want 2: %+v", got, result.Findings)
	}

	// Rule evaluation order: Roth check first, then potential HCE.
	if result.Findings[0].Rule != RuleRothOnlyCatchup || result.Findings[0].Severity != SeverityRed {
		t.Errorf("Findings[0] = %v/%v, want ROTH_ONLY_CATCHUP_HCE/RED",
			result.Findings[0].Rule, result.Findings[0].Severity)
	}
	if result.Findings[1].Rule != RulePotentialHCE || result.Findings[1].Severity != SeverityYellow {
		t.Errorf("Findings[1] = %v/%v, want POTENTIAL_HCE/YELLOW",
			result.Findings[1].Rule, result.Findings[1].Severity)
	}
	for _, f := range result.Findings {
		if f.EmployeeID != "E1" {
			t.Errorf("finding for %q, want E1", f.EmployeeID)
		}
	}
	if result.RedCount() != 1 || result.YellowCount() != 1 {
		t.Errorf("counts = %d RED / %d YELLOW, want 1/1", result.RedCount(), result.YellowCount())
	}
}

// TestRun_RothCatchUpHCE tests the YELLOW scenario: the same record with a
// Roth catch-up produces only the advisory potential-HCE finding.
func TestRun_RothCatchUpHCE(t *testing.T) {
	eng := mustNew(t, testConfig())
	rec := e1Record(payroll.CatchUpRoth)

	result := eng.Run(&Input{Records: []payroll.Record{rec}, Columns: catchUpColumns()})

	if result.Status != StatusYellow {
		t.Errorf("Status = %v, want YELLOW", result.Status)
	}
	if got := len(result.Findings); got != 1 {
		t.Fatalf("got %d findings, want 1: %+v", got, result.Findings)
	}
	if result.Findings[0].Rule != RulePotentialHCE {
		t.Errorf("Findings[0].Rule = %v, want POTENTIAL_HCE", result.Findings[0].Rule)
	}
}

// TestRun_NoFindings tests the GREEN scenario: modest compensation, no
// catch-up fields, empty result set.
func TestRun_NoFindings(t *testing.T) {
	eng := mustNew(t, testConfig())
	rec := payroll.Record{
		EmployeeID:     "E2",
		EmployeeName:   "Lee Modest",
		GrossPay:       decimal.NewFromInt(3000),
		YTDGrossPay:    decimal.NewFromInt(60000),
		PayPeriodStart: date(2024, time.September, 1),
		PayPeriodEnd:   date(2024, time.September, 15),
	}

	result := eng.Run(&Input{Records: []payroll.Record{rec}, Columns: catchUpColumns()})

	if result.Status != StatusGreen {
		t.Errorf("Status = %v, want GREEN", result.Status)
	}
	if len(result.Findings) != 0 {
		t.Errorf("got findings %+v, want none", result.Findings)
	}
}

// TestRun_LTPTInputMissing tests that LTPT enabled without an hours input is
// a skip with REQUIRED_INPUT_MISSING, never a finding.
func TestRun_LTPTInputMissing(t *testing.T) {
	cfg := testConfig()
	cfg.Rules.LTPT.Enabled = true
	eng := mustNew(t, cfg)

	result := eng.Run(&Input{
		Records: []payroll.Record{e1Record(payroll.CatchUpNone)},
		Columns: catchUpColumns(),
	})

	var skip *SkipRecord
	for i := range result.Skips {
		if result.Skips[i].Rule == RuleLTPTEligible {
			skip = &result.Skips[i]
		}
	}
	if skip == nil {
		t.Fatalf("no SkipRecord for LTPT in %+v", result.Skips)
	}
	if skip.Reason != SkipRequiredInputMissing {
		t.Errorf("Reason = %v, want REQUIRED_INPUT_MISSING", skip.Reason)
	}
	for _, f := range result.Findings {
		if f.Rule == RuleLTPTEligible {
			t.Errorf("LTPT finding despite missing input: %+v", f)
		}
	}
}

// TestRun_SkipReasonCompleteness tests that every configured rule appears in
// diagnostics exactly once, and disabled rules never produce findings.
func TestRun_SkipReasonCompleteness(t *testing.T) {
	cfg := testConfig()
	cfg.Rules.RothCatchup.Enabled = false
	cfg.Rules.PotentialHCE.Enabled = false
	eng := mustNew(t, cfg)

	result := eng.Run(&Input{
		Records: []payroll.Record{e1Record(payroll.CatchUpTraditional)},
		Columns: catchUpColumns(),
	})

	if len(result.Outcomes) != len(ruleTable) {
		t.Fatalf("got %d outcomes, want one per configured rule (%d)", len(result.Outcomes), len(ruleTable))
	}
	seen := make(map[RuleName]int)
	for _, o := range result.Outcomes {
		seen[o.Rule]++
		if o.Executed && o.Reason != "" {
			t.Errorf("rule %s both executed and skipped", o.Rule)
		}
	}
	for _, rule := range ruleTable {
		if seen[rule.name] != 1 {
			t.Errorf("rule %s has %d outcomes, want 1", rule.name, seen[rule.name])
		}
	}

	// Disabled rules: DISABLED_IN_CONFIG skip, zero findings, regardless of
	// input data that would otherwise violate.
	if len(result.Findings) != 0 {
		t.Errorf("findings from disabled rules: %+v", result.Findings)
	}
	disabled := map[RuleName]bool{RuleRothOnlyCatchup: true, RulePotentialHCE: true}
	for _, s := range result.Skips {
		if disabled[s.Rule] && s.Reason != SkipDisabledInConfig {
			t.Errorf("skip for %s = %v, want DISABLED_IN_CONFIG", s.Rule, s.Reason)
		}
	}
	if result.Status != StatusGreen {
		t.Errorf("Status = %v, want GREEN with all findings suppressed", result.Status)
	}
}

// TestRun_ColumnsMissing tests the REQUIRED_COLUMNS_MISSING skip path.
func TestRun_ColumnsMissing(t *testing.T) {
	eng := mustNew(t, testConfig())

	// Base columns only: catch-up columns absent.
	result := eng.Run(&Input{
		Records: []payroll.Record{e1Record(payroll.CatchUpTraditional)},
		Columns: payroll.NewColumnSet(payroll.RequiredColumns),
	})

	var skip *SkipRecord
	for i := range result.Skips {
		if result.Skips[i].Rule == RuleRothOnlyCatchup {
			skip = &result.Skips[i]
		}
	}
	if skip == nil {
		t.Fatal("no SkipRecord for Roth rule")
	}
	if skip.Reason != SkipRequiredColumnsMissing {
		t.Errorf("Reason = %v, want REQUIRED_COLUMNS_MISSING", skip.Reason)
	}

	// Potential HCE still runs on the base columns.
	if result.Status != StatusYellow {
		t.Errorf("Status = %v, want YELLOW from potential-HCE", result.Status)
	}
}

// TestRun_Idempotent tests that two runs over identical inputs produce
// identical results.
func TestRun_Idempotent(t *testing.T) {
	cfg := testConfig()
	cfg.Rules.LTPT.Enabled = true
	eng := mustNew(t, cfg)

	input := &Input{
		Records: []payroll.Record{
			e1Record(payroll.CatchUpTraditional),
			{
				EmployeeID:     "E2",
				GrossPay:       decimal.NewFromInt(1000),
				YTDGrossPay:    decimal.NewFromInt(20000),
				PayPeriodStart: date(2024, time.September, 1),
				PayPeriodEnd:   date(2024, time.September, 15),
			},
		},
		Columns: catchUpColumns(),
		Hours: []payroll.HoursRecord{
			{EmployeeID: "E2", Year: 2022, Hours: decimal.NewFromInt(600)},
			{EmployeeID: "E2", Year: 2023, Hours: decimal.NewFromInt(600)},
			{EmployeeID: "E2", Year: 2024, Hours: decimal.NewFromInt(600)},
		},
	}

	first := eng.Run(input)
	second := eng.Run(input)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ between identical runs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

// TestRun_BadRecordIsolated tests that a record with an inverted pay period
// is excluded with a data-quality note while the rest of the run proceeds.
func TestRun_BadRecordIsolated(t *testing.T) {
	eng := mustNew(t, testConfig())

	bad := e1Record(payroll.CatchUpTraditional)
	bad.EmployeeID = "BAD"
	bad.PayPeriodStart = date(2024, time.September, 15)
	bad.PayPeriodEnd = date(2024, time.September, 1)

	good := e1Record(payroll.CatchUpTraditional)

	result := eng.Run(&Input{
		Records: []payroll.Record{bad, good},
		Columns: catchUpColumns(),
	})

	if result.Status != StatusRed {
		t.Errorf("Status = %v, want RED from the good record", result.Status)
	}
	for _, f := range result.Findings {
		if f.EmployeeID == "BAD" {
			t.Errorf("finding produced for excluded record: %+v", f)
		}
	}
	if len(result.DataQuality) == 0 {
		t.Fatal("no data-quality notes for the malformed record")
	}
	found := false
	for _, n := range result.DataQuality {
		if n.EmployeeID == "BAD" {
			found = true
		}
	}
	if !found {
		t.Errorf("no data-quality note names BAD: %+v", result.DataQuality)
	}
}

// TestNew_ConfigurationErrors tests that configuration problems are fatal at
// construction.
func TestNew_ConfigurationErrors(t *testing.T) {
	if _, err := New(nil, nil); err == nil {
		t.Error("New(nil) error = nil, want ConfigurationError")
	}

	cfg := testConfig()
	cfg.HCEThreshold.CompensationLimit = decimal.Zero
	_, err := New(cfg, nil)
	if err == nil {
		t.Fatal("New() with invalid config: error = nil, want error")
	}
	if _, ok := err.(*ConfigurationError); !ok {
		t.Errorf("error type = %T, want *ConfigurationError", err)
	}
}

// TestRunResult_EmployeeIDs tests distinct-ID extraction, RED first.
func TestRunResult_EmployeeIDs(t *testing.T) {
	result := &RunResult{Findings: []Finding{
		{EmployeeID: "Y1", Severity: SeverityYellow},
		{EmployeeID: "R1", Severity: SeverityRed},
		{EmployeeID: "Y1", Severity: SeverityYellow},
		{EmployeeID: "R2", Severity: SeverityRed},
		{EmployeeID: "R1", Severity: SeverityRed},
	}}

	got := result.EmployeeIDs()
	want := []string{"R1", "R2", "Y1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EmployeeIDs() = %v, want %v", got, want)
	}
}
