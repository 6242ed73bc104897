package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"payrollguard/preflight/pkg/config"
	"payrollguard/preflight/pkg/payroll"
)

func autoEnrollConfig() *config.Config {
	cfg := testConfig()
	cfg.Rules.AutoEnroll.Enabled = true
	cfg.Rules.AutoEnroll.EscalationEnabled = true
	return cfg
}

func enrollContext(cfg *config.Config, rule *ruleSpec, records []payroll.Record) *runContext {
	cols := payroll.NewColumnSet(append(append([]string{}, payroll.RequiredColumns...), autoEnrollColumns...))
	return &runContext{
		cfg:    cfg,
		input:  &Input{Records: records, Columns: cols},
		logger: discardLogger(),
		rule:   rule,
	}
}

func enrollRecord(hired time.Time, rate *decimal.Decimal, startDate string, periodEnd time.Time) payroll.Record {
	return payroll.Record{
		EmployeeID:        "E1",
		GrossPay:          decimal.NewFromInt(1000),
		YTDGrossPay:       decimal.NewFromInt(10000),
		PayPeriodStart:    periodEnd.AddDate(0, 0, -13),
		PayPeriodEnd:      periodEnd,
		HireDate:          &hired,
		DeferralRate:      rate,
		DeferralStartDate: startDate,
	}
}

func ratePtr(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

func TestCheckAutoEnrollMiss(t *testing.T) {
	cfg := autoEnrollConfig()
	hired := date(2024, time.January, 15)
	// wait_days defaults to 30: eligible from 2024-02-14.

	tests := []struct {
		name        string
		rec         payroll.Record
		wantFinding bool
	}{
		{
			name:        "past waiting period with no election",
			rec:         enrollRecord(hired, nil, "", date(2024, time.June, 15)),
			wantFinding: true,
		},
		{
			name:        "past waiting period with zero rate",
			rec:         enrollRecord(hired, ratePtr(0), "2024-02-14", date(2024, time.June, 15)),
			wantFinding: true,
		},
		{
			name:        "past waiting period and properly enrolled",
			rec:         enrollRecord(hired, ratePtr(0.03), "2024-02-14", date(2024, time.June, 15)),
			wantFinding: false,
		},
		{
			name:        "still inside the waiting period",
			rec:         enrollRecord(hired, nil, "", date(2024, time.February, 13)),
			wantFinding: false,
		},
		{
			name:        "eligible exactly on the boundary day",
			rec:         enrollRecord(hired, nil, "", date(2024, time.February, 14)),
			wantFinding: true,
		},
		{
			name: "no hire date on file",
			rec: func() payroll.Record {
				r := enrollRecord(hired, nil, "", date(2024, time.June, 15))
				r.HireDate = nil
				return r
			}(),
			wantFinding: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := enrollContext(cfg, &ruleTable[3], []payroll.Record{tt.rec})
			findings := checkAutoEnrollMiss(rc)

			if got := len(findings) > 0; got != tt.wantFinding {
				t.Errorf("got %d findings, want finding=%v", len(findings), tt.wantFinding)
			}
			if tt.wantFinding && findings[0].Severity != SeverityRed {
				t.Errorf("Severity = %v, want RED", findings[0].Severity)
			}
		})
	}
}

func TestCheckAutoEnrollBelowDefault(t *testing.T) {
	cfg := autoEnrollConfig()
	hired := date(2023, time.March, 1)

	tests := []struct {
		name        string
		rate        *decimal.Decimal
		startDate   string
		wantFinding bool
	}{
		{name: "below default rate", rate: ratePtr(0.01), startDate: "2023-04-01", wantFinding: true},
		{name: "at default rate", rate: ratePtr(0.03), startDate: "2023-04-01", wantFinding: false},
		{name: "above default rate", rate: ratePtr(0.06), startDate: "2023-04-01", wantFinding: false},
		{name: "not enrolled", rate: ratePtr(0.01), startDate: "", wantFinding: false},
		{name: "no rate on file", rate: nil, startDate: "2023-04-01", wantFinding: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := enrollRecord(hired, tt.rate, tt.startDate, date(2024, time.June, 15))
			rc := enrollContext(cfg, &ruleTable[4], []payroll.Record{rec})
			findings := checkAutoEnrollBelowDefault(rc)

			if got := len(findings) > 0; got != tt.wantFinding {
				t.Errorf("got %d findings, want finding=%v", len(findings), tt.wantFinding)
			}
		})
	}
}

func TestCheckEscalationMiss(t *testing.T) {
	cfg := autoEnrollConfig()
	cfg.Rules.AutoEnroll.EscalationEffectiveMonth = 4
	hired := date(2023, time.March, 1)

	tests := []struct {
		name        string
		rate        *decimal.Decimal
		periodEnd   time.Time
		wantFinding bool
	}{
		{
			name:        "below default after effective month",
			rate:        ratePtr(0.02),
			periodEnd:   date(2024, time.June, 15),
			wantFinding: true,
		},
		{
			name:        "below default but before effective month",
			rate:        ratePtr(0.02),
			periodEnd:   date(2024, time.March, 31),
			wantFinding: false,
		},
		{
			name:        "effective month boundary counts",
			rate:        ratePtr(0.02),
			periodEnd:   date(2024, time.April, 15),
			wantFinding: true,
		},
		{
			name:        "at default after effective month",
			rate:        ratePtr(0.03),
			periodEnd:   date(2024, time.June, 15),
			wantFinding: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := enrollRecord(hired, tt.rate, "2023-04-01", tt.periodEnd)
			rc := enrollContext(cfg, &ruleTable[5], []payroll.Record{rec})
			findings := checkEscalationMiss(rc)

			if got := len(findings) > 0; got != tt.wantFinding {
				t.Errorf("got %d findings, want finding=%v", len(findings), tt.wantFinding)
			}
		})
	}
}

func TestFormatRate(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{0.03, "3.0%"},
		{0.025, "2.5%"},
		{0, "0.0%"},
		{0.1, "10.0%"},
	}
	for _, tt := range tests {
		if got := formatRate(decimal.NewFromFloat(tt.rate)); got != tt.want {
			t.Errorf("formatRate(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}
