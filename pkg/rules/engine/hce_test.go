package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"payrollguard/preflight/pkg/payroll"
)

func TestClassifyHCE(t *testing.T) {
	cfg := testConfig() // limit 150000, current year 2024

	tests := []struct {
		name          string
		rec           payroll.Record
		wantHCE       bool
		wantConfirmed bool
	}{
		{
			name: "partial year projection above limit",
			rec: payroll.Record{
				EmployeeID:     "E1",
				GrossPay:       decimal.NewFromInt(8000),
				YTDGrossPay:    decimal.NewFromInt(152000),
				PayPeriodStart: date(2024, time.September, 1),
				PayPeriodEnd:   date(2024, time.September, 15),
			},
			wantHCE:       true,
			wantConfirmed: false,
		},
		{
			name: "full year wages above limit",
			rec: payroll.Record{
				EmployeeID:     "E2",
				GrossPay:       decimal.NewFromInt(8000),
				YTDGrossPay:    decimal.NewFromInt(200000),
				PayPeriodStart: date(2024, time.December, 16),
				PayPeriodEnd:   date(2024, time.December, 31),
			},
			wantHCE:       true,
			wantConfirmed: true,
		},
		{
			name: "below limit",
			rec: payroll.Record{
				EmployeeID:     "E3",
				GrossPay:       decimal.NewFromInt(3000),
				YTDGrossPay:    decimal.NewFromInt(60000),
				PayPeriodStart: date(2024, time.September, 1),
				PayPeriodEnd:   date(2024, time.September, 15),
			},
			wantHCE:       false,
			wantConfirmed: false,
		},
		{
			name: "full year wages below limit stay unconfirmed",
			rec: payroll.Record{
				EmployeeID:     "E4",
				GrossPay:       decimal.NewFromInt(3000),
				YTDGrossPay:    decimal.NewFromInt(80000),
				PayPeriodStart: date(2024, time.December, 16),
				PayPeriodEnd:   date(2024, time.December, 31),
			},
			wantHCE:       false,
			wantConfirmed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class, err := ClassifyHCE(&tt.rec, cfg)
			if err != nil {
				t.Fatalf("ClassifyHCE() error = %v", err)
			}
			if class.HCE != tt.wantHCE {
				t.Errorf("HCE = %v, want %v (projection %s)", class.HCE, tt.wantHCE, class.Projection.Amount)
			}
			if class.Confirmed != tt.wantConfirmed {
				t.Errorf("Confirmed = %v, want %v", class.Confirmed, tt.wantConfirmed)
			}
		})
	}
}

// TestClassifyHCE_ExactLimit tests the inclusive boundary: a projection equal
// to the limit is HCE.
func TestClassifyHCE_ExactLimit(t *testing.T) {
	cfg := testConfig()
	cfg.HCEThreshold.CompensationLimit = decimal.NewFromInt(146000)

	// 146000 YTD over a full leap year projects to 146000*365/366, just
	// under the limit; the same YTD through Dec 30 (365 elapsed days)
	// projects to exactly 146000.
	rec := payroll.Record{
		EmployeeID:     "E1",
		GrossPay:       decimal.NewFromInt(4000),
		YTDGrossPay:    decimal.NewFromInt(146000),
		PayPeriodStart: date(2024, time.December, 16),
		PayPeriodEnd:   date(2024, time.December, 30),
	}

	class, err := ClassifyHCE(&rec, cfg)
	if err != nil {
		t.Fatalf("ClassifyHCE() error = %v", err)
	}
	if !class.Projection.Amount.Equal(decimal.NewFromInt(146000)) {
		t.Fatalf("projection = %s, want exactly 146000", class.Projection.Amount)
	}
	if !class.HCE {
		t.Error("HCE = false at the exact limit, want true (inclusive threshold)")
	}
}

func TestClassifyHCE_PropagatesValidationError(t *testing.T) {
	rec := payroll.Record{
		EmployeeID:     "E1",
		GrossPay:       decimal.NewFromInt(1000),
		PayPeriodStart: date(2024, time.September, 15),
		PayPeriodEnd:   date(2024, time.September, 1),
	}

	_, err := ClassifyHCE(&rec, testConfig())
	if err == nil {
		t.Fatal("ClassifyHCE() with inverted period: error = nil, want *ValidationError")
	}
	if _, ok := err.(*ValidationError); !ok {
		t.Errorf("error type = %T, want *ValidationError", err)
	}
}
