package engine

import "testing"

// TestAggregateStatus exhausts the severity combinations.
func TestAggregateStatus(t *testing.T) {
	red := Finding{Severity: SeverityRed}
	yellow := Finding{Severity: SeverityYellow}

	tests := []struct {
		name     string
		findings []Finding
		want     Status
	}{
		{name: "empty set", findings: nil, want: StatusGreen},
		{name: "empty non-nil set", findings: []Finding{}, want: StatusGreen},
		{name: "yellow only", findings: []Finding{yellow}, want: StatusYellow},
		{name: "multiple yellow", findings: []Finding{yellow, yellow, yellow}, want: StatusYellow},
		{name: "red only", findings: []Finding{red}, want: StatusRed},
		{name: "red and yellow", findings: []Finding{yellow, red}, want: StatusRed},
		{name: "red first", findings: []Finding{red, yellow}, want: StatusRed},
		{name: "many mixed", findings: []Finding{yellow, yellow, red, yellow, red}, want: StatusRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AggregateStatus(tt.findings); got != tt.want {
				t.Errorf("AggregateStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}
