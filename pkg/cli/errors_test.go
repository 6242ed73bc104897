package cli

import (
	"errors"
	"testing"

	"payrollguard/preflight/pkg/rules/engine"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		status engine.Status
		want   int
	}{
		{engine.StatusGreen, ExitOK},
		{engine.StatusYellow, ExitOK},
		{engine.StatusRed, ExitViolation},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.status); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.status, got, tt.want)
		}
	}
}

func TestCommandError(t *testing.T) {
	cause := errors.New("missing required CSV columns")
	err := NewCommandError("check", cause)

	if err.Error() != "command check failed: missing required CSV columns" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is() does not find the cause")
	}
}
