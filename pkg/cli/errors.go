package cli

import (
	"fmt"

	"payrollguard/preflight/pkg/rules/engine"
)

// Exit codes. RED shares the error code so a gating pipeline fails on
// either a violation or a broken input.
const (
	// ExitOK means the check passed: GREEN or YELLOW.
	ExitOK = 0

	// ExitViolation means a RED result or a processing error.
	ExitViolation = 2
)

// ExitCode maps an aggregated run status to a process exit code.
func ExitCode(status engine.Status) int {
	if status == engine.StatusRed {
		return ExitViolation
	}
	return ExitOK
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}
