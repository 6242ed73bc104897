package engine

import "fmt"

// ValidationError reports a malformed or logically inconsistent field on a
// single record. The record is excluded from the affected rule's evaluation;
// the error never aborts a rule or the run.
type ValidationError struct {
	EmployeeID string
	Field      string
	Message    string
}

func (e *ValidationError) Error() string {
	if e.EmployeeID == "" {
		return fmt.Sprintf("invalid record: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid record %s: %s: %s", e.EmployeeID, e.Field, e.Message)
}

// ConfigurationError reports a run-level configuration problem. It is fatal:
// the run fails before any rule executes and the error surfaces to the
// caller as a configuration problem, not a compliance finding.
type ConfigurationError struct {
	Message string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}
