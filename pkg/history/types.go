package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"payrollguard/preflight/pkg/rules/engine"
)

// RunRecord is one persisted preflight run.
type RunRecord struct {
	// ID is a generated UUID.
	ID string

	// StartedAt and CompletedAt bound the run.
	StartedAt   time.Time
	CompletedAt time.Time

	// InputFile is the payroll file that was checked.
	InputFile string

	// Status is the aggregated traffic-light status, empty on failure.
	Status engine.Status

	RedCount    int
	YellowCount int

	// RulesExecuted and RulesSkipped count configured rules by outcome.
	RulesExecuted int
	RulesSkipped  int

	// Records is the number of payroll records processed.
	Records int

	// Employees are the distinct employee IDs involved in findings.
	Employees []string

	// Error is set when the run failed before producing a result.
	Error string
}

// NewRunRecord builds a RunRecord from a completed engine run.
func NewRunRecord(inputFile string, started, completed time.Time, records int, result *engine.RunResult) *RunRecord {
	executed := 0
	for _, o := range result.Outcomes {
		if o.Executed {
			executed++
		}
	}

	return &RunRecord{
		ID:            uuid.NewString(),
		StartedAt:     started,
		CompletedAt:   completed,
		InputFile:     inputFile,
		Status:        result.Status,
		RedCount:      result.RedCount(),
		YellowCount:   result.YellowCount(),
		RulesExecuted: executed,
		RulesSkipped:  len(result.Outcomes) - executed,
		Records:       records,
		Employees:     result.EmployeeIDs(),
	}
}

// NewFailedRunRecord builds a RunRecord for a run that failed before
// producing a result.
func NewFailedRunRecord(inputFile string, started, completed time.Time, err error) *RunRecord {
	return &RunRecord{
		ID:          uuid.NewString(),
		StartedAt:   started,
		CompletedAt: completed,
		InputFile:   inputFile,
		Error:       err.Error(),
	}
}

// Query filters run records. Zero-valued fields match everything.
type Query struct {
	// Status filters by aggregated status.
	Status engine.Status

	// InputFile filters by exact input file path.
	InputFile string

	// Since and Until bound StartedAt.
	Since *time.Time
	Until *time.Time

	// Limit caps the result count; zero means the backend default.
	Limit int

	Offset int
}

// Storage persists and retrieves run records. Implementations are safe
// for concurrent use.
type Storage interface {
	// Record persists one run.
	Record(ctx context.Context, rec *RunRecord) error

	// List returns matching runs, most recent first.
	List(ctx context.Context, q *Query) ([]*RunRecord, error)

	// Count returns the number of matching runs.
	Count(ctx context.Context, q *Query) (int64, error)

	Close() error
}

// StorageError wraps a backend failure with the backend name and operation.
type StorageError struct {
	Backend string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("history storage %s: %s: %v", e.Backend, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func newStorageError(backend, op string, err error) *StorageError {
	return &StorageError{Backend: backend, Op: op, Err: err}
}
