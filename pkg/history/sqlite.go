package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"payrollguard/preflight/pkg/rules/engine"
)

// SQLiteConfig contains configuration for the SQLite history backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/preflight_history.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage creates a SQLite history backend, creating the parent
// directory and the schema as needed.
func NewSQLiteStorage(config *SQLiteConfig, logger *slog.Logger) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "history.sqlite")

	if dir := filepath.Dir(config.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, newStorageError("sqlite", "mkdir", err)
		}
	}

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, newStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite history storage initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)
	return s, nil
}

// initialize sets up the schema and enables WAL mode.
func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return newStorageError("sqlite", "enable_wal", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return newStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return newStorageError("sqlite", "create_schema", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return newStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return newStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return newStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Record persists one run record.
func (s *SQLiteStorage) Record(ctx context.Context, rec *RunRecord) error {
	employees, _ := json.Marshal(rec.Employees)

	var statusVal, errorVal interface{}
	if rec.Status != "" {
		statusVal = string(rec.Status)
	}
	if rec.Error != "" {
		errorVal = rec.Error
	}

	query := `
		INSERT INTO runs (
			id, started_at, completed_at, input_file,
			status, red_count, yellow_count,
			rules_executed, rules_skipped, records,
			employees, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.StartedAt, rec.CompletedAt, rec.InputFile,
		statusVal, rec.RedCount, rec.YellowCount,
		rec.RulesExecuted, rec.RulesSkipped, rec.Records,
		string(employees), errorVal,
	)
	if err != nil {
		return newStorageError("sqlite", "record", err)
	}
	return nil
}

// List returns matching runs, most recent first.
func (s *SQLiteStorage) List(ctx context.Context, q *Query) ([]*RunRecord, error) {
	if q == nil {
		q = &Query{}
	}
	whereClause, args := buildWhereClause(q)

	sqlQuery := "SELECT id, started_at, completed_at, input_file, status, red_count, yellow_count, rules_executed, rules_skipped, records, employees, error FROM runs"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}
	sqlQuery += " ORDER BY started_at DESC"

	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	sqlQuery += fmt.Sprintf(" LIMIT %d", limit)
	if q.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", q.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, newStorageError("sqlite", "list", err)
	}
	defer rows.Close()

	var records []*RunRecord
	for rows.Next() {
		rec, err := scanRow(rows)
		if err != nil {
			return nil, newStorageError("sqlite", "scan", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, newStorageError("sqlite", "list", err)
	}
	return records, nil
}

// Count returns the number of matching runs.
func (s *SQLiteStorage) Count(ctx context.Context, q *Query) (int64, error) {
	if q == nil {
		q = &Query{}
	}
	whereClause, args := buildWhereClause(q)

	sqlQuery := "SELECT COUNT(*) FROM runs"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, newStorageError("sqlite", "count", err)
	}
	return count, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return newStorageError("sqlite", "close", err)
	}
	s.logger.Info("SQLite history storage closed")
	return nil
}

// buildWhereClause builds a SQL WHERE clause from query filters.
// Returns the clause without the "WHERE" keyword, plus the arguments.
func buildWhereClause(q *Query) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if q.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(q.Status))
	}
	if q.InputFile != "" {
		conditions = append(conditions, "input_file = ?")
		args = append(args, q.InputFile)
	}
	if q.Since != nil {
		conditions = append(conditions, "started_at >= ?")
		args = append(args, *q.Since)
	}
	if q.Until != nil {
		conditions = append(conditions, "started_at <= ?")
		args = append(args, *q.Until)
	}

	whereClause := ""
	for i, condition := range conditions {
		if i > 0 {
			whereClause += " AND "
		}
		whereClause += condition
	}
	return whereClause, args
}

// scanRow scans one database row into a RunRecord.
func scanRow(rows *sql.Rows) (*RunRecord, error) {
	var rec RunRecord
	var employees string
	var statusVal, errorVal sql.NullString

	err := rows.Scan(
		&rec.ID, &rec.StartedAt, &rec.CompletedAt, &rec.InputFile,
		&statusVal, &rec.RedCount, &rec.YellowCount,
		&rec.RulesExecuted, &rec.RulesSkipped, &rec.Records,
		&employees, &errorVal,
	)
	if err != nil {
		return nil, err
	}

	if statusVal.Valid {
		rec.Status = engine.Status(statusVal.String)
	}
	if errorVal.Valid {
		rec.Error = errorVal.String
	}
	if employees != "" {
		json.Unmarshal([]byte(employees), &rec.Employees)
	}
	return &rec, nil
}
