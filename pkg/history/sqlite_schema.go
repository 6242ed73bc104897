package history

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the run-history schema.
const Schema = `
-- Preflight run records
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,

    started_at TIMESTAMP NOT NULL,
    completed_at TIMESTAMP NOT NULL,

    input_file TEXT NOT NULL,

    -- Outcome
    status TEXT,
    red_count INTEGER NOT NULL DEFAULT 0,
    yellow_count INTEGER NOT NULL DEFAULT 0,

    rules_executed INTEGER NOT NULL DEFAULT 0,
    rules_skipped INTEGER NOT NULL DEFAULT 0,
    records INTEGER NOT NULL DEFAULT 0,

    -- JSON array of distinct employee IDs in findings
    employees TEXT,

    -- Failure detail, NULL for successful runs
    error TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_input_file ON runs(input_file);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

// InsertSchemaVersion records the schema version after creation.
const InsertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`

// GetSchemaVersion reads the recorded schema version.
const GetSchemaVersion = `SELECT version FROM schema_version ORDER BY version DESC LIMIT 1`
