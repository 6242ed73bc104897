// Package history persists a record of every preflight run: what was
// checked, when, and with what outcome. Two backends implement the
// Storage interface: an in-memory store for tests and single-shot runs,
// and a SQLite store for the long-running watch workflow.
package history
