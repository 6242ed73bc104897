// Package payroll defines the normalized payroll data model consumed by the
// rule engine, together with CSV ingestion for payroll snapshots and
// multi-year hours histories.
//
// A payroll Record is constructed once per input row and never mutated
// afterwards. The ColumnSet produced alongside the records declares which CSV
// columns were present in the input; the engine consults it to decide whether
// a rule has the columns it needs or must be skipped.
//
// All monetary amounts and hours use decimal.Decimal. Floating point is never
// used for compensation arithmetic.
package payroll
