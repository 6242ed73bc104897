package payroll

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RowError reports a malformed or logically inconsistent field in a CSV row.
// Row numbers are 1-based and include the header, so the first data row is 2.
type RowError struct {
	Row     int
	Field   string
	Message string
}

func (e *RowError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("row %d: %s", e.Row, e.Message)
	}
	return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Message)
}

// LoadPayroll reads and validates a payroll CSV file. It returns the parsed
// records together with the set of columns declared in the header. Any
// missing required column, unparseable required field, or violated field
// invariant (negative amount, inverted pay period) fails the load.
func LoadPayroll(path string) ([]Record, ColumnSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read payroll file: %w", err)
	}
	defer f.Close()

	records, cols, err := ParsePayroll(f)
	if err != nil {
		return nil, nil, fmt.Errorf("payroll file %q: %w", path, err)
	}
	return records, cols, nil
}

// ParsePayroll parses payroll CSV content from r. See LoadPayroll.
func ParsePayroll(r io.Reader) ([]Record, ColumnSet, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("CSV file is empty or has no header row")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	for i, name := range header {
		header[i] = strings.TrimSpace(name)
	}
	cols := NewColumnSet(header)

	if missing := cols.Missing(RequiredColumns...); len(missing) > 0 {
		return nil, nil, fmt.Errorf("missing required CSV columns: %s", strings.Join(missing, ", "))
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	var records []Record
	rowNum := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			return nil, nil, &RowError{Row: rowNum, Message: err.Error()}
		}

		rec, err := parsePayrollRow(row, index, cols, rowNum)
		if err != nil {
			return nil, nil, err
		}
		records = append(records, *rec)
	}

	if len(records) == 0 {
		return nil, nil, fmt.Errorf("CSV file contains no data rows")
	}
	return records, cols, nil
}

func parsePayrollRow(row []string, index map[string]int, cols ColumnSet, rowNum int) (*Record, error) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rec := &Record{
		EmployeeID:   field(ColEmployeeID),
		EmployeeName: field(ColEmployeeName),
	}

	var err error
	if rec.GrossPay, err = parseDecimal(field(ColGrossPay), ColGrossPay, rowNum); err != nil {
		return nil, err
	}
	if rec.YTDGrossPay, err = parseDecimal(field(ColYTDGrossPay), ColYTDGrossPay, rowNum); err != nil {
		return nil, err
	}
	if rec.PayPeriodStart, err = parseDate(field(ColPayPeriodStart), ColPayPeriodStart, rowNum); err != nil {
		return nil, err
	}
	if rec.PayPeriodEnd, err = parseDate(field(ColPayPeriodEnd), ColPayPeriodEnd, rowNum); err != nil {
		return nil, err
	}

	if raw := field(ColCatchUpContribution); raw != "" {
		if rec.CatchUpContribution, err = parseDecimal(raw, ColCatchUpContribution, rowNum); err != nil {
			return nil, err
		}
	}

	if raw := field(ColCatchUpType); raw != "" {
		switch CatchUpType(raw) {
		case CatchUpRoth, CatchUpTraditional:
			rec.CatchUpType = CatchUpType(raw)
		default:
			return nil, &RowError{Row: rowNum, Field: ColCatchUpType, Message: "must be 'Roth' or 'Traditional'"}
		}
	}

	// Optional auto-enrollment columns. Malformed values are treated as
	// absent rather than failing the load, matching the lenient handling
	// those checks need for mixed-quality exports.
	if cols.Has(ColHireDate) {
		if raw := field(ColHireDate); raw != "" {
			if d, err := time.Parse("2006-01-02", raw); err == nil {
				rec.HireDate = &d
			}
		}
	}
	if cols.Has(ColDeferralRate) {
		if raw := field(ColDeferralRate); raw != "" {
			if rate, err := decimal.NewFromString(raw); err == nil {
				rec.DeferralRate = &rate
			}
		}
	}
	if cols.Has(ColDeferralStartDate) {
		rec.DeferralStartDate = field(ColDeferralStartDate)
	}

	if rec.PayPeriodStart.After(rec.PayPeriodEnd) {
		return nil, &RowError{Row: rowNum, Field: ColPayPeriodStart, Message: "pay_period_start must be <= pay_period_end"}
	}
	if rec.GrossPay.IsNegative() {
		return nil, &RowError{Row: rowNum, Field: ColGrossPay, Message: "must be non-negative"}
	}
	if rec.YTDGrossPay.IsNegative() {
		return nil, &RowError{Row: rowNum, Field: ColYTDGrossPay, Message: "must be non-negative"}
	}
	if rec.CatchUpContribution.IsNegative() {
		return nil, &RowError{Row: rowNum, Field: ColCatchUpContribution, Message: "must be non-negative"}
	}

	return rec, nil
}

// LoadHours reads a multi-year hours-history CSV with columns employee_id,
// year and hours. Rows with a blank employee ID or unparseable year/hours are
// skipped rather than failing the load: the history is a best-effort
// reference input and a partial history only narrows eligibility.
func LoadHours(path string) ([]HoursRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read hours file: %w", err)
	}
	defer f.Close()

	records, err := ParseHours(f)
	if err != nil {
		return nil, fmt.Errorf("hours file %q: %w", path, err)
	}
	return records, nil
}

// ParseHours parses hours-history CSV content from r. See LoadHours.
func ParseHours(r io.Reader) ([]HoursRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("CSV file is empty or has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"employee_id", "year", "hours"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing required CSV column: %s", required)
		}
	}

	var records []HoursRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		field := func(name string) string {
			i := index[name]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		id := field("employee_id")
		if id == "" {
			continue
		}
		year, err := strconv.Atoi(field("year"))
		if err != nil {
			continue
		}
		hours, err := decimal.NewFromString(field("hours"))
		if err != nil || hours.IsNegative() {
			continue
		}

		records = append(records, HoursRecord{EmployeeID: id, Year: year, Hours: hours})
	}

	return records, nil
}

func parseDecimal(value, field string, rowNum int) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, &RowError{Row: rowNum, Field: field, Message: "must be a valid number"}
	}
	return d, nil
}

func parseDate(value, field string, rowNum int) (time.Time, error) {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, &RowError{Row: rowNum, Field: field, Message: "must be in YYYY-MM-DD format"}
	}
	return d, nil
}
