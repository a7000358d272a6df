package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CSVFormatter outputs rows as CSV format
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes rows as CSV with a header of the sorted column union.
func (c *CSVFormatter) Format(rows []map[string]interface{}) error {
	if len(rows) == 0 {
		return nil
	}

	columns := columnNames(rows)

	csvWriter := csv.NewWriter(c.writer)
	if err := csvWriter.Write(columns); err != nil {
		return err
	}
	for _, row := range rows {
		if err := csvWriter.Write(record(row, columns)); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}

// record renders one row against the column union. Columns a row does not
// carry render as empty cells.
func record(row map[string]interface{}, columns []string) []string {
	cells := make([]string, len(columns))
	for i, col := range columns {
		cells[i] = cellString(row[col])
	}
	return cells
}

// cellString renders a result cell for CSV and table output. NUMBER cells
// arrive as float64 and use the shortest round-trip form, so integral
// values print without a decimal point, matching how the query engine
// renders them in comparisons.
func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return sanitizeFormula(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

// sanitizeFormula prefixes cells that spreadsheet applications would
// interpret as formulas, so exported results cannot execute on open.
func sanitizeFormula(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '\n', '|':
		return "'" + strings.ReplaceAll(s, "'", "''")
	}
	return s
}
