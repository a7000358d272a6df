// Package output provides formatters for rendering query results.
//
// Currently supported formats:
//   - JSON Lines: One JSON object per line
//   - CSV: Comma-separated values with header row
//   - Table: Aligned ASCII table for terminals
//
// Example usage:
//
//	formatter := output.NewJSONFormatter(os.Stdout)
//	if err := formatter.Format(rows); err != nil {
//	    log.Fatal(err)
//	}
package output

import (
	"io"
	"sort"
)

// Formatter defines the interface for output formatters.
//
// Implementers must provide Format to convert rows to the target format
// and SetOutput to change the output destination.
type Formatter interface {
	// Format writes rows in the formatter's specific format
	Format(rows []map[string]interface{}) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// columnNames extracts all unique column names from all rows, sorted for
// consistent ordering. Result rows can be heterogeneous: projection drops
// columns that are absent from individual rows.
func columnNames(rows []map[string]interface{}) []string {
	columnSet := make(map[string]bool)
	for _, row := range rows {
		for col := range row {
			columnSet[col] = true
		}
	}

	columns := make([]string, 0, len(columnSet))
	for col := range columnSet {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	return columns
}
