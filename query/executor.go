package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/harendratomar/SQLify/dataset"
)

// ExecutionError reports an interpreter-level failure, such as a FROM
// clause that does not resolve against the dataset.
type ExecutionError struct {
	Message string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution error: %s", e.Message)
}

// Execute runs validated query text against a dataset.
//
// The clause order is fixed and observable: filter, aggregate
// short-circuit, sort, limit, projection. Aggregate queries return exactly
// one row and never see ORDER BY, LIMIT, or projection. Execution is pure:
// the dataset is never mutated and identical inputs yield identical result
// sequences.
func Execute(ds *dataset.Dataset, text string) ([]dataset.Row, error) {
	stmt, err := Parse(text)
	if err != nil {
		// Defensive re-check: validation should have rejected this already.
		return nil, &ExecutionError{Message: err.Error()}
	}

	if !strings.EqualFold(stmt.Source, ds.Name) {
		return nil, &ExecutionError{Message: fmt.Sprintf("invalid FROM: unknown table %q", stmt.Source)}
	}

	rows := ds.Rows

	if stmt.Filter != nil {
		filtered := make([]dataset.Row, 0, len(rows))
		for _, row := range rows {
			if stmt.Filter.Evaluate(row) {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}

	// Aggregate short-circuit: the filtered rows go straight to the
	// aggregation engine and sorting, limiting, and projection are skipped.
	if HasAggregate(text) {
		return []dataset.Row{Aggregate(rows, text)}, nil
	}

	if stmt.OrderBy != nil {
		rows = sortRows(rows, stmt.OrderBy)
	}

	if stmt.Limit != nil && *stmt.Limit < len(rows) {
		rows = rows[:*stmt.Limit]
	}

	return project(rows, stmt), nil
}

// sortRows stable-sorts a copy of rows by the named column, resolved
// case-insensitively per row. Missing values compare as the empty string.
func sortRows(rows []dataset.Row, ob *OrderBy) []dataset.Row {
	sorted := make([]dataset.Row, len(rows))
	copy(sorted, rows)

	sort.SliceStable(sorted, func(i, j int) bool {
		cmp := compareCells(resolveValue(sorted[i], ob.Column), resolveValue(sorted[j], ob.Column))
		if ob.Desc {
			return cmp > 0
		}
		return cmp < 0
	})

	return sorted
}

// compareCells orders two cell values: numerically when both sides coerce
// to numbers, otherwise by string rendering (missing values are "").
func compareCells(a, b interface{}) int {
	aNum, aOK := toNumber(a)
	bNum, bOK := toNumber(b)
	if aOK && bOK {
		switch {
		case aNum < bNum:
			return -1
		case aNum > bNum:
			return 1
		default:
			return 0
		}
	}

	return strings.Compare(valueString(a), valueString(b))
}

// project applies the statement's column list to each row. A star
// projection passes rows through unchanged; explicit columns resolve
// case-insensitively against each row's actual keys, apply AS aliases, and
// silently drop columns absent from a row.
func project(rows []dataset.Row, stmt *Statement) []dataset.Row {
	if stmt.Star || len(stmt.Projection) == 0 {
		return rows
	}

	projected := make([]dataset.Row, 0, len(rows))
	for _, row := range rows {
		newRow := make(dataset.Row, len(stmt.Projection))
		for _, item := range stmt.Projection {
			key, ok := resolveKey(row, item.Column)
			if !ok {
				continue
			}
			name := item.Alias
			if name == "" {
				name = key
			}
			newRow[name] = row[key]
		}
		projected = append(projected, newRow)
	}
	return projected
}
