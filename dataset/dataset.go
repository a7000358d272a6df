package dataset

import (
	"fmt"
	"strconv"
	"time"
)

// ColumnType classifies the values stored in a column.
type ColumnType string

const (
	TypeText   ColumnType = "TEXT"
	TypeNumber ColumnType = "NUMBER"
	TypeDate   ColumnType = "DATE"
)

// Column describes a single column: its name and inferred type.
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// Schema is an ordered sequence of columns with unique names.
type Schema []Column

// Column returns the column with the given name, if present.
func (s Schema) Column(name string) (Column, bool) {
	for _, col := range s {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, col := range s {
		names[i] = col.Name
	}
	return names
}

// Row maps column names to scalar values (string, number, time, or nil).
// Every row in a dataset carries exactly the schema's column set.
type Row = map[string]interface{}

// Dataset is a named table: a schema plus an ordered sequence of rows.
type Dataset struct {
	Name   string `json:"name"`
	Schema Schema `json:"schema"`
	Rows   []Row  `json:"rows"`
}

// New builds a dataset and verifies that every row is column-consistent with
// the schema. A row with a missing or extra column is an error rather than
// something to silently reshape.
func New(name string, schema Schema, rows []Row) (*Dataset, error) {
	seen := make(map[string]bool, len(schema))
	for _, col := range schema {
		if seen[col.Name] {
			return nil, fmt.Errorf("duplicate column name %q in schema", col.Name)
		}
		seen[col.Name] = true
	}

	for i, row := range rows {
		if len(row) != len(schema) {
			return nil, fmt.Errorf("row %d has %d columns, schema has %d", i, len(row), len(schema))
		}
		for _, col := range schema {
			if _, ok := row[col.Name]; !ok {
				return nil, fmt.Errorf("row %d is missing column %q", i, col.Name)
			}
		}
	}

	return &Dataset{Name: name, Schema: schema, Rows: rows}, nil
}

// dateLayouts are the formats recognized by type inference, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"01/02/2006",
}

// InferSchema derives a schema from column names and rows.
//
// Only the first row's value for each column is sniffed: a numeric value
// yields NUMBER, a value parseable as a date yields DATE, anything else
// (including nil) yields TEXT. This under-detects on datasets with leading
// nulls or mixed types, which is the documented behavior.
func InferSchema(columns []string, rows []Row) Schema {
	schema := make(Schema, 0, len(columns))
	for _, name := range columns {
		colType := TypeText
		if len(rows) > 0 {
			colType = inferType(rows[0][name])
		}
		schema = append(schema, Column{Name: name, Type: colType})
	}
	return schema
}

func inferType(value interface{}) ColumnType {
	switch v := value.(type) {
	case nil:
		return TypeText
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeNumber
	case time.Time:
		return TypeDate
	case string:
		if _, err := strconv.ParseFloat(v, 64); err == nil {
			return TypeNumber
		}
		for _, layout := range dateLayouts {
			if _, err := time.Parse(layout, v); err == nil {
				return TypeDate
			}
		}
		return TypeText
	default:
		return TypeText
	}
}
