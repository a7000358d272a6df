package query

import (
	"errors"
	"reflect"
	"testing"

	"github.com/harendratomar/SQLify/dataset"
)

func countryDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New("data",
		dataset.Schema{
			{Name: "Country", Type: dataset.TypeText},
			{Name: "Rank", Type: dataset.TypeNumber},
		},
		[]dataset.Row{
			{"Country": "Nepal", "Rank": float64(5)},
			{"Country": "India", "Rank": float64(1)},
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	return ds
}

func TestExecuteFilterAndProject(t *testing.T) {
	ds := countryDataset(t)

	rows, err := Execute(ds, "SELECT `Country`,`Rank` FROM data WHERE `Country` = 'Nepal'")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := []dataset.Row{{"Country": "Nepal", "Rank": float64(5)}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("result = %v, want %v", rows, want)
	}
}

func TestExecuteStarPassthrough(t *testing.T) {
	ds := countryDataset(t)

	rows, err := Execute(ds, "SELECT * FROM data")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
}

func TestExecuteOrderBy(t *testing.T) {
	ds := countryDataset(t)

	tests := []struct {
		name  string
		query string
		first string
	}{
		{"ascending default", "SELECT * FROM data ORDER BY Rank", "India"},
		{"descending", "SELECT * FROM data ORDER BY Rank DESC", "Nepal"},
		{"case-insensitive column", "SELECT * FROM data ORDER BY rank", "India"},
		{"string column", "SELECT * FROM data ORDER BY Country", "India"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := Execute(ds, tt.query)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if rows[0]["Country"] != tt.first {
				t.Errorf("first row = %v, want Country=%s", rows[0], tt.first)
			}
		})
	}
}

func TestExecuteOrderByIsStable(t *testing.T) {
	ds, err := dataset.New("data",
		dataset.Schema{
			{Name: "Name", Type: dataset.TypeText},
			{Name: "Group", Type: dataset.TypeNumber},
		},
		[]dataset.Row{
			{"Name": "a", "Group": float64(1)},
			{"Name": "b", "Group": float64(1)},
			{"Name": "c", "Group": float64(1)},
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	rows, err := Execute(ds, "SELECT * FROM data ORDER BY Group")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for i, want := range []string{"a", "b", "c"} {
		if rows[i]["Name"] != want {
			t.Errorf("row %d = %v, want Name=%s (stable sort)", i, rows[i], want)
		}
	}
}

func TestExecuteLimit(t *testing.T) {
	ds := countryDataset(t)

	tests := []struct {
		name     string
		query    string
		expected int
	}{
		{"limit below count", "SELECT * FROM data LIMIT 1", 1},
		{"limit above count", "SELECT * FROM data LIMIT 10", 2},
		{"limit zero", "SELECT * FROM data LIMIT 0", 0},
		{"malformed limit ignored", "SELECT * FROM data LIMIT abc", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := Execute(ds, tt.query)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if len(rows) != tt.expected {
				t.Errorf("got %d rows, want %d", len(rows), tt.expected)
			}
		})
	}
}

func TestExecuteProjection(t *testing.T) {
	ds := countryDataset(t)

	rows, err := Execute(ds, "SELECT `country` AS nation FROM data WHERE `Country` = 'Nepal'")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := []dataset.Row{{"nation": "Nepal"}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("result = %v, want %v", rows, want)
	}
}

// Columns absent from a row are dropped silently, not errors.
func TestExecuteProjectionDropsUnknownColumns(t *testing.T) {
	ds := countryDataset(t)

	rows, err := Execute(ds, "SELECT `Country`, `Population` FROM data LIMIT 1")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if _, ok := rows[0]["Population"]; ok {
		t.Error("unknown column should be dropped from the result")
	}
	if rows[0]["Country"] != "Nepal" {
		t.Errorf("row = %v", rows[0])
	}
}

// Presence of an aggregate token bypasses ORDER BY, LIMIT, and projection.
func TestExecuteAggregateShortCircuit(t *testing.T) {
	ds := countryDataset(t)

	rows, err := Execute(ds, "SELECT COUNT(*) as cnt FROM data ORDER BY Rank")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := []dataset.Row{{"cnt": float64(2)}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("result = %v, want %v", rows, want)
	}
}

func TestExecuteAggregateAfterFilter(t *testing.T) {
	ds := countryDataset(t)

	rows, err := Execute(ds, "SELECT COUNT(*) FROM data WHERE `Country` = 'Nepal'")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := []dataset.Row{{"COUNT": float64(1)}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("result = %v, want %v", rows, want)
	}
}

func TestExecuteInvalidFrom(t *testing.T) {
	ds := countryDataset(t)

	_, err := Execute(ds, "SELECT * FROM users")
	if err == nil {
		t.Fatal("expected error for unknown table")
	}

	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Errorf("expected *ExecutionError, got %T", err)
	}
}

func TestExecuteTableNameCaseInsensitive(t *testing.T) {
	ds := countryDataset(t)

	if _, err := Execute(ds, "SELECT * FROM DATA"); err != nil {
		t.Errorf("table resolution should be case-insensitive, got %v", err)
	}
}

// Execution is pure: same dataset, same query, same result — and the
// source dataset is never mutated.
func TestExecuteIsPure(t *testing.T) {
	ds := countryDataset(t)
	q := "SELECT * FROM data WHERE `Rank` > 0 ORDER BY Rank LIMIT 5"

	first, err := Execute(ds, q)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	second, err := Execute(ds, q)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated execution produced different results")
	}
	if ds.Rows[0]["Country"] != "Nepal" || ds.Rows[1]["Country"] != "India" {
		t.Error("execution mutated the source dataset")
	}
}

// Operands that resolve to no column compare as their literal text, so
// constant conditions filter on the constants themselves.
func TestExecuteLiteralConditionOperands(t *testing.T) {
	ds := countryDataset(t)

	tests := []struct {
		name     string
		query    string
		expected int
	}{
		{"true numeric comparison", "SELECT * FROM data WHERE 10 > 5", 2},
		{"false numeric comparison", "SELECT * FROM data WHERE 5 > 10", 0},
		{"true string comparison", "SELECT * FROM data WHERE 'x' = 'x'", 2},
		{"false string comparison", "SELECT * FROM data WHERE 'x' = 'y'", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := Execute(ds, tt.query)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if len(rows) != tt.expected {
				t.Errorf("got %d rows, want %d", len(rows), tt.expected)
			}
		})
	}
}

func TestExecuteVacuousWhereKeepsAllRows(t *testing.T) {
	ds := countryDataset(t)

	rows, err := Execute(ds, "SELECT * FROM data WHERE Country Nepal")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("vacuous condition should keep all rows, got %d", len(rows))
	}
}
