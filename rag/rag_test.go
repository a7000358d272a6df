package rag

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/harendratomar/SQLify/dataset"
)

func sampleSchema() dataset.Schema {
	return dataset.Schema{
		{Name: "Country", Type: dataset.TypeText},
		{Name: "Rank", Type: dataset.TypeNumber},
	}
}

func sampleRows() []dataset.Row {
	return []dataset.Row{
		{"Country": "Nepal", "Rank": float64(5)},
		{"Country": "India", "Rank": float64(1)},
		{"Country": "Nepal", "Rank": float64(5)},
	}
}

func TestBuild(t *testing.T) {
	entries := Build(sampleSchema(), sampleRows())

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	country := entries[0]
	if country.Column != "Country" {
		t.Errorf("expected first entry for Country, got %s", country.Column)
	}
	if country.Type != dataset.TypeText {
		t.Errorf("expected TEXT type, got %s", country.Type)
	}
	if !strings.Contains(country.Context, "Country") || !strings.Contains(country.Context, "Nepal") {
		t.Errorf("context missing column name or sample value: %q", country.Context)
	}

	// Distinct values keep first-seen order and drop duplicates.
	wantDistinct := []string{"Nepal", "India"}
	if !reflect.DeepEqual(country.Metadata.DistinctValues, wantDistinct) {
		t.Errorf("distinct values = %v, want %v", country.Metadata.DistinctValues, wantDistinct)
	}
	if country.Metadata.SampleCount != 3 {
		t.Errorf("sample count = %d, want 3", country.Metadata.SampleCount)
	}
}

func TestBuildLimits(t *testing.T) {
	schema := dataset.Schema{{Name: "N", Type: dataset.TypeNumber}}

	rows := make([]dataset.Row, 20)
	for i := range rows {
		rows[i] = dataset.Row{"N": float64(i)}
	}

	entries := Build(schema, rows)
	entry := entries[0]

	if len(entry.Metadata.DistinctValues) != 10 {
		t.Errorf("expected 10 distinct values, got %d", len(entry.Metadata.DistinctValues))
	}
	// Context embeds only the first 5 sample values.
	if strings.Contains(entry.Context, ", 5") {
		t.Errorf("context should stop after 5 values: %q", entry.Context)
	}
	if entry.Metadata.SampleCount != 20 {
		t.Errorf("sample count = %d, want 20", entry.Metadata.SampleCount)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	a := Build(sampleSchema(), sampleRows())
	b := Build(sampleSchema(), sampleRows())

	if !reflect.DeepEqual(a, b) {
		t.Error("Build is not deterministic for identical inputs")
	}
}

func TestRelevant(t *testing.T) {
	entries := Build(sampleSchema(), sampleRows())

	tests := []struct {
		name     string
		question string
		expected []string
	}{
		{
			name:     "column name match",
			question: "What is the rank of each country?",
			expected: []string{"Country", "Rank"},
		},
		{
			name:     "distinct value match",
			question: "Show me everything about nepal",
			expected: []string{"Country"},
		},
		{
			name:     "no match",
			question: "What is the weather today?",
			expected: nil,
		},
		{
			name:     "case-insensitive",
			question: "COUNTRY details please",
			expected: []string{"Country"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Relevant(tt.question, entries)
			var names []string
			for _, e := range got {
				names = append(names, e.Column)
			}
			if !reflect.DeepEqual(names, tt.expected) {
				t.Errorf("Relevant(%q) matched %v, want %v", tt.question, names, tt.expected)
			}
		})
	}
}

// Only the first five distinct values participate in relevance matching.
func TestRelevantChecksFirstFiveValuesOnly(t *testing.T) {
	schema := dataset.Schema{{Name: "City", Type: dataset.TypeText}}

	rows := make([]dataset.Row, 0, 8)
	for i := 0; i < 7; i++ {
		rows = append(rows, dataset.Row{"City": fmt.Sprintf("city%d", i)})
	}
	rows = append(rows, dataset.Row{"City": "Tokyo"})

	entries := Build(schema, rows)

	if got := Relevant("anything about tokyo?", entries); got != nil {
		t.Errorf("value beyond the first five should not match, got %v", got)
	}
	if got := Relevant("anything about city3?", entries); len(got) != 1 {
		t.Errorf("value within the first five should match, got %v", got)
	}
}
