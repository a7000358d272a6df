// Package rag builds per-column retrieval context from a dataset's schema
// and sample rows, and filters the columns relevant to a question.
//
// No vector embedding is computed: entries are lexical records (column name,
// type, a formatted context string, and distinct-value metadata) and
// relevance is plain case-insensitive containment. Building is deterministic:
// identical inputs produce identical entries in identical order.
package rag

import (
	"fmt"
	"strings"

	"github.com/harendratomar/SQLify/dataset"
)

const (
	// maxContextValues is how many sample values the context string embeds.
	maxContextValues = 5

	// maxDistinctValues is how many unique values an entry retains.
	maxDistinctValues = 10

	// maxMatchValues is how many distinct values Relevant inspects.
	maxMatchValues = 5
)

// Metadata carries the distinct-value summary for one column.
type Metadata struct {
	DistinctValues []string `json:"distinctValues"`
	SampleCount    int      `json:"sampleCount"`
}

// VectorStoreEntry is the per-column retrieval record.
type VectorStoreEntry struct {
	Column   string             `json:"column"`
	Type     dataset.ColumnType `json:"type"`
	Context  string             `json:"context"`
	Metadata Metadata           `json:"metadata"`
}

// Build derives one entry per schema column from the sample rows.
//
// The context string embeds the column name, its type, and the first
// five sample values in row order. DistinctValues holds the first ten
// unique values across all sample rows in order of first appearance.
func Build(schema dataset.Schema, sampleRows []dataset.Row) []VectorStoreEntry {
	entries := make([]VectorStoreEntry, 0, len(schema))

	for _, col := range schema {
		var contextValues []string
		var distinct []string
		seen := make(map[string]bool)

		for _, row := range sampleRows {
			value := formatValue(row[col.Name])

			if len(contextValues) < maxContextValues {
				contextValues = append(contextValues, value)
			}
			if !seen[value] && len(distinct) < maxDistinctValues {
				seen[value] = true
				distinct = append(distinct, value)
			}
		}

		entries = append(entries, VectorStoreEntry{
			Column: col.Name,
			Type:   col.Type,
			Context: fmt.Sprintf("Column `%s` (%s) contains values like: %s",
				col.Name, col.Type, strings.Join(contextValues, ", ")),
			Metadata: Metadata{
				DistinctValues: distinct,
				SampleCount:    len(sampleRows),
			},
		})
	}

	return entries
}

// Relevant returns the entries whose column the question mentions.
//
// An entry is relevant if the lowercased question contains the lowercased
// column name, or contains any of the entry's first five distinct values as
// a case-insensitive substring.
func Relevant(question string, entries []VectorStoreEntry) []VectorStoreEntry {
	q := strings.ToLower(question)

	var relevant []VectorStoreEntry
	for _, entry := range entries {
		if strings.Contains(q, strings.ToLower(entry.Column)) {
			relevant = append(relevant, entry)
			continue
		}

		values := entry.Metadata.DistinctValues
		if len(values) > maxMatchValues {
			values = values[:maxMatchValues]
		}
		for _, value := range values {
			if value != "" && strings.Contains(q, strings.ToLower(value)) {
				relevant = append(relevant, entry)
				break
			}
		}
	}

	return relevant
}

// formatValue renders a cell value the way it appears in prompts and
// distinct-value matching. Nil renders as the empty string.
func formatValue(v interface{}) string {
	if v == nil {
		return ""
	}
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%v", v)
}
