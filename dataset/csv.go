package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LoadCSV reads a CSV file into a dataset.
//
// The first record is treated as the header. Cell values that parse as
// numbers are stored as float64; everything else is stored as string. The
// dataset name is the file name without its extension.
func LoadCSV(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	ds, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	ds.Name = tableNameFromPath(path)
	return ds, nil
}

// ReadCSV reads CSV data from r into a dataset with an inferred schema.
func ReadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	rows := make([]Row, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		row := make(Row, len(header))
		for i, name := range header {
			var cell string
			if i < len(record) {
				cell = record[i]
			}
			row[name] = parseCell(cell)
		}
		rows = append(rows, row)
	}

	schema := InferSchema(header, rows)
	return New("data", schema, rows)
}

// parseCell converts a raw CSV cell to a typed value. Numbers become
// float64, empty cells become nil, everything else stays a string.
func parseCell(cell string) interface{} {
	if cell == "" {
		return nil
	}
	if n, err := strconv.ParseFloat(cell, 64); err == nil {
		return n
	}
	return cell
}

func tableNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
