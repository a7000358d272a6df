package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
)

// LoadParquet reads a Parquet file into a dataset.
//
// Each row is materialized as a map keyed by column name, and the schema is
// derived from the Parquet file schema. The entire file is loaded into
// memory, so this is not suitable for very large files.
func LoadParquet(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	rows, err := readAllRows(pqFile)
	if err != nil {
		return nil, err
	}

	schema := parquetSchema(pqFile.Schema())
	ds, err := New(tableNameFromPath(path), schema, rows)
	if err != nil {
		return nil, err
	}
	return ds, nil
}

func readAllRows(pqFile *parquet.File) ([]Row, error) {
	rows := make([]Row, 0)

	reader := parquet.NewReader(pqFile)
	defer func() { _ = reader.Close() }()

	for {
		row := make(Row)
		err := reader.Read(&row)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// parquetSchema maps a Parquet file schema onto the TEXT/NUMBER/DATE model.
func parquetSchema(schema *parquet.Schema) Schema {
	fields := schema.Fields()
	columns := make(Schema, 0, len(fields))
	for _, field := range fields {
		columns = append(columns, Column{
			Name: field.Name(),
			Type: parquetColumnType(field),
		})
	}
	return columns
}

func parquetColumnType(field parquet.Field) ColumnType {
	t := field.Type()
	if t == nil {
		return TypeText
	}

	if lt := t.LogicalType(); lt != nil {
		if lt.Date != nil || lt.Timestamp != nil {
			return TypeDate
		}
	}

	switch t.Kind() {
	case parquet.Int32, parquet.Int64, parquet.Int96, parquet.Float, parquet.Double:
		return TypeNumber
	default:
		return TypeText
	}
}
