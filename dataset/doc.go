// Package dataset defines the in-memory tabular data model shared by the
// whole pipeline and provides loaders that turn CSV and Parquet files into
// datasets.
//
// A Dataset is a named, ordered collection of rows plus a typed schema. The
// query engine treats datasets as immutable: every operation returns new row
// slices and never mutates the source.
//
// Column types are inferred once at load time and never re-derived. The
// inference deliberately samples only the first row's value for each column,
// so datasets with leading nulls or mixed types may under-detect; see
// InferSchema.
package dataset
