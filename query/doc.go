// Package query implements the restricted SQL subset executed against
// in-memory datasets.
//
// The grammar is a single statement with no joins, subqueries, or boolean
// composition:
//
//	SELECT (<col>[ AS <alias>][, ...] | *) FROM <table>
//	  [WHERE <col> <op> <value>]
//	  [ORDER BY <col> [ASC|DESC]]
//	  [LIMIT <n>]
//
// plus aggregate projections SUM|COUNT|AVG|MAX|MIN(<col>|*) [AS <alias>] in
// place of the column list.
//
// The package includes a lexer, a recursive-descent parser producing an
// explicit Statement tree, a structural grammar validator applied to raw
// query text before execution, and an executor with a fixed clause order:
// filter, aggregate short-circuit, sort, limit, projection.
//
// Several behaviors are deliberate quirks carried over from the system this
// engine replaces and must not be "corrected":
//   - presence of any aggregate function token in the raw query bypasses
//     ORDER BY, LIMIT, and projection entirely;
//   - comparisons against values that do not coerce to numbers are false;
//   - a WHERE clause that does not parse as a single comparison accepts
//     every row.
package query
