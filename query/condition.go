package query

import (
	"strings"

	"github.com/harendratomar/SQLify/dataset"
)

// Evaluate tests the condition against one row.
//
// Equality operators (= != <>) compare case-insensitive string renderings.
// Ordering operators (> < >= <=) compare numeric coercions of both sides;
// a side that does not coerce to a number is not-a-number, and every
// comparison against not-a-number evaluates false. A vacuous condition
// passes unconditionally.
func (c *Condition) Evaluate(row dataset.Row) bool {
	if c == nil || c.Vacuous {
		return true
	}

	left := c.operand(row)
	right := c.Value

	switch c.Op {
	case "=":
		return strings.EqualFold(valueString(left), right)
	case "!=", "<>":
		return !strings.EqualFold(valueString(left), right)
	case ">", "<", ">=", "<=":
		leftNum, leftOK := toNumber(left)
		rightNum, rightOK := toNumber(right)
		if !leftOK || !rightOK {
			return false
		}
		switch c.Op {
		case ">":
			return leftNum > rightNum
		case "<":
			return leftNum < rightNum
		case ">=":
			return leftNum >= rightNum
		default:
			return leftNum <= rightNum
		}
	default:
		// Unknown operator: the condition vacuously passes. A documented
		// quirk of the evaluator, not a defect to fix.
		return true
	}
}

// operand resolves the left side of the comparison: a row key matched
// case-insensitively, or the literal text itself when no column matches.
// The literal fallback makes constant comparisons like `10 > 5` work.
func (c *Condition) operand(row dataset.Row) interface{} {
	if key, ok := resolveKey(row, c.Column); ok {
		return row[key]
	}
	return c.Column
}

// resolveValue looks up a row cell by key, case-insensitively. Missing
// cells resolve to nil, which sorting treats as the empty string.
func resolveValue(row dataset.Row, key string) interface{} {
	if key, ok := resolveKey(row, key); ok {
		return row[key]
	}
	return nil
}

// resolveKey returns the actual row key matching name case-insensitively.
func resolveKey(row dataset.Row, name string) (string, bool) {
	if _, ok := row[name]; ok {
		return name, true
	}
	for k := range row {
		if strings.EqualFold(k, name) {
			return k, true
		}
	}
	return "", false
}
