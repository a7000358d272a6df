package query

import (
	"strconv"
	"time"

	"github.com/spf13/cast"
)

// toNumber coerces an arbitrary cell value or operand text to a float64.
// The second return is false when the value is not numeric; callers treat
// that as not-a-number, never as an error.
func toNumber(v interface{}) (float64, bool) {
	if v == nil {
		return 0, false
	}
	n, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// valueString renders a cell value for string comparison and sorting.
// Nil and missing values render as the empty string; integral floats render
// without a decimal point so 5.0 compares equal to "5".
func valueString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return cast.ToString(val)
	}
}
