package query

import (
	"regexp"
	"strings"

	"github.com/harendratomar/SQLify/dataset"
)

// aggregateFuncs is the fixed detection priority. When a query textually
// contains several aggregate functions, the first in this order wins.
var aggregateFuncs = []string{"SUM", "COUNT", "AVG", "MAX", "MIN"}

// aggregateRes matches FUNC(`col`), FUNC(col), or FUNC(*), with an optional
// AS alias, one compiled pattern per function. Detection is textual, the
// same substring contract as HasAggregate: the function name matches even
// inside a larger word, so the short-circuit and the engine agree on what
// counts as an aggregate.
var aggregateRes = func() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, len(aggregateFuncs))
	for _, fn := range aggregateFuncs {
		res[fn] = regexp.MustCompile(`(?i)` + fn + "\\(\\s*`?([^)`]*?)`?\\s*\\)(?:\\s+AS\\s+`?(\\w+)`?)?")
	}
	return res
}()

// HasAggregate reports whether the raw query text contains any aggregate
// function token anywhere, case-insensitively. This textual check drives the
// aggregate short-circuit: when it fires, ORDER BY, LIMIT, and projection
// are skipped entirely.
func HasAggregate(text string) bool {
	upper := strings.ToUpper(text)
	for _, fn := range aggregateFuncs {
		if strings.Contains(upper, fn+"(") {
			return true
		}
	}
	return false
}

// Aggregate computes the single-row result of the query's aggregate
// function over the filtered rows.
//
// Detection picks the first function present in SUM, COUNT, AVG, MAX, MIN
// priority order. Values that fail numeric coercion contribute 0; COUNT
// ignores its argument entirely and returns the row count; AVG divides the
// coerced sum by the row count. The result is always exactly one row with
// one key: the AS alias when given, otherwise "COUNT" for COUNT and
// "FUNC(col)" for the rest.
func Aggregate(rows []dataset.Row, queryText string) dataset.Row {
	fn, column, alias := detectAggregate(queryText)
	if fn == "" {
		return dataset.Row{}
	}

	key := alias
	if key == "" {
		if fn == "COUNT" {
			key = "COUNT"
		} else {
			key = fn + "(" + column + ")"
		}
	}

	if fn == "COUNT" {
		return dataset.Row{key: float64(len(rows))}
	}

	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		n, ok := toNumber(resolveValue(row, column))
		if !ok {
			n = 0
		}
		values = append(values, n)
	}

	var result float64
	switch fn {
	case "SUM":
		for _, v := range values {
			result += v
		}
	case "AVG":
		var sum float64
		for _, v := range values {
			sum += v
		}
		if len(values) > 0 {
			result = sum / float64(len(values))
		}
	case "MAX":
		for i, v := range values {
			if i == 0 || v > result {
				result = v
			}
		}
	case "MIN":
		for i, v := range values {
			if i == 0 || v < result {
				result = v
			}
		}
	}

	return dataset.Row{key: result}
}

// detectAggregate finds the aggregate call in the raw text, honoring the
// fixed priority order.
func detectAggregate(text string) (fn, column, alias string) {
	for _, candidate := range aggregateFuncs {
		m := aggregateRes[candidate].FindStringSubmatch(text)
		if m == nil {
			continue
		}
		column = strings.TrimSpace(strings.Trim(m[1], "`"))
		return candidate, column, m[2]
	}
	return "", "", ""
}
