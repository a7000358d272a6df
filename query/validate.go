package query

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxQueryLength is the maximum accepted query string length.
const MaxQueryLength = 1024 * 1024

// GrammarErrorKind classifies a structural validation failure.
type GrammarErrorKind string

const (
	MissingFrom          GrammarErrorKind = "MISSING_FROM"
	UnbalancedBackticks  GrammarErrorKind = "UNBALANCED_BACKTICKS"
	MustStartWithSelect  GrammarErrorKind = "MUST_START_WITH_SELECT"
	DangerousOperation   GrammarErrorKind = "DANGEROUS_OPERATION"
	QueryTooLong         GrammarErrorKind = "QUERY_TOO_LONG"
)

// GrammarError is one structural problem found in generated query text.
type GrammarError struct {
	Kind    GrammarErrorKind `json:"kind"`
	Message string           `json:"message"`
}

func (e GrammarError) Error() string { return e.Message }

var (
	fromClauseRe = regexp.MustCompile("(?i)\\bFROM\\s+`?[A-Za-z_][A-Za-z0-9_]*`?")
	whereRe      = regexp.MustCompile(`(?i)\bWHERE\b`)
)

// dangerousKeywords are rejected as substrings anywhere after WHERE, not
// just as whole words, so they cannot hide inside larger tokens.
var dangerousKeywords = []string{"DROP", "DELETE", "INSERT", "UPDATE", "CREATE", "ALTER"}

func containsDangerous(text string) bool {
	upper := strings.ToUpper(text)
	for _, kw := range dangerousKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// Validate runs every structural check against raw query text and returns
// all failures; checks never short-circuit. A non-empty result blocks
// execution — the interpreter never sees an unvalidated query.
func Validate(text string) []GrammarError {
	var errs []GrammarError

	if len(text) > MaxQueryLength {
		errs = append(errs, GrammarError{
			Kind:    QueryTooLong,
			Message: fmt.Sprintf("Query too long: %d bytes (max %d)", len(text), MaxQueryLength),
		})
	}

	if !fromClauseRe.MatchString(text) {
		errs = append(errs, GrammarError{
			Kind:    MissingFrom,
			Message: "Missing FROM clause",
		})
	}

	if strings.Count(text, "`")%2 != 0 {
		errs = append(errs, GrammarError{
			Kind:    UnbalancedBackticks,
			Message: "Unbalanced backticks",
		})
	}

	if !strings.HasPrefix(strings.ToUpper(strings.TrimSpace(text)), "SELECT") {
		errs = append(errs, GrammarError{
			Kind:    MustStartWithSelect,
			Message: "Query must start with SELECT",
		})
	}

	if loc := whereRe.FindStringIndex(text); loc != nil {
		if containsDangerous(text[loc[1]:]) {
			errs = append(errs, GrammarError{
				Kind:    DangerousOperation,
				Message: "Dangerous operation after WHERE clause",
			})
		}
	}

	return errs
}

// checkQuerySize is the parser's pre-check; it mirrors the validator's
// length limit so a direct Parse call cannot bypass it.
func checkQuerySize(text string) error {
	if len(text) > MaxQueryLength {
		return fmt.Errorf("query too long: %d bytes (max %d)", len(text), MaxQueryLength)
	}
	return nil
}
