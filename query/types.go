package query

// TokenType represents the type of a token.
type TokenType int

const (
	// Keywords
	TokenSelect TokenType = iota
	TokenFrom
	TokenWhere
	TokenOrder
	TokenBy
	TokenAsc
	TokenDesc
	TokenLimit
	TokenAs

	// Operators
	TokenEqual        // =
	TokenNotEqual     // != or <>
	TokenLess         // <
	TokenGreater      // >
	TokenLessEqual    // <=
	TokenGreaterEqual // >=

	// Literals
	TokenString
	TokenNumber
	TokenIdent

	// Delimiters
	TokenComma      // ,
	TokenLeftParen  // (
	TokenRightParen // )
	TokenStar       // *

	// Special
	TokenEOF
	TokenError
)

// Token represents a lexical token.
type Token struct {
	Type  TokenType
	Value string
}

// SelectItem is one entry in a projection list.
type SelectItem struct {
	Column string // Column name, or "*" for all columns
	Alias  string // Optional AS alias
}

// Condition is the single WHERE comparison.
//
// A vacuous condition (one whose clause did not parse as a comparison)
// accepts every row; this preserves the "unmatched operator yields true"
// behavior of the original evaluator.
type Condition struct {
	Column  string // Left operand; resolved against row keys at eval time
	Op      string // One of >= <= != <> = > <
	Value   string // Right operand with surrounding quotes stripped
	Vacuous bool
}

// OrderBy is the sort specification.
type OrderBy struct {
	Column string
	Desc   bool
}

// Statement is the parsed form of a query:
// projection, source, and the optional filter, sort, and limit clauses.
type Statement struct {
	Projection []SelectItem // Empty when Star is set
	Star       bool
	Source     string // FROM table name
	Filter     *Condition
	OrderBy    *OrderBy
	Limit      *int
}
