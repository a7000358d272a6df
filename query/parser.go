package query

import (
	"fmt"
	"strconv"
)

// Parser parses token streams into Statement trees.
//
// The parser is deliberately tolerant: clauses that do not parse (a
// malformed LIMIT count, an ORDER BY without a column, a WHERE that is not
// a single comparison) are dropped rather than failing the whole query.
// Only a missing SELECT or an unresolvable FROM is a hard error, and both
// are normally caught by Validate before parsing ever runs.
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a new parser.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// current returns the current token.
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

// advance moves to the next token.
func (p *Parser) advance() {
	p.pos++
}

// Parse parses query text into a Statement.
func Parse(text string) (*Statement, error) {
	if err := checkQuerySize(text); err != nil {
		return nil, err
	}

	parser := NewParser(Tokenize(text))
	return parser.parseStatement()
}

func (p *Parser) parseStatement() (*Statement, error) {
	if p.current().Type != TokenSelect {
		return nil, fmt.Errorf("query must start with SELECT, got %q", p.current().Value)
	}
	p.advance()

	stmt := &Statement{}
	p.parseSelectList(stmt)

	if p.current().Type != TokenFrom {
		return nil, fmt.Errorf("missing FROM clause")
	}
	p.advance()

	if p.current().Type != TokenIdent {
		return nil, fmt.Errorf("expected table name after FROM, got %q", p.current().Value)
	}
	stmt.Source = p.current().Value
	p.advance()

	for p.current().Type != TokenEOF {
		switch p.current().Type {
		case TokenWhere:
			p.advance()
			stmt.Filter = p.parseCondition()
		case TokenOrder:
			p.advance()
			stmt.OrderBy = p.parseOrderBy()
		case TokenLimit:
			p.advance()
			stmt.Limit = p.parseLimit()
		default:
			// Tolerate trailing noise rather than failing the query.
			p.advance()
		}
	}

	return stmt, nil
}

// parseSelectList consumes projection items up to FROM.
func (p *Parser) parseSelectList(stmt *Statement) {
	for {
		tok := p.current()
		switch tok.Type {
		case TokenFrom, TokenEOF:
			return
		case TokenStar:
			stmt.Star = true
			p.advance()
		case TokenIdent:
			item := SelectItem{Column: tok.Value}
			p.advance()

			// Aggregate call: FUNC(col-or-*). The executor detects
			// aggregates textually, so the projection entry only needs to
			// survive parsing.
			if p.current().Type == TokenLeftParen {
				item.Column = tok.Value + "(" + p.parseCallArgument() + ")"
			}

			if p.current().Type == TokenAs {
				p.advance()
				if p.current().Type == TokenIdent {
					item.Alias = p.current().Value
					p.advance()
				}
			}

			stmt.Projection = append(stmt.Projection, item)
		case TokenComma:
			p.advance()
		default:
			p.advance()
		}
	}
}

// parseCallArgument consumes "( arg )" and returns the argument text.
func (p *Parser) parseCallArgument() string {
	p.advance() // skip (

	var arg string
	for p.current().Type != TokenRightParen && p.current().Type != TokenEOF && p.current().Type != TokenFrom {
		arg += p.current().Value
		p.advance()
	}
	if p.current().Type == TokenRightParen {
		p.advance()
	}
	return arg
}

// conditionOperators maps comparison tokens to their operator text.
var conditionOperators = map[TokenType]string{
	TokenGreaterEqual: ">=",
	TokenLessEqual:    "<=",
	TokenNotEqual:     "!=",
	TokenEqual:        "=",
	TokenGreater:      ">",
	TokenLess:         "<",
}

// parseCondition parses the single WHERE comparison. A clause that is not
// `<operand> <op> <operand>` yields a vacuous condition that accepts every
// row; the remaining WHERE tokens are skipped up to the next clause.
func (p *Parser) parseCondition() *Condition {
	left, ok := p.operand()
	if !ok {
		p.skipToClause()
		return &Condition{Vacuous: true}
	}

	opTok := p.current()
	op, ok := conditionOperators[opTok.Type]
	if !ok {
		p.skipToClause()
		return &Condition{Vacuous: true}
	}
	if opTok.Value == "<>" {
		op = "<>"
	}
	p.advance()

	right, ok := p.operand()
	if !ok {
		p.skipToClause()
		return &Condition{Vacuous: true}
	}

	return &Condition{Column: left, Op: op, Value: right}
}

// operand consumes an identifier, string, or number token.
func (p *Parser) operand() (string, bool) {
	tok := p.current()
	switch tok.Type {
	case TokenIdent, TokenString, TokenNumber:
		p.advance()
		return tok.Value, true
	default:
		return "", false
	}
}

// skipToClause advances past tokens until the next clause keyword or EOF.
func (p *Parser) skipToClause() {
	for {
		switch p.current().Type {
		case TokenOrder, TokenLimit, TokenEOF:
			return
		}
		p.advance()
	}
}

// parseOrderBy parses "BY <col> [ASC|DESC]"; a malformed clause is dropped.
func (p *Parser) parseOrderBy() *OrderBy {
	if p.current().Type != TokenBy {
		return nil
	}
	p.advance()

	if p.current().Type != TokenIdent {
		return nil
	}
	ob := &OrderBy{Column: p.current().Value}
	p.advance()

	switch p.current().Type {
	case TokenAsc:
		p.advance()
	case TokenDesc:
		ob.Desc = true
		p.advance()
	}

	return ob
}

// parseLimit parses the LIMIT count; a malformed count is ignored rather
// than failing the query.
func (p *Parser) parseLimit() *int {
	tok := p.current()
	if tok.Type != TokenNumber {
		return nil
	}
	p.advance()

	n, err := strconv.Atoi(tok.Value)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}
