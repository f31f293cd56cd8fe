// Package parser implements a recursive-descent parser for the
// trivial SQL dialect this database executes: CREATE TABLE, INSERT,
// and SELECT with WHERE/ORDER BY/LIMIT.
package parser

import (
	"fmt"
	"strconv"
)

// parser holds parse state: the lexer and a one-token lookahead.
type parser struct {
	lex *Lexer
	cur Token
}

// Parse parses a single SQL statement from sql and returns its AST.
func Parse(sql string) (Statement, error) {
	p := &parser{lex: NewLexer(sql)}
	p.next()
	return p.parseStatement()
}

func (p *parser) next() {
	p.cur = p.lex.NextToken()
}

func (p *parser) expect(t TokenType) (Token, error) {
	if p.cur.Type != t {
		return Token{}, p.unexpected(t)
	}
	tok := p.cur
	p.next()
	return tok, nil
}

func (p *parser) unexpected(want ...TokenType) error {
	if len(want) == 0 {
		return fmt.Errorf("unexpected token %q at position %d", p.cur.Literal, p.cur.Pos)
	}
	return fmt.Errorf("expected %s but found %q at position %d", want[0], p.cur.Literal, p.cur.Pos)
}

func (p *parser) parseStatement() (Statement, error) {
	switch p.cur.Type {
	case TokenCreate:
		return p.parseCreateTable()
	case TokenInsert:
		return p.parseInsert()
	case TokenSelect:
		return p.parseSelect()
	default:
		return nil, fmt.Errorf("unsupported statement starting with %q", p.cur.Literal)
	}
}

// ---------------------------------------------------------------------------
// CREATE TABLE
// ---------------------------------------------------------------------------

func (p *parser) parseCreateTable() (*CreateTableStmt, error) {
	p.next() // consume CREATE
	if _, err := p.expect(TokenTable); err != nil {
		return nil, err
	}
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}

	var cols []ColumnDef
	for {
		col, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
		if p.cur.Type == TokenComma {
			p.next()
			continue
		}
		break
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return &CreateTableStmt{Name: name, Columns: cols}, nil
}

func (p *parser) parseColumnDef() (ColumnDef, error) {
	name, err := p.parseIdent()
	if err != nil {
		return ColumnDef{}, err
	}

	var col ColumnDef
	col.Name = name

	switch p.cur.Type {
	case TokenIntegerKW:
		col.DataType = "INTEGER"
		p.next()
	case TokenBooleanKW:
		col.DataType = "BOOLEAN"
		p.next()
	case TokenTimestampKW:
		col.DataType = "TIMESTAMP"
		p.next()
	case TokenDecimalKW:
		col.DataType = "DECIMAL"
		p.next()
		if p.cur.Type == TokenLParen {
			p.next()
			if _, err := p.expect(TokenIntLit); err != nil {
				return ColumnDef{}, err
			}
			if p.cur.Type == TokenComma {
				p.next()
				if _, err := p.expect(TokenIntLit); err != nil {
					return ColumnDef{}, err
				}
			}
			if _, err := p.expect(TokenRParen); err != nil {
				return ColumnDef{}, err
			}
		}
	case TokenVarcharKW:
		col.DataType = "VARCHAR"
		p.next()
		col.Length = 255
		if p.cur.Type == TokenLParen {
			p.next()
			if p.cur.Type == TokenMax {
				p.next()
			} else {
				tok, err := p.expect(TokenIntLit)
				if err != nil {
					return ColumnDef{}, err
				}
				n, err := strconv.Atoi(tok.Literal)
				if err != nil {
					return ColumnDef{}, fmt.Errorf("invalid VARCHAR length %q", tok.Literal)
				}
				col.Length = n
			}
			if _, err := p.expect(TokenRParen); err != nil {
				return ColumnDef{}, err
			}
		}
	default:
		return ColumnDef{}, fmt.Errorf("unsupported data type %q at position %d", p.cur.Literal, p.cur.Pos)
	}

	for {
		switch p.cur.Type {
		case TokenPrimary:
			p.next()
			if _, err := p.expect(TokenKey); err != nil {
				return ColumnDef{}, err
			}
			col.PrimaryKey = true
		case TokenNull:
			// Preserves the reference system's reversed polarity: an
			// explicit NULL option marks the column nullable.
			p.next()
			col.Nullable = true
		case TokenNot:
			p.next()
			if _, err := p.expect(TokenNull); err != nil {
				return ColumnDef{}, err
			}
			col.Nullable = false
		default:
			return col, nil
		}
	}
}

// ---------------------------------------------------------------------------
// INSERT
// ---------------------------------------------------------------------------

func (p *parser) parseInsert() (*InsertStmt, error) {
	p.next() // consume INSERT
	if _, err := p.expect(TokenInto); err != nil {
		return nil, err
	}
	table, err := p.parseIdent()
	if err != nil {
		return nil, err
	}

	stmt := &InsertStmt{Table: table}

	if p.cur.Type == TokenLParen {
		p.next()
		for {
			col, err := p.parseIdent()
			if err != nil {
				return nil, err
			}
			stmt.Columns = append(stmt.Columns, col)
			if p.cur.Type == TokenComma {
				p.next()
				continue
			}
			break
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(TokenValues); err != nil {
		return nil, err
	}

	for {
		if _, err := p.expect(TokenLParen); err != nil {
			return nil, err
		}
		var tuple []Expr
		for {
			v, err := p.parseLiteral()
			if err != nil {
				return nil, err
			}
			tuple = append(tuple, v)
			if p.cur.Type == TokenComma {
				p.next()
				continue
			}
			break
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		stmt.Values = append(stmt.Values, tuple)

		if p.cur.Type == TokenComma {
			p.next()
			continue
		}
		break
	}

	return stmt, nil
}

func (p *parser) parseLiteral() (Expr, error) {
	switch p.cur.Type {
	case TokenIntLit:
		n, err := strconv.ParseInt(p.cur.Literal, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer literal %q", p.cur.Literal)
		}
		p.next()
		return &IntegerLit{Value: n}, nil
	case TokenDecimalLit:
		f, err := strconv.ParseFloat(p.cur.Literal, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid decimal literal %q", p.cur.Literal)
		}
		p.next()
		return &DecimalLit{Value: f}, nil
	case TokenStrLit:
		s := p.cur.Literal
		p.next()
		return &StringLit{Value: s}, nil
	case TokenTrue:
		p.next()
		return &BoolLit{Value: true}, nil
	case TokenFalse:
		p.next()
		return &BoolLit{Value: false}, nil
	case TokenNull:
		p.next()
		return &NullLit{}, nil
	default:
		return nil, fmt.Errorf("unsupported literal %q at position %d", p.cur.Literal, p.cur.Pos)
	}
}

// ---------------------------------------------------------------------------
// SELECT
// ---------------------------------------------------------------------------

func (p *parser) parseSelect() (*SelectStmt, error) {
	p.next() // consume SELECT
	stmt := &SelectStmt{}

	if p.cur.Type == TokenStar {
		p.next()
		stmt.Columns = []Expr{&StarExpr{}}
	} else {
		for {
			name, err := p.parseIdent()
			if err != nil {
				return nil, err
			}
			stmt.Columns = append(stmt.Columns, &ColumnRef{Name: name})
			if p.cur.Type == TokenComma {
				p.next()
				continue
			}
			break
		}
	}

	if _, err := p.expect(TokenFrom); err != nil {
		return nil, err
	}
	table, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	stmt.From = table

	if p.cur.Type == TokenWhere {
		p.next()
		where, err := p.parseOrExpr()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	if p.cur.Type == TokenOrder {
		p.next()
		if _, err := p.expect(TokenBy); err != nil {
			return nil, err
		}
		for {
			name, err := p.parseIdent()
			if err != nil {
				return nil, err
			}
			term := OrderTerm{Column: &ColumnRef{Name: name}}
			if p.cur.Type == TokenDesc {
				term.Desc = true
				p.next()
			} else if p.cur.Type == TokenAsc {
				p.next()
			}
			stmt.OrderBy = append(stmt.OrderBy, term)
			if p.cur.Type == TokenComma {
				p.next()
				continue
			}
			break
		}
	}

	if p.cur.Type == TokenLimit {
		p.next()
		tok, err := p.expect(TokenIntLit)
		if err != nil {
			return nil, err
		}
		n, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid LIMIT value %q", tok.Literal)
		}
		stmt.Limit = &n
	}

	return stmt, nil
}

// Expression precedence, loosest to tightest: OR, AND, comparison,
// primary. There is no arithmetic in this grammar — WHERE exists only
// to be parsed, not evaluated (see SelectStmt doc comment).

func (p *parser) parseOrExpr() (Expr, error) {
	left, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == TokenOr {
		p.next()
		right, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: "OR", Right: right}
	}
	return left, nil
}

func (p *parser) parseAndExpr() (Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == TokenAnd {
		p.next()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: "AND", Right: right}
	}
	return left, nil
}

var comparisonOps = map[TokenType]string{
	TokenEq:    "=",
	TokenNotEq: "!=",
	TokenLt:    "<",
	TokenGt:    ">",
	TokenLtEq:  "<=",
	TokenGtEq:  ">=",
}

func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	if op, ok := comparisonOps[p.cur.Type]; ok {
		p.next()
		right, err := p.parsePrimaryExpr()
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Left: left, Op: op, Right: right}, nil
	}
	return left, nil
}

func (p *parser) parsePrimaryExpr() (Expr, error) {
	switch p.cur.Type {
	case TokenLParen:
		p.next()
		e, err := p.parseOrExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return e, nil
	case TokenIdent:
		name := p.cur.Literal
		p.next()
		return &ColumnRef{Name: name}, nil
	default:
		return p.parseLiteral()
	}
}

// parseIdent accepts an identifier token as a name.
func (p *parser) parseIdent() (string, error) {
	if p.cur.Type != TokenIdent {
		return "", p.unexpected(TokenIdent)
	}
	name := p.cur.Literal
	p.next()
	return name, nil
}
