package parser

import "strings"

// TokenType identifies the kind of token produced by the lexer.
type TokenType int

const (
	TokenEOF     TokenType = iota
	TokenIllegal           // unrecognized character

	TokenIdent      // identifier (column name, table name)
	TokenIntLit     // integer literal
	TokenDecimalLit // numeric literal containing a decimal point
	TokenStrLit     // single-quoted string literal

	TokenEq    // =
	TokenNotEq // != or <>
	TokenLt    // <
	TokenGt    // >
	TokenLtEq  // <=
	TokenGtEq  // >=

	TokenLParen    // (
	TokenRParen    // )
	TokenComma     // ,
	TokenSemicolon // ;
	TokenStar      // *

	TokenSelect
	TokenFrom
	TokenWhere
	TokenInsert
	TokenInto
	TokenValues
	TokenCreate
	TokenTable
	TokenAnd
	TokenOr
	TokenNot
	TokenTrue
	TokenFalse
	TokenNull
	TokenIntegerKW   // INT / INTEGER / SMALLINT / BIGINT
	TokenVarcharKW   // VARCHAR
	TokenDecimalKW   // DECIMAL
	TokenBooleanKW   // BOOLEAN
	TokenTimestampKW // TIMESTAMP
	TokenLimit
	TokenOrder
	TokenBy
	TokenAsc
	TokenDesc
	TokenPrimary
	TokenKey
	TokenMax // MAX, as in VARCHAR(MAX)
)

var tokenNames = map[TokenType]string{
	TokenEOF:         "EOF",
	TokenIllegal:     "ILLEGAL",
	TokenIdent:       "IDENT",
	TokenIntLit:      "INT",
	TokenDecimalLit:  "DECIMAL",
	TokenStrLit:      "STRING",
	TokenEq:          "=",
	TokenNotEq:       "!=",
	TokenLt:          "<",
	TokenGt:          ">",
	TokenLtEq:        "<=",
	TokenGtEq:        ">=",
	TokenLParen:      "(",
	TokenRParen:      ")",
	TokenComma:       ",",
	TokenSemicolon:   ";",
	TokenStar:        "*",
	TokenSelect:      "SELECT",
	TokenFrom:        "FROM",
	TokenWhere:       "WHERE",
	TokenInsert:      "INSERT",
	TokenInto:        "INTO",
	TokenValues:      "VALUES",
	TokenCreate:      "CREATE",
	TokenTable:       "TABLE",
	TokenAnd:         "AND",
	TokenOr:          "OR",
	TokenNot:         "NOT",
	TokenTrue:        "TRUE",
	TokenFalse:       "FALSE",
	TokenNull:        "NULL",
	TokenIntegerKW:   "INTEGER",
	TokenVarcharKW:   "VARCHAR",
	TokenDecimalKW:   "DECIMAL",
	TokenBooleanKW:   "BOOLEAN",
	TokenTimestampKW: "TIMESTAMP",
	TokenLimit:       "LIMIT",
	TokenOrder:       "ORDER",
	TokenBy:          "BY",
	TokenAsc:         "ASC",
	TokenDesc:        "DESC",
	TokenPrimary:     "PRIMARY",
	TokenKey:         "KEY",
	TokenMax:         "MAX",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// Token is a single lexical unit produced by the lexer.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int // byte offset in the input
}

var keywords = map[string]TokenType{
	"SELECT":   TokenSelect,
	"FROM":     TokenFrom,
	"WHERE":    TokenWhere,
	"INSERT":   TokenInsert,
	"INTO":     TokenInto,
	"VALUES":   TokenValues,
	"CREATE":   TokenCreate,
	"TABLE":    TokenTable,
	"AND":      TokenAnd,
	"OR":       TokenOr,
	"NOT":      TokenNot,
	"TRUE":     TokenTrue,
	"FALSE":    TokenFalse,
	"NULL":     TokenNull,
	"SMALLINT": TokenIntegerKW,
	"INT":      TokenIntegerKW,
	"INTEGER":  TokenIntegerKW,
	"BIGINT":   TokenIntegerKW,
	"VARCHAR":  TokenVarcharKW,
	"DECIMAL":  TokenDecimalKW,
	"NUMERIC":  TokenDecimalKW,
	"BOOLEAN":  TokenBooleanKW,
	"TIMESTAMP": TokenTimestampKW,
	"LIMIT":    TokenLimit,
	"ORDER":    TokenOrder,
	"BY":       TokenBy,
	"ASC":      TokenAsc,
	"DESC":     TokenDesc,
	"PRIMARY":  TokenPrimary,
	"KEY":      TokenKey,
	"MAX":      TokenMax,
}

// LookupKeyword returns the keyword token type for ident, or TokenIdent
// if it is not a keyword.
func LookupKeyword(ident string) TokenType {
	if tok, ok := keywords[strings.ToUpper(ident)]; ok {
		return tok
	}
	return TokenIdent
}
