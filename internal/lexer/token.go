package lexer

import "fmt"

// TokenType represents the type of a token
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF

	// Literals
	IDENT      // x, myVariable
	NUMBER     // 123, 1.5, .5
	STRING     // 'single quoted'
	GSTRING    // "double quoted ${interpolated}"
	TEXT_BLOCK // '''...'''

	// Trivia
	LINE_COMMENT  // // ...
	BLOCK_COMMENT // /* ... */
	SHEBANG       // #!/usr/bin/env groovy

	// Keywords
	IF
	ELSE_IF
	ELSE
	IMPORT
	AS
	RETURN
	THROW
	NEW
	STATIC
	DEF
	VAR
	TASK
	TRUE
	FALSE
	NULL
	FINAL
	RESERVED // word added to the keyword table by a host

	// Type names
	TYPE // String, Integer, Boolean, Object

	// Operators
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	PERCENT // %
	BANG    // !
	TILDE   // ~
	LT      // <
	GT      // >
	LEQ     // <=
	GEQ     // >=
	EQ      // ==
	NEQ     // !=
	REGEX   // =~
	ARROW   // ->
	AND     // &&
	OR      // ||
	AMP     // &
	PIPE    // |
	CARET   // ^
	SHL     // <<
	SHR     // >>
	USHR    // >>>

	// Assignment operators
	ASSIGN         // =
	PLUS_ASSIGN    // +=
	MINUS_ASSIGN   // -=
	STAR_ASSIGN    // *=
	SLASH_ASSIGN   // /=
	PERCENT_ASSIGN // %=
	AMP_ASSIGN     // &=
	PIPE_ASSIGN    // |=
	CARET_ASSIGN   // ^=
	ELVIS_ASSIGN   // ?=
	SHL_ASSIGN     // <<=
	SHR_ASSIGN     // >>=
	USHR_ASSIGN    // >>>=

	QUESTION // ?
	COLON    // :
	ELVIS    // ?:

	// Chain links
	DOT        // .
	SAFE_DOT   // ?.
	METHOD_REF // .&
	SPREAD_DOT // *.
	ELLIPSIS   // ...

	// Delimiters
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
	COMMA     // ,
	SEMICOLON // ;
)

var tokenNames = map[TokenType]string{
	ILLEGAL:        "ILLEGAL",
	EOF:            "EOF",
	IDENT:          "IDENT",
	NUMBER:         "NUMBER",
	STRING:         "STRING",
	GSTRING:        "GSTRING",
	TEXT_BLOCK:     "TEXT_BLOCK",
	LINE_COMMENT:   "LINE_COMMENT",
	BLOCK_COMMENT:  "BLOCK_COMMENT",
	SHEBANG:        "SHEBANG",
	IF:             "IF",
	ELSE_IF:        "ELSE_IF",
	ELSE:           "ELSE",
	IMPORT:         "IMPORT",
	AS:             "AS",
	RETURN:         "RETURN",
	THROW:          "THROW",
	NEW:            "NEW",
	STATIC:         "STATIC",
	DEF:            "DEF",
	VAR:            "VAR",
	TASK:           "TASK",
	TRUE:           "TRUE",
	FALSE:          "FALSE",
	NULL:           "NULL",
	FINAL:          "FINAL",
	RESERVED:       "RESERVED",
	TYPE:           "TYPE",
	PLUS:           "PLUS",
	MINUS:          "MINUS",
	STAR:           "STAR",
	SLASH:          "SLASH",
	PERCENT:        "PERCENT",
	BANG:           "BANG",
	TILDE:          "TILDE",
	LT:             "LT",
	GT:             "GT",
	LEQ:            "LEQ",
	GEQ:            "GEQ",
	EQ:             "EQ",
	NEQ:            "NEQ",
	REGEX:          "REGEX",
	ARROW:          "ARROW",
	AND:            "AND",
	OR:             "OR",
	AMP:            "AMP",
	PIPE:           "PIPE",
	CARET:          "CARET",
	SHL:            "SHL",
	SHR:            "SHR",
	USHR:           "USHR",
	ASSIGN:         "ASSIGN",
	PLUS_ASSIGN:    "PLUS_ASSIGN",
	MINUS_ASSIGN:   "MINUS_ASSIGN",
	STAR_ASSIGN:    "STAR_ASSIGN",
	SLASH_ASSIGN:   "SLASH_ASSIGN",
	PERCENT_ASSIGN: "PERCENT_ASSIGN",
	AMP_ASSIGN:     "AMP_ASSIGN",
	PIPE_ASSIGN:    "PIPE_ASSIGN",
	CARET_ASSIGN:   "CARET_ASSIGN",
	ELVIS_ASSIGN:   "ELVIS_ASSIGN",
	SHL_ASSIGN:     "SHL_ASSIGN",
	SHR_ASSIGN:     "SHR_ASSIGN",
	USHR_ASSIGN:    "USHR_ASSIGN",
	QUESTION:       "QUESTION",
	COLON:          "COLON",
	ELVIS:          "ELVIS",
	DOT:            "DOT",
	SAFE_DOT:       "SAFE_DOT",
	METHOD_REF:     "METHOD_REF",
	SPREAD_DOT:     "SPREAD_DOT",
	ELLIPSIS:       "ELLIPSIS",
	LPAREN:         "LPAREN",
	RPAREN:         "RPAREN",
	LBRACE:         "LBRACE",
	RBRACE:         "RBRACE",
	LBRACKET:       "LBRACKET",
	RBRACKET:       "RBRACKET",
	COMMA:          "COMMA",
	SEMICOLON:      "SEMICOLON",
}

// String returns a string representation of the token type
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// IsAssignment reports whether the type is one of the assignment operators
func (t TokenType) IsAssignment() bool {
	return t >= ASSIGN && t <= USHR_ASSIGN
}

// IsTrivia reports whether the type is a comment or shebang
func (t TokenType) IsTrivia() bool {
	return t == LINE_COMMENT || t == BLOCK_COMMENT || t == SHEBANG
}

// Class is the coarse token category exposed to tooling
type Class int

const (
	ClassInvalid Class = iota
	ClassIdentifier
	ClassKeyword
	ClassTypeName
	ClassNumber
	ClassString
	ClassTextBlock
	ClassOperator
	ClassPunctuation
	ClassComment
	ClassShebang
	ClassEOF
)

func (c Class) String() string {
	switch c {
	case ClassIdentifier:
		return "identifier"
	case ClassKeyword:
		return "keyword"
	case ClassTypeName:
		return "type-name"
	case ClassNumber:
		return "number"
	case ClassString:
		return "string-literal"
	case ClassTextBlock:
		return "text-block"
	case ClassOperator:
		return "operator"
	case ClassPunctuation:
		return "punctuation"
	case ClassComment:
		return "comment"
	case ClassShebang:
		return "shebang"
	case ClassEOF:
		return "eof"
	default:
		return "invalid"
	}
}

// Class returns the coarse category of the token type
func (t TokenType) Class() Class {
	switch {
	case t == IDENT:
		return ClassIdentifier
	case t >= IF && t <= RESERVED:
		return ClassKeyword
	case t == TYPE:
		return ClassTypeName
	case t == NUMBER:
		return ClassNumber
	case t == STRING || t == GSTRING:
		return ClassString
	case t == TEXT_BLOCK:
		return ClassTextBlock
	case t == LINE_COMMENT || t == BLOCK_COMMENT:
		return ClassComment
	case t == SHEBANG:
		return ClassShebang
	case t == EOF:
		return ClassEOF
	case t >= PLUS && t <= ELLIPSIS:
		return ClassOperator
	case t >= LPAREN && t <= SEMICOLON:
		return ClassPunctuation
	default:
		return ClassInvalid
	}
}

// Position is a location in the source text. Offset is a byte offset,
// Line and Column are 1-based.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is the half-open source range [Start, End) of a token or node
type Span struct {
	Start Position
	End   Position
}

// To returns the span from the start of s to the end of other
func (s Span) To(other Span) Span {
	return Span{Start: s.Start, End: other.End}
}

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string // raw source text of the token
	Span    Span
}

// Class returns the coarse category of the token
func (t Token) Class() Class {
	return t.Type.Class()
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Type, t.Literal, t.Span.Start)
}
