package lexer

import (
	"unicode/utf8"

	"github.com/lhaig/groovyscript/internal/diagnostic"
)

// Lexer scans build-script source and produces tokens on demand.
// It is single-pass and forward-only; re-lexing means creating a new Lexer.
type Lexer struct {
	input        string
	table        *Table
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int  // current line number
	column       int  // current column number
	trivia       []Token
	err          *diagnostic.Error
}

// New creates a new Lexer using the default keyword table
func New(input string) *Lexer {
	return NewWithTable(input, DefaultTable())
}

// NewWithTable creates a new Lexer with a host-provided keyword table
func NewWithTable(input string, table *Table) *Lexer {
	if table == nil {
		table = DefaultTable()
	}
	l := &Lexer{
		input:  input,
		table:  table,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

// Table returns the keyword table the lexer was built with
func (l *Lexer) Table() *Table {
	return l.table
}

// Trivia returns the comments and shebang line seen so far
func (l *Lexer) Trivia() []Token {
	return l.trivia
}

// readChar reads the next character and advances the position
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// peekChar returns the next character without advancing the position
func (l *Lexer) peekChar() byte {
	return l.peekAt(1)
}

// peekAt returns the character n bytes after the current one
func (l *Lexer) peekAt(n int) byte {
	if l.position+n >= len(l.input) {
		return 0
	}
	return l.input[l.position+n]
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

func (l *Lexer) pos() Position {
	return Position{Offset: l.position, Line: l.line, Column: l.column}
}

type lexState struct {
	position, readPosition int
	ch                     byte
	line, column           int
}

func (l *Lexer) save() lexState {
	return lexState{l.position, l.readPosition, l.ch, l.line, l.column}
}

func (l *Lexer) restore(s lexState) {
	l.position, l.readPosition, l.ch, l.line, l.column = s.position, s.readPosition, s.ch, s.line, s.column
}

// skipWhitespace skips whitespace characters
func (l *Lexer) skipWhitespace() {
	for !l.atEOF() && isSpace(l.ch) {
		l.readChar()
	}
}

// emit builds a token from start up to the current position
func (l *Lexer) emit(tt TokenType, start Position) Token {
	return Token{
		Type:    tt,
		Literal: l.input[start.Offset:l.position],
		Span:    Span{Start: start, End: l.pos()},
	}
}

// advance consumes n characters and emits a token of type tt
func (l *Lexer) advance(n int, tt TokenType, start Position) Token {
	for i := 0; i < n; i++ {
		l.readChar()
	}
	return l.emit(tt, start)
}

func (l *Lexer) fail(kind diagnostic.Kind, start Position, format string, args ...interface{}) (Token, error) {
	l.err = diagnostic.Errorf(kind, start.Offset, start.Line, start.Column, format, args...)
	return Token{Type: ILLEGAL, Literal: l.input[start.Offset:l.position], Span: Span{Start: start, End: l.pos()}}, l.err
}

// skipTrivia consumes whitespace, comments and the shebang line,
// recording the non-whitespace pieces. A block comment without its closing
// */ is an error at the opening /*.
func (l *Lexer) skipTrivia() (Token, error) {
	for {
		l.skipWhitespace()
		start := l.pos()
		switch {
		case start.Offset == 0 && l.ch == '#' && l.peekChar() == '!':
			for !l.atEOF() && l.ch != '\n' {
				l.readChar()
			}
			l.trivia = append(l.trivia, l.emit(SHEBANG, start))
		case l.ch == '/' && l.peekChar() == '/':
			for !l.atEOF() && l.ch != '\n' {
				l.readChar()
			}
			l.trivia = append(l.trivia, l.emit(LINE_COMMENT, start))
		case l.ch == '/' && l.peekChar() == '*':
			l.readChar() // consume '/'
			l.readChar() // consume '*'
			closed := false
			for !l.atEOF() {
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar()
					l.readChar()
					closed = true
					break
				}
				l.readChar()
			}
			if !closed {
				tok, err := l.fail(diagnostic.UnexpectedCharacter, start, "unterminated block comment")
				l.err.AtEOF = true
				return tok, err
			}
			l.trivia = append(l.trivia, l.emit(BLOCK_COMMENT, start))
		default:
			return Token{}, nil
		}
	}
}

// Next returns the next significant token. After the first error every
// further call returns the same error.
func (l *Lexer) Next() (Token, error) {
	if l.err != nil {
		p := l.pos()
		return Token{Type: ILLEGAL, Span: Span{Start: p, End: p}}, l.err
	}

	if tok, err := l.skipTrivia(); err != nil {
		return tok, err
	}
	start := l.pos()

	if l.atEOF() {
		return Token{Type: EOF, Span: Span{Start: start, End: start}}, nil
	}

	switch l.ch {
	case '+':
		if l.peekChar() == '=' {
			return l.advance(2, PLUS_ASSIGN, start), nil
		}
		return l.advance(1, PLUS, start), nil
	case '-':
		switch l.peekChar() {
		case '=':
			return l.advance(2, MINUS_ASSIGN, start), nil
		case '>':
			return l.advance(2, ARROW, start), nil
		}
		return l.advance(1, MINUS, start), nil
	case '*':
		if l.peekChar() == '=' {
			return l.advance(2, STAR_ASSIGN, start), nil
		}
		// 2*.5 is multiplication, list*.name is a spread access
		if l.peekChar() == '.' && !isDigit(l.peekAt(2)) {
			return l.advance(2, SPREAD_DOT, start), nil
		}
		return l.advance(1, STAR, start), nil
	case '/':
		if l.peekChar() == '=' {
			return l.advance(2, SLASH_ASSIGN, start), nil
		}
		return l.advance(1, SLASH, start), nil
	case '%':
		if l.peekChar() == '=' {
			return l.advance(2, PERCENT_ASSIGN, start), nil
		}
		return l.advance(1, PERCENT, start), nil
	case '!':
		if l.peekChar() == '=' {
			return l.advance(2, NEQ, start), nil
		}
		return l.advance(1, BANG, start), nil
	case '~':
		return l.advance(1, TILDE, start), nil
	case '<':
		switch {
		case l.peekChar() == '<' && l.peekAt(2) == '=':
			return l.advance(3, SHL_ASSIGN, start), nil
		case l.peekChar() == '<':
			return l.advance(2, SHL, start), nil
		case l.peekChar() == '=':
			return l.advance(2, LEQ, start), nil
		}
		return l.advance(1, LT, start), nil
	case '>':
		switch {
		case l.peekChar() == '>' && l.peekAt(2) == '>' && l.peekAt(3) == '=':
			return l.advance(4, USHR_ASSIGN, start), nil
		case l.peekChar() == '>' && l.peekAt(2) == '>':
			return l.advance(3, USHR, start), nil
		case l.peekChar() == '>' && l.peekAt(2) == '=':
			return l.advance(3, SHR_ASSIGN, start), nil
		case l.peekChar() == '>':
			return l.advance(2, SHR, start), nil
		case l.peekChar() == '=':
			return l.advance(2, GEQ, start), nil
		}
		return l.advance(1, GT, start), nil
	case '=':
		switch l.peekChar() {
		case '=':
			return l.advance(2, EQ, start), nil
		case '~':
			return l.advance(2, REGEX, start), nil
		}
		return l.advance(1, ASSIGN, start), nil
	case '&':
		switch l.peekChar() {
		case '&':
			return l.advance(2, AND, start), nil
		case '=':
			return l.advance(2, AMP_ASSIGN, start), nil
		}
		return l.advance(1, AMP, start), nil
	case '|':
		switch l.peekChar() {
		case '|':
			return l.advance(2, OR, start), nil
		case '=':
			return l.advance(2, PIPE_ASSIGN, start), nil
		}
		return l.advance(1, PIPE, start), nil
	case '^':
		if l.peekChar() == '=' {
			return l.advance(2, CARET_ASSIGN, start), nil
		}
		return l.advance(1, CARET, start), nil
	case '?':
		switch {
		case l.peekChar() == ':':
			return l.advance(2, ELVIS, start), nil
		case l.peekChar() == '.' && !isDigit(l.peekAt(2)):
			return l.advance(2, SAFE_DOT, start), nil
		case l.peekChar() == '=' && l.peekAt(2) != '=':
			return l.advance(2, ELVIS_ASSIGN, start), nil
		}
		return l.advance(1, QUESTION, start), nil
	case ':':
		return l.advance(1, COLON, start), nil
	case '.':
		switch {
		case l.peekChar() == '.' && l.peekAt(2) == '.':
			return l.advance(3, ELLIPSIS, start), nil
		case l.peekChar() == '&':
			return l.advance(2, METHOD_REF, start), nil
		case isDigit(l.peekChar()):
			return l.readNumber(start), nil
		}
		return l.advance(1, DOT, start), nil
	case '(':
		return l.advance(1, LPAREN, start), nil
	case ')':
		return l.advance(1, RPAREN, start), nil
	case '{':
		return l.advance(1, LBRACE, start), nil
	case '}':
		return l.advance(1, RBRACE, start), nil
	case '[':
		return l.advance(1, LBRACKET, start), nil
	case ']':
		return l.advance(1, RBRACKET, start), nil
	case ',':
		return l.advance(1, COMMA, start), nil
	case ';':
		return l.advance(1, SEMICOLON, start), nil
	case '\'':
		if l.peekChar() == '\'' && l.peekAt(2) == '\'' && l.textBlockOpens() {
			return l.readTextBlock(start)
		}
		return l.readSingleQuoted(start)
	case '"':
		return l.readDoubleQuoted(start)
	}

	if isLetter(l.ch) {
		return l.readWord(start), nil
	}
	if isDigit(l.ch) {
		return l.readNumber(start), nil
	}

	r, size := utf8.DecodeRuneInString(l.input[l.position:])
	for i := 0; i < size; i++ {
		l.readChar()
	}
	return l.fail(diagnostic.UnexpectedCharacter, start, "unexpected character %q", r)
}

// readWord reads an identifier, keyword or type name. Keywords win over
// identifiers for the same span.
func (l *Lexer) readWord(start Position) Token {
	word := l.readIdentifier()
	tt := l.table.Lookup(word)

	if l.table.startsCompound(word) {
		saved := l.save()
		if !l.atEOF() && isSpace(l.ch) {
			l.skipWhitespace()
			if isLetter(l.ch) {
				second := l.readIdentifier()
				if ct, ok := l.table.compound(word, second); ok {
					return l.emit(ct, start)
				}
			}
		}
		l.restore(saved)
	}

	return l.emit(tt, start)
}

// readIdentifier reads [A-Za-z_][A-Za-z0-9_]*
func (l *Lexer) readIdentifier() string {
	position := l.position
	for !l.atEOF() && (isLetter(l.ch) || isDigit(l.ch)) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads \d+(\.\d+)? or \.\d+
func (l *Lexer) readNumber(start Position) Token {
	for isDigit(l.ch) && !l.atEOF() {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // consume '.'
		for isDigit(l.ch) && !l.atEOF() {
			l.readChar()
		}
	}

	return l.emit(NUMBER, start)
}

// textBlockOpens reports whether the ''' at the current position is
// followed by optional horizontal whitespace and a newline.
func (l *Lexer) textBlockOpens() bool {
	for i := l.position + 3; i < len(l.input); i++ {
		switch l.input[i] {
		case ' ', '\t', '\r', '\f':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
	return false
}

// readTextBlock reads '''<ws>\n ... ''' preserving embedded newlines
func (l *Lexer) readTextBlock(start Position) (Token, error) {
	l.readChar()
	l.readChar()
	l.readChar()

	for {
		if l.atEOF() {
			return l.fail(diagnostic.UnterminatedLiteral, start, "unterminated text block")
		}
		if l.ch == '\\' {
			l.readChar()
			if l.atEOF() {
				return l.fail(diagnostic.UnterminatedLiteral, start, "unterminated text block")
			}
			l.readChar()
			continue
		}
		if l.ch == '\'' && l.peekChar() == '\'' && l.peekAt(2) == '\'' {
			return l.advance(3, TEXT_BLOCK, start), nil
		}
		l.readChar()
	}
}

// readSingleQuoted reads '...' with backslash escapes and no raw newline
func (l *Lexer) readSingleQuoted(start Position) (Token, error) {
	l.readChar() // opening quote

	for {
		if l.atEOF() || l.ch == '\n' {
			return l.fail(diagnostic.UnterminatedLiteral, start, "unterminated string literal")
		}
		if l.ch == '\\' {
			l.readChar()
			if l.atEOF() {
				return l.fail(diagnostic.UnterminatedLiteral, start, "unterminated string literal")
			}
			l.readChar()
			continue
		}
		if l.ch == '\'' {
			return l.advance(1, STRING, start), nil
		}
		l.readChar()
	}
}

// readDoubleQuoted reads "..." with backslash escapes and ${...} spans.
// The contents of an interpolation span are skipped, not tokenized.
func (l *Lexer) readDoubleQuoted(start Position) (Token, error) {
	l.readChar() // opening quote

	for {
		if l.atEOF() || l.ch == '\n' {
			return l.fail(diagnostic.UnterminatedLiteral, start, "unterminated string literal")
		}
		switch {
		case l.ch == '\\':
			l.readChar()
			if l.atEOF() {
				return l.fail(diagnostic.UnterminatedLiteral, start, "unterminated string literal")
			}
			l.readChar()
		case l.ch == '$' && l.peekChar() == '{':
			l.readChar()
			l.readChar()
			end, ok := interpolationEnd(l.input, l.position)
			for l.position < end {
				l.readChar()
			}
			if !ok {
				return l.fail(diagnostic.UnterminatedLiteral, start, "unterminated string interpolation")
			}
			l.readChar() // closing brace
		case l.ch == '"':
			return l.advance(1, GSTRING, start), nil
		default:
			l.readChar()
		}
	}
}

// Tokenize returns all significant tokens up to and including EOF
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

// Helper functions

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v'
}
