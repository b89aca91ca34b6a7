package parser

import (
	"github.com/lhaig/groovyscript/internal/ast"
	"github.com/lhaig/groovyscript/internal/diagnostic"
	"github.com/lhaig/groovyscript/internal/lexer"
)

// Parser holds the parser state. Tokens are pulled lazily from the lexer
// into a small lookahead buffer; buf[0] is the current token.
type Parser struct {
	lex    *lexer.Lexer
	buf    []lexer.Token
	prev   lexer.Token // last consumed token
	lexErr *diagnostic.Error
	err    *diagnostic.Error
}

// Option configures a Parser
type Option func(*config)

type config struct {
	table *lexer.Table
}

// WithTable sets the keyword and type-name table used by the lexer
func WithTable(t *lexer.Table) Option {
	return func(c *config) {
		c.table = t
	}
}

// New creates a new parser over source
func New(source string, opts ...Option) *Parser {
	cfg := config{table: lexer.DefaultTable()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Parser{lex: lexer.NewWithTable(source, cfg.table)}
}

// Parse parses a whole script. On failure it returns the statements
// completed before the failing one together with the error.
func Parse(source string, opts ...Option) (*ast.Module, error) {
	return New(source, opts...).ParseModule()
}

// ParseExpression parses source as exactly one expression
func ParseExpression(source string, opts ...Option) (ast.Expression, error) {
	p := New(source, opts...)
	var expr ast.Expression
	err := p.run(func() {
		expr = p.parseExpression()
		if tok := p.current(); tok.Type != lexer.EOF {
			p.unexpected(tok, "end of expression")
		}
	})
	if err != nil {
		return nil, err
	}
	return expr, nil
}

// ParseInterpolation parses the source of a ${...} string part. Positions
// in the result are relative to the interpolation text.
func ParseInterpolation(part *ast.StringPart, opts ...Option) (ast.Expression, error) {
	if part == nil || !part.Interpolation {
		return nil, diagnostic.Errorf(diagnostic.ExpectedExpression, 0, 1, 1, "string part is not an interpolation")
	}
	return ParseExpression(part.Text, opts...)
}

// ParseModule parses the token stream into a Module
func (p *Parser) ParseModule() (*ast.Module, error) {
	mod := &ast.Module{}
	err := p.run(func() {
		start := p.current()
		for {
			for p.match(lexer.SEMICOLON) {
			}
			if p.check(lexer.EOF) {
				break
			}
			mod.Statements = append(mod.Statements, p.parseStatement())
			p.match(lexer.SEMICOLON)
		}
		mod.Loc = lexer.Span{Start: start.Span.Start, End: p.current().Span.End}
	})
	return mod, err
}

// Trivia returns the comments and shebang seen so far
func (p *Parser) Trivia() []lexer.Token {
	return p.lex.Trivia()
}

// fill pulls tokens until the buffer holds at least n+1 entries. A lexer
// error is parked as an ILLEGAL token and raised once it becomes current.
func (p *Parser) fill(n int) {
	for len(p.buf) <= n {
		if p.lexErr != nil {
			p.buf = append(p.buf, lexer.Token{Type: lexer.ILLEGAL})
			continue
		}
		tok, err := p.lex.Next()
		if err != nil {
			if lerr, ok := err.(*diagnostic.Error); ok {
				p.lexErr = lerr
			} else {
				p.lexErr = diagnostic.Errorf(diagnostic.UnexpectedCharacter, tok.Span.Start.Offset,
					tok.Span.Start.Line, tok.Span.Start.Column, "%v", err)
			}
			tok.Type = lexer.ILLEGAL
		}
		p.buf = append(p.buf, tok)
	}
}

// current returns the current token
func (p *Parser) current() lexer.Token {
	p.fill(0)
	if p.buf[0].Type == lexer.ILLEGAL {
		p.failLexical()
	}
	return p.buf[0]
}

// peekAt returns the token n positions after the current one without
// consuming anything. A pending lexer error shows up as ILLEGAL.
func (p *Parser) peekAt(n int) lexer.Token {
	p.fill(n)
	return p.buf[n]
}

// peek returns the next token without consuming
func (p *Parser) peek() lexer.Token {
	return p.peekAt(1)
}

// advance moves to the next token and returns the consumed token
func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if tok.Type != lexer.EOF {
		p.buf = p.buf[1:]
	}
	p.prev = tok
	return tok
}

// check returns true if the current token is of the given type
func (p *Parser) check(tt lexer.TokenType) bool {
	return p.current().Type == tt
}

// match consumes the current token if it matches, returns true if consumed
func (p *Parser) match(tt lexer.TokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

// expect consumes the current token if it matches the expected type,
// otherwise aborts with UnexpectedToken
func (p *Parser) expect(tt lexer.TokenType, what string) lexer.Token {
	tok := p.current()
	if tok.Type != tt {
		p.unexpected(tok, what)
	}
	return p.advance()
}

// spanFrom returns the span from start to the last consumed token
func (p *Parser) spanFrom(start lexer.Token) lexer.Span {
	return lexer.Span{Start: start.Span.Start, End: p.prev.Span.End}
}
