package parser

import (
	"github.com/lhaig/groovyscript/internal/diagnostic"
	"github.com/lhaig/groovyscript/internal/lexer"
)

// bailout unwinds the recursive descent after the first error. It is
// recovered in run and never escapes the package.
type bailout struct{}

// fail records a syntax error at tok and aborts the parse
func (p *Parser) fail(kind diagnostic.Kind, tok lexer.Token, format string, args ...interface{}) {
	start := tok.Span.Start
	err := diagnostic.Errorf(kind, start.Offset, start.Line, start.Column, format, args...)
	err.AtEOF = tok.Type == lexer.EOF
	p.err = err
	panic(bailout{})
}

// failLexical aborts the parse with the lexer's own error
func (p *Parser) failLexical() {
	p.err = p.lexErr
	panic(bailout{})
}

// run executes fn, converting a bailout into the recorded error
func (p *Parser) run(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			err = p.err
		}
	}()
	fn()
	return nil
}

// unexpected reports tok as an invalid statement start
func (p *Parser) unexpected(tok lexer.Token, what string) {
	switch tok.Type {
	case lexer.RPAREN, lexer.RBRACKET, lexer.RBRACE:
		p.fail(diagnostic.UnbalancedDelimiter, tok, "unmatched %q", tok.Literal)
	case lexer.EOF:
		p.fail(diagnostic.UnexpectedToken, tok, "unexpected end of input, expected %s", what)
	default:
		p.fail(diagnostic.UnexpectedToken, tok, "unexpected %s %q, expected %s", tok.Type, tok.Literal, what)
	}
}

// expectClose consumes a closing delimiter opened by open
func (p *Parser) expectClose(tt lexer.TokenType, open lexer.Token) lexer.Token {
	tok := p.current()
	if tok.Type != tt {
		if tok.Type == lexer.EOF {
			p.fail(diagnostic.UnbalancedDelimiter, tok, "unclosed %q opened at %s", open.Literal, open.Span.Start)
		}
		p.fail(diagnostic.UnbalancedDelimiter, tok, "expected %s to close %q at %s, got %q",
			tt, open.Literal, open.Span.Start, tok.Literal)
	}
	return p.advance()
}
