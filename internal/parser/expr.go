package parser

import (
	"strings"

	"github.com/lhaig/groovyscript/internal/ast"
	"github.com/lhaig/groovyscript/internal/diagnostic"
	"github.com/lhaig/groovyscript/internal/lexer"
)

// Binary precedence levels, loosest first. Ternary and elvis sit below
// precBitOr and are handled by parseTernary.
const (
	precNone = iota
	precBitOr
	precBitXor
	precBitAnd
	precOr
	precAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMulti
)

func tokenPrecedence(tt lexer.TokenType) int {
	switch tt {
	case lexer.PIPE:
		return precBitOr
	case lexer.CARET:
		return precBitXor
	case lexer.AMP:
		return precBitAnd
	case lexer.OR:
		return precOr
	case lexer.AND:
		return precAnd
	case lexer.EQ, lexer.NEQ:
		return precEquality
	case lexer.GT, lexer.LT, lexer.GEQ, lexer.LEQ, lexer.REGEX, lexer.ARROW:
		return precRelational
	case lexer.SHL, lexer.SHR, lexer.USHR:
		return precShift
	case lexer.PLUS, lexer.MINUS:
		return precAdditive
	case lexer.STAR, lexer.SLASH, lexer.PERCENT:
		return precMulti
	default:
		return precNone
	}
}

func isUnaryOp(tt lexer.TokenType) bool {
	switch tt {
	case lexer.PLUS, lexer.MINUS, lexer.BANG, lexer.TILDE, lexer.STAR:
		return true
	}
	return false
}

func isLink(tt lexer.TokenType) bool {
	switch tt {
	case lexer.DOT, lexer.SAFE_DOT, lexer.METHOD_REF, lexer.SPREAD_DOT:
		return true
	}
	return false
}

func linkKind(tt lexer.TokenType) ast.LinkKind {
	switch tt {
	case lexer.SAFE_DOT:
		return ast.LinkSafe
	case lexer.METHOD_REF:
		return ast.LinkMethodRef
	case lexer.SPREAD_DOT:
		return ast.LinkSpread
	default:
		return ast.LinkDot
	}
}

// isWord reports whether tt is identifier-shaped: an identifier, type name
// or keyword. Keywords are accepted as names after a link or in an import
// path (project.task, org.gradle.api.tasks).
func isWord(tt lexer.TokenType) bool {
	return tt == lexer.IDENT || tt == lexer.TYPE || tt.Class() == lexer.ClassKeyword
}

func isStringToken(tt lexer.TokenType) bool {
	return tt == lexer.STRING || tt == lexer.GSTRING || tt == lexer.TEXT_BLOCK
}

// canStartExpression reports whether tt can begin an expression
func canStartExpression(tt lexer.TokenType) bool {
	switch tt {
	case lexer.IDENT, lexer.TYPE, lexer.NUMBER, lexer.STRING, lexer.GSTRING, lexer.TEXT_BLOCK,
		lexer.TRUE, lexer.FALSE, lexer.NULL, lexer.NEW,
		lexer.LPAREN, lexer.LBRACKET, lexer.LBRACE:
		return true
	}
	return isUnaryOp(tt)
}

// canStartCommandArg reports whether tt can begin the first argument of a
// paren-less call. Brackets, braces and the operators that are also binary
// are excluded so that foo [1] and foo - 1 keep their expression meaning.
func canStartCommandArg(tt lexer.TokenType) bool {
	switch tt {
	case lexer.IDENT, lexer.TYPE, lexer.NUMBER, lexer.STRING, lexer.GSTRING, lexer.TEXT_BLOCK,
		lexer.TRUE, lexer.FALSE, lexer.NULL, lexer.NEW, lexer.BANG, lexer.TILDE:
		return true
	}
	return false
}

// parseExpression parses a full expression
func (p *Parser) parseExpression() ast.Expression {
	return p.parseTernary(p.parseBinary(p.parseUnary(), precBitOr))
}

// continueExpression finishes an expression whose leading operand has
// already been parsed as a postfix chain.
func (p *Parser) continueExpression(left ast.Expression) ast.Expression {
	left = p.parseAsSuffix(left)
	return p.parseTernary(p.parseBinary(left, precBitOr))
}

// parseTernary handles cond ? a : b and a ?: b, both right-associative
func (p *Parser) parseTernary(cond ast.Expression) ast.Expression {
	switch p.current().Type {
	case lexer.QUESTION:
		p.advance()
		then := p.parseExpression()
		if !p.check(lexer.COLON) {
			tok := p.current()
			p.fail(diagnostic.ExpectedExpression, tok, "expected ':' in conditional expression, got %q", tok.Literal)
		}
		p.advance()
		els := p.parseExpression()
		return &ast.TernaryExpression{
			Condition: cond,
			Then:      then,
			Else:      els,
			Loc:       lexer.Span{Start: cond.Span().Start, End: els.Span().End},
		}
	case lexer.ELVIS:
		p.advance()
		right := p.parseExpression()
		return &ast.ElvisExpression{
			Left:  cond,
			Right: right,
			Loc:   lexer.Span{Start: cond.Span().Start, End: right.Span().End},
		}
	}
	return cond
}

// parseBinary is precedence climbing over left as the first operand
func (p *Parser) parseBinary(left ast.Expression, minPrec int) ast.Expression {
	for {
		tok := p.current()
		prec := tokenPrecedence(tok.Type)
		if prec == precNone || prec < minPrec {
			return left
		}
		op := p.advance()
		right := p.parseBinary(p.parseUnary(), prec+1)
		left = &ast.BinaryExpression{
			Left:     left,
			Operator: op.Type,
			Op:       op.Literal,
			Right:    right,
			Loc:      lexer.Span{Start: left.Span().Start, End: right.Span().End},
		}
	}
}

func (p *Parser) parseUnary() ast.Expression {
	if tok := p.current(); isUnaryOp(tok.Type) {
		op := p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpression{
			Operator: op.Type,
			Op:       op.Literal,
			Operand:  operand,
			Loc:      lexer.Span{Start: op.Span.Start, End: operand.Span().End},
		}
	}
	return p.parseAsSuffix(p.parsePostfix())
}

// parseAsSuffix handles expr as Type, binding right after postfix chains
func (p *Parser) parseAsSuffix(expr ast.Expression) ast.Expression {
	for p.check(lexer.AS) {
		p.advance()
		tok := p.current()
		if tok.Type != lexer.TYPE && tok.Type != lexer.IDENT {
			p.unexpected(tok, "type name after 'as'")
		}
		p.advance()
		expr = &ast.AsExpression{
			Expr:       expr,
			TargetType: p.typeName(tok),
			Loc:        lexer.Span{Start: expr.Span().Start, End: tok.Span.End},
		}
	}
	return expr
}

// typeName returns the canonical spelling of a TYPE token
func (p *Parser) typeName(tok lexer.Token) string {
	if tok.Type == lexer.TYPE {
		if canon, ok := p.lex.Table().CanonicalType(tok.Literal); ok {
			return canon
		}
	}
	return tok.Literal
}

// parsePostfix parses a primary followed by subscripts and chain links.
// Consecutive links are collected into one flat ChainExpression.
func (p *Parser) parsePostfix() ast.Expression {
	return p.parsePostfixFrom(p.parsePrimary())
}

func (p *Parser) parsePostfixFrom(head ast.Expression) ast.Expression {
	head = p.parseSubscripts(head)

	var links []*ast.ChainLink
	for isLink(p.current().Type) {
		linkTok := p.advance()
		seg := p.parseSegment()
		links = append(links, &ast.ChainLink{
			Link:    linkKind(linkTok.Type),
			Segment: seg,
			Loc:     lexer.Span{Start: linkTok.Span.Start, End: seg.Span().End},
		})
	}
	if len(links) == 0 {
		return head
	}
	return &ast.ChainExpression{
		Head:  head,
		Links: links,
		Loc:   lexer.Span{Start: head.Span().Start, End: links[len(links)-1].Loc.End},
	}
}

func (p *Parser) parseSubscripts(expr ast.Expression) ast.Expression {
	for p.check(lexer.LBRACKET) {
		open := p.advance()
		index := p.parseExpression()
		p.expectClose(lexer.RBRACKET, open)
		expr = &ast.IndexExpression{
			Target: expr,
			Index:  index,
			Loc:    lexer.Span{Start: expr.Span().Start, End: p.prev.Span.End},
		}
	}
	return expr
}

// parseSegment parses what follows a link operator: a name, a string key,
// name[expr], name(args), name(args) { closure } or name { closure }
func (p *Parser) parseSegment() ast.Expression {
	tok := p.current()
	var seg ast.Expression
	switch {
	case isWord(tok.Type):
		p.advance()
		seg = p.parseNameTail(tok, true)
	case isStringToken(tok.Type):
		p.advance()
		seg = p.stringLiteral(tok)
	default:
		if tok.Type == lexer.EOF {
			p.fail(diagnostic.ExpectedExpression, tok, "expected name after link operator")
		}
		p.fail(diagnostic.ExpectedExpression, tok, "expected name after link operator, got %q", tok.Literal)
	}
	return p.parseSubscripts(seg)
}

// parseNameTail resolves a consumed name token into a call or identifier.
// Trial order: parenthesized call, then trailing-closure call.
func (p *Parser) parseNameTail(name lexer.Token, allowClosure bool) ast.Expression {
	switch p.current().Type {
	case lexer.LPAREN:
		args := p.parseArgList()
		call := &ast.FunctionCall{
			Name:    name.Literal,
			NameLoc: name.Span,
			Args:    args,
			Style:   ast.CallParenthesized,
		}
		if allowClosure && p.check(lexer.LBRACE) {
			call.TrailingClosure = p.parseClosure()
		}
		call.Loc = p.spanFrom(name)
		return call
	case lexer.LBRACE:
		if !allowClosure {
			break
		}
		closure := p.parseClosure()
		return &ast.FunctionCall{
			Name:            name.Literal,
			NameLoc:         name.Span,
			Style:           ast.CallClosureOnly,
			TrailingClosure: closure,
			Loc:             p.spanFrom(name),
		}
	}
	return &ast.Identifier{Name: name.Literal, Loc: name.Span}
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.current()

	switch tok.Type {
	case lexer.IDENT:
		p.advance()
		if p.check(lexer.ELLIPSIS) {
			return p.parseSpread(tok)
		}
		return p.parseNameTail(tok, true)

	case lexer.TYPE:
		p.advance()
		if p.check(lexer.ELLIPSIS) {
			return p.parseSpread(tok)
		}
		if p.check(lexer.LPAREN) {
			return p.parseNameTail(tok, true)
		}
		return &ast.Identifier{Name: p.typeName(tok), Loc: tok.Span}

	case lexer.NUMBER:
		p.advance()
		return &ast.NumberLiteral{
			Raw:     tok.Literal,
			Decimal: strings.Contains(tok.Literal, "."),
			Loc:     tok.Span,
		}

	case lexer.STRING, lexer.GSTRING, lexer.TEXT_BLOCK:
		p.advance()
		return p.stringLiteral(tok)

	case lexer.TRUE, lexer.FALSE:
		p.advance()
		return &ast.BooleanLiteral{Value: tok.Type == lexer.TRUE, Loc: tok.Span}

	case lexer.NULL:
		p.advance()
		return &ast.NullLiteral{Loc: tok.Span}

	case lexer.LPAREN:
		open := p.advance()
		expr := p.parseExpression()
		p.expectClose(lexer.RPAREN, open)
		return expr

	case lexer.LBRACKET:
		return p.parseArrayLiteral()

	case lexer.LBRACE:
		return p.parseClosure()

	case lexer.NEW:
		return p.parseNewExpression()

	case lexer.RPAREN, lexer.RBRACKET, lexer.RBRACE:
		p.fail(diagnostic.ExpectedExpression, tok, "expected expression, got %q", tok.Literal)

	case lexer.EOF:
		p.fail(diagnostic.ExpectedExpression, tok, "expected expression, got end of input")
	}

	p.fail(diagnostic.ExpectedExpression, tok, "expected expression, got %s %q", tok.Type, tok.Literal)
	return nil
}

// parseSpread parses Type... name after the type token was consumed
func (p *Parser) parseSpread(typ lexer.Token) ast.Expression {
	p.advance() // ...
	name := p.current()
	if name.Type != lexer.IDENT {
		p.fail(diagnostic.ExpectedExpression, name, "expected name after '...', got %q", name.Literal)
	}
	p.advance()
	return &ast.SpreadExpression{
		TypeName: p.typeName(typ),
		Name:     name.Literal,
		Loc:      lexer.Span{Start: typ.Span.Start, End: name.Span.End},
	}
}

// isNamedArgStart reports whether the current token begins key: value
func (p *Parser) isNamedArgStart() bool {
	tt := p.current().Type
	return (isWord(tt) || tt == lexer.STRING || tt == lexer.GSTRING) && p.peek().Type == lexer.COLON
}

// parseArgument parses a positional argument or a key: value entry
func (p *Parser) parseArgument() ast.Expression {
	if p.isNamedArgStart() {
		keyTok := p.advance()
		var key ast.Expression
		if isStringToken(keyTok.Type) {
			key = p.stringLiteral(keyTok)
		} else {
			key = &ast.Identifier{Name: keyTok.Literal, Loc: keyTok.Span}
		}
		p.advance() // :
		value := p.parseExpression()
		return &ast.MapEntry{
			Key:   key,
			Value: value,
			Loc:   lexer.Span{Start: keyTok.Span.Start, End: value.Span().End},
		}
	}
	return p.parseExpression()
}

// parseArgList parses ( [arg {, arg} [,]] )
func (p *Parser) parseArgList() []ast.Expression {
	open := p.advance() // (
	args := []ast.Expression{}
	for !p.check(lexer.RPAREN) {
		if p.check(lexer.EOF) {
			p.expectClose(lexer.RPAREN, open)
		}
		args = append(args, p.parseArgument())
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expectClose(lexer.RPAREN, open)
	return args
}

// parseCommandArgs parses the comma-separated arguments of a paren-less call
func (p *Parser) parseCommandArgs() []ast.Expression {
	args := []ast.Expression{p.parseArgument()}
	for p.match(lexer.COMMA) {
		args = append(args, p.parseArgument())
	}
	return args
}

// parseArrayLiteral parses [a, b], [k: v, ...] and [:]
func (p *Parser) parseArrayLiteral() ast.Expression {
	open := p.advance() // [

	if p.check(lexer.COLON) && p.peek().Type == lexer.RBRACKET {
		p.advance()
		p.advance()
		return &ast.ArrayLiteral{EmptyMap: true, Loc: p.spanFrom(open)}
	}

	elems := []ast.Expression{}
	for !p.check(lexer.RBRACKET) {
		if p.check(lexer.EOF) {
			p.expectClose(lexer.RBRACKET, open)
		}
		elems = append(elems, p.parseArgument())
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expectClose(lexer.RBRACKET, open)
	return &ast.ArrayLiteral{Elements: elems, Loc: p.spanFrom(open)}
}

// parseNewExpression parses new a.b.T [(args)] [{ closure }]
func (p *Parser) parseNewExpression() ast.Expression {
	newTok := p.advance()

	first := p.current()
	if first.Type != lexer.IDENT && first.Type != lexer.TYPE {
		p.fail(diagnostic.ExpectedExpression, first, "expected type name after 'new', got %q", first.Literal)
	}
	p.advance()
	var target ast.Expression = &ast.Identifier{Name: p.typeName(first), Loc: first.Span}

	var links []*ast.ChainLink
	for p.check(lexer.DOT) && isWord(p.peek().Type) {
		dot := p.advance()
		name := p.advance()
		links = append(links, &ast.ChainLink{
			Link:    ast.LinkDot,
			Segment: &ast.Identifier{Name: p.typeName(name), Loc: name.Span},
			Loc:     lexer.Span{Start: dot.Span.Start, End: name.Span.End},
		})
	}
	if len(links) > 0 {
		target = &ast.ChainExpression{
			Head:  target,
			Links: links,
			Loc:   lexer.Span{Start: first.Span.Start, End: p.prev.Span.End},
		}
	}

	expr := &ast.NewExpression{Target: target}
	if p.check(lexer.LPAREN) {
		expr.Args = p.parseArgList()
		expr.HasArgs = true
		if p.check(lexer.LBRACE) {
			expr.TrailingClosure = p.parseClosure()
		}
	}
	expr.Loc = p.spanFrom(newTok)
	return expr
}

// maxHeaderScan bounds the closure parameter lookahead
const maxHeaderScan = 24

// closureHeaderAt reports whether the LBRACE at lookahead index i opens a
// closure parameter header: { -> or { [def|Type] [...] name {, ...} ->
// Parameter defaults are only recognized in function definitions.
func (p *Parser) closureHeaderAt(i int) bool {
	j := i + 1
	if p.peekAt(j).Type == lexer.ARROW {
		return true
	}
	for j-i < maxHeaderScan {
		t := p.peekAt(j).Type
		switch {
		case t == lexer.DEF || t == lexer.TYPE:
			j++
		case t == lexer.IDENT:
			if next := p.peekAt(j + 1).Type; next == lexer.IDENT || next == lexer.ELLIPSIS {
				j++
			}
		}
		if p.peekAt(j).Type == lexer.ELLIPSIS {
			j++
		}
		if p.peekAt(j).Type != lexer.IDENT {
			return false
		}
		j++
		switch p.peekAt(j).Type {
		case lexer.ARROW:
			return true
		case lexer.COMMA:
			j++
		default:
			return false
		}
	}
	return false
}

// parseClosure parses { [params ->] statements }
func (p *Parser) parseClosure() *ast.Closure {
	open := p.current()
	closure := &ast.Closure{}
	if p.closureHeaderAt(0) {
		p.advance() // {
		closure.HasArrow = true
		for !p.check(lexer.ARROW) {
			closure.Params = append(closure.Params, p.parseParameter())
			if !p.match(lexer.COMMA) {
				break
			}
		}
		p.expect(lexer.ARROW, "'->' after closure parameters")
	} else {
		p.advance() // {
	}
	closure.Body = p.parseStatementsUntilBrace(open)
	closure.Loc = p.spanFrom(open)
	return closure
}

// parseParameter parses [def|Type] [...] name [= default]
func (p *Parser) parseParameter() *ast.Parameter {
	start := p.current()
	param := &ast.Parameter{}

	switch start.Type {
	case lexer.DEF:
		p.advance()
		param.TypeName = "def"
	case lexer.TYPE:
		p.advance()
		param.TypeName = p.typeName(start)
	case lexer.IDENT:
		if next := p.peek().Type; next == lexer.IDENT || next == lexer.ELLIPSIS {
			p.advance()
			param.TypeName = start.Literal
		}
	}
	if param.TypeName != "" && p.match(lexer.ELLIPSIS) {
		param.Variadic = true
	}

	name := p.expect(lexer.IDENT, "parameter name")
	param.Name = name.Literal

	if p.match(lexer.ASSIGN) {
		param.Default = p.parseExpression()
	}
	param.Loc = p.spanFrom(start)
	return param
}

// stringLiteral builds a StringLiteral from a string token. Single-quoted
// and double-quoted text is unescaped; text blocks keep their body verbatim.
func (p *Parser) stringLiteral(tok lexer.Token) *ast.StringLiteral {
	lit := &ast.StringLiteral{Raw: tok.Literal, Loc: tok.Span}
	switch tok.Type {
	case lexer.GSTRING:
		lit.Sub = ast.DoubleQuoted
	case lexer.TEXT_BLOCK:
		lit.Sub = ast.TextBlock
	default:
		lit.Sub = ast.SingleQuoted
	}

	for _, part := range lexer.SplitString(tok) {
		text := part.Raw
		if !part.Interpolation && lit.Sub != ast.TextBlock {
			text = lexer.Unescape(part.Raw)
		}
		lit.Parts = append(lit.Parts, &ast.StringPart{
			Text:          text,
			Interpolation: part.Interpolation,
			Loc: lexer.Span{
				Start: positionWithin(tok, part.Offset),
				End:   positionWithin(tok, part.Offset+len(part.Raw)),
			},
		})
	}
	return lit
}

// positionWithin maps a byte offset inside tok to a full position
func positionWithin(tok lexer.Token, offset int) lexer.Position {
	pos := tok.Span.Start
	rel := offset - pos.Offset
	if rel > len(tok.Literal) {
		rel = len(tok.Literal)
	}
	for i := 0; i < rel; i++ {
		if tok.Literal[i] == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	pos.Offset = offset
	return pos
}
