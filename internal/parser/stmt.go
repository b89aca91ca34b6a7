package parser

import (
	"github.com/lhaig/groovyscript/internal/ast"
	"github.com/lhaig/groovyscript/internal/diagnostic"
	"github.com/lhaig/groovyscript/internal/lexer"
)

// parseStatement dispatches on the statement's first token. The trial
// order for ambiguous starts is fixed:
//
//	import, if, return, throw
//	[static] def|Type name(   function definition
//	[final] def|var|Type name variable definition, optionally assigned
//	task name                 task definition
//	identifier                assignment, block operation, calls, expression
//	any expression start      expression statement
func (p *Parser) parseStatement() ast.Statement {
	tok := p.current()

	switch tok.Type {
	case lexer.IMPORT:
		return p.parseImport()
	case lexer.IF:
		return p.parseIf()
	case lexer.RETURN:
		return p.parseReturn()
	case lexer.THROW:
		return p.parseThrow()
	case lexer.STATIC:
		return p.parseFunctionDefinition()
	case lexer.FINAL:
		return p.parseVariableStatement()
	case lexer.DEF:
		if p.peek().Type == lexer.IDENT && p.peekAt(2).Type == lexer.LPAREN {
			return p.parseFunctionDefinition()
		}
		return p.parseVariableStatement()
	case lexer.VAR:
		return p.parseVariableStatement()
	case lexer.TYPE:
		switch {
		case p.peek().Type == lexer.IDENT && p.peekAt(2).Type == lexer.LPAREN:
			return p.parseFunctionDefinition()
		case p.peek().Type == lexer.IDENT:
			return p.parseVariableStatement()
		}
		return p.parseExpressionStatement()
	case lexer.TASK:
		return p.parseTask()
	case lexer.IDENT:
		return p.parseIdentStatement()
	case lexer.ELSE, lexer.ELSE_IF:
		p.fail(diagnostic.UnexpectedToken, tok, "%q without a matching if", tok.Literal)
	}

	if canStartExpression(tok.Type) {
		return p.parseExpressionStatement()
	}
	p.unexpected(tok, "statement")
	return nil
}

// parseStatementsUntilBrace parses statements up to the closing brace of
// open and consumes it. Empty bodies are allowed.
func (p *Parser) parseStatementsUntilBrace(open lexer.Token) []ast.Statement {
	stmts := []ast.Statement{}
	for {
		for p.match(lexer.SEMICOLON) {
		}
		if p.check(lexer.RBRACE) {
			p.advance()
			return stmts
		}
		if p.check(lexer.EOF) {
			p.expectClose(lexer.RBRACE, open)
		}
		stmts = append(stmts, p.parseStatement())
		p.match(lexer.SEMICOLON)
	}
}

// parseBlock parses { statements }
func (p *Parser) parseBlock() *ast.Block {
	open := p.current()
	if open.Type != lexer.LBRACE {
		p.unexpected(open, "'{'")
	}
	p.advance()
	stmts := p.parseStatementsUntilBrace(open)
	return &ast.Block{Statements: stmts, Braced: true, Loc: p.spanFrom(open)}
}

// parseBody parses a braced block or a single inline statement
func (p *Parser) parseBody() *ast.Block {
	if p.check(lexer.LBRACE) {
		return p.parseBlock()
	}
	start := p.current()
	stmt := p.parseStatement()
	return &ast.Block{Statements: []ast.Statement{stmt}, Loc: p.spanFrom(start)}
}

// parseImport parses import [static] a.b.c [.*] [as D]
func (p *Parser) parseImport() *ast.ImportStatement {
	tok := p.advance()
	stmt := &ast.ImportStatement{}
	if p.match(lexer.STATIC) {
		stmt.Static = true
	}

	for {
		name := p.current()
		if !isWord(name.Type) {
			p.unexpected(name, "import path")
		}
		p.advance()
		stmt.Path = append(stmt.Path, &ast.Identifier{Name: name.Literal, Loc: name.Span})

		if !p.check(lexer.DOT) {
			break
		}
		if p.peek().Type == lexer.STAR {
			p.advance()
			p.advance()
			stmt.Wildcard = true
			break
		}
		p.advance()
	}

	if !stmt.Wildcard && p.match(lexer.AS) {
		alias := p.expect(lexer.IDENT, "import alias")
		stmt.Alias = &ast.Identifier{Name: alias.Literal, Loc: alias.Span}
	}
	stmt.Loc = p.spanFrom(tok)
	return stmt
}

// parseCondition parses ( expr )
func (p *Parser) parseCondition(keyword lexer.Token) ast.Expression {
	open := p.current()
	if open.Type != lexer.LPAREN {
		p.unexpected(open, "'(' after "+keyword.Literal)
	}
	p.advance()
	cond := p.parseExpression()
	p.expectClose(lexer.RPAREN, open)
	return cond
}

// parseIf parses if (c) body {else if (c) body} [else body]
func (p *Parser) parseIf() *ast.IfStatement {
	tok := p.advance()
	stmt := &ast.IfStatement{}
	stmt.Condition = p.parseCondition(tok)
	stmt.Then = p.parseBody()

	for {
		switch p.current().Type {
		case lexer.ELSE_IF:
			kw := p.advance()
			clause := &ast.ElseIfClause{}
			clause.Condition = p.parseCondition(kw)
			clause.Body = p.parseBody()
			clause.Loc = p.spanFrom(kw)
			stmt.ElseIfs = append(stmt.ElseIfs, clause)
			continue
		case lexer.ELSE:
			p.advance()
			stmt.Else = p.parseBody()
		}
		break
	}
	stmt.Loc = p.spanFrom(tok)
	return stmt
}

func (p *Parser) parseReturn() *ast.ReturnStatement {
	tok := p.advance()
	stmt := &ast.ReturnStatement{}
	if canStartExpression(p.current().Type) {
		stmt.Value = p.parseExpression()
	}
	stmt.Loc = p.spanFrom(tok)
	return stmt
}

func (p *Parser) parseThrow() *ast.ThrowStatement {
	tok := p.advance()
	value := p.parseExpression()
	return &ast.ThrowStatement{Value: value, Loc: p.spanFrom(tok)}
}

// parseFunctionDefinition parses [static] def|Type name(params) { body }
func (p *Parser) parseFunctionDefinition() *ast.FunctionDefinition {
	start := p.current()
	fn := &ast.FunctionDefinition{}
	if p.match(lexer.STATIC) {
		fn.Static = true
	}

	ret := p.current()
	switch ret.Type {
	case lexer.DEF:
		fn.ReturnType = "def"
	case lexer.TYPE:
		fn.ReturnType = p.typeName(ret)
	case lexer.IDENT:
		if p.peek().Type != lexer.IDENT {
			p.unexpected(ret, "return type")
		}
		fn.ReturnType = ret.Literal
	default:
		p.unexpected(ret, "'def' or a type name")
	}
	p.advance()

	name := p.expect(lexer.IDENT, "function name")
	fn.Name = name.Literal
	fn.NameLoc = name.Span

	open := p.current()
	if open.Type != lexer.LPAREN {
		p.unexpected(open, "'(' after function name")
	}
	p.advance()
	fn.Params = []*ast.Parameter{}
	for !p.check(lexer.RPAREN) {
		if p.check(lexer.EOF) {
			p.expectClose(lexer.RPAREN, open)
		}
		fn.Params = append(fn.Params, p.parseParameter())
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expectClose(lexer.RPAREN, open)

	fn.Body = p.parseBlock()
	fn.Loc = p.spanFrom(start)
	return fn
}

// parseVariableDefinition parses [final] (def|var|Type)? name
func (p *Parser) parseVariableDefinition() *ast.VariableDefinition {
	start := p.current()
	def := &ast.VariableDefinition{}
	if p.match(lexer.FINAL) {
		def.Final = true
	}

	switch tok := p.current(); tok.Type {
	case lexer.DEF:
		p.advance()
		def.Declarator = "def"
	case lexer.VAR:
		p.advance()
		def.Declarator = "var"
	case lexer.TYPE:
		p.advance()
		def.Declarator = p.typeName(tok)
	case lexer.IDENT:
		// final File f
		if def.Final && p.peek().Type == lexer.IDENT {
			p.advance()
			def.Declarator = tok.Literal
		}
	}

	name := p.expect(lexer.IDENT, "variable name")
	def.Name = name.Literal
	def.NameLoc = name.Span
	def.Loc = p.spanFrom(start)
	return def
}

// parseVariableStatement parses a definition, reclassified as an
// assignment when followed by '='
func (p *Parser) parseVariableStatement() ast.Statement {
	start := p.current()
	def := p.parseVariableDefinition()
	if !p.check(lexer.ASSIGN) {
		return def
	}
	op := p.advance()
	value := p.parseExpression()
	return &ast.AssignmentStatement{
		Target:   def,
		Operator: op.Type,
		Op:       op.Literal,
		Value:    value,
		Loc:      p.spanFrom(start),
	}
}

// parseTask parses task name [(args)] [<<] [{ body }]
func (p *Parser) parseTask() *ast.TaskDefinition {
	tok := p.advance()
	name := p.current()
	if name.Type != lexer.IDENT && name.Type != lexer.STRING && name.Type != lexer.GSTRING {
		p.unexpected(name, "task name")
	}
	p.advance()

	task := &ast.TaskDefinition{Name: name.Literal, NameLoc: name.Span}
	if name.Type != lexer.IDENT {
		task.Name = p.stringLiteral(name).Value()
	}

	if p.check(lexer.LPAREN) {
		task.Args = p.parseArgList()
		task.HasArgs = true
	}
	if p.match(lexer.SHL) {
		task.LeftShift = true
		if !p.check(lexer.LBRACE) {
			p.unexpected(p.current(), "'{' after '<<'")
		}
	}
	if p.check(lexer.LBRACE) {
		task.Body = p.parseBlock()
	}
	task.Loc = p.spanFrom(tok)
	return task
}

// parseIdentStatement resolves a statement that begins with an identifier.
// Trial order:
//
//	name {            block operation, or a closure call if the brace
//	                  opens a parameter header or a link follows it
//	name(...)         parenthesized call (with optional trailing closure)
//	target op= expr   assignment
//	name args         paren-less call, also as the tail of a chain
//	otherwise         expression statement
func (p *Parser) parseIdentStatement() ast.Statement {
	start := p.current()

	var expr ast.Expression
	if p.peek().Type == lexer.LBRACE && !p.closureHeaderAt(1) {
		p.advance()
		open := p.advance()
		body := p.parseStatementsUntilBrace(open)
		if !isLink(p.current().Type) {
			return &ast.BlockOperation{
				Name:    start.Literal,
				NameLoc: start.Span,
				Body:    body,
				Loc:     p.spanFrom(start),
			}
		}
		expr = p.parsePostfixFrom(&ast.FunctionCall{
			Name:            start.Literal,
			NameLoc:         start.Span,
			Style:           ast.CallClosureOnly,
			TrailingClosure: &ast.Closure{Body: body, Loc: p.spanFrom(open)},
			Loc:             p.spanFrom(start),
		})
	} else {
		expr = p.parsePostfix()
	}

	if tok := p.current(); tok.Type.IsAssignment() {
		return p.parseAssignment(start, expr)
	}

	if canStartCommandArg(p.current().Type) {
		if call, ok := p.commandCall(expr); ok {
			return p.statementFor(call)
		}
	}

	return p.statementFor(p.continueExpression(expr))
}

// commandCall turns an identifier, or a chain ending in an identifier,
// into a paren-less call over the arguments that follow.
func (p *Parser) commandCall(expr ast.Expression) (ast.Expression, bool) {
	switch e := expr.(type) {
	case *ast.Identifier:
		args := p.parseCommandArgs()
		return &ast.FunctionCall{
			Name:    e.Name,
			NameLoc: e.Loc,
			Args:    args,
			Style:   ast.CallCommand,
			Loc:     lexer.Span{Start: e.Loc.Start, End: p.prev.Span.End},
		}, true
	case *ast.ChainExpression:
		last := e.Links[len(e.Links)-1]
		id, ok := last.Segment.(*ast.Identifier)
		if !ok {
			return nil, false
		}
		args := p.parseCommandArgs()
		last.Segment = &ast.FunctionCall{
			Name:    id.Name,
			NameLoc: id.Loc,
			Args:    args,
			Style:   ast.CallCommand,
			Loc:     lexer.Span{Start: id.Loc.Start, End: p.prev.Span.End},
		}
		last.Loc.End = p.prev.Span.End
		e.Loc.End = p.prev.Span.End
		return e, true
	}
	return nil, false
}

// parseAssignment parses the operator and value after an assignable target
func (p *Parser) parseAssignment(start lexer.Token, target ast.Expression) ast.Statement {
	switch target.(type) {
	case *ast.Identifier, *ast.ChainExpression, *ast.IndexExpression:
	default:
		p.fail(diagnostic.UnexpectedToken, p.current(), "cannot assign to %s", target.Kind())
	}
	op := p.advance()
	value := p.parseExpression()
	return &ast.AssignmentStatement{
		Target:   target,
		Operator: op.Type,
		Op:       op.Literal,
		Value:    value,
		Loc:      p.spanFrom(start),
	}
}

// parseExpressionStatement parses any other expression start, allowing
// an assignment to an index or chain target
func (p *Parser) parseExpressionStatement() ast.Statement {
	start := p.current()
	expr := p.parseExpression()
	if p.current().Type.IsAssignment() {
		return p.parseAssignment(start, expr)
	}
	return p.statementFor(expr)
}

// statementFor uses calls and block operations directly as statements and
// wraps every other expression.
func (p *Parser) statementFor(expr ast.Expression) ast.Statement {
	switch e := expr.(type) {
	case *ast.FunctionCall:
		return e
	case *ast.BlockOperation:
		return e
	}
	return &ast.ExpressionStatement{Expr: expr, Loc: expr.Span()}
}
