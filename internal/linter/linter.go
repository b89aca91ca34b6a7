package linter

import (
	"strings"
	"unicode"

	"github.com/lhaig/groovyscript/internal/ast"
	"github.com/lhaig/groovyscript/internal/diagnostic"
	"github.com/lhaig/groovyscript/internal/lexer"
)

// Rule names attached to every warning
const (
	RuleKeywordCase     = "keyword-case"
	RuleEmptyBody       = "empty-body"
	RuleNaming          = "naming"
	RuleDuplicateImport = "duplicate-import"
	RuleLeftShift       = "deprecated-left-shift"
	RuleUnreachable     = "unreachable-code"
)

// Linter performs style and best-practice checks on a parsed build script.
// It reports warnings (never errors) using the diagnostic system.
type Linter struct {
	mod    *ast.Module
	tokens []lexer.Token
	diag   *diagnostic.Diagnostics
}

// Lint runs all lint rules on the given module and returns diagnostics.
// tokens is the script's token stream; it may be nil, in which case the
// keyword spelling rule is skipped.
func Lint(mod *ast.Module, tokens []lexer.Token) *diagnostic.Diagnostics {
	l := &Linter{
		mod:    mod,
		tokens: tokens,
		diag:   diagnostic.New(),
	}

	l.lintKeywords()
	l.lintImports()
	if mod != nil {
		ast.Inspect(mod, l.visit)
	}

	return l.diag
}

func (l *Linter) visit(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.Module:
		l.checkUnreachable(n.Statements)
	case *ast.Block:
		l.checkUnreachable(n.Statements)
	case *ast.Closure:
		l.checkUnreachable(n.Body)
	case *ast.IfStatement:
		l.checkEmptyBlock("if", n.Then)
		for _, ei := range n.ElseIfs {
			l.checkEmptyBlock("else if", ei.Body)
		}
		if n.Else != nil {
			l.checkEmptyBlock("else", n.Else)
		}
	case *ast.BlockOperation:
		if len(n.Body) == 0 {
			l.warnAt(RuleEmptyBody, n.Loc, "block '%s' has an empty body", n.Name)
		}
		l.checkUnreachable(n.Body)
	case *ast.FunctionDefinition:
		l.checkEmptyBlock("function '"+n.Name+"'", n.Body)
		l.checkNaming("function", n.Name, n.NameLoc)
	case *ast.TaskDefinition:
		if n.Body != nil {
			l.checkEmptyBlock("task '"+n.Name+"'", n.Body)
		}
		if isIdentifierShaped(n.Name) {
			l.checkNaming("task", n.Name, n.NameLoc)
		}
		if n.LeftShift {
			l.diag.WarningWithHint(RuleLeftShift, n.Loc.Start.Line, n.Loc.Start.Column,
				"task '"+n.Name+"' uses the deprecated '<<' syntax",
				"move the body into doLast { ... }")
		}
	}
	return true
}

// --- Lint rules ---

// lintKeywords warns about keywords written in anything but lowercase.
func (l *Linter) lintKeywords() {
	for _, tok := range l.tokens {
		if tok.Class() != lexer.ClassKeyword {
			continue
		}
		canonical := strings.Join(strings.Fields(strings.ToLower(tok.Literal)), " ")
		if tok.Literal == strings.ToLower(tok.Literal) {
			continue
		}
		l.diag.WarningWithHint(RuleKeywordCase, tok.Span.Start.Line, tok.Span.Start.Column,
			"keyword '"+tok.Literal+"' should be written '"+canonical+"'",
			"keywords match case-insensitively but lowercase is canonical")
	}
}

// lintImports warns when the same import is written twice.
func (l *Linter) lintImports() {
	if l.mod == nil {
		return
	}
	seen := make(map[string]bool)
	for _, stmt := range l.mod.Statements {
		imp, ok := stmt.(*ast.ImportStatement)
		if !ok {
			continue
		}
		key := importKey(imp)
		if seen[key] {
			l.warnAt(RuleDuplicateImport, imp.Loc, "duplicate import '%s'", imp.Name())
			continue
		}
		seen[key] = true
	}
}

func importKey(imp *ast.ImportStatement) string {
	key := imp.Name()
	if imp.Wildcard {
		key += ".*"
	}
	if imp.Static {
		key = "static " + key
	}
	if imp.Alias != nil {
		key += " as " + imp.Alias.Name
	}
	return key
}

// checkEmptyBlock warns if a braced body has no statements.
func (l *Linter) checkEmptyBlock(what string, body *ast.Block) {
	if body == nil || len(body.Statements) > 0 {
		return
	}
	l.warnAt(RuleEmptyBody, body.Loc, "%s has an empty body", what)
}

// checkNaming warns if a function or task name is not lowerCamelCase.
func (l *Linter) checkNaming(what, name string, loc lexer.Span) {
	if !isLowerCamelCase(name) {
		l.warnAt(RuleNaming, loc, "%s '%s' should use lowerCamelCase naming", what, name)
	}
}

// checkUnreachable warns once per body about the first statement that
// follows a return or throw.
func (l *Linter) checkUnreachable(stmts []ast.Statement) {
	for i, stmt := range stmts {
		switch stmt.(type) {
		case *ast.ReturnStatement, *ast.ThrowStatement:
			if i+1 < len(stmts) {
				l.warnAt(RuleUnreachable, stmts[i+1].Span(), "unreachable statement")
			}
			return
		}
	}
}

func (l *Linter) warnAt(rule string, loc lexer.Span, format string, args ...interface{}) {
	l.diag.Warningf(rule, loc.Start.Line, loc.Start.Column, format, args...)
}

// --- Naming convention helpers ---

// isLowerCamelCase returns true if the name starts with a lowercase letter
// and contains no underscores.
func isLowerCamelCase(name string) bool {
	if len(name) == 0 {
		return false
	}
	runes := []rune(name)
	if !unicode.IsLower(runes[0]) {
		return false
	}
	return !strings.ContainsRune(name, '_')
}

func isIdentifierShaped(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r == '_' || r == '$' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}
