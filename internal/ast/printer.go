package ast

import (
	"fmt"
	"strings"
)

// Print returns a tree-like string representation of the AST for debugging
func Print(node Node) string {
	var sb strings.Builder
	printNode(&sb, node, 0)
	return sb.String()
}

func printNode(sb *strings.Builder, node Node, indent int) {
	if node == nil {
		return
	}

	prefix := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *Module:
		sb.WriteString(prefix + "Module\n")
		printStatements(sb, n.Statements, indent+1)

	case *Block:
		if len(n.Statements) == 0 {
			sb.WriteString(prefix + "Block: empty\n")
			return
		}
		sb.WriteString(prefix + "Block\n")
		printStatements(sb, n.Statements, indent+1)

	case *ImportStatement:
		mods := ""
		if n.Static {
			mods = " (static)"
		}
		path := n.Name()
		if n.Wildcard {
			path += ".*"
		}
		sb.WriteString(fmt.Sprintf("%sImport: %s%s\n", prefix, path, mods))
		if n.Alias != nil {
			sb.WriteString(fmt.Sprintf("%s  As: %s\n", prefix, n.Alias.Name))
		}

	case *IfStatement:
		sb.WriteString(prefix + "If\n")
		sb.WriteString(prefix + "  Condition:\n")
		printNode(sb, n.Condition, indent+2)
		sb.WriteString(prefix + "  Then:\n")
		printNode(sb, n.Then, indent+2)
		for _, ei := range n.ElseIfs {
			printNode(sb, ei, indent+1)
		}
		if n.Else != nil {
			sb.WriteString(prefix + "  Else:\n")
			printNode(sb, n.Else, indent+2)
		}

	case *ElseIfClause:
		sb.WriteString(prefix + "ElseIf\n")
		sb.WriteString(prefix + "  Condition:\n")
		printNode(sb, n.Condition, indent+2)
		printNode(sb, n.Body, indent+1)

	case *ReturnStatement:
		sb.WriteString(prefix + "Return\n")
		printNode(sb, n.Value, indent+1)

	case *ThrowStatement:
		sb.WriteString(prefix + "Throw\n")
		printNode(sb, n.Value, indent+1)

	case *AssignmentStatement:
		sb.WriteString(fmt.Sprintf("%sAssign: %s\n", prefix, n.Op))
		printNode(sb, n.Target, indent+1)
		printNode(sb, n.Value, indent+1)

	case *ExpressionStatement:
		sb.WriteString(prefix + "ExprStmt\n")
		printNode(sb, n.Expr, indent+1)

	case *FunctionCall:
		sb.WriteString(fmt.Sprintf("%sCall: %s (%s)\n", prefix, n.Name, n.Style))
		printExprs(sb, n.Args, indent+1)
		if n.TrailingClosure != nil {
			printNode(sb, n.TrailingClosure, indent+1)
		}

	case *FunctionDefinition:
		mods := ""
		if n.Static {
			mods = " (static)"
		}
		sb.WriteString(fmt.Sprintf("%sFunction: %s %s%s\n", prefix, n.ReturnType, n.Name, mods))
		if len(n.Params) > 0 {
			sb.WriteString(prefix + "  Params:\n")
			for _, p := range n.Params {
				printNode(sb, p, indent+2)
			}
		} else {
			sb.WriteString(prefix + "  Params: none\n")
		}
		printNode(sb, n.Body, indent+1)

	case *Parameter:
		typ := n.TypeName
		if n.Variadic {
			typ += "..."
		}
		if typ != "" {
			typ += " "
		}
		sb.WriteString(fmt.Sprintf("%s%s%s\n", prefix, typ, n.Name))
		if n.Default != nil {
			sb.WriteString(prefix + "  Default:\n")
			printNode(sb, n.Default, indent+2)
		}

	case *TaskDefinition:
		mods := ""
		if n.LeftShift {
			mods = " (<<)"
		}
		sb.WriteString(fmt.Sprintf("%sTask: %s%s\n", prefix, n.Name, mods))
		if n.HasArgs {
			sb.WriteString(prefix + "  Args:\n")
			printExprs(sb, n.Args, indent+2)
		}
		if n.Body != nil {
			printNode(sb, n.Body, indent+1)
		}

	case *VariableDefinition:
		decl := n.Declarator
		if n.Final {
			decl = strings.TrimSpace("final " + decl)
		}
		sb.WriteString(fmt.Sprintf("%sVar: %s %s\n", prefix, decl, n.Name))

	case *Identifier:
		sb.WriteString(fmt.Sprintf("%sIdent: %s\n", prefix, n.Name))

	case *NumberLiteral:
		sb.WriteString(fmt.Sprintf("%sNumber: %s\n", prefix, n.Raw))

	case *StringLiteral:
		sb.WriteString(fmt.Sprintf("%sString (%s): %q\n", prefix, n.Sub, n.Value()))

	case *BooleanLiteral:
		sb.WriteString(fmt.Sprintf("%sBool: %t\n", prefix, n.Value))

	case *NullLiteral:
		sb.WriteString(prefix + "Null\n")

	case *ArrayLiteral:
		if n.EmptyMap {
			sb.WriteString(prefix + "Map: empty\n")
			return
		}
		label := "Array"
		if n.IsMap() {
			label = "Map"
		}
		sb.WriteString(fmt.Sprintf("%s%s: %d elements\n", prefix, label, len(n.Elements)))
		printExprs(sb, n.Elements, indent+1)

	case *MapEntry:
		sb.WriteString(prefix + "Entry\n")
		printNode(sb, n.Key, indent+1)
		printNode(sb, n.Value, indent+1)

	case *IndexExpression:
		sb.WriteString(prefix + "Index\n")
		printNode(sb, n.Target, indent+1)
		printNode(sb, n.Index, indent+1)

	case *UnaryExpression:
		sb.WriteString(fmt.Sprintf("%sUnary: %s\n", prefix, n.Op))
		printNode(sb, n.Operand, indent+1)

	case *BinaryExpression:
		sb.WriteString(fmt.Sprintf("%sBinary: %s\n", prefix, n.Op))
		printNode(sb, n.Left, indent+1)
		printNode(sb, n.Right, indent+1)

	case *TernaryExpression:
		sb.WriteString(prefix + "Ternary\n")
		printNode(sb, n.Condition, indent+1)
		printNode(sb, n.Then, indent+1)
		printNode(sb, n.Else, indent+1)

	case *ElvisExpression:
		sb.WriteString(prefix + "Elvis\n")
		printNode(sb, n.Left, indent+1)
		printNode(sb, n.Right, indent+1)

	case *ChainExpression:
		sb.WriteString(fmt.Sprintf("%sChain: %d links\n", prefix, len(n.Links)))
		printNode(sb, n.Head, indent+1)
		for _, l := range n.Links {
			printNode(sb, l, indent+1)
		}

	case *ChainLink:
		sb.WriteString(fmt.Sprintf("%sLink: %s\n", prefix, n.Link))
		printNode(sb, n.Segment, indent+1)

	case *NewExpression:
		sb.WriteString(prefix + "New\n")
		printNode(sb, n.Target, indent+1)
		printExprs(sb, n.Args, indent+1)
		if n.TrailingClosure != nil {
			printNode(sb, n.TrailingClosure, indent+1)
		}

	case *Closure:
		sb.WriteString(fmt.Sprintf("%sClosure: %d params\n", prefix, len(n.Params)))
		for _, p := range n.Params {
			printNode(sb, p, indent+1)
		}
		printStatements(sb, n.Body, indent+1)

	case *SpreadExpression:
		sb.WriteString(fmt.Sprintf("%sSpread: %s... %s\n", prefix, n.TypeName, n.Name))

	case *AsExpression:
		sb.WriteString(fmt.Sprintf("%sAs: %s\n", prefix, n.TargetType))
		printNode(sb, n.Expr, indent+1)

	case *BlockOperation:
		sb.WriteString(fmt.Sprintf("%sBlockOp: %s\n", prefix, n.Name))
		printStatements(sb, n.Body, indent+1)

	default:
		sb.WriteString(fmt.Sprintf("%s<unknown node: %T>\n", prefix, node))
	}
}

func printStatements(sb *strings.Builder, stmts []Statement, indent int) {
	for _, s := range stmts {
		printNode(sb, s, indent)
	}
}

func printExprs(sb *strings.Builder, exprs []Expression, indent int) {
	for _, e := range exprs {
		printNode(sb, e, indent)
	}
}

// SExpr renders the tree as a single-line s-expression. Leaves print as
// their source text: identifiers by name, literals raw.
//
//	def x = 1  =>  (module (assignment_statement (variable_definition def x) = 1))
func SExpr(node Node) string {
	var sb strings.Builder
	writeSExpr(&sb, node)
	return sb.String()
}

func writeSExpr(sb *strings.Builder, node Node) {
	if node == nil {
		return
	}

	open := func(parts ...string) {
		sb.WriteString("(" + node.Kind().String())
		for _, p := range parts {
			if p != "" {
				sb.WriteString(" " + p)
			}
		}
	}
	child := func(c Node) {
		if c == nil {
			return
		}
		sb.WriteByte(' ')
		writeSExpr(sb, c)
	}
	word := func(w string) {
		if w != "" {
			sb.WriteString(" " + w)
		}
	}
	stmts := func(list []Statement) {
		for _, s := range list {
			child(s)
		}
	}
	exprs := func(list []Expression) {
		for _, e := range list {
			child(e)
		}
	}
	params := func(list []*Parameter) {
		sb.WriteString(" (parameters")
		for _, p := range list {
			child(p)
		}
		sb.WriteByte(')')
	}
	closeNode := func() { sb.WriteByte(')') }

	switch n := node.(type) {
	case *Identifier:
		sb.WriteString(n.Name)
		return
	case *NumberLiteral:
		sb.WriteString(n.Raw)
		return
	case *StringLiteral:
		sb.WriteString(n.Raw)
		return
	case *BooleanLiteral:
		sb.WriteString(fmt.Sprintf("%t", n.Value))
		return
	case *NullLiteral:
		sb.WriteString("null")
		return
	}

	switch n := node.(type) {
	case *Module:
		open()
		stmts(n.Statements)
	case *Block:
		open()
		stmts(n.Statements)
	case *ImportStatement:
		open()
		if n.Static {
			word("static")
		}
		path := n.Name()
		if n.Wildcard {
			path += ".*"
		}
		word(path)
		if n.Alias != nil {
			word("as " + n.Alias.Name)
		}
	case *IfStatement:
		open()
		child(n.Condition)
		child(n.Then)
		for _, ei := range n.ElseIfs {
			child(ei)
		}
		if n.Else != nil {
			sb.WriteString(" (else")
			stmts(n.Else.Statements)
			sb.WriteByte(')')
		}
	case *ElseIfClause:
		open()
		child(n.Condition)
		child(n.Body)
	case *ReturnStatement:
		open()
		child(n.Value)
	case *ThrowStatement:
		open()
		child(n.Value)
	case *AssignmentStatement:
		open()
		child(n.Target)
		word(n.Op)
		child(n.Value)
	case *ExpressionStatement:
		open()
		child(n.Expr)
	case *FunctionCall:
		open(n.Name)
		exprs(n.Args)
		if n.TrailingClosure != nil {
			child(n.TrailingClosure)
		}
	case *FunctionDefinition:
		if n.Static {
			open("static", n.ReturnType, n.Name)
		} else {
			open(n.ReturnType, n.Name)
		}
		params(n.Params)
		child(n.Body)
	case *Parameter:
		typ := n.TypeName
		if n.Variadic {
			typ += "..."
		}
		open(typ, n.Name)
		if n.Default != nil {
			word("=")
			child(n.Default)
		}
	case *TaskDefinition:
		open(n.Name)
		if n.HasArgs {
			sb.WriteString(" (arguments")
			exprs(n.Args)
			sb.WriteByte(')')
		}
		if n.LeftShift {
			word("<<")
		}
		if n.Body != nil {
			child(n.Body)
		}
	case *VariableDefinition:
		if n.Final {
			open("final", n.Declarator, n.Name)
		} else {
			open(n.Declarator, n.Name)
		}
	case *ArrayLiteral:
		open()
		if n.EmptyMap {
			word(":")
		}
		exprs(n.Elements)
	case *MapEntry:
		open()
		child(n.Key)
		child(n.Value)
	case *IndexExpression:
		open()
		child(n.Target)
		child(n.Index)
	case *UnaryExpression:
		open(n.Op)
		child(n.Operand)
	case *BinaryExpression:
		open()
		child(n.Left)
		word(n.Op)
		child(n.Right)
	case *TernaryExpression:
		open()
		child(n.Condition)
		child(n.Then)
		child(n.Else)
	case *ElvisExpression:
		open()
		child(n.Left)
		child(n.Right)
	case *ChainExpression:
		open()
		child(n.Head)
		for _, l := range n.Links {
			word(l.Link.String())
			child(l.Segment)
		}
	case *ChainLink:
		open(n.Link.String())
		child(n.Segment)
	case *NewExpression:
		open()
		child(n.Target)
		if n.HasArgs {
			sb.WriteString(" (arguments")
			exprs(n.Args)
			sb.WriteByte(')')
		}
		if n.TrailingClosure != nil {
			child(n.TrailingClosure)
		}
	case *Closure:
		open()
		if n.HasArrow {
			params(n.Params)
		}
		stmts(n.Body)
	case *SpreadExpression:
		open(n.TypeName, n.Name)
	case *AsExpression:
		open()
		child(n.Expr)
		word(n.TargetType)
	case *BlockOperation:
		open(n.Name)
		stmts(n.Body)
	default:
		sb.WriteString(fmt.Sprintf("(unknown %T", node))
	}
	closeNode()
}
