package ast

// Children returns the direct child nodes of n in source order
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c != nil {
			out = append(out, c)
		}
	}
	addStmts := func(stmts []Statement) {
		for _, s := range stmts {
			add(s)
		}
	}
	addExprs := func(exprs []Expression) {
		for _, e := range exprs {
			add(e)
		}
	}
	addParams := func(params []*Parameter) {
		for _, p := range params {
			add(p)
		}
	}

	switch n := n.(type) {
	case *Module:
		addStmts(n.Statements)
	case *Block:
		addStmts(n.Statements)
	case *ImportStatement:
		for _, p := range n.Path {
			add(p)
		}
		if n.Alias != nil {
			add(n.Alias)
		}
	case *IfStatement:
		add(n.Condition)
		if n.Then != nil {
			add(n.Then)
		}
		for _, ei := range n.ElseIfs {
			add(ei)
		}
		if n.Else != nil {
			add(n.Else)
		}
	case *ElseIfClause:
		add(n.Condition)
		if n.Body != nil {
			add(n.Body)
		}
	case *ReturnStatement:
		add(n.Value)
	case *ThrowStatement:
		add(n.Value)
	case *AssignmentStatement:
		add(n.Target)
		add(n.Value)
	case *ExpressionStatement:
		add(n.Expr)
	case *FunctionCall:
		addExprs(n.Args)
		if n.TrailingClosure != nil {
			add(n.TrailingClosure)
		}
	case *FunctionDefinition:
		addParams(n.Params)
		if n.Body != nil {
			add(n.Body)
		}
	case *TaskDefinition:
		addExprs(n.Args)
		if n.Body != nil {
			add(n.Body)
		}
	case *Parameter:
		add(n.Default)
	case *ArrayLiteral:
		addExprs(n.Elements)
	case *MapEntry:
		add(n.Key)
		add(n.Value)
	case *IndexExpression:
		add(n.Target)
		add(n.Index)
	case *UnaryExpression:
		add(n.Operand)
	case *BinaryExpression:
		add(n.Left)
		add(n.Right)
	case *TernaryExpression:
		add(n.Condition)
		add(n.Then)
		add(n.Else)
	case *ElvisExpression:
		add(n.Left)
		add(n.Right)
	case *ChainExpression:
		add(n.Head)
		for _, l := range n.Links {
			add(l)
		}
	case *ChainLink:
		add(n.Segment)
	case *NewExpression:
		add(n.Target)
		addExprs(n.Args)
		if n.TrailingClosure != nil {
			add(n.TrailingClosure)
		}
	case *Closure:
		addParams(n.Params)
		addStmts(n.Body)
	case *AsExpression:
		add(n.Expr)
	case *BlockOperation:
		addStmts(n.Body)
	}
	return out
}

// Inspect traverses the tree depth-first, calling f for every node.
// If f returns false the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}
