package ast

import "github.com/lhaig/groovyscript/internal/lexer"

// Node is the base interface for all AST nodes
type Node interface {
	Kind() Kind
	Span() lexer.Span
}

// Statement nodes
type Statement interface {
	Node
	stmtNode()
}

// Expression nodes
type Expression interface {
	Node
	exprNode()
}

// Invocation is the statement family that performs an action:
// imports, conditionals, returns, throws, assignments and calls.
type Invocation interface {
	Statement
	invocationNode()
}

// Definition is the statement family that introduces a name:
// functions, tasks and variables.
type Definition interface {
	Statement
	definitionNode()
}

// BlockInvocation is the shared shape of a named invocation with a body of
// statements, whether written as a block operation (name { ... }) or as a
// call with a trailing closure (name(args) { ... }).
type BlockInvocation interface {
	Node
	Callee() string
	BlockBody() []Statement
}

// Module is the root of a parsed script: its statements in source order
type Module struct {
	Statements []Statement
	Loc        lexer.Span
}

func (m *Module) Kind() Kind       { return KindModule }
func (m *Module) Span() lexer.Span { return m.Loc }

// Block is a statement body, either brace-delimited or a single inline
// statement (if (x) return y)
type Block struct {
	Statements []Statement
	Braced     bool
	Loc        lexer.Span
}

func (b *Block) Kind() Kind       { return KindBlock }
func (b *Block) Span() lexer.Span { return b.Loc }

// --- invocation family ---

// ImportStatement represents import a.b.c, import a.b.*, import a.b.C as D
type ImportStatement struct {
	Static   bool
	Path     []*Identifier
	Wildcard bool
	Alias    *Identifier
	Loc      lexer.Span
}

func (i *ImportStatement) Kind() Kind       { return KindImportStatement }
func (i *ImportStatement) Span() lexer.Span { return i.Loc }
func (i *ImportStatement) stmtNode()        {}
func (i *ImportStatement) invocationNode()  {}

// Name returns the dotted import path without the wildcard suffix
func (i *ImportStatement) Name() string {
	s := ""
	for n, part := range i.Path {
		if n > 0 {
			s += "."
		}
		s += part.Name
	}
	return s
}

// IfStatement represents if (c) body (else if (c) body)* (else body)?
type IfStatement struct {
	Condition Expression
	Then      *Block
	ElseIfs   []*ElseIfClause
	Else      *Block // nil when there is no else clause
	Loc       lexer.Span
}

func (i *IfStatement) Kind() Kind       { return KindIfStatement }
func (i *IfStatement) Span() lexer.Span { return i.Loc }
func (i *IfStatement) stmtNode()        {}
func (i *IfStatement) invocationNode()  {}

// ElseIfClause is one else-if arm of an IfStatement
type ElseIfClause struct {
	Condition Expression
	Body      *Block
	Loc       lexer.Span
}

func (e *ElseIfClause) Kind() Kind       { return KindElseIfClause }
func (e *ElseIfClause) Span() lexer.Span { return e.Loc }

// ReturnStatement represents return [expr]
type ReturnStatement struct {
	Value Expression // nil for a bare return
	Loc   lexer.Span
}

func (r *ReturnStatement) Kind() Kind       { return KindReturnStatement }
func (r *ReturnStatement) Span() lexer.Span { return r.Loc }
func (r *ReturnStatement) stmtNode()        {}
func (r *ReturnStatement) invocationNode()  {}

// ThrowStatement represents throw expr
type ThrowStatement struct {
	Value Expression
	Loc   lexer.Span
}

func (t *ThrowStatement) Kind() Kind       { return KindThrowStatement }
func (t *ThrowStatement) Span() lexer.Span { return t.Loc }
func (t *ThrowStatement) stmtNode()        {}
func (t *ThrowStatement) invocationNode()  {}

// AssignmentStatement represents target op value. Target is either a
// *VariableDefinition (def x = 1) or an assignable expression
// (identifier, chain or index).
type AssignmentStatement struct {
	Target   Node
	Operator lexer.TokenType
	Op       string
	Value    Expression
	Loc      lexer.Span
}

func (a *AssignmentStatement) Kind() Kind       { return KindAssignmentStatement }
func (a *AssignmentStatement) Span() lexer.Span { return a.Loc }
func (a *AssignmentStatement) stmtNode()        {}
func (a *AssignmentStatement) invocationNode()  {}

// Definition returns the wrapped variable definition, if any
func (a *AssignmentStatement) Definition() (*VariableDefinition, bool) {
	def, ok := a.Target.(*VariableDefinition)
	return def, ok
}

// ExpressionStatement is an expression used in statement position
// (a bare identifier, chain, or other expression).
type ExpressionStatement struct {
	Expr Expression
	Loc  lexer.Span
}

func (e *ExpressionStatement) Kind() Kind       { return KindExpressionStatement }
func (e *ExpressionStatement) Span() lexer.Span { return e.Loc }
func (e *ExpressionStatement) stmtNode()        {}
func (e *ExpressionStatement) invocationNode()  {}

// CallStyle records which surface syntax produced a FunctionCall
type CallStyle int

const (
	// CallParenthesized is foo(args), optionally followed by a closure
	CallParenthesized CallStyle = iota
	// CallCommand is the paren-less statement form foo a, b
	CallCommand
	// CallClosureOnly is foo { ... } with only a trailing closure
	CallClosureOnly
)

func (c CallStyle) String() string {
	switch c {
	case CallParenthesized:
		return "parens"
	case CallCommand:
		return "command"
	case CallClosureOnly:
		return "closure"
	default:
		return "unknown"
	}
}

// FunctionCall is the single node for all three call syntaxes.
type FunctionCall struct {
	Name            string
	NameLoc         lexer.Span
	Args            []Expression
	Style           CallStyle
	TrailingClosure *Closure // nil when absent
	Loc             lexer.Span
}

func (f *FunctionCall) Kind() Kind       { return KindFunctionCall }
func (f *FunctionCall) Span() lexer.Span { return f.Loc }
func (f *FunctionCall) stmtNode()        {}
func (f *FunctionCall) invocationNode()  {}
func (f *FunctionCall) exprNode()        {}

// Callee returns the called name
func (f *FunctionCall) Callee() string { return f.Name }

// BlockBody returns the trailing closure's statements
func (f *FunctionCall) BlockBody() []Statement {
	if f.TrailingClosure == nil {
		return nil
	}
	return f.TrailingClosure.Body
}

// --- definition family ---

// VariableDefinition represents [final] (def|var|Type)? name
type VariableDefinition struct {
	Final      bool
	Declarator string // "def", "var", a type name, or "" after a bare final
	Name       string
	NameLoc    lexer.Span
	Loc        lexer.Span
}

func (v *VariableDefinition) Kind() Kind       { return KindVariableDefinition }
func (v *VariableDefinition) Span() lexer.Span { return v.Loc }
func (v *VariableDefinition) stmtNode()        {}
func (v *VariableDefinition) definitionNode()  {}

// Parameter is a function or closure parameter
type Parameter struct {
	TypeName string // "def", a type name, or ""
	Name     string
	Variadic bool       // Type... name
	Default  Expression // nil when absent
	Loc      lexer.Span
}

func (p *Parameter) Kind() Kind       { return KindParameter }
func (p *Parameter) Span() lexer.Span { return p.Loc }

// FunctionDefinition represents [static] def|Type name(params) { body }
type FunctionDefinition struct {
	Static     bool
	ReturnType string // "def" or a type name
	Name       string
	NameLoc    lexer.Span
	Params     []*Parameter
	Body       *Block
	Loc        lexer.Span
}

func (f *FunctionDefinition) Kind() Kind       { return KindFunctionDefinition }
func (f *FunctionDefinition) Span() lexer.Span { return f.Loc }
func (f *FunctionDefinition) stmtNode()        {}
func (f *FunctionDefinition) definitionNode()  {}

// TaskDefinition represents task name [(args)] [<<] [{ body }]
type TaskDefinition struct {
	Name      string
	NameLoc   lexer.Span
	Args      []Expression
	HasArgs   bool  // a parenthesized argument list was written
	LeftShift bool  // task name << { ... }
	Body      *Block // nil when the task has no body
	Loc       lexer.Span
}

func (t *TaskDefinition) Kind() Kind       { return KindTaskDefinition }
func (t *TaskDefinition) Span() lexer.Span { return t.Loc }
func (t *TaskDefinition) stmtNode()        {}
func (t *TaskDefinition) definitionNode()  {}

// --- expression family ---

// Identifier represents a bare name
type Identifier struct {
	Name string
	Loc  lexer.Span
}

func (i *Identifier) Kind() Kind       { return KindIdentifier }
func (i *Identifier) Span() lexer.Span { return i.Loc }
func (i *Identifier) exprNode()        {}

// NumberLiteral represents 1, 1.5 or .5
type NumberLiteral struct {
	Raw     string
	Decimal bool
	Loc     lexer.Span
}

func (n *NumberLiteral) Kind() Kind       { return KindNumberLiteral }
func (n *NumberLiteral) Span() lexer.Span { return n.Loc }
func (n *NumberLiteral) exprNode()        {}

// StringKind distinguishes the three string literal syntaxes
type StringKind int

const (
	SingleQuoted StringKind = iota
	DoubleQuoted
	TextBlock
)

func (s StringKind) String() string {
	switch s {
	case SingleQuoted:
		return "single"
	case DoubleQuoted:
		return "double"
	case TextBlock:
		return "text-block"
	default:
		return "unknown"
	}
}

// StringPart is text or an unparsed ${...} interpolation inside a string
type StringPart struct {
	Text          string // decoded text, or the interpolation source
	Interpolation bool
	Loc           lexer.Span
}

// StringLiteral represents '...', "..." and '''...''' literals
type StringLiteral struct {
	Sub   StringKind
	Raw   string // source text including delimiters
	Parts []*StringPart
	Loc   lexer.Span
}

func (s *StringLiteral) Kind() Kind       { return KindStringLiteral }
func (s *StringLiteral) Span() lexer.Span { return s.Loc }
func (s *StringLiteral) exprNode()        {}

// Value returns the decoded text with interpolations kept as ${...}
func (s *StringLiteral) Value() string {
	out := ""
	for _, part := range s.Parts {
		if part.Interpolation {
			out += "${" + part.Text + "}"
		} else {
			out += part.Text
		}
	}
	return out
}

// Interpolated reports whether the literal contains ${...} parts
func (s *StringLiteral) Interpolated() bool {
	for _, part := range s.Parts {
		if part.Interpolation {
			return true
		}
	}
	return false
}

// BooleanLiteral represents true or false
type BooleanLiteral struct {
	Value bool
	Loc   lexer.Span
}

func (b *BooleanLiteral) Kind() Kind       { return KindBooleanLiteral }
func (b *BooleanLiteral) Span() lexer.Span { return b.Loc }
func (b *BooleanLiteral) exprNode()        {}

// NullLiteral represents null
type NullLiteral struct {
	Loc lexer.Span
}

func (n *NullLiteral) Kind() Kind       { return KindNullLiteral }
func (n *NullLiteral) Span() lexer.Span { return n.Loc }
func (n *NullLiteral) exprNode()        {}

// ArrayLiteral represents [a, b], [k: v] or the empty map [:]
type ArrayLiteral struct {
	Elements []Expression
	EmptyMap bool
	Loc      lexer.Span
}

func (a *ArrayLiteral) Kind() Kind       { return KindArrayLiteral }
func (a *ArrayLiteral) Span() lexer.Span { return a.Loc }
func (a *ArrayLiteral) exprNode()        {}

// IsMap reports whether the literal is [:] or made of key: value entries
func (a *ArrayLiteral) IsMap() bool {
	if a.EmptyMap {
		return true
	}
	if len(a.Elements) == 0 {
		return false
	}
	for _, el := range a.Elements {
		if _, ok := el.(*MapEntry); !ok {
			return false
		}
	}
	return true
}

// MapEntry represents key: value as a map element or named argument
type MapEntry struct {
	Key   Expression // *Identifier or *StringLiteral
	Value Expression
	Loc   lexer.Span
}

func (m *MapEntry) Kind() Kind       { return KindMapEntry }
func (m *MapEntry) Span() lexer.Span { return m.Loc }
func (m *MapEntry) exprNode()        {}

// IndexExpression represents target[index]
type IndexExpression struct {
	Target Expression
	Index  Expression
	Loc    lexer.Span
}

func (i *IndexExpression) Kind() Kind       { return KindIndexExpression }
func (i *IndexExpression) Span() lexer.Span { return i.Loc }
func (i *IndexExpression) exprNode()        {}

// UnaryExpression represents op operand
type UnaryExpression struct {
	Operator lexer.TokenType
	Op       string
	Operand  Expression
	Loc      lexer.Span
}

func (u *UnaryExpression) Kind() Kind       { return KindUnaryExpression }
func (u *UnaryExpression) Span() lexer.Span { return u.Loc }
func (u *UnaryExpression) exprNode()        {}

// BinaryExpression represents left op right
type BinaryExpression struct {
	Left     Expression
	Operator lexer.TokenType
	Op       string
	Right    Expression
	Loc      lexer.Span
}

func (b *BinaryExpression) Kind() Kind       { return KindBinaryExpression }
func (b *BinaryExpression) Span() lexer.Span { return b.Loc }
func (b *BinaryExpression) exprNode()        {}

// TernaryExpression represents cond ? then : else
type TernaryExpression struct {
	Condition Expression
	Then      Expression
	Else      Expression
	Loc       lexer.Span
}

func (t *TernaryExpression) Kind() Kind       { return KindTernaryExpression }
func (t *TernaryExpression) Span() lexer.Span { return t.Loc }
func (t *TernaryExpression) exprNode()        {}

// ElvisExpression represents left ?: right
type ElvisExpression struct {
	Left  Expression
	Right Expression
	Loc   lexer.Span
}

func (e *ElvisExpression) Kind() Kind       { return KindElvisExpression }
func (e *ElvisExpression) Span() lexer.Span { return e.Loc }
func (e *ElvisExpression) exprNode()        {}

// LinkKind is the operator joining two chain segments
type LinkKind int

const (
	LinkDot       LinkKind = iota // .
	LinkSafe                      // ?.
	LinkMethodRef                 // .&
	LinkSpread                    // *.
)

func (k LinkKind) String() string {
	switch k {
	case LinkDot:
		return "."
	case LinkSafe:
		return "?."
	case LinkMethodRef:
		return ".&"
	case LinkSpread:
		return "*."
	default:
		return "?"
	}
}

// ChainLink is one link operator and the segment it reaches
type ChainLink struct {
	Link    LinkKind
	Segment Expression // *Identifier, *FunctionCall, *StringLiteral or *IndexExpression
	Loc     lexer.Span
}

func (c *ChainLink) Kind() Kind       { return KindChainLink }
func (c *ChainLink) Span() lexer.Span { return c.Loc }

// ChainExpression is a flattened access chain: head followed by one or
// more links. A chain always has at least one link.
type ChainExpression struct {
	Head  Expression
	Links []*ChainLink
	Loc   lexer.Span
}

func (c *ChainExpression) Kind() Kind       { return KindChainExpression }
func (c *ChainExpression) Span() lexer.Span { return c.Loc }
func (c *ChainExpression) exprNode()        {}

// Last returns the final segment of the chain
func (c *ChainExpression) Last() Expression {
	return c.Links[len(c.Links)-1].Segment
}

// NewExpression represents new T(args) [{ closure }]
type NewExpression struct {
	Target          Expression // *Identifier or a dotted *ChainExpression
	Args            []Expression
	HasArgs         bool
	TrailingClosure *Closure
	Loc             lexer.Span
}

func (n *NewExpression) Kind() Kind       { return KindNewExpression }
func (n *NewExpression) Span() lexer.Span { return n.Loc }
func (n *NewExpression) exprNode()        {}

// Closure represents { [params ->] statements }. It stores only its
// parameters and body; names it references are resolved downstream.
type Closure struct {
	Params   []*Parameter
	HasArrow bool
	Body     []Statement
	Loc      lexer.Span
}

func (c *Closure) Kind() Kind       { return KindClosure }
func (c *Closure) Span() lexer.Span { return c.Loc }
func (c *Closure) exprNode()        {}

// SpreadExpression represents Type... name
type SpreadExpression struct {
	TypeName string
	Name     string
	Loc      lexer.Span
}

func (s *SpreadExpression) Kind() Kind       { return KindSpreadExpression }
func (s *SpreadExpression) Span() lexer.Span { return s.Loc }
func (s *SpreadExpression) exprNode()        {}

// AsExpression represents expr as Type
type AsExpression struct {
	Expr       Expression
	TargetType string
	Loc        lexer.Span
}

func (a *AsExpression) Kind() Kind       { return KindAsExpression }
func (a *AsExpression) Span() lexer.Span { return a.Loc }
func (a *AsExpression) exprNode()        {}

// BlockOperation represents name { statements }: a scoped configuration
// block such as repositories { ... } or dependencies { ... }
type BlockOperation struct {
	Name    string
	NameLoc lexer.Span
	Body    []Statement
	Loc     lexer.Span
}

func (b *BlockOperation) Kind() Kind       { return KindBlockOperation }
func (b *BlockOperation) Span() lexer.Span { return b.Loc }
func (b *BlockOperation) stmtNode()        {}
func (b *BlockOperation) invocationNode()  {}
func (b *BlockOperation) exprNode()        {}

// Callee returns the block's name
func (b *BlockOperation) Callee() string { return b.Name }

// BlockBody returns the block's statements
func (b *BlockOperation) BlockBody() []Statement { return b.Body }
