package ast

import "fmt"

// Kind identifies the concrete type of a node
type Kind int

const (
	KindInvalid Kind = iota
	KindModule
	KindBlock

	// invocation family
	KindImportStatement
	KindIfStatement
	KindElseIfClause
	KindReturnStatement
	KindThrowStatement
	KindAssignmentStatement
	KindFunctionCall
	KindExpressionStatement

	// definition family
	KindFunctionDefinition
	KindTaskDefinition
	KindVariableDefinition
	KindParameter

	// expression family
	KindIdentifier
	KindNumberLiteral
	KindStringLiteral
	KindBooleanLiteral
	KindNullLiteral
	KindArrayLiteral
	KindMapEntry
	KindIndexExpression
	KindUnaryExpression
	KindBinaryExpression
	KindTernaryExpression
	KindElvisExpression
	KindChainExpression
	KindChainLink
	KindNewExpression
	KindClosure
	KindSpreadExpression
	KindAsExpression
	KindBlockOperation
)

var kindNames = map[Kind]string{
	KindModule:              "module",
	KindBlock:               "block",
	KindImportStatement:     "import_statement",
	KindIfStatement:         "if_statement",
	KindElseIfClause:        "else_if_clause",
	KindReturnStatement:     "return_statement",
	KindThrowStatement:      "throw_statement",
	KindAssignmentStatement: "assignment_statement",
	KindFunctionCall:        "function_call",
	KindExpressionStatement: "expression_statement",
	KindFunctionDefinition:  "function_definition",
	KindTaskDefinition:      "task_definition",
	KindVariableDefinition:  "variable_definition",
	KindParameter:           "parameter",
	KindIdentifier:          "identifier",
	KindNumberLiteral:       "number_literal",
	KindStringLiteral:       "string_literal",
	KindBooleanLiteral:      "boolean_literal",
	KindNullLiteral:         "null_literal",
	KindArrayLiteral:        "array_literal",
	KindMapEntry:            "map_entry",
	KindIndexExpression:     "index_expression",
	KindUnaryExpression:     "unary_expression",
	KindBinaryExpression:    "binary_expression",
	KindTernaryExpression:   "ternary_expression",
	KindElvisExpression:     "elvis_expression",
	KindChainExpression:     "chain_expression",
	KindChainLink:           "chain_link",
	KindNewExpression:       "new_expression",
	KindClosure:             "closure",
	KindSpreadExpression:    "spread_expression",
	KindAsExpression:        "as_expression",
	KindBlockOperation:      "block_operation",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Family is one of the three supertype groupings of nodes
type Family int

const (
	FamilyNone Family = iota
	FamilyInvocation
	FamilyDefinition
	FamilyExpression
)

func (f Family) String() string {
	switch f {
	case FamilyInvocation:
		return "invocation"
	case FamilyDefinition:
		return "definition"
	case FamilyExpression:
		return "expression"
	default:
		return "none"
	}
}

// supertypes is the fixed family membership table. FunctionCall and
// BlockOperation are listed under both invocation and expression.
var supertypes = map[Family][]Kind{
	FamilyInvocation: {
		KindImportStatement,
		KindIfStatement,
		KindReturnStatement,
		KindThrowStatement,
		KindAssignmentStatement,
		KindFunctionCall,
		KindBlockOperation,
		KindExpressionStatement,
	},
	FamilyDefinition: {
		KindFunctionDefinition,
		KindTaskDefinition,
		KindVariableDefinition,
	},
	FamilyExpression: {
		KindIdentifier,
		KindNumberLiteral,
		KindStringLiteral,
		KindBooleanLiteral,
		KindNullLiteral,
		KindArrayLiteral,
		KindMapEntry,
		KindIndexExpression,
		KindUnaryExpression,
		KindBinaryExpression,
		KindTernaryExpression,
		KindElvisExpression,
		KindChainExpression,
		KindNewExpression,
		KindClosure,
		KindSpreadExpression,
		KindAsExpression,
		KindBlockOperation,
		KindFunctionCall,
	},
}

var kindFamilies = func() map[Kind][]Family {
	m := make(map[Kind][]Family)
	for _, fam := range []Family{FamilyInvocation, FamilyDefinition, FamilyExpression} {
		for _, k := range supertypes[fam] {
			m[k] = append(m[k], fam)
		}
	}
	return m
}()

// Supertypes returns a copy of the family membership table
func Supertypes() map[Family][]Kind {
	out := make(map[Family][]Kind, len(supertypes))
	for fam, kinds := range supertypes {
		out[fam] = append([]Kind(nil), kinds...)
	}
	return out
}

// FamilyOf returns the first family a node belongs to, or FamilyNone for
// structural nodes such as modules, blocks, parameters and chain links.
// Calls and block operations report FamilyInvocation.
func FamilyOf(n Node) Family {
	if n == nil {
		return FamilyNone
	}
	fams := kindFamilies[n.Kind()]
	if len(fams) == 0 {
		return FamilyNone
	}
	return fams[0]
}

// InFamily reports whether the node's kind is a member of fam
func InFamily(n Node, fam Family) bool {
	if n == nil {
		return false
	}
	for _, f := range kindFamilies[n.Kind()] {
		if f == fam {
			return true
		}
	}
	return false
}
