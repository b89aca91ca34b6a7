package ast_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhaig/groovyscript/internal/ast"
	"github.com/lhaig/groovyscript/internal/parser"
)

// The family interfaces are sealed by marker methods; these assignments
// pin which concrete nodes satisfy them.
var (
	_ ast.Invocation      = (*ast.ImportStatement)(nil)
	_ ast.Invocation      = (*ast.IfStatement)(nil)
	_ ast.Invocation      = (*ast.ReturnStatement)(nil)
	_ ast.Invocation      = (*ast.ThrowStatement)(nil)
	_ ast.Invocation      = (*ast.AssignmentStatement)(nil)
	_ ast.Invocation      = (*ast.FunctionCall)(nil)
	_ ast.Invocation      = (*ast.BlockOperation)(nil)
	_ ast.Invocation      = (*ast.ExpressionStatement)(nil)
	_ ast.Definition      = (*ast.FunctionDefinition)(nil)
	_ ast.Definition      = (*ast.TaskDefinition)(nil)
	_ ast.Definition      = (*ast.VariableDefinition)(nil)
	_ ast.Expression      = (*ast.FunctionCall)(nil)
	_ ast.Expression      = (*ast.BlockOperation)(nil)
	_ ast.Expression      = (*ast.Closure)(nil)
	_ ast.BlockInvocation = (*ast.FunctionCall)(nil)
	_ ast.BlockInvocation = (*ast.BlockOperation)(nil)
)

func TestFamilyOf(t *testing.T) {
	tests := []struct {
		node     ast.Node
		expected ast.Family
	}{
		{&ast.ImportStatement{}, ast.FamilyInvocation},
		{&ast.IfStatement{}, ast.FamilyInvocation},
		{&ast.FunctionCall{}, ast.FamilyInvocation},
		{&ast.BlockOperation{}, ast.FamilyInvocation},
		{&ast.ExpressionStatement{}, ast.FamilyInvocation},
		{&ast.FunctionDefinition{}, ast.FamilyDefinition},
		{&ast.TaskDefinition{}, ast.FamilyDefinition},
		{&ast.VariableDefinition{}, ast.FamilyDefinition},
		{&ast.Identifier{}, ast.FamilyExpression},
		{&ast.ChainExpression{}, ast.FamilyExpression},
		{&ast.Closure{}, ast.FamilyExpression},
		{&ast.Module{}, ast.FamilyNone},
		{&ast.Block{}, ast.FamilyNone},
		{&ast.Parameter{}, ast.FamilyNone},
		{&ast.ChainLink{}, ast.FamilyNone},
	}

	for _, tt := range tests {
		t.Run(tt.node.Kind().String(), func(t *testing.T) {
			if got := ast.FamilyOf(tt.node); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestInFamily_DualMembership(t *testing.T) {
	for _, n := range []ast.Node{&ast.FunctionCall{}, &ast.BlockOperation{}} {
		assert.True(t, ast.InFamily(n, ast.FamilyInvocation), n.Kind().String())
		assert.True(t, ast.InFamily(n, ast.FamilyExpression), n.Kind().String())
		assert.False(t, ast.InFamily(n, ast.FamilyDefinition), n.Kind().String())
	}
	assert.False(t, ast.InFamily(nil, ast.FamilyExpression))
}

func TestSupertypes_IsACopy(t *testing.T) {
	table := ast.Supertypes()
	require.Len(t, table, 3)
	assert.Len(t, table[ast.FamilyDefinition], 3)

	table[ast.FamilyDefinition][0] = ast.KindIdentifier
	assert.Equal(t, ast.KindFunctionDefinition, ast.Supertypes()[ast.FamilyDefinition][0])
}

func TestKindNames(t *testing.T) {
	assert.Equal(t, "block_operation", ast.KindBlockOperation.String())
	assert.Equal(t, "if_statement", ast.KindIfStatement.String())
	assert.Equal(t, "Kind(999)", ast.Kind(999).String())
}

func TestPrint(t *testing.T) {
	mod, err := parser.Parse("def x = 1\nfoo(a) { b }")
	require.NoError(t, err)

	expected := strings.Join([]string{
		"Module",
		"  Assign: =",
		"    Var: def x",
		"    Number: 1",
		"  Call: foo (parens)",
		"    Ident: a",
		"    Closure: 0 params",
		"      ExprStmt",
		"        Ident: b",
		"",
	}, "\n")
	assert.Equal(t, expected, ast.Print(mod))
}

func TestInspect_SkipsChildren(t *testing.T) {
	mod, err := parser.Parse("dependencies { a(); b() }\nc()")
	require.NoError(t, err)

	var kinds []ast.Kind
	ast.Inspect(mod, func(n ast.Node) bool {
		kinds = append(kinds, n.Kind())
		return n.Kind() != ast.KindBlockOperation
	})
	assert.Equal(t, []ast.Kind{ast.KindModule, ast.KindBlockOperation, ast.KindFunctionCall}, kinds)
}

func TestArrayLiteral_IsMap(t *testing.T) {
	entry := &ast.MapEntry{Key: &ast.Identifier{Name: "k"}, Value: &ast.Identifier{Name: "v"}}
	assert.True(t, (&ast.ArrayLiteral{EmptyMap: true}).IsMap())
	assert.True(t, (&ast.ArrayLiteral{Elements: []ast.Expression{entry}}).IsMap())
	assert.False(t, (&ast.ArrayLiteral{}).IsMap())
	assert.False(t, (&ast.ArrayLiteral{Elements: []ast.Expression{entry, &ast.Identifier{Name: "x"}}}).IsMap())
}
