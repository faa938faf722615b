package scriptparser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sfcgo/sfcparse/internal/scriptparser"
)

func TestGojaParser_ParseExpression_Identifier(t *testing.T) {
	p := scriptparser.NewGojaParser()
	n, err := p.ParseExpression("count", scriptparser.Options{})
	require.NoError(t, err)
	require.Equal(t, scriptparser.Identifier, n.Type)
	require.Equal(t, "count", n.Name)
}

func TestGojaParser_ParseExpression_BinaryExpression(t *testing.T) {
	p := scriptparser.NewGojaParser()
	n, err := p.ParseExpression("a + b", scriptparser.Options{})
	require.NoError(t, err)
	require.Equal(t, scriptparser.BinaryExpression, n.Type)
	require.Equal(t, "+", n.Operator)
	require.Equal(t, scriptparser.Identifier, n.Left.Type)
	require.Equal(t, "a", n.Left.Name)
	require.Equal(t, scriptparser.Identifier, n.Right.Type)
	require.Equal(t, "b", n.Right.Name)
}

func TestGojaParser_ParseExpression_LogicalExpression(t *testing.T) {
	p := scriptparser.NewGojaParser()
	n, err := p.ParseExpression("a && b", scriptparser.Options{})
	require.NoError(t, err)
	require.Equal(t, scriptparser.LogicalExpression, n.Type)
}

func TestGojaParser_ParseExpression_MemberExpression(t *testing.T) {
	p := scriptparser.NewGojaParser()
	n, err := p.ParseExpression("user.name", scriptparser.Options{})
	require.NoError(t, err)
	require.Equal(t, scriptparser.MemberExpression, n.Type)
	require.False(t, n.Computed)
	require.Equal(t, "user", n.Object.Name)
	require.Equal(t, "name", n.Property2.Name)
}

func TestGojaParser_ParseExpression_SyntaxError(t *testing.T) {
	p := scriptparser.NewGojaParser()
	_, err := p.ParseExpression("a +", scriptparser.Options{})
	require.Error(t, err)
}

func TestGojaParser_ParseProgram_VariableDeclaration(t *testing.T) {
	p := scriptparser.NewGojaParser()
	result, err := p.ParseProgram("let x = 1;", scriptparser.Options{SourceType: "script"})
	require.NoError(t, err)
	require.Len(t, result.Program.Body, 1)
	stmt := result.Program.Body[0]
	require.Equal(t, scriptparser.VariableDeclaration, stmt.Type)
	require.Equal(t, "let", stmt.Kind)
	require.Len(t, stmt.Declarations, 1)
	require.Equal(t, "x", stmt.Declarations[0].Id.Name)
}

func TestGojaParser_ParseProgram_ForOfLeftBinding(t *testing.T) {
	p := scriptparser.NewGojaParser()
	result, err := p.ParseProgram("for (const item of items) { use(item); }", scriptparser.Options{SourceType: "script"})
	require.NoError(t, err)
	require.Len(t, result.Program.Body, 1)
	stmt := result.Program.Body[0]
	require.Equal(t, scriptparser.ForOfStatement, stmt.Type)
	require.NotNil(t, stmt.Left, "for-of's left-hand binding must not be dropped")
	require.NotNil(t, stmt.Right)
	require.Equal(t, "items", stmt.Right.Name)
}

func TestGojaParser_ParseProgram_SyntaxError(t *testing.T) {
	p := scriptparser.NewGojaParser()
	_, err := p.ParseProgram("let = ;", scriptparser.Options{SourceType: "script"})
	require.Error(t, err)
}
