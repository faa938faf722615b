package scriptparser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sfcgo/sfcparse/internal/scriptparser"
)

func TestWalk_VisitsEveryReachableChild(t *testing.T) {
	// (a + b) visited as Left/Right of a BinaryExpression.
	left := &scriptparser.Node{Type: scriptparser.Identifier, Name: "a"}
	right := &scriptparser.Node{Type: scriptparser.Identifier, Name: "b"}
	root := &scriptparser.Node{Type: scriptparser.BinaryExpression, Operator: "+", Left: left, Right: right}

	var visited []string
	scriptparser.Walk(root, func(n *scriptparser.Node) {
		visited = append(visited, string(n.Type)+":"+n.Name)
	})

	require.ElementsMatch(t, []string{
		string(scriptparser.BinaryExpression) + ":",
		string(scriptparser.Identifier) + ":a",
		string(scriptparser.Identifier) + ":b",
	}, visited)
}

func TestWalk_VisitsListFields(t *testing.T) {
	el1 := &scriptparser.Node{Type: scriptparser.Literal, Value: 1.0}
	el2 := &scriptparser.Node{Type: scriptparser.Literal, Value: 2.0}
	arr := &scriptparser.Node{Type: scriptparser.ArrayExpression, Elements: []*scriptparser.Node{el1, el2}}

	count := 0
	scriptparser.Walk(arr, func(*scriptparser.Node) { count++ })
	require.Equal(t, 3, count)
}

func TestWalk_NilIsNoop(t *testing.T) {
	require.NotPanics(t, func() {
		scriptparser.Walk(nil, func(*scriptparser.Node) {
			t.Fatal("visit should never be called for a nil node")
		})
	})
}

func TestNode_RangeLike(t *testing.T) {
	n := &scriptparser.Node{}
	n.SetRange([2]int{3, 9})
	require.Equal(t, [2]int{3, 9}, n.GetRange())
}
