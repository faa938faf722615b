// Package scriptparser defines the minimal ESTree-compatible node shape
// this core exchanges with the external script parser (spec §4.5, §6),
// plus the default goja-backed implementation (internal/scriptparser/goja.go).
//
// The external collaborator is genuinely pluggable: callers can implement
// Parser against any ECMAScript front end exposing range/loc-bearing
// nodes. Only the shape below — not a specific parser's native AST type —
// crosses the boundary into the rest of this module.
package scriptparser

import "github.com/sfcgo/sfcparse/internal/linecol"

// NodeType is the closed-ish set of ESTree node kinds this core produces
// or consumes. It is not exhaustive of ESTree (no class/JSX/decorator
// nodes), only of what directive expressions and <script> bodies in a
// template need.
type NodeType string

const (
	Program                NodeType = "Program"
	Identifier             NodeType = "Identifier"
	PrivateIdentifier      NodeType = "PrivateIdentifier"
	Literal                NodeType = "Literal"
	ThisExpression         NodeType = "ThisExpression"
	ArrayExpression        NodeType = "ArrayExpression"
	ObjectExpression       NodeType = "ObjectExpression"
	Property               NodeType = "Property"
	FunctionExpression     NodeType = "FunctionExpression"
	ArrowFunctionExpression NodeType = "ArrowFunctionExpression"
	UnaryExpression        NodeType = "UnaryExpression"
	UpdateExpression       NodeType = "UpdateExpression"
	BinaryExpression       NodeType = "BinaryExpression"
	LogicalExpression      NodeType = "LogicalExpression"
	AssignmentExpression   NodeType = "AssignmentExpression"
	ConditionalExpression  NodeType = "ConditionalExpression"
	CallExpression         NodeType = "CallExpression"
	NewExpression          NodeType = "NewExpression"
	SequenceExpression     NodeType = "SequenceExpression"
	SpreadElement          NodeType = "SpreadElement"
	MemberExpression       NodeType = "MemberExpression"
	AwaitExpression        NodeType = "AwaitExpression"
	TemplateLiteral        NodeType = "TemplateLiteral"

	ExpressionStatement NodeType = "ExpressionStatement"
	BlockStatement      NodeType = "BlockStatement"
	EmptyStatement      NodeType = "EmptyStatement"
	ReturnStatement     NodeType = "ReturnStatement"
	IfStatement         NodeType = "IfStatement"
	ForStatement        NodeType = "ForStatement"
	ForInStatement      NodeType = "ForInStatement"
	ForOfStatement      NodeType = "ForOfStatement"
	VariableDeclaration NodeType = "VariableDeclaration"
	VariableDeclarator  NodeType = "VariableDeclarator"
	FunctionDeclaration NodeType = "FunctionDeclaration"

	ArrayPattern   NodeType = "ArrayPattern"
	ObjectPattern  NodeType = "ObjectPattern"
	RestElement    NodeType = "RestElement"
	AssignmentPattern NodeType = "AssignmentPattern"

	ImportDeclaration        NodeType = "ImportDeclaration"
	ImportSpecifier          NodeType = "ImportSpecifier"
	ImportDefaultSpecifier   NodeType = "ImportDefaultSpecifier"
	ImportNamespaceSpecifier NodeType = "ImportNamespaceSpecifier"
	ExportNamedDeclaration   NodeType = "ExportNamedDeclaration"
	ExportDefaultDeclaration NodeType = "ExportDefaultDeclaration"
)

// Loc mirrors spec §3's loc shape.
type Loc struct {
	Start linecol.Position
	End   linecol.Position
}

// Node is a generic ESTree node. Not every field applies to every Type;
// see the NodeType constants' doc comments in the ESTree spec for which
// fields a given type populates. Using one struct (rather than one Go
// type per ESTree node kind) keeps the location-fix traversal (which
// must visit every node generically) and the goja conversion (which
// must build arbitrary shapes) simple, at the cost of type safety within
// a single node — callers switch on Type before reading type-specific
// fields, exactly as an ESTree consumer would switch on node.type.
type Node struct {
	Type  NodeType
	Range [2]int
	Loc   Loc

	Name     string // Identifier.name, Property key shorthand
	Value    any    // Literal.value
	Raw      string // Literal.raw
	Operator string // Unary/Binary/Logical/Assignment/Update
	Prefix   bool   // UnaryExpression/UpdateExpression
	Computed bool   // MemberExpression/Property
	Optional bool   // MemberExpression (optional chaining)
	Async    bool
	Kind     string // VariableDeclaration ("var"/"let"/"const"), Property ("init"/"get"/"set")

	// Common child slots, nil when not applicable to Type.
	Left, Right           *Node
	Test, Consequent, Alternate *Node
	Argument              *Node
	Callee                *Node
	Object, Property2     *Node // MemberExpression.object / .property (Property2 to avoid shadowing NodeType Property)
	Id                    *Node
	Init                  *Node
	Body                  []*Node
	BlockBody             *Node // single-statement Body slot (BlockStatement, function bodies)
	Elements              []*Node
	Properties            []*Node
	Arguments             []*Node
	Declarations          []*Node
	Params                []*Node
	Specifiers            []*Node
	Source                *Node
	Update                *Node

	// free-form reference to the underlying parser node, useful for
	// diagnostics; never inspected by this core.
	Native any
}

// GetRange / SetRange / SetLoc implement internal/locfix.RangeLike.
func (n *Node) GetRange() [2]int { return n.Range }
func (n *Node) SetRange(r [2]int) { n.Range = r }
func (n *Node) SetLoc(start, end linecol.Position) {
	n.Loc = Loc{Start: start, End: end}
}

// Walk visits node and every reachable child, depth-first, calling visit
// on each. It is the traversal the location-fix calculator and the
// reference collector both use (spec §4.7, §4.4 step 5).
func Walk(n *Node, visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)
	Walk(n.Left, visit)
	Walk(n.Right, visit)
	Walk(n.Test, visit)
	Walk(n.Consequent, visit)
	Walk(n.Alternate, visit)
	Walk(n.Argument, visit)
	Walk(n.Callee, visit)
	Walk(n.Object, visit)
	Walk(n.Property2, visit)
	Walk(n.Id, visit)
	Walk(n.Init, visit)
	Walk(n.BlockBody, visit)
	Walk(n.Source, visit)
	Walk(n.Update, visit)
	for _, c := range n.Body {
		Walk(c, visit)
	}
	for _, c := range n.Elements {
		Walk(c, visit)
	}
	for _, c := range n.Properties {
		Walk(c, visit)
	}
	for _, c := range n.Arguments {
		Walk(c, visit)
	}
	for _, c := range n.Declarations {
		Walk(c, visit)
	}
	for _, c := range n.Params {
		Walk(c, visit)
	}
	for _, c := range n.Specifiers {
		Walk(c, visit)
	}
}

// Token is a single token of the script parser's output, per the external
// collaborator contract in spec §6.
type Token struct {
	Type  string
	Value string
	Range [2]int
	Loc   Loc
}

func (t *Token) GetRange() [2]int { return t.Range }
func (t *Token) SetRange(r [2]int) { t.Range = r }
func (t *Token) SetLoc(start, end linecol.Position) {
	t.Loc = Loc{Start: start, End: end}
}

// Comment is a parsed comment, carried through for completeness even
// though the template-expression contexts in this core rarely contain
// them.
type Comment struct {
	Block bool
	Value string
	Range [2]int
	Loc   Loc
}

// Result is what a Parser invocation returns: the program plus the flat
// token/comment lists the Script Parser Adapter (§4.5) needs to splice
// synthetic tokens into.
type Result struct {
	Program  *Node
	Tokens   []*Token
	Comments []*Comment
}

// Options configures a single Parse call; ECMAScript version and source
// type are forwarded from spec §6's Options surface.
type Options struct {
	EcmaVersion int
	SourceType  string // "script" | "module"
	// Filename is used only for diagnostics.
	Filename string
}

// Parser is the external-script-parser contract from spec §6: any
// implementation accepting a source slice and returning a Result (and/or
// throwing, here returning an error) may be plugged in via the `parser`
// option.
type Parser interface {
	// ParseProgram parses a whole program (statements, declarations,
	// imports/exports for module sourceType).
	ParseProgram(src string, opts Options) (*Result, error)
	// ParseExpression parses a single expression, used by the
	// directive-expression transformer (spec §4.4).
	ParseExpression(src string, opts Options) (*Node, error)
}
