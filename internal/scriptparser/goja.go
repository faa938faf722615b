package scriptparser

import (
	"fmt"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/file"
	"github.com/dop251/goja/parser"
	"github.com/dop251/goja/token"

	"github.com/sfcgo/sfcparse/internal/linecol"
)

// GojaParser is the default Parser implementation (spec §6's `parser`
// option defaults to this), backed by github.com/dop251/goja's pure-Go
// ECMAScript front end. It is the only component in this module with a
// hard third-party parser dependency; everything upstream of it (the
// tokenizer, the template parser) never imports goja directly, only this
// package's Parser interface, so an embedder can swap in another
// ECMAScript front end without touching the rest of the module.
type GojaParser struct{}

// NewGojaParser returns the default Parser.
func NewGojaParser() *GojaParser { return &GojaParser{} }

var _ Parser = (*GojaParser)(nil)

func (p *GojaParser) ParseProgram(src string, opts Options) (*Result, error) {
	name := opts.Filename
	if name == "" {
		name = "source.js"
	}
	var (
		prog *ast.Program
		err  error
	)
	if opts.SourceType == "module" {
		prog, err = parser.ParseModule(name, src, nil)
	} else {
		prog, err = parser.ParseFile(nil, name, src, 0)
	}
	if err != nil {
		return nil, fmt.Errorf("scriptparser: parse program: %w", err)
	}
	conv := &converter{fileSet: prog.File}
	root := &Node{Type: Program}
	for _, stmt := range prog.Body {
		if n := conv.statement(stmt); n != nil {
			root.Body = append(root.Body, n)
		}
	}
	if len(prog.Body) > 0 {
		conv.setRangeFromNodes(root, prog.Body[0], prog.Body[len(prog.Body)-1])
	}
	return &Result{Program: root}, nil
}

func (p *GojaParser) ParseExpression(src string, opts Options) (*Node, error) {
	expr, err := parser.ParseExpression(src)
	if err != nil {
		return nil, fmt.Errorf("scriptparser: parse expression: %w", err)
	}
	conv := &converter{}
	return conv.expression(expr), nil
}

// converter holds the file set used to translate goja's 1-based file.Idx
// positions into this module's 0-based byte offsets, and the linecol
// index (when available) for loc computation. Most callers fix up
// loc/range themselves via internal/locfix once the node tree returns
// into original-source coordinates, so converter only needs to produce
// correct *relative* ranges here.
type converter struct {
	fileSet *file.File
	lines   *linecol.Index
}

func (c *converter) idx(i file.Idx) int {
	if i == 0 {
		return 0
	}
	// goja's file.Idx is a 1-based byte offset into the parsed source.
	return int(i) - 1
}

func (c *converter) setRange(n *Node, start, end file.Idx) {
	n.Range = [2]int{c.idx(start), c.idx(end)}
}

func (c *converter) setRangeFromNodes(n *Node, first, last ast.Node) {
	n.Range = [2]int{c.idx(first.Idx0()), c.idx(last.Idx1())}
}

func (c *converter) statement(s ast.Statement) *Node {
	if s == nil {
		return nil
	}
	var n *Node
	switch st := s.(type) {
	case *ast.ExpressionStatement:
		n = &Node{Type: ExpressionStatement, Argument: c.expression(st.Expression)}
	case *ast.BlockStatement:
		n = &Node{Type: BlockStatement}
		for _, inner := range st.List {
			if cn := c.statement(inner); cn != nil {
				n.Body = append(n.Body, cn)
			}
		}
	case *ast.EmptyStatement:
		n = &Node{Type: EmptyStatement}
	case *ast.ReturnStatement:
		n = &Node{Type: ReturnStatement, Argument: c.expression(st.Argument)}
	case *ast.IfStatement:
		n = &Node{
			Type:       IfStatement,
			Test:       c.expression(st.Test),
			Consequent: c.statement(st.Consequent),
		}
		if st.Alternate != nil {
			n.Alternate = c.statement(st.Alternate)
		}
	case *ast.ForStatement:
		n = &Node{Type: ForStatement, Test: c.expression(st.Test), Update: c.expression(st.Update)}
		n.BlockBody = c.statement(st.Body)
	case *ast.ForInStatement:
		n = &Node{Type: ForInStatement, Right: c.expression(st.Source), Left: c.forInto(st.Into)}
		n.BlockBody = c.statement(st.Body)
	case *ast.ForOfStatement:
		n = &Node{Type: ForOfStatement, Right: c.expression(st.Source), Left: c.forInto(st.Into)}
		n.BlockBody = c.statement(st.Body)
	case *ast.VariableStatement:
		n = &Node{Type: VariableDeclaration, Kind: "var"}
		for _, b := range st.List {
			n.Declarations = append(n.Declarations, c.binding(b))
		}
	case *ast.LexicalDeclaration:
		kind := "let"
		if st.Token == token.CONST {
			kind = "const"
		}
		n = &Node{Type: VariableDeclaration, Kind: kind}
		for _, b := range st.List {
			n.Declarations = append(n.Declarations, c.binding(b))
		}
	case *ast.FunctionDeclaration:
		n = &Node{Type: FunctionDeclaration}
		if st.Function != nil {
			n.Id = c.identifierFrom(st.Function.Name)
			n.BlockBody = c.statement(st.Function.Body)
			n.Async = st.Function.Async
		}
	case *ast.ImportDeclaration:
		n = c.importDeclaration(st)
	case *ast.ExportDeclaration:
		n = c.exportDeclaration(st)
	default:
		n = &Node{Type: "UnknownStatement", Native: s}
		n.setRange(c, s.Idx0(), s.Idx1())
		return n
	}
	n.setRange(c, s.Idx0(), s.Idx1())
	return n
}

// setRange is a convenience method on *Node used only within this file's
// conversion helpers (distinct from the exported SetRange used by
// locfix.FixNode, which replaces rather than seeds the range).
func (n *Node) setRange(c *converter, start, end file.Idx) {
	n.Range = [2]int{c.idx(start), c.idx(end)}
}

// forInto converts a for-in/for-of loop's left-hand side, which goja
// represents either as a fresh variable declaration (ForIntoVar) or as
// an existing-binding target expression (ForIntoExpression).
func (c *converter) forInto(into ast.ForInto) *Node {
	switch v := into.(type) {
	case *ast.ForIntoVar:
		return c.binding(v.Binding)
	case *ast.ForIntoExpression:
		return c.expression(v.Expression)
	default:
		return nil
	}
}

func (c *converter) binding(b *ast.Binding) *Node {
	if b == nil {
		return nil
	}
	n := &Node{Type: VariableDeclarator}
	n.Id = c.bindingTarget(b.Target)
	n.Init = c.expression(b.Initializer)
	return n
}

func (c *converter) bindingTarget(t ast.BindingTarget) *Node {
	switch bt := t.(type) {
	case *ast.Identifier:
		return c.identifierFrom(bt)
	case *ast.ArrayPattern:
		n := &Node{Type: ArrayPattern}
		for _, e := range bt.Elements {
			n.Elements = append(n.Elements, c.expression(e))
		}
		if bt.Rest != nil {
			n.Elements = append(n.Elements, &Node{Type: RestElement, Argument: c.bindingTarget(bt.Rest)})
		}
		n.setRange(c, bt.Idx0(), bt.Idx1())
		return n
	case *ast.ObjectPattern:
		n := &Node{Type: ObjectPattern}
		for _, p := range bt.Properties {
			if pp, ok := p.(*ast.PropertyShort); ok {
				n.Properties = append(n.Properties, &Node{
					Type: Property,
					Name: pp.Name.Name.String(),
					Kind: "init",
				})
			}
		}
		n.setRange(c, bt.Idx0(), bt.Idx1())
		return n
	default:
		return nil
	}
}

func (c *converter) identifierFrom(id *ast.Identifier) *Node {
	if id == nil {
		return nil
	}
	n := &Node{Type: Identifier, Name: id.Name.String()}
	n.setRange(c, id.Idx0(), id.Idx1())
	return n
}

// importDeclaration converts a goja module import statement into an
// ESTree ImportDeclaration (spec §8's S3 scenario needs a real node Type
// here, not an opaque blob, for downstream unused-import style checks).
func (c *converter) importDeclaration(st *ast.ImportDeclaration) *Node {
	n := &Node{Type: ImportDeclaration}
	if st.FromClause != nil {
		n.Source = &Node{Type: Literal, Value: st.FromClause.ModuleSpecifier, Raw: st.FromClause.ModuleSpecifier}
	}
	if clause := st.ImportClause; clause != nil {
		if clause.ImportedDefaultBinding != nil {
			spec := &Node{Type: ImportDefaultSpecifier, Id: c.identifierFrom(clause.ImportedDefaultBinding)}
			n.Specifiers = append(n.Specifiers, spec)
		}
		if clause.NameSpaceImport != nil {
			spec := &Node{Type: ImportNamespaceSpecifier, Id: c.identifierFrom(clause.NameSpaceImport.ImportedBinding)}
			n.Specifiers = append(n.Specifiers, spec)
		}
		if clause.NamedImports != nil {
			for _, imp := range clause.NamedImports.ImportsList {
				local := imp.ImportedBinding
				name := imp.IdentifierName
				if name == nil {
					name = local
				}
				spec := &Node{Type: ImportSpecifier, Id: c.identifierFrom(local), Name: name.Name.String()}
				n.Specifiers = append(n.Specifiers, spec)
			}
		}
	}
	return n
}

// exportDeclaration converts a goja module export statement. A local
// declaration export ("export const x = 1", "export function f(){}")
// carries its wrapped declaration in Argument; a re-export or named-list
// export carries Specifiers (and Source, for "export { x } from 'mod'").
func (c *converter) exportDeclaration(st *ast.ExportDeclaration) *Node {
	if st.IsDefault {
		n := &Node{Type: ExportDefaultDeclaration}
		switch {
		case st.HoistableDeclaration != nil:
			n.Argument = c.statement(st.HoistableDeclaration)
		case st.ClassDeclaration != nil:
			n.Argument = &Node{Type: "ClassDeclaration", Native: st.ClassDeclaration}
		case st.AssignExpr != nil:
			n.Argument = c.expression(st.AssignExpr)
		}
		return n
	}

	n := &Node{Type: ExportNamedDeclaration}
	switch {
	case st.Var != nil:
		n.Argument = c.statement(st.Var)
	case st.LexicalDeclaration != nil:
		n.Argument = c.statement(st.LexicalDeclaration)
	case st.HoistableDeclaration != nil:
		n.Argument = c.statement(st.HoistableDeclaration)
	case st.ClassDeclaration != nil:
		n.Argument = &Node{Type: "ClassDeclaration", Native: st.ClassDeclaration}
	}
	if st.FromClause != nil {
		n.Source = &Node{Type: Literal, Value: st.FromClause.ModuleSpecifier, Raw: st.FromClause.ModuleSpecifier}
	}
	if st.NamedExports != nil {
		for _, exp := range st.NamedExports.ExportsList {
			local := exp.IdentifierName
			exported := exp.ExportedName
			if exported == nil {
				exported = local
			}
			n.Specifiers = append(n.Specifiers, &Node{Id: c.identifierFrom(local), Name: exported.Name.String()})
		}
	}
	return n
}

func (c *converter) expression(e ast.Expression) *Node {
	if e == nil {
		return nil
	}
	var n *Node
	switch ex := e.(type) {
	case *ast.Identifier:
		n = &Node{Type: Identifier, Name: ex.Name.String()}
	case *ast.StringLiteral:
		n = &Node{Type: Literal, Value: ex.Value.String(), Raw: ex.Literal}
	case *ast.NumberLiteral:
		n = &Node{Type: Literal, Value: ex.Value, Raw: ex.Literal}
	case *ast.BooleanLiteral:
		n = &Node{Type: Literal, Value: ex.Value}
	case *ast.NullLiteral:
		n = &Node{Type: Literal, Value: nil}
	case *ast.ThisExpression:
		n = &Node{Type: ThisExpression}
	case *ast.SequenceExpression:
		n = &Node{Type: SequenceExpression}
		for _, s := range ex.Sequence {
			n.Elements = append(n.Elements, c.expression(s))
		}
	case *ast.ConditionalExpression:
		n = &Node{
			Type:       ConditionalExpression,
			Test:       c.expression(ex.Test),
			Consequent: c.expression(ex.Consequent),
			Alternate:  c.expression(ex.Alternate),
		}
	case *ast.BinaryExpression:
		typ := BinaryExpression
		if ex.Operator == token.LOGICAL_AND || ex.Operator == token.LOGICAL_OR {
			typ = LogicalExpression
		}
		n = &Node{
			Type:     typ,
			Operator: ex.Operator.String(),
			Left:     c.expression(ex.Left),
			Right:    c.expression(ex.Right),
		}
	case *ast.UnaryExpression:
		n = &Node{
			Type:     UnaryExpression,
			Operator: ex.Operator.String(),
			Argument: c.expression(ex.Operand),
			Prefix:   !ex.Postfix,
		}
	case *ast.AssignExpression:
		n = &Node{
			Type:     AssignmentExpression,
			Operator: ex.Operator.String(),
			Left:     c.expression(ex.Left),
			Right:    c.expression(ex.Right),
		}
	case *ast.CallExpression:
		n = &Node{Type: CallExpression, Callee: c.expression(ex.Callee)}
		for _, a := range ex.ArgumentList {
			n.Arguments = append(n.Arguments, c.expression(a))
		}
	case *ast.NewExpression:
		n = &Node{Type: NewExpression, Callee: c.expression(ex.Callee)}
		for _, a := range ex.ArgumentList {
			n.Arguments = append(n.Arguments, c.expression(a))
		}
	case *ast.DotExpression:
		n = &Node{
			Type:      MemberExpression,
			Object:    c.expression(ex.Left),
			Property2: c.identifierFrom(&ex.Identifier),
			Computed:  false,
		}
	case *ast.BracketExpression:
		n = &Node{
			Type:      MemberExpression,
			Object:    c.expression(ex.Left),
			Property2: c.expression(ex.Member),
			Computed:  true,
		}
	case *ast.ArrayLiteral:
		n = &Node{Type: ArrayExpression}
		for _, el := range ex.Value {
			n.Elements = append(n.Elements, c.expression(el))
		}
	case *ast.ObjectLiteral:
		n = &Node{Type: ObjectExpression}
		for _, prop := range ex.Value {
			n.Properties = append(n.Properties, c.property(prop))
		}
	case *ast.SpreadElement:
		n = &Node{Type: SpreadElement, Argument: c.expression(ex.Expression)}
	case *ast.FunctionLiteral:
		n = &Node{Type: FunctionExpression, Async: ex.Async}
		if ex.Name != nil {
			n.Id = c.identifierFrom(ex.Name)
		}
		n.BlockBody = c.statement(ex.Body)
	case *ast.ArrowFunctionLiteral:
		n = &Node{Type: ArrowFunctionExpression, Async: ex.Async}
		if body, ok := ex.Body.(ast.Statement); ok {
			n.BlockBody = c.statement(body)
		} else if expr, ok := ex.Body.(ast.Expression); ok {
			n.BlockBody = &Node{Type: ExpressionStatement, Argument: c.expression(expr)}
		}
	default:
		n = &Node{Type: "UnknownExpression", Native: e}
	}
	n.setRange(c, e.Idx0(), e.Idx1())
	return n
}

func (c *converter) property(p ast.Property) *Node {
	switch prop := p.(type) {
	case *ast.PropertyKeyed:
		n := &Node{
			Type:     Property,
			Computed: prop.Computed,
			Kind:     "init",
		}
		switch prop.Kind {
		case ast.PropertyKindGet:
			n.Kind = "get"
		case ast.PropertyKindSet:
			n.Kind = "set"
		}
		n.Id = c.expression(prop.Key)
		n.Init = c.expression(prop.Value)
		return n
	case *ast.PropertyShort:
		n := &Node{Type: Property, Kind: "init", Name: prop.Name.Name.String()}
		n.Id = c.identifierFrom(&prop.Name)
		n.Init = n.Id
		return n
	default:
		return &Node{Type: "UnknownProperty", Native: p}
	}
}
