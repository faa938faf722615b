package sfcparse

import (
	"strings"

	"github.com/sfcgo/sfcparse/internal/entity"
	"github.com/sfcgo/sfcparse/internal/linecol"
	"github.com/sfcgo/sfcparse/internal/locfix"
	"github.com/sfcgo/sfcparse/internal/scriptparser"
	"github.com/sfcgo/sfcparse/internal/tokenizer"
)

// exprContext carries everything buildExpressionContainer needs to turn
// a raw mustache/directive-value slice into a VExpressionContainer (spec
// §4.4).
type exprContext struct {
	Raw         string // the literal text between delimiters, before entity decode
	StartOffset int    // offset of Raw[0] in the original source
	FullSource  string // the whole original source, for prefix synthesis
	Lines       *linecol.Index
	Parser      scriptparser.Parser
	Directive   string // "" for a mustache; otherwise the directive name (for, on, bind, ...)
	Errors      *[]ParseError // optional sink for recoverable diagnostics (e.g. unknown entity)
}

// buildExpressionContainer runs spec §4.4 end to end for one expression
// slice.
func buildExpressionContainer(ctx exprContext) *VExpressionContainer {
	decoded, gaps, unknown := decodeWithGaps(ctx.Raw)
	if ctx.Errors != nil {
		for _, offset := range unknown {
			pos := ctx.StartOffset + offset
			*ctx.Errors = append(*ctx.Errors, newTemplateError(
				tokenizer.ErrUnknownNamedCharacterReference, pos, ctx.Lines.Position(pos),
				"unknown named character reference"))
		}
	}
	prefix := buildPrefix(ctx.FullSource, ctx.StartOffset)
	calc := locfix.New(toLocfixGaps(gaps), ctx.Lines)

	container := &VExpressionContainer{}
	container.Range = [2]int{ctx.StartOffset, ctx.StartOffset + len(ctx.Raw)}

	if ctx.Directive == "for" {
		buildVForExpression(container, ctx, decoded, prefix, calc)
		return container
	}

	node, err := ctx.Parser.ParseExpression(prefix+decoded, scriptparser.Options{Filename: "expression.js"})
	if err != nil {
		perr := newTemplateError(errorCodeExpression, ctx.StartOffset, ctx.Lines.Position(ctx.StartOffset), err.Error())
		container.SyntaxError = &perr
		return container
	}
	scriptparser.Walk(node, func(n *scriptparser.Node) { calc.FixNode(n) })
	container.Expression = node
	container.References = collectReferences(node)
	if ctx.Directive == "on" {
		container.References = removeEventReference(container.References)
	}
	return container
}

// buildVForExpression handles the v-for left/right split and the
// parenthesized-destructuring rewrite (spec §4.4 step 4); ElementVariable
// extraction is extractVForVariables, called by the attribute builder.
func buildVForExpression(container *VExpressionContainer, ctx exprContext, decoded, prefix string, calc *locfix.Calculator) {
	leftRaw, op, rightRaw, ok := splitForExpression(decoded)
	if !ok {
		perr := newTemplateError(errorCodeExpression, ctx.StartOffset, ctx.Lines.Position(ctx.StartOffset), "malformed v-for expression")
		container.SyntaxError = &perr
		return
	}

	trimmedLeft := strings.TrimSpace(leftRaw)
	wasParenthesized := strings.HasPrefix(trimmedLeft, "(") && strings.HasSuffix(trimmedLeft, ")")
	leftForParse := trimmedLeft
	if wasParenthesized {
		inner := strings.TrimSuffix(strings.TrimPrefix(trimmedLeft, "("), ")")
		leftForParse = "[" + inner + "]"
	}

	wrapped := prefix + "for(" + leftForParse + " " + op + " " + rightRaw + ");"
	result, err := ctx.Parser.ParseProgram(wrapped, scriptparser.Options{SourceType: "script", Filename: "v-for.js"})
	if err != nil || result == nil || len(result.Program.Body) == 0 {
		msg := "malformed v-for expression"
		if err != nil {
			msg = err.Error()
		}
		perr := newTemplateError(errorCodeExpression, ctx.StartOffset, ctx.Lines.Position(ctx.StartOffset), msg)
		container.SyntaxError = &perr
		return
	}
	stmt := result.Program.Body[0]
	scriptparser.Walk(stmt, func(n *scriptparser.Node) { calc.FixNode(n) })

	var left []*scriptparser.Node
	if wasParenthesized {
		if stmt.Left != nil {
			left = stmt.Left.Elements
		}
	} else if stmt.Left != nil {
		left = []*scriptparser.Node{stmt.Left}
	}

	forExpr := &VForExpression{Left: left, Right: stmt.Right}
	container.Expression = forExpr
	container.References = collectReferences(stmt.Right)
}

// extractVForVariables builds the ElementVariable list for a v-for
// directive's left-hand identifiers (spec §4.4 step 7), to be attached
// to the owning VElement by the template parser.
func extractVForVariables(expr *VForExpression) []*ElementVariable {
	var out []*ElementVariable
	if expr == nil {
		return nil
	}
	for _, pat := range expr.Left {
		for _, name := range patternIdentifiers(pat) {
			out = append(out, &ElementVariable{
				Id:   &VIdentifier{Name: name},
				Kind: VariableKindVFor,
			})
		}
	}
	return out
}

// extractSlotScopeVariables builds the ElementVariable list for a
// slot-scope/scope attribute's destructured parameter (spec §4.4 step
// 8).
func extractSlotScopeVariables(pattern *scriptparser.Node) []*ElementVariable {
	var out []*ElementVariable
	for _, name := range patternIdentifiers(pattern) {
		out = append(out, &ElementVariable{
			Id:   &VIdentifier{Name: name},
			Kind: VariableKindScope,
		})
	}
	return out
}

// patternIdentifiers flattens an Identifier/ArrayPattern/ObjectPattern
// into its bound names, in left-to-right order.
func patternIdentifiers(n *scriptparser.Node) []string {
	if n == nil {
		return nil
	}
	switch n.Type {
	case scriptparser.Identifier:
		if n.Name == "" {
			return nil
		}
		return []string{n.Name}
	case scriptparser.ArrayPattern:
		var out []string
		for _, el := range n.Elements {
			out = append(out, patternIdentifiers(el)...)
		}
		return out
	case scriptparser.ObjectPattern, scriptparser.ObjectExpression:
		var out []string
		for _, p := range n.Properties {
			out = append(out, patternIdentifiers(p.Init)...)
		}
		return out
	case scriptparser.ArrayExpression:
		var out []string
		for _, el := range n.Elements {
			out = append(out, patternIdentifiers(el)...)
		}
		return out
	case scriptparser.RestElement, scriptparser.SpreadElement:
		return patternIdentifiers(n.Argument)
	case scriptparser.AssignmentPattern:
		return patternIdentifiers(n.Left)
	default:
		return nil
	}
}

// removeEventReference drops the synthetic $event binding from a v-on
// expression's reference list (spec §4.4 step 6).
func removeEventReference(refs []*Reference) []*Reference {
	out := refs[:0]
	for _, r := range refs {
		if r.Id != nil && r.Id.Name == "$event" {
			continue
		}
		out = append(out, r)
	}
	return out
}

// collectReferences walks an expression tree and returns every free
// identifier reference, conservatively excluding non-computed member
// expression properties, non-computed/non-shorthand object property
// keys, and names bound by a nested function literal's own parameters.
// This core's Non-goals explicitly exclude a real scope analyzer; this
// walk produces the reference shape spec §3/§4.4 describe without one.
func collectReferences(root *scriptparser.Node) []*Reference {
	bound := map[string]bool{}
	collectBoundNames(root, bound)

	var out []*Reference
	var visit func(n *scriptparser.Node, skip map[*scriptparser.Node]bool)
	skip := map[*scriptparser.Node]bool{}
	markSkips(root, skip)
	modes := map[*scriptparser.Node]ReferenceMode{}
	markModes(root, modes)

	// A shorthand property's key and value are the same node, reached
	// twice through walkChildren; it is reported once.
	seen := map[*scriptparser.Node]bool{}
	visit = func(n *scriptparser.Node, skip map[*scriptparser.Node]bool) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		if n.Type == scriptparser.Identifier && !skip[n] && !bound[n.Name] {
			mode := ModeRead
			if m, ok := modes[n]; ok {
				mode = m
			}
			out = append(out, &Reference{Id: n, Mode: mode})
		}
		walkChildren(n, func(child *scriptparser.Node) {
			visit(child, skip)
		})
	}
	visit(root, skip)
	return out
}

// markModes flags assignment targets (w, or rw for compound operators)
// and update-expression operands (rw) with their non-default reference
// mode.
func markModes(root *scriptparser.Node, modes map[*scriptparser.Node]ReferenceMode) {
	scriptparser.Walk(root, func(n *scriptparser.Node) {
		switch n.Type {
		case scriptparser.AssignmentExpression:
			if n.Left != nil && n.Left.Type == scriptparser.Identifier {
				if n.Operator == "=" {
					modes[n.Left] = ModeWrite
				} else {
					modes[n.Left] = ModeReadWrite
				}
			}
		case scriptparser.UpdateExpression:
			if n.Argument != nil && n.Argument.Type == scriptparser.Identifier {
				modes[n.Argument] = ModeReadWrite
			}
		}
	})
}

// collectBoundNames gathers every parameter/declarator name introduced
// by a function literal or variable declaration reachable from root, so
// collectReferences can exclude locally-bound identifiers.
func collectBoundNames(root *scriptparser.Node, bound map[string]bool) {
	scriptparser.Walk(root, func(n *scriptparser.Node) {
		switch n.Type {
		case scriptparser.FunctionExpression, scriptparser.ArrowFunctionExpression, scriptparser.FunctionDeclaration:
			for _, p := range n.Params {
				for _, name := range patternIdentifiers(p) {
					bound[name] = true
				}
			}
			if n.Id != nil && n.Id.Name != "" {
				bound[n.Id.Name] = true
			}
		case scriptparser.VariableDeclarator:
			for _, name := range patternIdentifiers(n.Id) {
				bound[name] = true
			}
		}
	})
}

// markSkips flags identifier nodes that are not themselves references:
// the property of a non-computed member expression, and non-computed,
// non-shorthand object-literal property keys.
func markSkips(root *scriptparser.Node, skip map[*scriptparser.Node]bool) {
	scriptparser.Walk(root, func(n *scriptparser.Node) {
		if n.Type == scriptparser.MemberExpression && !n.Computed && n.Property2 != nil {
			skip[n.Property2] = true
		}
		if n.Type == scriptparser.Property && !n.Computed && n.Id != nil && n.Id != n.Init && n.Kind != "" {
			skip[n.Id] = true
		}
	})
}

// walkChildren invokes fn on n's direct children only (one level), used
// by collectReferences to drive its own recursion instead of relying on
// Walk's flat traversal (which would revisit already-visited identifiers
// through two different paths when skip decisions depend on the
// parent).
func walkChildren(n *scriptparser.Node, fn func(*scriptparser.Node)) {
	for _, c := range []*scriptparser.Node{
		n.Left, n.Right, n.Test, n.Consequent, n.Alternate, n.Argument,
		n.Callee, n.Object, n.Property2, n.Id, n.Init, n.BlockBody, n.Source, n.Update,
	} {
		fn(c)
	}
	for _, list := range [][]*scriptparser.Node{
		n.Body, n.Elements, n.Properties, n.Arguments, n.Declarations, n.Params, n.Specifiers,
	} {
		for _, c := range list {
			fn(c)
		}
	}
}

// errorCodeExpression is the ParseError code used for every directive
// expression syntax error; the tokenizer taxonomy in internal/tokenizer
// does not cover script-level syntax errors so this core defines its own
// constant here rather than widening that package's closed set.
const errorCodeExpression = "x-invalid-expression"

// splitForExpression splits a v-for directive's decoded value into its
// left pattern, its "in"/"of" operator, and its right-hand iterable
// source, scanning for the keyword outside of any bracket/paren/brace
// nesting.
func splitForExpression(s string) (left, op, right string, ok bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		}
		if depth != 0 {
			continue
		}
		if matchesKeyword(s, i, "of") {
			return s[:i], "of", s[i+2:], true
		}
		if matchesKeyword(s, i, "in") {
			return s[:i], "in", s[i+2:], true
		}
	}
	return "", "", "", false
}

func matchesKeyword(s string, i int, kw string) bool {
	if i+len(kw) > len(s) || s[i:i+len(kw)] != kw {
		return false
	}
	if i > 0 && !isSpace(s[i-1]) {
		return false
	}
	if i+len(kw) < len(s) && !isSpace(s[i+len(kw)]) {
		return false
	}
	return true
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }

// decodeWithGaps decodes HTML entities in raw, recording a gap (spec
// §4.1/§4.7) at every offset where the decoded text shrinks relative to
// the source, plus the offset (within raw) of every "&letter..." run that
// never matched a known named reference (spec §4.1's
// unknown-named-character-reference).
func decodeWithGaps(raw string) (string, []entityGap, []int) {
	var out strings.Builder
	var gaps []entityGap
	var unknown []int
	cumulative := 0
	i := 0
	for i < len(raw) {
		if raw[i] != '&' {
			out.WriteByte(raw[i])
			i++
			continue
		}
		if decoded, consumed, ok := entity.LookupNamed(raw[i+1:]); ok {
			out.WriteString(decoded)
			shrink := (1 + consumed) - len(decoded)
			if shrink > 0 {
				cumulative += shrink
				gaps = append(gaps, entityGap{offset: i + 1 + consumed, cumulative: cumulative})
			}
			i += 1 + consumed
			continue
		}
		if n, consumed, ok := tryNumericEntity(raw[i:]); ok {
			out.WriteRune(n)
			shrink := consumed - len(string(n))
			if shrink > 0 {
				cumulative += shrink
				gaps = append(gaps, entityGap{offset: i + consumed, cumulative: cumulative})
			}
			i += consumed
			continue
		}
		if i+1 < len(raw) && isAlpha(raw[i+1]) {
			unknown = append(unknown, i)
		}
		out.WriteByte(raw[i])
		i++
	}
	return out.String(), gaps, unknown
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

type entityGap struct {
	offset     int
	cumulative int
}

func toLocfixGaps(gaps []entityGap) []locfix.Gap {
	out := make([]locfix.Gap, len(gaps))
	for i, g := range gaps {
		out[i] = locfix.Gap{Offset: g.offset, CumulativeGap: g.cumulative}
	}
	return out
}

func tryNumericEntity(s string) (rune, int, bool) {
	if len(s) < 3 || s[0] != '&' || s[1] != '#' {
		return 0, 0, false
	}
	hex := false
	start := 2
	if s[2] == 'x' || s[2] == 'X' {
		hex = true
		start = 3
	}
	j := start
	for j < len(s) && isHexOrDec(s[j], hex) {
		j++
	}
	if j == start {
		return 0, 0, false
	}
	consumed := j
	if consumed < len(s) && s[consumed] == ';' {
		consumed++
	}
	return entity.DecodeNumeric(s[start:j], hex), consumed, true
}

func isHexOrDec(b byte, hex bool) bool {
	if b >= '0' && b <= '9' {
		return true
	}
	if !hex {
		return false
	}
	return (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// buildPrefix synthesizes a whitespace prefix the length of
// fullSource[:offset], replacing every non-line-terminator byte with a
// space so the embedded parser's reported line/column for the prefixed
// text already matches the original file (spec §4.4, §4.5).
func buildPrefix(fullSource string, offset int) string {
	if offset > len(fullSource) {
		offset = len(fullSource)
	}
	var b strings.Builder
	b.Grow(offset)
	for i := 0; i < offset; i++ {
		c := fullSource[i]
		if c == '\n' || c == '\r' {
			b.WriteByte(c)
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
