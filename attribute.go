package sfcparse

import (
	"strings"

	"github.com/sfcgo/sfcparse/internal/htmlatom"
	"github.com/sfcgo/sfcparse/internal/itok"
	"github.com/sfcgo/sfcparse/internal/scriptparser"
)

// buildAttribute classifies and constructs one VAttribute, running the
// directive-expression transformer (§4.4) on its value when applicable.
// expressionEnabled is false inside a v-pre subtree: directive-looking
// names are then kept as plain, uninterpreted attributes (spec §4.3,
// §8 property 11's sibling rule for attributes).
func (p *parser) buildAttribute(a itok.Attribute, el *VElement, expressionEnabled bool) *VAttribute {
	name := a.Name.Value
	attr := &VAttribute{}
	nameEnd := a.Name.Range.End
	valueEnd := nameEnd
	if a.HasValue {
		valueEnd = a.Value.Range.End
	}
	attr.Range = [2]int{a.Name.Range.Start, valueEnd}

	if expressionEnabled && name == "scope" {
		p.attachScopeVariables(el, a)
	}

	if !expressionEnabled || !isDirectiveName(name) {
		keyName := name
		if local, _, ok := htmlatom.ForeignAttributeNamespace(name); ok {
			keyName = local
		} else if el.Namespace == htmlatom.NamespaceSVG {
			keyName = htmlatom.AdjustSVGAttrName(name)
		}
		attr.Key = &VIdentifier{base: base{Range: [2]int{a.Name.Range.Start, nameEnd}}, Name: keyName}
		if a.HasValue {
			attr.Value = &VLiteral{base: base{Range: [2]int{a.Value.Range.Start, a.Value.Range.End}}, Value: a.Value.Value}
		}
		return attr
	}

	attr.Directive = true
	dirName, argument, argDynamic, argOffset, modifiers, shorthand := parseDirectiveName(name)
	key := &VDirectiveKey{
		base:      base{Range: [2]int{a.Name.Range.Start, nameEnd}},
		Name:      dirName,
		Modifiers: modifiers,
		Shorthand: shorthand,
	}
	switch {
	case argDynamic:
		// A dynamic argument ("v-bind:[key]", "@[event]") is itself parsed
		// as an expression, per spec §3's argument: string | VExpressionContainer | null.
		key.Argument = buildExpressionContainer(exprContext{
			Raw:         argument,
			StartOffset: a.Name.Range.Start + argOffset,
			FullSource:  p.src,
			Lines:       p.lines,
			Parser:      p.opts.resolvedParser(""),
			Errors:      &p.frag.Errors,
		})
	case argument != "":
		key.Argument = argument
	}
	attr.DirectiveKey = key

	if !a.HasValue {
		return attr
	}

	raw := a.Value.Value
	startOffset := a.Value.Range.Start
	directiveCtx := dirName
	if dirName == "slot-scope" {
		directiveCtx = ""
	}
	c := buildExpressionContainer(exprContext{
		Raw:         raw,
		StartOffset: startOffset,
		FullSource:  p.src,
		Lines:       p.lines,
		Parser:      p.opts.resolvedParser(""),
		Directive:   directiveCtx,
		Errors:      &p.frag.Errors,
	})
	c.Range = [2]int{a.Value.Range.Start, a.Value.Range.End}
	c.Loc = Loc{Start: p.lines.Position(c.Range[0]), End: p.lines.Position(c.Range[1])}
	attr.DirectiveValue = c

	switch {
	case dirName == "for":
		if fe, ok := c.Expression.(*VForExpression); ok {
			el.Variables = append(el.Variables, extractVForVariables(fe)...)
		}
	case dirName == "slot-scope":
		if node, ok := c.Expression.(*scriptparser.Node); ok {
			el.Variables = append(el.Variables, extractSlotScopeVariables(node)...)
		}
	}
	return attr
}

// attachScopeVariables handles the legacy `scope` attribute (spec §4.4
// step 8's second named attribute), parsed as a plain expression pattern
// rather than as a directive.
func (p *parser) attachScopeVariables(el *VElement, a itok.Attribute) {
	if !a.HasValue {
		return
	}
	node, err := p.opts.resolvedParser("").ParseExpression(a.Value.Value, scriptparser.Options{Filename: "scope.js"})
	if err != nil {
		return
	}
	el.Variables = append(el.Variables, extractSlotScopeVariables(node)...)
}

// parseDirectiveName splits a raw directive attribute name into its
// directive name, optional argument, modifier list, and whether it was
// written in shorthand form (spec §3's VDirectiveKey, §4.3(d)). When the
// argument is written bracketed ("v-bind:[key]"), argDynamic is true and
// argOffset is the byte offset within raw of the expression text inside
// the brackets, so the caller can locate it in the original source.
func parseDirectiveName(raw string) (name, argument string, argDynamic bool, argOffset int, modifiers []string, shorthand bool) {
	rest := raw
	base := 0
	switch {
	case raw == "slot-scope":
		return "slot-scope", "", false, 0, nil, false
	case strings.HasPrefix(raw, "v-"):
		rest = raw[2:]
		base = 2
	case strings.HasPrefix(raw, "@"):
		name, rest, shorthand = "on", raw[1:], true
		base = 1
	case strings.HasPrefix(raw, ":"):
		name, rest, shorthand = "bind", raw[1:], true
		base = 1
	case strings.HasPrefix(raw, "#"):
		name, rest, shorthand = "slot", raw[1:], true
		base = 1
	case strings.HasPrefix(raw, "."):
		name, rest, shorthand = "bind", raw[1:], true
		base = 1
		modifiers = append(modifiers, "prop")
	}

	parts := strings.Split(rest, ".")
	head := parts[0]
	modifiers = append(modifiers, parts[1:]...)

	var argRaw string
	var argRelOffset int
	if !shorthand {
		if colon := strings.IndexByte(head, ':'); colon >= 0 {
			name = head[:colon]
			argRaw = head[colon+1:]
			argRelOffset = colon + 1
		} else {
			name = head
		}
	} else {
		argRaw = head
	}

	if len(argRaw) >= 2 && strings.HasPrefix(argRaw, "[") && strings.HasSuffix(argRaw, "]") {
		argDynamic = true
		argument = argRaw[1 : len(argRaw)-1]
		argOffset = base + argRelOffset + 1
	} else {
		argument = argRaw
	}
	return name, argument, argDynamic, argOffset, modifiers, shorthand
}
