package sfcparse

import (
	"regexp"
	"strings"

	"github.com/sfcgo/sfcparse/internal/htmlatom"
	"github.com/sfcgo/sfcparse/internal/itok"
	"github.com/sfcgo/sfcparse/internal/linecol"
	"github.com/sfcgo/sfcparse/internal/tokenizer"
)

// directiveRegex is spec §4.3(d)'s classification rule: a directive name
// either starts with "v-" or a shorthand punctuator, or is exactly
// "slot-scope".
var directiveRegex = regexp.MustCompile(`^(?:v-|[.:@#]).*[^.:@#]$`)

func isDirectiveName(name string) bool {
	return name == "slot-scope" || directiveRegex.MatchString(name)
}

// parser drives the whole-document parse: one tokenizer/itok pair walks
// every top-level block (<template>, <script>, <script setup>, <style>,
// custom blocks) as ordinary sibling elements of the document fragment,
// per this core's reading that an SFC is itself just an HTML-like
// document (spec §2, §3).
type parser struct {
	src   string
	lines *linecol.Index
	opts  Options

	low  *tokenizer.Tokenizer
	itok *itok.Tokenizer

	frag *VDocumentFragment

	stack      []*VElement
	vPreOwner  *VElement // non-nil while inside a v-pre subtree
}

// newParser builds the tokenizer/itok pair and line index for src.
func newParser(src string, opts Options) *parser {
	low := tokenizer.New(src, htmlatom.NamespaceHTML, true)
	p := &parser{
		src:  src,
		opts: opts,
		low:  low,
		itok: itok.New(low),
		frag: &VDocumentFragment{},
	}
	p.itok.Sink = func(tok tokenizer.Token) {
		if tok.Type == tokenizer.HTMLComment || tok.Type == tokenizer.HTMLBogusComment {
			p.frag.Comments = append(p.frag.Comments, tokenFromLow(tok))
			return
		}
		p.frag.Tokens = append(p.frag.Tokens, tokenFromLow(tok))
	}
	return p
}

// parseDocument runs the tokenizer → intermediate tokenizer → template
// parser pipeline (spec §4.1–§4.3) over the whole source, then the
// reference resolver (spec §4.8). It never returns an error: every
// malformation is recorded on the fragment's Errors list.
func (p *parser) parseDocument() *VDocumentFragment {
	// The line index is built from the source up front, so every
	// position computed while the token loop runs already sees all of
	// the document's line breaks ("\r\n", lone "\r", "\n").
	var lt []int
	for i := 0; i < len(p.src); i++ {
		if p.src[i] == '\n' || (p.src[i] == '\r' && (i+1 == len(p.src) || p.src[i+1] != '\n')) {
			lt = append(lt, i+1)
		}
	}
	p.lines = linecol.New(lt)

	for {
		tok, ok := p.itok.NextToken()
		if !ok {
			break
		}
		switch tok.Kind {
		case itok.StartTag:
			p.handleStartTag(tok)
		case itok.EndTag:
			p.handleEndTag(tok)
		case itok.Text:
			p.handleText(tok)
		case itok.Mustache:
			p.handleMustache(tok)
		}
	}
	p.closeRemainingElements(len(p.src))

	for _, e := range p.low.Errors() {
		p.frag.Errors = append(p.frag.Errors, parseErrorFromLow(e))
	}

	setParents(p.frag)
	resolveReferences(p.frag)
	return p.frag
}

func (p *parser) top() *VElement {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

func (p *parser) currentChildren() *[]TemplateNode {
	if t := p.top(); t != nil {
		return &t.Children
	}
	return nil
}

func (p *parser) appendChild(root *[]*VElement, child *VElement) {
	if t := p.top(); t != nil {
		t.Children = append(t.Children, child)
		return
	}
	*root = append(*root, child)
}

func (p *parser) appendTemplateNode(n TemplateNode) {
	if t := p.top(); t != nil {
		t.Children = append(t.Children, n)
	}
}

// resolveNamespace implements spec §4.3(a): the new element's namespace
// is the current (integration-point-adjusted) namespace inherited from
// its parent, switched to SVG/MathML when the tag itself is "svg"/"math",
// or overridden outright by an explicit xmlns attribute. It also returns
// the tag's rawName, case-adjusted when the resolved namespace is SVG
// (the tokenizer lowercases every tag name, so case-sensitive SVG tags
// like "foreignObject" need their canonical spelling restored here).
func (p *parser) resolveNamespace(name string, tok itok.IntermediateToken) (htmlatom.Namespace, string) {
	ns := htmlatom.NamespaceHTML
	if parent := p.top(); parent != nil {
		ns = parent.Namespace
		switch parent.Namespace {
		case htmlatom.NamespaceSVG:
			if htmlatom.IsHTMLIntegrationPoint(parent.RawName) {
				ns = htmlatom.NamespaceHTML
			}
		case htmlatom.NamespaceMathML:
			if htmlatom.IsMathMLTextIntegrationPoint(parent.Name) {
				ns = htmlatom.NamespaceHTML
			}
		}
	}

	if xmlns := findAttr(tok.Attributes, "xmlns"); xmlns != "" {
		switch xmlns {
		case "http://www.w3.org/2000/svg":
			ns = htmlatom.NamespaceSVG
		case "http://www.w3.org/1998/Math/MathML":
			ns = htmlatom.NamespaceMathML
		case "http://www.w3.org/1999/xhtml":
			ns = htmlatom.NamespaceHTML
		default:
			pos := p.lines.Position(tok.Range.Start)
			p.frag.Errors = append(p.frag.Errors, newTemplateError(
				tokenizer.ErrorCode("x-invalid-namespace"), tok.Range.Start, pos,
				"unrecognized xmlns value \""+xmlns+"\""))
		}
	} else if ns == htmlatom.NamespaceHTML {
		switch name {
		case "svg":
			ns = htmlatom.NamespaceSVG
		case "math":
			ns = htmlatom.NamespaceMathML
		}
	}

	rawName := tok.RawName
	if ns == htmlatom.NamespaceSVG {
		rawName = htmlatom.AdjustSVGTagName(rawName)
	}
	return ns, rawName
}

func findAttr(attrs []itok.Attribute, name string) string {
	for _, a := range attrs {
		if a.Name.Value == name && a.HasValue {
			return a.Value.Value
		}
	}
	return ""
}

func (p *parser) handleStartTag(tok itok.IntermediateToken) {
	name := strings.ToLower(tok.Name)

	if parent := p.top(); parent != nil {
		if htmlatom.ClosesOpenP(name) {
			p.implicitlyClose("p")
		}
		if pn := p.top(); pn != nil && htmlatom.ImplicitlyCloses(pn.Name, name) {
			p.implicitlyClose(pn.Name)
		}
		_ = parent
	}

	ns, rawName := p.resolveNamespace(name, tok)

	el := &VElement{Name: name, RawName: rawName, Namespace: ns}
	el.Range = [2]int{tok.Range.Start, tok.Range.End}

	start := &VStartTag{SelfClosing: tok.SelfClosing}
	start.Range = el.Range

	expressionEnabled := p.vPreOwner == nil
	isRoot := p.top() == nil
	for _, a := range tok.Attributes {
		if a.Duplicate {
			// Keep first, report and drop the repeat (spec §4.2).
			pos := p.lines.Position(a.Name.Range.Start)
			p.frag.Errors = append(p.frag.Errors, newTemplateError(
				tokenizer.ErrDuplicateAttribute, a.Name.Range.Start, pos,
				"duplicate attribute \""+a.Name.Value+"\""))
			continue
		}
		attr := p.buildAttribute(a, el, expressionEnabled)
		start.Attributes = append(start.Attributes, attr)
	}
	el.StartTag = start

	// "v-pre" itself matches directiveRegex, so it is looked up on the
	// raw attribute names rather than through hasAttr (plain attributes).
	hasVPre := false
	for _, a := range tok.Attributes {
		if a.Name.Value == "v-pre" {
			hasVPre = true
		}
	}
	if hasVPre && p.vPreOwner == nil {
		p.vPreOwner = el
		// Inside v-pre, "{{ ... }}" is literal text, never a mustache
		// (spec §8 property 11): tell the tokenizer itself so it never
		// emits VExpressionStart/End tokens for this subtree, rather
		// than aggregating them and discarding the result downstream.
		p.low.SetExpressionEnabled(false)
	}

	p.appendChild(&p.frag.Children, el)

	if tok.SelfClosing && ns == htmlatom.NamespaceHTML && !htmlatom.IsVoid(name) {
		// Flagged as an error but honored (spec §4.3 "Self-closing"):
		// the trailing "/" never makes a non-void HTML element self-close
		// per the HTML5 tree-construction algorithm, but this core treats
		// it as self-closing anyway rather than also mis-opening a scope.
		pos := p.lines.Position(tok.Range.Start)
		p.frag.Errors = append(p.frag.Errors, newTemplateError(
			tokenizer.ErrNonVoidHTMLElementStartTagWithTrailingSolidus, tok.Range.Start, pos,
			"non-void html element \""+name+"\" has self-closing tag"))
	}

	if tok.SelfClosing || htmlatom.IsVoid(name) {
		el.Loc = Loc{Start: p.lines.Position(el.Range[0]), End: p.lines.Position(el.Range[1])}
		return
	}

	if isRoot && name == "template" {
		lang := findAttr(tok.Attributes, "lang")
		if factory, ok := p.opts.TemplateTokenizer[lang]; ok {
			p.stack = append(p.stack, el)
			if raw, ok := p.itok.ConsumeRawText(htmlatom.ModelRawText, tok.RawName); ok {
				p.dispatchTemplateTokenizerPlugin(el, factory, raw)
			}
			return
		}
	}

	var model htmlatom.ContentModel
	var endTagName string
	switch {
	case isRoot && name == "template":
		model, endTagName = itok.ContentModelForStartTag(tok.RawName, tok.Attributes, true)
	case isRoot && name != "template" && name != "script" && name != "style":
		// Any other root-level block (custom block, spec §6) is
		// handed whole to its own parser; never re-tokenized as HTML.
		model, endTagName = htmlatom.ModelRawText, name
	default:
		model, endTagName = itok.ContentModelForStartTag(tok.RawName, tok.Attributes, false)
	}
	p.stack = append(p.stack, el)

	if model != htmlatom.ModelNormal {
		raw, ok := p.itok.ConsumeRawText(model, endTagName)
		if ok {
			el.Children = append(el.Children, &VText{
				base:  base{Range: [2]int{raw.Range.Start, raw.Range.End}},
				Value: raw.Value,
			})
		}
	}
}

// dispatchTemplateTokenizerPlugin delegates tokenization of a root
// <template lang="x">'s content to a registered plug-in instead of
// internal/tokenizer (spec §6's template-tokenizer plug-in dispatch).
// The plug-in's token shape is caller-defined (TemplateTokenizer.NextToken
// returns any), so this core can't build a typed element tree from it;
// the subtree keeps its one raw VText child and the drained tokens are
// exposed on el.PluginTokens for a caller that knows that shape.
func (p *parser) dispatchTemplateTokenizerPlugin(el *VElement, factory TemplateTokenizerFactory, raw itok.IntermediateToken) {
	startPos := p.lines.Position(raw.Range.Start)
	pt := factory(raw.Value, p.src, startPos.Line, startPos.Column)
	var tokens []any
	for {
		tk, ok := pt.NextToken()
		if !ok {
			break
		}
		tokens = append(tokens, tk)
	}
	el.PluginTokens = tokens
	el.Children = append(el.Children, &VText{
		base:  base{Range: [2]int{raw.Range.Start, raw.Range.End}},
		Value: raw.Value,
	})
}

func (p *parser) handleEndTag(tok itok.IntermediateToken) {
	name := strings.ToLower(tok.Name)
	idx := -1
	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i].Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		pos := p.lines.Position(tok.Range.Start)
		p.frag.Errors = append(p.frag.Errors, newTemplateError(
			tokenizer.ErrorCode("x-invalid-end-tag"), tok.Range.Start, pos,
			"end tag \""+tok.RawName+"\" does not match any open element"))
		return
	}
	for i := len(p.stack) - 1; i >= idx; i-- {
		el := p.stack[i]
		if i == idx {
			el.EndTag = &VEndTag{base: base{Range: [2]int{tok.Range.Start, tok.Range.End}}}
			el.Range[1] = tok.Range.End
		} else {
			p.closeWithoutEndTag(el)
		}
		el.Loc = Loc{Start: p.lines.Position(el.Range[0]), End: p.lines.Position(el.Range[1])}
	}
	if p.vPreOwner != nil && p.stack[idx] == p.vPreOwner {
		p.vPreOwner = nil
		p.low.SetExpressionEnabled(true)
	}
	p.stack = p.stack[:idx]
}

// implicitlyClose pops the named open element without a physical end
// tag, propagating its range to the last child it actually had (spec
// §3's "implicitly closed" invariant).
func (p *parser) implicitlyClose(name string) {
	idx := -1
	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i].Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	for i := len(p.stack) - 1; i >= idx; i-- {
		el := p.stack[i]
		p.closeWithoutEndTag(el)
		if p.vPreOwner != nil && el == p.vPreOwner {
			p.vPreOwner = nil
			p.low.SetExpressionEnabled(true)
		}
	}
	p.stack = p.stack[:idx]
}

func (p *parser) closeWithoutEndTag(el *VElement) {
	if len(el.Children) > 0 {
		last := el.Children[len(el.Children)-1]
		el.Range[1] = last.GetRange()[1]
	}
	el.Loc = Loc{Start: p.lines.Position(el.Range[0]), End: p.lines.Position(el.Range[1])}
}

// closeRemainingElements closes every still-open element at end of
// input, as if implicitly closed at eofOffset.
func (p *parser) closeRemainingElements(eofOffset int) {
	for i := len(p.stack) - 1; i >= 0; i-- {
		el := p.stack[i]
		if len(el.Children) > 0 {
			el.Range[1] = el.Children[len(el.Children)-1].GetRange()[1]
		} else {
			el.Range[1] = eofOffset
		}
		el.Loc = Loc{Start: p.lines.Position(el.Range[0]), End: p.lines.Position(el.Range[1])}
		if p.vPreOwner != nil && el == p.vPreOwner {
			p.vPreOwner = nil
			p.low.SetExpressionEnabled(true)
		}
	}
	p.stack = nil
}

// handleText appends a VText child. Mustache delimiters never reach here:
// the tokenizer itself recognizes "{{ … }}" as VExpressionStart/End
// tokens whenever the expression flag and content model allow it, and
// itok aggregates those into a separate Mustache intermediate event
// handled by handleMustache.
func (p *parser) handleText(tok itok.IntermediateToken) {
	parent := p.top()
	if parent == nil {
		return
	}
	parent.Children = append(parent.Children, &VText{
		base:  base{Range: [2]int{tok.Range.Start, tok.Range.End}, Loc: p.textLoc(tok.Range.Start, tok.Value)},
		Value: tok.Value,
	})
}

func (p *parser) textLoc(start int, value string) Loc {
	return Loc{Start: p.lines.Position(start), End: p.lines.Position(start + len(value))}
}

func (p *parser) handleMustache(tok itok.IntermediateToken) {
	parent := p.top()
	if parent == nil || p.vPreOwner != nil {
		return
	}
	// tok.Value is trimmed, so Raw[0] sits after the whitespace that
	// follows "{{".
	start := tok.StartToken.Range.End
	for start < len(p.src) && isSpace(p.src[start]) {
		start++
	}
	c := buildExpressionContainer(exprContext{
		Raw:         tok.Value,
		StartOffset: start,
		FullSource:  p.src,
		Lines:       p.lines,
		Parser:      p.opts.resolvedParser(""),
		Errors:      &p.frag.Errors,
	})
	c.Range = [2]int{tok.Range.Start, tok.Range.End}
	c.Loc = Loc{Start: p.lines.Position(c.Range[0]), End: p.lines.Position(c.Range[1])}
	parent.Children = append(parent.Children, c)
}

func hasAttr(start *VStartTag, name string) bool {
	for _, a := range start.Attributes {
		if !a.Directive && a.Key != nil && a.Key.Name == name {
			return true
		}
	}
	return false
}
