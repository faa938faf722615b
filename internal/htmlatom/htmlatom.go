// Package htmlatom classifies HTML tag names using golang.org/x/net/html/atom
// so the tokenizer and template parser don't hand-roll the HTML5 element
// tables (void elements, raw-text content models, implicit-close rules).
package htmlatom

import "golang.org/x/net/html/atom"

// Namespace identifies the tree-construction namespace of an element, per
// spec §3's VElement.namespace.
type Namespace int

const (
	HTML Namespace = iota
	SVG
	MathML
	XLink
)

// Long-form aliases, used at the public package boundary (sfcparse's
// document.go) where "htmlatom.HTML" alone would read ambiguously next
// to unrelated identifiers named HTML.
const (
	NamespaceHTML   = HTML
	NamespaceSVG    = SVG
	NamespaceMathML = MathML
	NamespaceXLink  = XLink
)

// ContentModel describes how a tag name's children are tokenized.
type ContentModel int

const (
	ModelNormal ContentModel = iota
	ModelRawText
	ModelRCData
	ModelCData
)

var voidElements = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true,
	atom.Embed: true, atom.Hr: true, atom.Img: true, atom.Input: true,
	atom.Link: true, atom.Meta: true, atom.Param: true, atom.Source: true,
	atom.Track: true, atom.Wbr: true,
}

// IsVoid reports whether name (lowercased HTML tag name) is a void element.
func IsVoid(name string) bool {
	return voidElements[atom.Lookup([]byte(name))]
}

var rawTextElements = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true,
}

var rcdataElements = map[atom.Atom]bool{
	atom.Title: true, atom.Textarea: true,
}

// ContentModelFor returns the content model an HTML-namespace element with
// this tag name imposes on its children, absent any lang= override.
func ContentModelFor(name string) ContentModel {
	a := atom.Lookup([]byte(name))
	switch {
	case rawTextElements[a]:
		return ModelRawText
	case rcdataElements[a]:
		return ModelRCData
	default:
		return ModelNormal
	}
}

// canBeLeftOpenBefore is the set of elements whose start tag implicitly closes a
// previous open instance of the same (or a related) element, per the
// HTML5 tree-construction "in body" insertion mode.
var canBeLeftOpenBefore = map[atom.Atom]map[atom.Atom]bool{
	atom.Li: {atom.Li: true},
	atom.Dt: {atom.Dt: true, atom.Dd: true},
	atom.Dd: {atom.Dt: true, atom.Dd: true},
	atom.Option: {atom.Option: true},
	atom.Tr:  {atom.Tr: true},
	atom.Td:  {atom.Td: true, atom.Th: true},
	atom.Th:  {atom.Td: true, atom.Th: true},
}

// ImplicitlyCloses reports whether an open element named openName must be
// popped before a new element named newName can be opened as its sibling.
func ImplicitlyCloses(openName, newName string) bool {
	open := atom.Lookup([]byte(openName))
	set, ok := canBeLeftOpenBefore[open]
	if !ok {
		return false
	}
	return set[atom.Lookup([]byte(newName))]
}

// pClosers is the (non-exhaustive, commonly-hit) set of elements whose
// start tag closes an open <p>, per the HTML5 "a start tag whose tag name
// is one of ..." rule.
var pClosers = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true,
	atom.Blockquote: true, atom.Details: true, atom.Div: true,
	atom.Dl: true, atom.Fieldset: true, atom.Figcaption: true,
	atom.Figure: true, atom.Footer: true, atom.Form: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Header: true, atom.Hr: true,
	atom.Main: true, atom.Nav: true, atom.Ol: true, atom.P: true,
	atom.Pre: true, atom.Section: true, atom.Table: true, atom.Ul: true,
}

// ClosesOpenP reports whether a start tag named newName, opened while a
// <p> element is open, implicitly closes that <p>.
func ClosesOpenP(newName string) bool {
	return pClosers[atom.Lookup([]byte(newName))]
}

// ForeignAttributeNamespace resolves XLink-namespaced attribute names that
// appear inside SVG/MathML subtrees (e.g. "xlink:href").
func ForeignAttributeNamespace(attrName string) (local string, ns Namespace, ok bool) {
	const prefix = "xlink:"
	if len(attrName) > len(prefix) && attrName[:len(prefix)] == prefix {
		return attrName[len(prefix):], XLink, true
	}
	return "", HTML, false
}

// svgTagCaseMap restores the mixed-case spelling of SVG elements/attributes
// that the tokenizer has lowercased, per the HTML5 "adjust SVG tag names"
// and "adjust SVG attributes" algorithms (the subset actually reachable
// via templating expressions/directives).
var svgTagCaseMap = map[string]string{
	"foreignobject": "foreignObject",
	"lineargradient": "linearGradient",
	"radialgradient": "radialGradient",
	"clippath":       "clipPath",
	"textpath":       "textPath",
	"animatemotion":  "animateMotion",
	"animatetransform": "animateTransform",
}

// AdjustSVGTagName restores the canonical mixed-case spelling for name, or
// returns name unchanged if it isn't one of the case-sensitive SVG tags.
func AdjustSVGTagName(name string) string {
	if adj, ok := svgTagCaseMap[name]; ok {
		return adj
	}
	return name
}

var svgAttrCaseMap = map[string]string{
	"viewbox":          "viewBox",
	"preserveaspectratio": "preserveAspectRatio",
	"gradienttransform": "gradientTransform",
	"gradientunits":     "gradientUnits",
	"patterntransform":  "patternTransform",
	"patternunits":      "patternUnits",
	"spreadmethod":      "spreadMethod",
}

// AdjustSVGAttrName restores the canonical mixed-case spelling for an SVG
// attribute name.
func AdjustSVGAttrName(name string) string {
	if adj, ok := svgAttrCaseMap[name]; ok {
		return adj
	}
	return name
}

// IsHTMLIntegrationPoint reports whether an SVG element with this tag name
// is an HTML integration point (children are parsed with HTML rules even
// inside the SVG namespace), per the HTML5 dispatcher.
func IsHTMLIntegrationPoint(svgTagName string) bool {
	switch svgTagName {
	case "foreignObject", "desc", "title":
		return true
	default:
		return false
	}
}

// IsMathMLTextIntegrationPoint reports whether a MathML element with this
// tag name is a MathML text integration point.
func IsMathMLTextIntegrationPoint(mathmlTagName string) bool {
	switch mathmlTagName {
	case "mi", "mo", "mn", "ms", "mtext":
		return true
	default:
		return false
	}
}
