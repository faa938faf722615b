package sfcparse

import "github.com/sfcgo/sfcparse/internal/htmlatom"

// Namespace re-exports internal/htmlatom's namespace enum at the public
// boundary (spec §3's VElement.namespace).
type Namespace = htmlatom.Namespace

const (
	NamespaceHTML   = htmlatom.NamespaceHTML
	NamespaceSVG    = htmlatom.NamespaceSVG
	NamespaceMathML = htmlatom.NamespaceMathML
	NamespaceXLink  = htmlatom.NamespaceXLink
)

// Positioned is implemented by every entity carrying range/loc, which is
// every node in this package's data model (spec §3's invariant list).
type Positioned interface {
	GetRange() [2]int
	SetRange(r [2]int)
	SetLoc(start, end Position)
}

// base embeds the shared range/loc storage and accessor methods every
// positioned node needs; it is not itself exported as a node kind.
type base struct {
	Range [2]int `json:"range"`
	Loc   Loc    `json:"loc"`
}

func (b *base) GetRange() [2]int            { return b.Range }
func (b *base) SetRange(r [2]int)           { b.Range = r }
func (b *base) SetLoc(start, end Position)  { b.Loc = Loc{Start: start, End: end} }

// VDocumentFragment is the parse root (spec §3). It owns every AST node
// reachable from Children, and separately owns the flat aggregate
// Tokens/Comments/Errors lists appended to during tokenization.
type VDocumentFragment struct {
	base
	Children []*VElement  `json:"children"`
	Tokens   []Token      `json:"tokens"`
	Comments []Token      `json:"comments"`
	Errors   []ParseError `json:"errors"`

	// Parent is always nil for the fragment; present so VElement.Parent
	// can be typed as a single interface across both node kinds.
	Parent Positioned `json:"-"`
}

// VElement is a template element (spec §3).
type VElement struct {
	base
	Name      string          `json:"name"`
	RawName   string          `json:"rawName"`
	Namespace Namespace       `json:"namespace"`
	StartTag  *VStartTag      `json:"startTag"`
	Children  []TemplateNode  `json:"children"`
	EndTag    *VEndTag        `json:"endTag"`
	Variables []*ElementVariable `json:"variables"`

	// CustomBlock is non-nil only for a root-level element that is
	// neither <template>, <script>, nor <style>, and only once a
	// CustomBlockParser option was supplied (spec §6, §4.9's custom-
	// block failure model).
	CustomBlock *CustomBlockResult `json:"-"`

	// PluginTokens is non-nil only for a root <template lang="..."> whose
	// language has a registered TemplateTokenizerFactory: the drained
	// output of that plug-in's NextToken(), in place of internal/tokenizer
	// (spec §6's template-tokenizer plug-in dispatch). Opaque to this
	// package, so not part of the JSON AST shape.
	PluginTokens []any `json:"-"`

	// Parent is a *VElement or *VDocumentFragment; set during the
	// second, back-pointer-population pass (spec §3's ownership note).
	Parent Positioned `json:"-"`
}

// TemplateNode is any child of a VElement's Children list: another
// VElement, a VText run, or a VExpressionContainer standing for a
// mustache.
type TemplateNode interface {
	Positioned
	templateNode()
}

func (*VElement) templateNode()            {}
func (*VText) templateNode()                {}
func (*VExpressionContainer) templateNode() {}

// VStartTag holds an element's attributes and self-closing flag.
type VStartTag struct {
	base
	Attributes  []*VAttribute `json:"attributes"`
	SelfClosing bool          `json:"selfClosing"`
}

// VEndTag is present only when a physical closing tag exists in the
// source (spec §3).
type VEndTag struct {
	base
}

// VIdentifier is a plain (non-directive) attribute key or a text node's
// synthetic name holder.
type VIdentifier struct {
	base
	Name string `json:"name"`
}

// VLiteral is a plain attribute's string value.
type VLiteral struct {
	base
	Value string `json:"value"`
}

// VAttribute is either a plain key/value pair or a directive, per the
// Directive flag (spec §3's "variant by directive: boolean").
type VAttribute struct {
	base
	Directive bool `json:"directive"`

	// Plain variant.
	Key   *VIdentifier `json:"key,omitempty"`
	Value *VLiteral    `json:"value,omitempty"`

	// Directive variant.
	DirectiveKey   *VDirectiveKey         `json:"directiveKey,omitempty"`
	DirectiveValue *VExpressionContainer  `json:"directiveValue,omitempty"`
}

// VDirectiveKey is a directive attribute's parsed name (spec §3).
type VDirectiveKey struct {
	base
	Name      string                `json:"name"`
	Argument  any                   `json:"argument"` // string | *VExpressionContainer | nil
	Modifiers []string              `json:"modifiers"`
	Shorthand bool                  `json:"shorthand"`
}

// VText is a run of character data (spec §3).
type VText struct {
	base
	Value string `json:"value"`
}

// ElementVariable is a scope-introducing declaration attached to a
// VElement (spec §3).
type ElementVariable struct {
	Id   *VIdentifier `json:"id"`
	Kind VariableKind `json:"kind"`

	// References is populated by the reference resolver (spec §4.8)
	// with every Reference this variable was bound to.
	References []*Reference `json:"-"`
}

// VariableKind is the closed set of ElementVariable origins.
type VariableKind string

const (
	VariableKindVFor    VariableKind = "v-for"
	VariableKindScope   VariableKind = "scope"
	VariableKindGeneric VariableKind = "generic"
)
