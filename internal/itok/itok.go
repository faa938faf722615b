// Package itok aggregates the low-level tokenizer.Token stream into the
// four intermediate events the template parser consumes, per spec §4.2.
package itok

import (
	"strings"

	"github.com/sfcgo/sfcparse/internal/htmlatom"
	"github.com/sfcgo/sfcparse/internal/tokenizer"
)

// Kind is the tagged-variant discriminator for IntermediateToken, used in
// place of string-keyed dispatch (spec §9).
type Kind int

const (
	StartTag Kind = iota
	EndTag
	Text
	Mustache
)

// Attribute is a raw (pre-directive-classification) attribute as seen by
// the intermediate tokenizer: a name token plus an optional literal value.
type Attribute struct {
	Name      tokenizer.Token
	HasValue  bool
	Value     tokenizer.Token
	Duplicate bool
}

// IntermediateToken is one of the four aggregated events.
type IntermediateToken struct {
	Kind Kind

	// StartTag / EndTag
	Name         string
	RawName      string
	SelfClosing  bool
	Attributes   []Attribute
	NameToken    tokenizer.Token

	// Text
	Text tokenizer.Token

	// Mustache
	Value      string
	StartToken tokenizer.Token
	EndToken   tokenizer.Token

	Range tokenizer.Range
}

// Tokenizer aggregates a *tokenizer.Tokenizer into IntermediateTokens.
type Tokenizer struct {
	low    *tokenizer.Tokenizer
	errors *[]tokenizer.ParseError

	pendingTag *IntermediateToken
	seenAttrs  map[string]bool

	// Sink, if set, is invoked with every low-level token as it is
	// consumed (including the pieces of a mustache), letting a
	// caller build the document fragment's flat aggregate Tokens list
	// without re-lexing.
	Sink func(tokenizer.Token)
}

// New wraps low. Diagnostics stay on low and are read through low.Errors().
func New(low *tokenizer.Tokenizer) *Tokenizer {
	return &Tokenizer{low: low}
}

// Low exposes the underlying low-level tokenizer for callers that need
// to toggle namespace/expression state or read aggregate lists (spec
// §4.3's namespace-setter contract).
func (it *Tokenizer) Low() *tokenizer.Tokenizer { return it.low }

// NextToken returns the next aggregated event, or ok=false at end of
// input.
func (it *Tokenizer) NextToken() (IntermediateToken, bool) {
	for {
		tok, ok := it.low.NextToken()
		if !ok {
			return IntermediateToken{}, false
		}
		if it.Sink != nil {
			it.Sink(tok)
		}
		switch tok.Type {
		case tokenizer.HTMLTagOpen:
			it.pendingTag = &IntermediateToken{Kind: StartTag, Range: tok.Range}
			it.seenAttrs = map[string]bool{}
		case tokenizer.HTMLEndTagOpen:
			it.pendingTag = &IntermediateToken{Kind: EndTag, Range: tok.Range}
		case tokenizer.HTMLIdentifier:
			if it.pendingTag != nil && it.pendingTag.Name == "" && len(it.pendingTag.Attributes) == 0 {
				it.pendingTag.Name = tok.Value
				it.pendingTag.RawName = tok.Value
				it.pendingTag.NameToken = tok
				continue
			}
			attr := Attribute{Name: tok}
			if it.seenAttrs[tok.Value] {
				attr.Duplicate = true
			} else {
				it.seenAttrs[tok.Value] = true
			}
			it.pendingTag.Attributes = append(it.pendingTag.Attributes, attr)
		case tokenizer.HTMLAssociation:
			// consumed implicitly: the following HTMLLiteral attaches to the
			// last attribute.
		case tokenizer.HTMLLiteral:
			if it.pendingTag != nil && len(it.pendingTag.Attributes) > 0 {
				last := &it.pendingTag.Attributes[len(it.pendingTag.Attributes)-1]
				last.HasValue = true
				last.Value = tok
			}
		case tokenizer.HTMLTagClose:
			if it.pendingTag == nil {
				continue
			}
			out := *it.pendingTag
			out.Range.End = tok.Range.End
			it.pendingTag = nil
			return out, true
		case tokenizer.HTMLSelfClosingTagClose:
			if it.pendingTag == nil {
				continue
			}
			out := *it.pendingTag
			out.SelfClosing = true
			out.Range.End = tok.Range.End
			it.pendingTag = nil
			return out, true
		case tokenizer.HTMLText, tokenizer.HTMLWhitespace, tokenizer.HTMLRawText, tokenizer.HTMLRCDataText:
			return it.mergeText(tok), true
		case tokenizer.VExpressionStart:
			startTok := tok
			body, bodyOK := it.low.NextToken()
			var endTok tokenizer.Token
			value := ""
			if bodyOK && body.Type == tokenizer.HTMLText {
				value = body.Value
				end, endOK := it.low.NextToken()
				if endOK && end.Type == tokenizer.VExpressionEnd {
					endTok = end
				}
			}
			return IntermediateToken{
				Kind:       Mustache,
				Value:      strings.TrimSpace(value),
				StartToken: startTok,
				EndToken:   endTok,
				Range:      tokenizer.Range{Start: startTok.Range.Start, End: endTok.Range.End},
			}, true
		case tokenizer.HTMLComment, tokenizer.HTMLBogusComment:
			// comments are aggregated separately by the template parser via
			// the fragment's Comments list, not as an intermediate event.
			continue
		}
	}
}

// ConsumeRawText switches the underlying tokenizer into the given
// content model for an element named endTagName, then pulls the single
// raw-text/RCDATA token spanning everything up to (not including) the
// matching end tag. Callers invoke this immediately after aggregating a
// start tag whose content model is not ModelNormal (spec §4.1's note
// that raw-text scanning needs the matching end-tag name externally).
func (it *Tokenizer) ConsumeRawText(model htmlatom.ContentModel, endTagName string) (IntermediateToken, bool) {
	it.low.SetContentModel(model, endTagName)
	tok, ok := it.low.RawTextToken()
	if !ok {
		return IntermediateToken{}, false
	}
	if it.Sink != nil {
		it.Sink(tok)
	}
	return IntermediateToken{Kind: Text, Text: tok, Value: tok.Value, Range: tok.Range}, true
}

// mergeText wraps the just-read text/whitespace token as a Text event.
// Adjacent text tokens are not merged: each low-level text token arrives
// as its own Text event.
func (it *Tokenizer) mergeText(first tokenizer.Token) IntermediateToken {
	return IntermediateToken{
		Kind: Text,
		Text: first,
		Value: first.Value,
		Range: first.Range,
	}
}

// ContentModelForStartTag decides the content model the just-opened
// element imposes on its children, honoring a `lang` attribute override
// (spec §4.3(e)): any non-"html" lang switches a <template> root back to
// raw text, and the teacher's own convention of raw-text <script>/<style>
// applies otherwise.
func ContentModelForStartTag(tagName string, attrs []Attribute, isTemplateRoot bool) (htmlatom.ContentModel, string) {
	lang := ""
	for _, a := range attrs {
		if a.Name.Value == "lang" && a.HasValue {
			lang = a.Value.Value
		}
	}
	if isTemplateRoot {
		if lang != "" && lang != "html" {
			return htmlatom.ModelRawText, tagName
		}
		return htmlatom.ModelNormal, tagName
	}
	if lang != "" && lang != "html" {
		return htmlatom.ModelRawText, tagName
	}
	return htmlatom.ContentModelFor(tagName), tagName
}
