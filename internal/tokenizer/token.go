package tokenizer

import "github.com/sfcgo/sfcparse/internal/linecol"

// Type is the closed set of low-level token kinds the HTML tokenizer
// emits, per spec §3.
type Type int

const (
	HTMLTagOpen Type = iota
	HTMLEndTagOpen
	HTMLTagClose
	HTMLSelfClosingTagClose
	HTMLIdentifier
	HTMLLiteral
	HTMLAssociation
	HTMLText
	HTMLWhitespace
	HTMLRawText
	HTMLRCDataText
	HTMLCDataText
	HTMLComment
	HTMLBogusComment
	VExpressionStart
	VExpressionEnd
	Punctuator
)

func (t Type) String() string {
	switch t {
	case HTMLTagOpen:
		return "HTMLTagOpen"
	case HTMLEndTagOpen:
		return "HTMLEndTagOpen"
	case HTMLTagClose:
		return "HTMLTagClose"
	case HTMLSelfClosingTagClose:
		return "HTMLSelfClosingTagClose"
	case HTMLIdentifier:
		return "HTMLIdentifier"
	case HTMLLiteral:
		return "HTMLLiteral"
	case HTMLAssociation:
		return "HTMLAssociation"
	case HTMLText:
		return "HTMLText"
	case HTMLWhitespace:
		return "HTMLWhitespace"
	case HTMLRawText:
		return "HTMLRawText"
	case HTMLRCDataText:
		return "HTMLRCDataText"
	case HTMLCDataText:
		return "HTMLCDataText"
	case HTMLComment:
		return "HTMLComment"
	case HTMLBogusComment:
		return "HTMLBogusComment"
	case VExpressionStart:
		return "VExpressionStart"
	case VExpressionEnd:
		return "VExpressionEnd"
	case Punctuator:
		return "Punctuator"
	default:
		return "Unknown"
	}
}

// Range is a half-open byte-offset span into the original source.
type Range struct {
	Start int
	End   int
}

// Loc pairs a start/end linecol.Position for a Range.
type Loc struct {
	Start linecol.Position
	End   linecol.Position
}

// Token is a single low-level token with precise source offsets.
type Token struct {
	Type  Type
	Value string
	Range Range
	Loc   Loc
}

// ErrorCode is the closed taxonomy of tokenizer/template diagnostics, per
// spec §3 and §7.
type ErrorCode string

const (
	ErrUnexpectedNullCharacter              ErrorCode = "unexpected-null-character"
	ErrMissingWhitespaceBeforeAttributeName ErrorCode = "missing-whitespace-before-attribute-name"
	ErrMissingAttributeValue                ErrorCode = "missing-attribute-value"
	ErrEOFInTag                              ErrorCode = "eof-in-tag"
	ErrEOFInComment                          ErrorCode = "eof-in-comment"
	ErrEOFBeforeTagName                      ErrorCode = "eof-before-tag-name"
	ErrAbruptClosingOfEmptyComment           ErrorCode = "abrupt-closing-of-empty-comment"
	ErrDuplicateAttribute                    ErrorCode = "duplicate-attribute"
	ErrMissingEndTagName                     ErrorCode = "missing-end-tag-name"
	ErrInvalidFirstCharacterOfTagName        ErrorCode = "invalid-first-character-of-tag-name"
	ErrUnexpectedCharacterInAttributeName    ErrorCode = "unexpected-character-in-attribute-name"
	ErrUnexpectedSolidusInTag                ErrorCode = "unexpected-solidus-in-tag"
	ErrAbsenceOfDigitsInNumericCharacterReference ErrorCode = "absence-of-digits-in-numeric-character-reference"
	ErrUnknownNamedCharacterReference         ErrorCode = "unknown-named-character-reference"
	ErrNonVoidHTMLElementStartTagWithTrailingSolidus ErrorCode = "non-void-html-element-start-tag-with-trailing-solidus"
	ErrXInvalidEndTag                        ErrorCode = "x-invalid-end-tag"
	ErrXInvalidNamespace                     ErrorCode = "x-invalid-namespace"
	ErrXInvalidExpression                    ErrorCode = "x-invalid-expression"
	ErrXMissingExpressionEnd                 ErrorCode = "x-missing-expression-end"
)

// ParseError is a recoverable diagnostic. It is data, not a Go error: it
// never aborts parsing (spec §3, §7).
type ParseError struct {
	Code       ErrorCode
	Index      int
	LineNumber int
	Column     int
	Message    string
}

func (e ParseError) Error() string {
	return e.Message
}
