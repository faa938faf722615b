package sfcparse

import (
	"github.com/sfcgo/sfcparse/internal/linecol"
	"github.com/sfcgo/sfcparse/internal/tokenizer"
)

// Position is a 1-based line, 0-based column pair (spec §3).
type Position = linecol.Position

// Loc pairs a start/end Position, as carried by every positioned entity.
type Loc struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Token is the public, aggregate token shape returned on
// VDocumentFragment.Tokens: every low-level tokenizer.Token the parse
// produced, already fixed into original-source coordinates.
type Token struct {
	Type  tokenizer.Type `json:"type"`
	Value string         `json:"value"`
	Range [2]int         `json:"range"`
	Loc   Loc            `json:"loc"`
}

func (t *Token) GetRange() [2]int { return t.Range }
func (t *Token) SetRange(r [2]int) { t.Range = r }
func (t *Token) SetLoc(start, end Position) { t.Loc = Loc{Start: start, End: end} }

func tokenFromLow(low tokenizer.Token) Token {
	return Token{
		Type:  low.Type,
		Value: low.Value,
		Range: [2]int{low.Range.Start, low.Range.End},
		Loc:   Loc{Start: low.Loc.Start, End: low.Loc.End},
	}
}

// ParseError is the public recoverable-diagnostic shape (spec §3, §7).
type ParseError struct {
	Code       tokenizer.ErrorCode `json:"code"`
	Index      int                 `json:"index"`
	LineNumber int                 `json:"lineNumber"`
	Column     int                 `json:"column"`
	Message    string              `json:"message"`
}

func (e ParseError) Error() string { return e.Message }

func parseErrorFromLow(e tokenizer.ParseError) ParseError {
	return ParseError{
		Code:       e.Code,
		Index:      e.Index,
		LineNumber: e.LineNumber,
		Column:     e.Column,
		Message:    e.Message,
	}
}

// newTemplateError builds a ParseError for the template-parser-level
// codes (x-invalid-end-tag and friends) that never flow through the
// low-level tokenizer.
func newTemplateError(code tokenizer.ErrorCode, index int, pos Position, message string) ParseError {
	return ParseError{
		Code:       code,
		Index:      index,
		LineNumber: pos.Line,
		Column:     pos.Column,
		Message:    message,
	}
}
