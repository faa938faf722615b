package tokenizer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sfcgo/sfcparse/internal/htmlatom"
	"github.com/sfcgo/sfcparse/internal/tokenizer"
)

func collect(tok *tokenizer.Tokenizer) []tokenizer.Token {
	var out []tokenizer.Token
	for {
		t, ok := tok.NextToken()
		if !ok {
			return out
		}
		out = append(out, t)
	}
}

func TestTokenizer_SimpleStartAndEndTag(t *testing.T) {
	tok := tokenizer.New("<div>hi</div>", htmlatom.HTML, true)
	toks := collect(tok)

	var types []tokenizer.Type
	for _, tt := range toks {
		types = append(types, tt.Type)
	}
	require.Contains(t, types, tokenizer.HTMLTagOpen)
	require.Contains(t, types, tokenizer.HTMLIdentifier)
	require.Contains(t, types, tokenizer.HTMLTagClose)
	require.Contains(t, types, tokenizer.HTMLText)
	require.Contains(t, types, tokenizer.HTMLEndTagOpen)
}

func TestTokenizer_Mustache_EmitsExpressionDelimiters(t *testing.T) {
	tok := tokenizer.New("{{ msg }}", htmlatom.HTML, true)
	toks := collect(tok)
	require.Equal(t, tokenizer.VExpressionStart, toks[0].Type)
	require.Equal(t, "{{", toks[0].Value)
	last := toks[len(toks)-1]
	require.Equal(t, tokenizer.VExpressionEnd, last.Type)
	require.Equal(t, "}}", last.Value)
}

func TestTokenizer_ExpressionDisabled_MustacheIsLiteralText(t *testing.T) {
	tok := tokenizer.New("{{ msg }}", htmlatom.HTML, false)
	toks := collect(tok)
	require.Len(t, toks, 1)
	require.Equal(t, tokenizer.HTMLText, toks[0].Type)
	require.Equal(t, "{{ msg }}", toks[0].Value)
}

func TestTokenizer_SetExpressionEnabled_TogglesMidStream(t *testing.T) {
	tok := tokenizer.New("{{ a }}", htmlatom.HTML, true)
	tok.SetExpressionEnabled(false)
	toks := collect(tok)
	require.Len(t, toks, 1)
	require.Equal(t, tokenizer.HTMLText, toks[0].Type)
	require.Equal(t, "{{ a }}", toks[0].Value)
}

func TestTokenizer_AttributeWithQuotedValue(t *testing.T) {
	tok := tokenizer.New(`<a href="x">`, htmlatom.HTML, true)
	toks := collect(tok)

	var names, literals []string
	for _, tt := range toks {
		switch tt.Type {
		case tokenizer.HTMLIdentifier:
			names = append(names, tt.Value)
		case tokenizer.HTMLLiteral:
			literals = append(literals, tt.Value)
		}
	}
	require.Contains(t, names, "href")
	require.Contains(t, literals, "x")
}

func TestTokenizer_EntityDecodeInText(t *testing.T) {
	tok := tokenizer.New("a &amp; b", htmlatom.HTML, true)
	toks := collect(tok)
	require.Len(t, toks, 1)
	require.Equal(t, "a & b", toks[0].Value)
	require.NotEmpty(t, tok.Gaps(), "entity decode must record a gap for the offset correction layer")
}

func TestTokenizer_NumericCharacterReference(t *testing.T) {
	tok := tokenizer.New("&#65;", htmlatom.HTML, true)
	toks := collect(tok)
	require.Equal(t, "A", toks[0].Value)
}

func TestTokenizer_UnterminatedNumericReference_EmitsError(t *testing.T) {
	tok := tokenizer.New("a &# b", htmlatom.HTML, true)
	collect(tok)
	require.NotEmpty(t, tok.Errors())
	require.Equal(t, tokenizer.ErrAbsenceOfDigitsInNumericCharacterReference, tok.Errors()[0].Code)
}

func TestTokenizer_SelfClosingTag(t *testing.T) {
	tok := tokenizer.New(`<br/>`, htmlatom.HTML, true)
	toks := collect(tok)
	last := toks[len(toks)-1]
	require.Equal(t, tokenizer.HTMLSelfClosingTagClose, last.Type)
}

func TestTokenizer_Comment(t *testing.T) {
	tok := tokenizer.New("<!-- hi -->", htmlatom.HTML, true)
	toks := collect(tok)
	require.Len(t, toks, 1)
	require.Equal(t, tokenizer.HTMLComment, toks[0].Type)
	require.Equal(t, " hi ", toks[0].Value)
}

func TestTokenizer_RawTextToken_ScriptContentNotTokenized(t *testing.T) {
	tok := tokenizer.New(`<script>if (1 < 2) {}</script>`, htmlatom.HTML, true)

	// Consume the start tag tokens first.
	for {
		tt, ok := tok.NextToken()
		require.True(t, ok)
		if tt.Type == tokenizer.HTMLTagClose {
			break
		}
	}
	tok.SetContentModel(htmlatom.ModelRawText, "script")
	raw, ok := tok.RawTextToken()
	require.True(t, ok)
	require.Equal(t, tokenizer.HTMLRawText, raw.Type)
	require.Equal(t, "if (1 < 2) {}", raw.Value)
}

func TestTokenizer_MissingExpressionEnd_EmitsError(t *testing.T) {
	tok := tokenizer.New("{{ unterminated", htmlatom.HTML, true)
	collect(tok)
	require.NotEmpty(t, tok.Errors())
	require.Equal(t, tokenizer.ErrXMissingExpressionEnd, tok.Errors()[0].Code)
}

func TestTokenizer_LineTerminators_NormalizesCRLF(t *testing.T) {
	tok := tokenizer.New("a\r\nb", htmlatom.HTML, true)
	toks := collect(tok)
	require.Equal(t, "a\nb", toks[0].Value)
	require.NotEmpty(t, tok.LineTerminators())
	require.NotEmpty(t, tok.Gaps(), "collapsing \\r\\n into \\n must record a gap")
}
