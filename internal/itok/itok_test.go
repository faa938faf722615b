package itok_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sfcgo/sfcparse/internal/htmlatom"
	"github.com/sfcgo/sfcparse/internal/itok"
	"github.com/sfcgo/sfcparse/internal/tokenizer"
)

func TestTokenizer_StartTag_AggregatesNameAndAttributes(t *testing.T) {
	low := tokenizer.New(`<div id="app" disabled></div>`, htmlatom.HTML, true)
	it := itok.New(low)

	tok, ok := it.NextToken()
	require.True(t, ok)
	require.Equal(t, itok.StartTag, tok.Kind)
	require.Equal(t, "div", tok.Name)
	require.Len(t, tok.Attributes, 2)
	require.Equal(t, "id", tok.Attributes[0].Name.Value)
	require.True(t, tok.Attributes[0].HasValue)
	require.Equal(t, "app", tok.Attributes[0].Value.Value)
	require.Equal(t, "disabled", tok.Attributes[1].Name.Value)
	require.False(t, tok.Attributes[1].HasValue)

	end, ok := it.NextToken()
	require.True(t, ok)
	require.Equal(t, itok.EndTag, end.Kind)
	require.Equal(t, "div", end.Name)
}

func TestTokenizer_SelfClosingTag_SetsFlag(t *testing.T) {
	low := tokenizer.New(`<br/>`, htmlatom.HTML, true)
	it := itok.New(low)
	tok, ok := it.NextToken()
	require.True(t, ok)
	require.True(t, tok.SelfClosing)
}

func TestTokenizer_DuplicateAttribute_Flagged(t *testing.T) {
	low := tokenizer.New(`<div id="a" id="b"></div>`, htmlatom.HTML, true)
	it := itok.New(low)
	tok, ok := it.NextToken()
	require.True(t, ok)
	require.False(t, tok.Attributes[0].Duplicate)
	require.True(t, tok.Attributes[1].Duplicate)
}

func TestTokenizer_Mustache_TrimsWhitespaceAndTracksDelimiters(t *testing.T) {
	low := tokenizer.New(`{{  count + 1  }}`, htmlatom.HTML, true)
	it := itok.New(low)
	tok, ok := it.NextToken()
	require.True(t, ok)
	require.Equal(t, itok.Mustache, tok.Kind)
	require.Equal(t, "count + 1", tok.Value)
	require.Equal(t, "{{", tok.StartToken.Value)
	require.Equal(t, "}}", tok.EndToken.Value)
}

func TestTokenizer_Text_CarriesRange(t *testing.T) {
	low := tokenizer.New(`hello`, htmlatom.HTML, true)
	it := itok.New(low)
	tok, ok := it.NextToken()
	require.True(t, ok)
	require.Equal(t, itok.Text, tok.Kind)
	require.Equal(t, "hello", tok.Value)
	require.Equal(t, 0, tok.Range.Start)
	require.Equal(t, 5, tok.Range.End)
}

func TestTokenizer_Comments_AreNotAggregatedAsEvents(t *testing.T) {
	low := tokenizer.New(`<!-- c --><div></div>`, htmlatom.HTML, true)
	it := itok.New(low)
	tok, ok := it.NextToken()
	require.True(t, ok)
	require.Equal(t, itok.StartTag, tok.Kind, "a leading comment must be skipped, not surfaced as an intermediate event")
	require.Equal(t, "div", tok.Name)
}

func TestTokenizer_ConsumeRawText_ReturnsSingleTextEvent(t *testing.T) {
	low := tokenizer.New(`<script>a < b</script>`, htmlatom.HTML, true)
	it := itok.New(low)
	start, ok := it.NextToken()
	require.True(t, ok)
	require.Equal(t, "script", start.Name)

	raw, ok := it.ConsumeRawText(htmlatom.ModelRawText, "script")
	require.True(t, ok)
	require.Equal(t, itok.Text, raw.Kind)
	require.Equal(t, "a < b", raw.Value)

	end, ok := it.NextToken()
	require.True(t, ok)
	require.Equal(t, itok.EndTag, end.Kind)
	require.Equal(t, "script", end.Name)
}

func TestTokenizer_Sink_ObservesEveryLowLevelToken(t *testing.T) {
	low := tokenizer.New(`<div>x</div>`, htmlatom.HTML, true)
	it := itok.New(low)
	var seen []tokenizer.Type
	it.Sink = func(tok tokenizer.Token) { seen = append(seen, tok.Type) }
	for {
		_, ok := it.NextToken()
		if !ok {
			break
		}
	}
	require.Contains(t, seen, tokenizer.HTMLTagOpen)
	require.Contains(t, seen, tokenizer.HTMLText)
	require.Contains(t, seen, tokenizer.HTMLEndTagOpen)
}

func TestContentModelForStartTag_LangOverrideForcesRawText(t *testing.T) {
	attrs := []itok.Attribute{{
		Name:     tokenizer.Token{Value: "lang"},
		HasValue: true,
		Value:    tokenizer.Token{Value: "ts"},
	}}
	model, endTag := itok.ContentModelForStartTag("script", attrs, false)
	require.Equal(t, htmlatom.ModelRawText, model)
	require.Equal(t, "script", endTag)
}

func TestContentModelForStartTag_DefaultsToTagContentModel(t *testing.T) {
	model, _ := itok.ContentModelForStartTag("style", nil, false)
	require.Equal(t, htmlatom.ModelRawText, model)

	model, _ = itok.ContentModelForStartTag("div", nil, false)
	require.Equal(t, htmlatom.ModelNormal, model)
}
