package htmlatom_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sfcgo/sfcparse/internal/htmlatom"
)

func TestIsVoid(t *testing.T) {
	require.True(t, htmlatom.IsVoid("br"))
	require.True(t, htmlatom.IsVoid("img"))
	require.False(t, htmlatom.IsVoid("div"))
	require.False(t, htmlatom.IsVoid("script"))
}

func TestContentModelFor(t *testing.T) {
	require.Equal(t, htmlatom.ModelRawText, htmlatom.ContentModelFor("script"))
	require.Equal(t, htmlatom.ModelRawText, htmlatom.ContentModelFor("style"))
	require.Equal(t, htmlatom.ModelRCData, htmlatom.ContentModelFor("textarea"))
	require.Equal(t, htmlatom.ModelRCData, htmlatom.ContentModelFor("title"))
	require.Equal(t, htmlatom.ModelNormal, htmlatom.ContentModelFor("div"))
}

func TestImplicitlyCloses(t *testing.T) {
	require.True(t, htmlatom.ImplicitlyCloses("li", "li"))
	require.True(t, htmlatom.ImplicitlyCloses("td", "th"))
	require.True(t, htmlatom.ImplicitlyCloses("dt", "dd"))
	require.False(t, htmlatom.ImplicitlyCloses("div", "div"))
	require.False(t, htmlatom.ImplicitlyCloses("li", "div"))
}

func TestClosesOpenP(t *testing.T) {
	require.True(t, htmlatom.ClosesOpenP("div"))
	require.True(t, htmlatom.ClosesOpenP("h1"))
	require.False(t, htmlatom.ClosesOpenP("span"))
}

func TestForeignAttributeNamespace(t *testing.T) {
	local, ns, ok := htmlatom.ForeignAttributeNamespace("xlink:href")
	require.True(t, ok)
	require.Equal(t, "href", local)
	require.Equal(t, htmlatom.XLink, ns)

	_, _, ok = htmlatom.ForeignAttributeNamespace("href")
	require.False(t, ok)
}

func TestAdjustSVGTagName(t *testing.T) {
	require.Equal(t, "foreignObject", htmlatom.AdjustSVGTagName("foreignobject"))
	require.Equal(t, "linearGradient", htmlatom.AdjustSVGTagName("lineargradient"))
	require.Equal(t, "rect", htmlatom.AdjustSVGTagName("rect"))
}

func TestAdjustSVGAttrName(t *testing.T) {
	require.Equal(t, "viewBox", htmlatom.AdjustSVGAttrName("viewbox"))
	require.Equal(t, "gradientTransform", htmlatom.AdjustSVGAttrName("gradienttransform"))
	require.Equal(t, "fill", htmlatom.AdjustSVGAttrName("fill"))
}

func TestIntegrationPoints(t *testing.T) {
	require.True(t, htmlatom.IsHTMLIntegrationPoint("foreignObject"))
	require.True(t, htmlatom.IsHTMLIntegrationPoint("desc"))
	require.False(t, htmlatom.IsHTMLIntegrationPoint("rect"))

	require.True(t, htmlatom.IsMathMLTextIntegrationPoint("mtext"))
	require.False(t, htmlatom.IsMathMLTextIntegrationPoint("mrow"))
}

func TestNamespaceAliases(t *testing.T) {
	require.Equal(t, htmlatom.HTML, htmlatom.NamespaceHTML)
	require.Equal(t, htmlatom.SVG, htmlatom.NamespaceSVG)
	require.Equal(t, htmlatom.MathML, htmlatom.NamespaceMathML)
	require.Equal(t, htmlatom.XLink, htmlatom.NamespaceXLink)
}
