package sfcparse_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	sfcparse "github.com/sfcgo/sfcparse"
	"github.com/sfcgo/sfcparse/internal/scriptparser"
)

func TestParseForESLint_TemplateAndScript(t *testing.T) {
	src := `<template><div>{{ msg }}</div></template>
<script>
export default { data() { return { msg: 'hi' } } }
</script>
`
	res, err := sfcparse.ParseForESLint(src, sfcparse.NewOptions(sfcparse.WithFilePath("App.vue")))
	require.NoError(t, err)
	require.NotNil(t, res.TemplateBody)
	require.Equal(t, "template", res.TemplateBody.Name)
	require.Len(t, res.TemplateBody.Children, 1)

	div, ok := res.TemplateBody.Children[0].(*sfcparse.VElement)
	require.True(t, ok)
	require.Equal(t, "div", div.Name)
	require.Len(t, div.Children, 1)

	mustache, ok := div.Children[0].(*sfcparse.VExpressionContainer)
	require.True(t, ok)
	require.Nil(t, mustache.SyntaxError)
	expr, ok := mustache.Expression.(*sfcparse.ESNode)
	require.True(t, ok)
	require.Equal(t, scriptparser.Identifier, expr.Type)
	require.Equal(t, "msg", expr.Name)

	require.NotNil(t, res.Ast)
	require.Equal(t, scriptparser.Program, res.Ast.Type)
	require.NotEmpty(t, res.Ast.Body)

	frag := res.Services.GetDocumentFragment()
	require.NotNil(t, frag)
	require.Len(t, frag.Children, 2) // <template>, <script>
}

func TestParseForESLint_VForBindsReferenceToElementVariable(t *testing.T) {
	src := `<template><ul><li v-for="item in items">{{ item }}</li></ul></template>`
	res, err := sfcparse.ParseForESLint(src, sfcparse.NewOptions(sfcparse.WithFilePath("App.vue")))
	require.NoError(t, err)

	ul := res.TemplateBody.Children[0].(*sfcparse.VElement)
	li := ul.Children[0].(*sfcparse.VElement)

	require.Len(t, li.Variables, 1)
	require.Equal(t, "item", li.Variables[0].Id.Name)
	require.Equal(t, sfcparse.VariableKindVFor, li.Variables[0].Kind)

	require.Len(t, li.StartTag.Attributes, 1)
	attr := li.StartTag.Attributes[0]
	require.True(t, attr.Directive)
	require.Equal(t, "for", attr.DirectiveKey.Name)
	forExpr, ok := attr.DirectiveValue.Expression.(*sfcparse.VForExpression)
	require.True(t, ok)
	require.Len(t, forExpr.Left, 1)
	require.Equal(t, "item", forExpr.Left[0].Name)
	require.Equal(t, "items", forExpr.Right.Name)

	mustache := li.Children[0].(*sfcparse.VExpressionContainer)
	require.Len(t, mustache.References, 1)
	require.NotNil(t, mustache.References[0].Variable, "the {{ item }} reference must resolve to <li>'s v-for variable")
	require.Same(t, li.Variables[0], mustache.References[0].Variable)
}

func TestParseForESLint_VPreSuppressesDirectives(t *testing.T) {
	src := `<template><div v-pre>{{ not.an.expression }}<span :id="raw"></span></div></template>`
	res, err := sfcparse.ParseForESLint(src, sfcparse.NewOptions(sfcparse.WithFilePath("App.vue")))
	require.NoError(t, err)

	div := res.TemplateBody.Children[0].(*sfcparse.VElement)

	text, ok := div.Children[0].(*sfcparse.VText)
	require.True(t, ok, "a mustache inside v-pre must survive as literal text, not be dropped or parsed")
	require.Equal(t, "{{ not.an.expression }}", text.Value)

	var span *sfcparse.VElement
	for _, c := range div.Children {
		if el, ok := c.(*sfcparse.VElement); ok && el.Name == "span" {
			span = el
		}
	}
	require.NotNil(t, span)
	require.Len(t, span.StartTag.Attributes, 1)
	require.False(t, span.StartTag.Attributes[0].Directive, "attribute-looking names inside v-pre must stay plain")
	require.Equal(t, ":id", span.StartTag.Attributes[0].Key.Name)
}

func TestParseForESLint_ScriptSetup(t *testing.T) {
	src := `<script>
export default { inheritAttrs: false }
</script>
<script setup>
import { ref } from 'vue'
const count = ref(0)
</script>
<template><div>{{ count }}</div></template>
`
	res, err := sfcparse.ParseForESLint(src, sfcparse.NewOptions(sfcparse.WithFilePath("App.vue")))
	require.NoError(t, err)
	require.NotNil(t, res.Ast)
	require.True(t, len(res.Ast.Body) >= 3, "merged program should carry statements from both script blocks")
}

func TestParseForESLint_CustomBlock(t *testing.T) {
	src := `<template><div/></template>
<i18n>{"en": {"hello": "Hello"}}</i18n>
`
	opts := sfcparse.NewOptions(
		sfcparse.WithFilePath("App.vue"),
		func(o *sfcparse.Options) { o.CustomBlockParser = scriptparser.NewGojaParser() },
	)
	res, err := sfcparse.ParseForESLint(src, opts)
	require.NoError(t, err)

	frag := res.Services.GetDocumentFragment()
	var i18n *sfcparse.VElement
	for _, el := range frag.Children {
		if el.Name == "i18n" {
			i18n = el
		}
	}
	require.NotNil(t, i18n)
	require.NotNil(t, i18n.CustomBlock)
}

func TestParseForESLint_PlainScriptFastPath(t *testing.T) {
	res, err := sfcparse.ParseForESLint("const a = 1;", sfcparse.NewOptions(sfcparse.WithFilePath("plain.js")))
	require.NoError(t, err)
	require.Nil(t, res.TemplateBody)
	require.Nil(t, res.Services.GetDocumentFragment())
	require.Len(t, res.Ast.Body, 1)
}

func TestParse_AttachesTemplateBodyAsNative(t *testing.T) {
	src := `<template><div>hi</div></template><script>export default {}</script>`
	ast, err := sfcparse.Parse(src, sfcparse.NewOptions(sfcparse.WithFilePath("App.vue")))
	require.NoError(t, err)
	tmpl, ok := ast.Native.(*sfcparse.VElement)
	require.True(t, ok)
	require.Equal(t, "template", tmpl.Name)
}
