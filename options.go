package sfcparse

import "github.com/sfcgo/sfcparse/internal/scriptparser"

// TemplateTokenizerFactory is the external template-tokenizer plug-in
// contract (spec §6): given the raw text of a non-"html" <template lang>
// block, the whole source it was sliced from, and a starting
// line/column, it returns a tokenizer the template parser can drive in
// place of the built-in one.
type TemplateTokenizerFactory func(innerText, wholeSource string, startingLine, startingColumn int) TemplateTokenizer

// TemplateTokenizer is the minimal surface a plug-in tokenizer exposes
// (spec §6).
type TemplateTokenizer interface {
	NextToken() (any, bool)
}

// CustomBlockParser is the external custom-block parser contract (spec
// §6): identical shape to scriptparser.Parser, invoked on the text
// content of any non-script, non-template, non-style top-level child.
type CustomBlockParser = scriptparser.Parser

// Options configures a single Parse/ParseForESLint call (spec §6). The
// zero value is usable: every field defaults as documented.
type Options struct {
	// FilePath determines whether the source is treated as an SFC
	// (extension ".vue") or a plain script, and is used as the
	// identifier in reported errors.
	FilePath string

	// Parser selects the embedded script parser. nil defaults to
	// scriptparser.NewGojaParser(). A false-equivalent "skip script
	// parsing" is requested via SkipScriptParsing.
	Parser            scriptparser.Parser
	SkipScriptParsing bool

	// PerLanguageParser maps a <script lang="..."> value to a distinct
	// Parser, overriding Parser for that language.
	PerLanguageParser map[string]scriptparser.Parser

	// EcmaVersion is forwarded to the embedded script parser. NewOptions
	// sets it to 2017; a zero value in an Options built without
	// NewOptions is forwarded as zero.
	EcmaVersion int

	// SourceType is "script" or "module"; a <script setup> sibling
	// forces "module" regardless of this setting.
	SourceType string

	VueFeatures VueFeatures

	// TemplateTokenizer maps a <template lang="..."> value to an
	// alternate tokenizer constructor.
	TemplateTokenizer map[string]TemplateTokenizerFactory

	// CustomBlockParser, if set, parses non-script/template/style
	// top-level children.
	CustomBlockParser CustomBlockParser

	// EslintScopeManager requests that a scope manager accompany the
	// result (spec §6). This core implements the minimal subset the
	// reference resolver needs directly (see resolve.go); a full
	// third-party scope graph is out of this core's scope, matching
	// spec.md's non-goals.
	EslintScopeManager bool
}

// VueFeatures mirrors spec §6's vueFeatures sub-options.
type VueFeatures struct {
	// InterpolationAsNonHTML, default true: inside <template>, "<"
	// inside an interpolation is not an error.
	InterpolationAsNonHTML *bool

	// StyleCSSVariableInjection, default true in the original system;
	// out of this core's scope (style blocks are not parsed at all),
	// kept as a field only so callers migrating Options from the full
	// system don't fail to compile.
	StyleCSSVariableInjection *bool

	// CustomMacros lists identifiers treated as compiler macros inside
	// <script setup> (spec §6, glossary).
	CustomMacros []string
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// Option is the functional-options constructor for Options, following
// the teacher's LoadOption pattern generalized to this package's needs.
type Option func(*Options)

// NewOptions builds an Options from zero or more Option functions,
// applying defaults first.
func NewOptions(opts ...Option) Options {
	o := Options{
		EcmaVersion: 2017,
		SourceType:  "script",
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func WithFilePath(path string) Option {
	return func(o *Options) { o.FilePath = path }
}

func WithParser(p scriptparser.Parser) Option {
	return func(o *Options) { o.Parser = p }
}

func WithEcmaVersion(v int) Option {
	return func(o *Options) { o.EcmaVersion = v }
}

func WithSourceType(t string) Option {
	return func(o *Options) { o.SourceType = t }
}

func WithCustomMacros(names ...string) Option {
	return func(o *Options) { o.VueFeatures.CustomMacros = names }
}

func WithEslintScopeManager(enabled bool) Option {
	return func(o *Options) { o.EslintScopeManager = enabled }
}

func (o Options) resolvedParser(lang string) scriptparser.Parser {
	if lang != "" {
		if p, ok := o.PerLanguageParser[lang]; ok {
			return p
		}
	}
	if o.Parser != nil {
		return o.Parser
	}
	return scriptparser.NewGojaParser()
}

func (o Options) isSFC() bool {
	if o.FilePath == "" {
		return true
	}
	return len(o.FilePath) >= 4 && o.FilePath[len(o.FilePath)-4:] == ".vue"
}
