// Package sfcparse implements the core of a Single-File Component
// parser: a template tokenizer and parser producing an ESTree-compatible,
// template-extended AST, plus the glue that lets an embedded script
// parser and a <script setup> reconstruction pipeline attach a script
// body to that template.
package sfcparse

import (
	"strings"

	"github.com/sfcgo/sfcparse/internal/scriptparser"
	"github.com/sfcgo/sfcparse/internal/scriptsetup"
)

// ESLintResult is ParseForESLint's return shape (spec §6).
type ESLintResult struct {
	Ast          *ESNode
	TemplateBody *VElement
	Services     Services
	ScopeManager *ScopeManager
	VisitorKeys  map[string][]string
}

// Services is the minimal subset of the real system's lint-rule
// collaboration surface this core provides; the lint driver itself is
// out of this core's scope (spec.md's Non-goals), so Services exposes
// only what a caller needs to reach the parsed fragment.
type Services struct {
	GetDocumentFragment func() *VDocumentFragment
}

// ScopeManager is a minimal stand-in: a real ecmascript scope graph is
// explicitly out of this core's scope (spec.md's Non-goals list "the
// scope analyzer"). When Options.EslintScopeManager is set, this
// provides just enough shape (the module-level variables this core
// already tracks as ElementVariables plus top-level script bindings)
// for a caller that only wants to enumerate top-level names, not a
// full reference graph.
type ScopeManager struct {
	TopLevelNames []string
}

// Parse implements spec §6's `parse` entry point: returns the script
// AST with TemplateBody attached via the returned ESNode's Native field
// (ESTree has no such field natively; callers wanting the template use
// ParseForESLint, which returns it as a first-class field — Parse exists
// only to mirror the two-entry-point shape spec §6 describes).
func Parse(source string, opts Options) (*ESNode, error) {
	res, err := ParseForESLint(source, opts)
	if err != nil {
		return nil, err
	}
	if res.Ast == nil {
		res.Ast = &ESNode{Type: scriptparser.Program}
	}
	res.Ast.Native = res.TemplateBody
	return res.Ast, nil
}

// ParseForESLint implements spec §6's `parseForESLint` entry point. A
// non-".vue" FilePath (spec §6's filePath option) skips SFC block
// discovery entirely: the whole input is parsed as a single script body,
// with no template and no document fragment to report.
func ParseForESLint(source string, opts Options) (*ESLintResult, error) {
	if !opts.isSFC() {
		return parsePlainScript(source, opts)
	}

	p := newParser(source, opts)
	frag := p.parseDocument()

	var templateEl, scriptEl, scriptSetupEl *VElement
	for _, el := range frag.Children {
		switch el.Name {
		case "template":
			if templateEl == nil {
				templateEl = el
			}
		case "script":
			if hasAttr(el.StartTag, "setup") {
				scriptSetupEl = el
			} else if scriptEl == nil {
				scriptEl = el
			}
		}
	}

	ast, err := p.buildScriptAST(scriptEl, scriptSetupEl, opts)
	if err != nil {
		return nil, err
	}

	if opts.CustomBlockParser != nil {
		for _, el := range frag.Children {
			if el.Name == "template" || el.Name == "script" || el.Name == "style" {
				continue
			}
			parseCustomBlock(el, opts)
		}
	}

	var globals []string
	if scriptSetupEl != nil {
		// The "generic" attribute's identifiers are in-scope type
		// parameters, not unresolved references (spec §9 Open Question,
		// resolved); custom macros are globally-resolved calls, not
		// unresolved references (spec glossary "Compiler macro").
		generics := genericTypeParams(attrValue(scriptSetupEl.StartTag, "generic"))
		for _, name := range generics {
			scriptSetupEl.Variables = append(scriptSetupEl.Variables, &ElementVariable{
				Id:   &VIdentifier{Name: name},
				Kind: VariableKindGeneric,
			})
		}
		globals = append(globals, generics...)
		globals = append(globals, opts.VueFeatures.CustomMacros...)
	}

	res := &ESLintResult{
		Ast:          ast,
		TemplateBody: templateEl,
		Services: Services{
			GetDocumentFragment: func() *VDocumentFragment { return frag },
		},
	}
	if opts.EslintScopeManager {
		res.ScopeManager = buildScopeManager(ast, globals)
	}
	return res, nil
}

// parsePlainScript handles the non-SFC case: no HTML tokenization at
// all, just the embedded parser run directly over source.
func parsePlainScript(source string, opts Options) (*ESLintResult, error) {
	sourceType := opts.SourceType
	if sourceType == "" {
		sourceType = "script"
	}
	result, err := opts.resolvedParser("").ParseProgram(source, scriptparser.Options{
		SourceType:  sourceType,
		Filename:    opts.FilePath,
		EcmaVersion: opts.EcmaVersion,
	})
	if err != nil {
		return nil, &ScriptParseError{FilePath: opts.FilePath, Cause: err}
	}
	res := &ESLintResult{
		Ast: result.Program,
		Services: Services{
			GetDocumentFragment: func() *VDocumentFragment { return nil },
		},
	}
	if opts.EslintScopeManager {
		res.ScopeManager = buildScopeManager(res.Ast, nil)
	}
	return res, nil
}

// buildScriptAST implements spec §4.5 (a lone <script>) and §4.6 (a
// <script setup> sibling pair), returning a single Program whose
// statements carry original-document offsets.
func (p *parser) buildScriptAST(scriptEl, scriptSetupEl *VElement, opts Options) (*ESNode, error) {
	if opts.SkipScriptParsing {
		return nil, nil
	}
	if scriptEl == nil && scriptSetupEl == nil {
		return &ESNode{Type: scriptparser.Program}, nil
	}
	if scriptSetupEl != nil {
		return p.buildScriptSetupAST(scriptEl, scriptSetupEl, opts)
	}
	return p.buildPlainScriptAST(scriptEl, opts)
}

// buildPlainScriptAST is the Script Parser Adapter (spec §4.5): the
// script text is re-parsed with a whitespace prefix the length of
// everything before it, so the embedded parser's own offsets are
// already in original-document coordinates — no separate location-fix
// pass is needed, since the prefix preserves both byte length and line
// terminator positions exactly.
func (p *parser) buildPlainScriptAST(scriptEl *VElement, opts Options) (*ESNode, error) {
	if scriptEl == nil {
		return &ESNode{Type: scriptparser.Program}, nil
	}
	text, start := rawTextChild(scriptEl)
	lang := attrValue(scriptEl.StartTag, "lang")
	prefixed := buildPrefix(p.src, start) + text
	sourceType := opts.SourceType
	if sourceType == "" {
		sourceType = "script"
	}
	result, err := opts.resolvedParser(lang).ParseProgram(prefixed, scriptparser.Options{
		SourceType: sourceType,
		Filename:   opts.FilePath,
		EcmaVersion: opts.EcmaVersion,
	})
	if err != nil {
		pos := p.lines.Position(start)
		return nil, &ScriptParseError{FilePath: opts.FilePath, Offset: start, Pos: pos, Cause: err}
	}
	return result.Program, nil
}

// buildScriptSetupAST is the <script setup> reconstruction pipeline
// (spec §4.6), delegating phases A-C to internal/scriptsetup; phase D's
// scope merge is collectTopLevelNames.
func (p *parser) buildScriptSetupAST(scriptEl, scriptSetupEl *VElement, opts Options) (*ESNode, error) {
	var blocks []scriptsetup.CodeBlock
	if scriptEl != nil {
		text, start := rawTextChild(scriptEl)
		blocks = append(blocks, scriptsetup.CodeBlock{Name: "script", Source: text, Offset: start})
	}
	setupText, setupStart := rawTextChild(scriptSetupEl)
	blocks = append(blocks, scriptsetup.CodeBlock{Name: "scriptSetup", Source: setupText, Offset: setupStart})

	lang := attrValue(scriptSetupEl.StartTag, "lang")
	parserImpl := opts.resolvedParser(lang)

	result, err := scriptsetup.Reconstruct(parserImpl, blocks, p.lines)
	if err != nil {
		pos := p.lines.Position(setupStart)
		return nil, &ScriptParseError{FilePath: opts.FilePath, Offset: setupStart, Pos: pos, Cause: err}
	}
	return result.Merged, nil
}

// CustomBlockResult is a custom block's parse outcome (spec §6's custom
// block parser contract, §4.9's failure model: a failed parse yields an
// empty program covering the block's range plus Error, never a thrown
// exception).
type CustomBlockResult struct {
	Program *ESNode
	Error   error
}

// parseCustomBlock runs opts.CustomBlockParser over el's raw text child
// and records the outcome on el.CustomBlock.
func parseCustomBlock(el *VElement, opts Options) {
	text, _ := rawTextChild(el)
	result, err := opts.CustomBlockParser.ParseProgram(text, scriptparser.Options{Filename: opts.FilePath})
	if err != nil {
		el.CustomBlock = &CustomBlockResult{
			Program: &ESNode{Type: scriptparser.Program, Range: el.Range},
			Error:   err,
		}
		return
	}
	el.CustomBlock = &CustomBlockResult{Program: result.Program}
}

// rawTextChild returns the text (and its starting offset) of el's sole
// VText child, which is how raw-text elements (<script>, <style>)
// carry their body after tokenization.
func rawTextChild(el *VElement) (string, int) {
	for _, c := range el.Children {
		if t, ok := c.(*VText); ok {
			return t.Value, t.Range[0]
		}
	}
	if el.StartTag != nil {
		return "", el.StartTag.Range[1]
	}
	return "", el.Range[1]
}

func attrValue(start *VStartTag, name string) string {
	if start == nil {
		return ""
	}
	for _, a := range start.Attributes {
		if !a.Directive && a.Key != nil && a.Key.Name == name && a.Value != nil {
			return a.Value.Value
		}
	}
	return ""
}

// buildScopeManager walks ast's top-level statements for binding names,
// then adds extraGlobals (a <script setup>'s generic type parameters and
// compiler macros, spec §9's Open Question resolution and glossary's
// "Compiler macro") so neither ever shows up as an unresolved reference.
func buildScopeManager(ast *ESNode, extraGlobals []string) *ScopeManager {
	sm := &ScopeManager{}
	sm.TopLevelNames = append(sm.TopLevelNames, extraGlobals...)
	if ast == nil {
		return sm
	}
	for _, stmt := range ast.Body {
		collectTopLevelNames(sm, stmt)
	}
	return sm
}

// collectTopLevelNames adds the bindings a single top-level statement
// introduces. A <script setup> reconstruction's merged program (phase A
// of internal/scriptsetup) already puts the sibling <script> block's and
// <script setup> block's statements in one Body, so a single pass here
// over ast.Body is phase D's scope merge: every binding either block
// introduces — including imports, which a flat declaration-only walk
// would otherwise leave as apparent unresolved references — lands in one
// shared TopLevelNames set.
func collectTopLevelNames(sm *ScopeManager, stmt *scriptparser.Node) {
	switch stmt.Type {
	case scriptparser.VariableDeclaration:
		for _, d := range stmt.Declarations {
			sm.TopLevelNames = append(sm.TopLevelNames, patternIdentifiers(d.Id)...)
		}
	case scriptparser.FunctionDeclaration:
		if stmt.Id != nil {
			sm.TopLevelNames = append(sm.TopLevelNames, stmt.Id.Name)
		}
	case scriptparser.ImportDeclaration:
		for _, spec := range stmt.Specifiers {
			if spec.Id != nil {
				sm.TopLevelNames = append(sm.TopLevelNames, spec.Id.Name)
			}
		}
	case scriptparser.ExportNamedDeclaration:
		if stmt.Argument != nil {
			collectTopLevelNames(sm, stmt.Argument)
		}
	}
}

// genericTypeParams parses a <script setup lang="ts">'s "generic"
// attribute value ("T, U extends object") into its bare parameter names,
// dropping any "extends ..." constraint text this core doesn't type-check.
func genericTypeParams(raw string) []string {
	if raw == "" {
		return nil
	}
	var names []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if i := strings.IndexAny(part, " \t"); i >= 0 {
			part = part[:i]
		}
		if part != "" {
			names = append(names, part)
		}
	}
	return names
}
