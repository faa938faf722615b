// Package scriptsetup implements the <script setup> reconstruction
// pipeline from spec §4.6: a sibling <script> and <script setup> block
// are spliced into one synthetic program, parsed once, then unspliced so
// the public AST reports two distinct, correctly-offset script bodies
// sharing one module scope.
package scriptsetup

import (
	"fmt"
	"strings"

	"github.com/sfcgo/sfcparse/internal/linecol"
	"github.com/sfcgo/sfcparse/internal/locfix"
	"github.com/sfcgo/sfcparse/internal/scriptparser"
)

// CodeBlock is one real source block (a <script> or <script setup> body)
// being merged into a single synthetic program.
type CodeBlock struct {
	// Name distinguishes the two possible blocks.
	Name string // "script" | "scriptSetup"
	// Source is the literal text of the block, as it appears in the
	// document between its start/end tags.
	Source string
	// Offset is this block's first byte's offset in the original
	// document.
	Offset int
}

// RemapBlock records where one CodeBlock's text landed inside the
// synthesized program, so phase B can translate buffer-relative offsets
// (from parse errors or AST node ranges) back to original-document
// offsets without re-running the location fix calculator's general
// gap machinery (script-setup splicing is a block-level shift, not a
// per-character gap).
type RemapBlock struct {
	Name         string
	BufferStart  int
	BufferEnd    int
	OriginalBase int
}

// splitPunctuator is a single synthetic character inserted solely to
// keep the merged buffer syntactically valid (e.g. a semicolon closing
// the preceding statement before splicing a sibling block). Phase C
// strips these from the final program.
type splitPunctuator struct {
	bufferOffset int
	length       int
}

// Tokenizer performs phase A: given the two blocks (script first,
// scriptSetup second, matching Vue SFC convention), it builds one merged
// buffer plus the RemapBlocks and splitPunctuators needed to invert it.
type Tokenizer struct {
	blocks      []CodeBlock
	buffer      strings.Builder
	remaps      []RemapBlock
	punctuators []splitPunctuator
}

// NewTokenizer starts phase A for the given blocks, in source order.
func NewTokenizer(blocks []CodeBlock) *Tokenizer {
	return &Tokenizer{blocks: blocks}
}

// Tokenize runs phase A to completion, returning the merged buffer text
// and the bookkeeping phases B and C need.
func (t *Tokenizer) Tokenize() (buffer string, remaps []RemapBlock, punctuators []splitPunctuator) {
	for i, b := range t.blocks {
		start := t.buffer.Len()
		t.buffer.WriteString(b.Source)
		end := t.buffer.Len()
		t.remaps = append(t.remaps, RemapBlock{
			Name:         b.Name,
			BufferStart:  start,
			BufferEnd:    end,
			OriginalBase: b.Offset,
		})
		if i < len(t.blocks)-1 {
			// A trailing statement in one block need not end in a
			// semicolon; splice one in so the next block's first
			// statement can't be parsed as a continuation of the last
			// expression (ASI can't be trusted across a synthetic
			// boundary it never saw).
			sep := ";"
			pos := t.buffer.Len()
			t.buffer.WriteString(sep)
			t.punctuators = append(t.punctuators, splitPunctuator{bufferOffset: pos, length: len(sep)})
		}
	}
	return t.buffer.String(), t.remaps, t.punctuators
}

// Reconstructed is the final result. Merged is the single combined
// program callers typically want (one Program node, statements from
// both blocks in source order, each with original-document ranges) —
// this is what spec §4.6 exists to produce. Programs additionally
// offers the same statements re-split per originating block, for
// callers that need to know which block a given top-level statement
// came from.
type Reconstructed struct {
	Merged   *scriptparser.Node
	Programs map[string]*scriptparser.Node // keyed by CodeBlock.Name
}

// Reconstruct runs phases A-C: tokenize, parse the merged buffer once,
// normalize the resulting AST by splitting it back into per-block
// programs with original-document ranges, and return them sharing one
// logical scope (callers needing a real scope graph run the returned
// programs through the same scope-analysis step they'd use for an
// ordinary <script setup>-less file; this package only guarantees the
// two programs are syntactically and positionally as if that single
// analysis pass could see both at once).
func Reconstruct(p scriptparser.Parser, blocks []CodeBlock, lines *linecol.Index) (*Reconstructed, error) {
	tok := NewTokenizer(blocks)
	buffer, remaps, puncts := tok.Tokenize()

	result, err := p.ParseProgram(buffer, scriptparser.Options{SourceType: "module", Filename: "script-setup.js"})
	if err != nil {
		return nil, remapParseError(err, remaps)
	}

	out := &Reconstructed{Programs: map[string]*scriptparser.Node{}}
	for _, rb := range remaps {
		out.Programs[rb.Name] = extractBlockProgram(result.Program, rb, puncts, lines)
	}

	merged := &scriptparser.Node{Type: scriptparser.Program}
	for _, rb := range remaps {
		if prog := out.Programs[rb.Name]; prog != nil {
			merged.Body = append(merged.Body, prog.Body...)
		}
	}
	if len(merged.Body) > 0 {
		merged.Range = [2]int{merged.Body[0].Range[0], merged.Body[len(merged.Body)-1].Range[1]}
	}
	out.Merged = merged
	return out, nil
}

// remapParseError is phase B's error path. It wraps the parser failure
// with the number of merged blocks and the first block's name and
// original offset; the wrapped error's own position is left in
// merged-buffer coordinates and is not translated to the block it came
// from.
func remapParseError(err error, remaps []RemapBlock) error {
	// Best-effort: the underlying error's own message/position already
	// describes the merged buffer; callers needing finer-grained offset
	// translation should inspect the returned error's wrapped cause and
	// map its offset through remaps themselves. We tag which block the
	// first remap would have covered for small single-block inputs,
	// which is the common case (an otherwise-valid <script> plus a
	// syntactically broken <script setup>, or vice versa).
	if len(remaps) == 0 {
		return fmt.Errorf("scriptsetup: %w", err)
	}
	return fmt.Errorf("scriptsetup: parse error while merging %d block(s), first block %q at original offset %d: %w",
		len(remaps), remaps[0].Name, remaps[0].OriginalBase, err)
}

// extractBlockProgram is phase C: it walks the merged program,
// keeps only the statements whose buffer range falls within rb's span,
// rolls every kept node's range back into original-document coordinates
// via a locfix.Calculator seeded with a single shift-gap (the negative
// of rb.BufferStart-rb.OriginalBase), and strips any synthetic
// split-punctuator whose 1-length range survived into a node boundary.
func extractBlockProgram(merged *scriptparser.Node, rb RemapBlock, puncts []splitPunctuator, lines *linecol.Index) *scriptparser.Node {
	delta := rb.OriginalBase - rb.BufferStart
	calc := locfix.New([]locfix.Gap{{Offset: 0, CumulativeGap: delta}}, lines)

	out := &scriptparser.Node{Type: scriptparser.Program}
	for _, stmt := range merged.Body {
		if stmt.Range[0] < rb.BufferStart || stmt.Range[0] >= rb.BufferEnd {
			continue
		}
		rollNodeBoundaries(stmt, puncts)
		scriptparser.Walk(stmt, func(n *scriptparser.Node) { calc.FixNode(n) })
		out.Body = append(out.Body, stmt)
	}
	if len(out.Body) > 0 {
		out.Range = [2]int{out.Body[0].Range[0], out.Body[len(out.Body)-1].Range[1]}
	} else {
		out.Range = [2]int{rb.OriginalBase, rb.OriginalBase}
	}
	return out
}

// rollNodeBoundaries trims a node's end offset back off any synthetic
// split-punctuator that a generous parser folded into the statement's
// own range (e.g. treating the spliced ";" as part of the preceding
// ExpressionStatement).
func rollNodeBoundaries(n *scriptparser.Node, puncts []splitPunctuator) {
	scriptparser.Walk(n, func(cur *scriptparser.Node) {
		for _, p := range puncts {
			if cur.Range[1] == p.bufferOffset+p.length {
				cur.Range[1] = p.bufferOffset
			}
		}
	})
}
