// Package locfix implements the location fix calculator from spec §4.7:
// it adjusts ranges and locations produced by an embedded parser working
// against a modified (entity-decoded, prefix-shifted) copy of a source
// slice, so that the public AST points back at the original source.
package locfix

import (
	"sort"

	"github.com/sfcgo/sfcparse/internal/linecol"
)

// Gap is a cumulative-offset correction recorded at a specific offset,
// e.g. internal/tokenizer.Gap.
type Gap struct {
	Offset        int
	CumulativeGap int
}

// Which selects the start/end fix-up rule; spec §4.7 breaks start/end
// ties at exact boundaries differently.
type Which int

const (
	Start Which = iota
	End
)

// Calculator owns a base offset, a sorted gap list, and a lines index.
type Calculator struct {
	base  int
	gaps  []Gap
	lines *linecol.Index

	// fixed de-duplicates nodes/ranges/locs already adjusted, guarding
	// against upstream parsers that share array instances across
	// distinct AST nodes (spec §4.7, §9).
	fixed map[any]bool
}

// New creates a root Calculator: base offset zero, the given gap list
// (already sorted ascending by Offset), and a lines index built from the
// tokenizer's recorded line-terminator offsets.
func New(gaps []Gap, lines *linecol.Index) *Calculator {
	return &Calculator{gaps: gaps, lines: lines, fixed: map[any]bool{}}
}

// OffsetToLoc resolves an offset to a line/column pair.
func (c *Calculator) OffsetToLoc(offset int) linecol.Position {
	return c.lines.Position(offset)
}

// FixOffset returns the delta to add to offset to project it back into
// original-source coordinates: the cumulative gap of the largest gap
// entry at or before offset. A gap recorded exactly at offset is
// included for Start but not for End, per spec §4.7's tie-break rule at
// exact boundaries (a node starting exactly where a gap was recorded
// already accounts for it; a node ending there does not yet).
func (c *Calculator) FixOffset(offset int, which Which) int {
	idx := sort.Search(len(c.gaps), func(i int) bool {
		if which == Start {
			return c.gaps[i].Offset > offset
		}
		return c.gaps[i].Offset >= offset
	})
	cumulative := 0
	if idx > 0 {
		cumulative = c.gaps[idx-1].CumulativeGap
	}
	return cumulative + c.base
}

// RangeLike is implemented by any AST/token node whose byte span the
// calculator needs to adjust in place.
type RangeLike interface {
	GetRange() [2]int
	SetRange(r [2]int)
	SetLoc(start, end linecol.Position)
}

// FixNode adjusts node's range (and recomputes its loc), unless it has
// already been fixed in a previous traversal (idempotence, spec §4.7,
// §8 property 8) or its range already lies past every known gap (it was
// authored directly against the original source, e.g. synthesized
// tokens).
func (c *Calculator) FixNode(node RangeLike) {
	if c.fixed[node] {
		return
	}
	r := node.GetRange()
	if c.alreadyFixed(r) {
		c.fixed[node] = true
		return
	}
	delta0 := c.FixOffset(r[0], Start)
	delta1 := c.FixOffset(r[1], End)
	newStart := r[0] + delta0
	newEnd := r[1] + delta1
	node.SetRange([2]int{newStart, newEnd})
	node.SetLoc(c.OffsetToLoc(newStart), c.OffsetToLoc(newEnd))
	c.fixed[node] = true
}

// alreadyFixed reports whether r's start already exceeds every recorded
// gap offset by more than the base, which can only happen if the range
// was already expressed in original-source coordinates.
func (c *Calculator) alreadyFixed(r [2]int) bool {
	if len(c.gaps) == 0 {
		return false
	}
	last := c.gaps[len(c.gaps)-1]
	return r[0] > last.Offset+last.CumulativeGap+c.base
}

// SubCalculatorAfter returns a new Calculator whose base offset is
// advanced by delta, with the gap list re-based so a node parsed against
// a slice starting delta bytes into this calculator's frame fixes up
// correctly (spec §4.7's "subCalculatorAfter").
func (c *Calculator) SubCalculatorAfter(delta int) *Calculator {
	return &Calculator{
		base:  c.base + delta,
		gaps:  c.gaps,
		lines: c.lines,
		fixed: map[any]bool{},
	}
}
