// Package linecol maps byte offsets to 1-based line / 0-based column pairs
// in O(log n), given the offsets immediately following each line break.
package linecol

import "sort"

// Position is a 1-based line, 0-based column pair.
type Position struct {
	Line   int
	Column int
}

// Index resolves offsets to Positions using a sorted list of line-start
// offsets. An Index is safe for concurrent reads once built.
type Index struct {
	// lineStarts[i] is the offset of the first byte of line i+2 (line 1
	// always starts at offset 0 and is not stored).
	lineStarts []int
}

// New builds an Index from the offsets immediately following each line
// terminator, as recorded by the tokenizer's lineTerminators list. The
// slice must be sorted ascending; callers should pass it unmodified.
func New(lineTerminatorEnds []int) *Index {
	starts := make([]int, len(lineTerminatorEnds))
	copy(starts, lineTerminatorEnds)
	return &Index{lineStarts: starts}
}

// Position returns the (line, column) for a byte offset into the source
// that produced idx.
func (idx *Index) Position(offset int) Position {
	// lineStarts[i] is where line (i+2) begins; find the last line start
	// at or before offset.
	i := sort.Search(len(idx.lineStarts), func(i int) bool {
		return idx.lineStarts[i] > offset
	})
	line := i + 1
	lineStart := 0
	if i > 0 {
		lineStart = idx.lineStarts[i-1]
	}
	return Position{Line: line, Column: offset - lineStart}
}

// Offset is the inverse of Position: given a line/column pair, returns the
// byte offset it refers to. Used to verify the round-trip invariant
// (spec §8 property 3).
func (idx *Index) Offset(pos Position) int {
	lineStart := 0
	if pos.Line > 1 {
		i := pos.Line - 2
		if i >= 0 && i < len(idx.lineStarts) {
			lineStart = idx.lineStarts[i]
		} else if i >= len(idx.lineStarts) && len(idx.lineStarts) > 0 {
			lineStart = idx.lineStarts[len(idx.lineStarts)-1]
		}
	}
	return lineStart + pos.Column
}
