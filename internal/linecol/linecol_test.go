package linecol_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sfcgo/sfcparse/internal/linecol"
)

func TestIndex_Position(t *testing.T) {
	// "ab\ncd\nef" — line terminators end at offsets 3 and 6.
	idx := linecol.New([]int{3, 6})

	tests := []struct {
		name   string
		offset int
		want   linecol.Position
	}{
		{"start of line 1", 0, linecol.Position{Line: 1, Column: 0}},
		{"mid line 1", 1, linecol.Position{Line: 1, Column: 1}},
		{"first byte of line 2", 3, linecol.Position{Line: 2, Column: 0}},
		{"mid line 2", 4, linecol.Position{Line: 2, Column: 1}},
		{"first byte of line 3", 6, linecol.Position{Line: 3, Column: 0}},
		{"last byte of line 3", 7, linecol.Position{Line: 3, Column: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, idx.Position(tt.offset))
		})
	}
}

func TestIndex_Offset_RoundTrips(t *testing.T) {
	idx := linecol.New([]int{3, 6})

	for offset := 0; offset < 8; offset++ {
		pos := idx.Position(offset)
		require.Equal(t, offset, idx.Offset(pos), "offset %d did not round-trip via %+v", offset, pos)
	}
}

func TestIndex_NoLineBreaks(t *testing.T) {
	idx := linecol.New(nil)
	require.Equal(t, linecol.Position{Line: 1, Column: 0}, idx.Position(0))
	require.Equal(t, linecol.Position{Line: 1, Column: 5}, idx.Position(5))
}
