package entity_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sfcgo/sfcparse/internal/entity"
)

func TestLookupNamed(t *testing.T) {
	dec, consumed, ok := entity.LookupNamed("amp;rest")
	require.True(t, ok)
	require.Equal(t, "&", dec)
	require.Equal(t, len("amp;"), consumed)

	dec, consumed, ok = entity.LookupNamed("gt rest")
	require.True(t, ok)
	require.Equal(t, ">", dec)
	require.Equal(t, len("gt"), consumed)

	_, _, ok = entity.LookupNamed("notarealentity;")
	require.False(t, ok)
}

func TestLookupNamed_LongestPrefix(t *testing.T) {
	// "amp;" should win over the shorter legacy "amp" entry when both
	// are valid prefixes of the body.
	dec, consumed, ok := entity.LookupNamed("amp;")
	require.True(t, ok)
	require.Equal(t, "&", dec)
	require.Equal(t, 4, consumed)
}

func TestDecodeNumeric_Decimal(t *testing.T) {
	require.Equal(t, 'A', entity.DecodeNumeric("65", false))
}

func TestDecodeNumeric_Hex(t *testing.T) {
	require.Equal(t, 'A', entity.DecodeNumeric("41", true))
}

func TestDecodeNumeric_OutOfRange(t *testing.T) {
	require.Equal(t, '�', entity.DecodeNumeric("FFFFFFFF", true))
}

func TestDecodeNumeric_Surrogate(t *testing.T) {
	require.Equal(t, '�', entity.DecodeNumeric("D800", true))
}

func TestDecodeNumeric_Windows1252Legacy(t *testing.T) {
	require.Equal(t, '€', entity.DecodeNumeric("80", true))
}
