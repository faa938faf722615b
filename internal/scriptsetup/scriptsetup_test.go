package scriptsetup_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sfcgo/sfcparse/internal/linecol"
	"github.com/sfcgo/sfcparse/internal/scriptparser"
	"github.com/sfcgo/sfcparse/internal/scriptsetup"
)

func TestTokenizer_Tokenize_SplicesWithSyntheticSeparators(t *testing.T) {
	blocks := []scriptsetup.CodeBlock{
		{Name: "script", Source: "const a = 1", Offset: 100},
		{Name: "scriptSetup", Source: "const b = 2", Offset: 500},
	}
	tok := scriptsetup.NewTokenizer(blocks)
	buffer, remaps, puncts := tok.Tokenize()

	require.Equal(t, "const a = 1;const b = 2", buffer)
	require.Len(t, remaps, 2)
	require.Len(t, puncts, 1)
	require.Equal(t, 0, remaps[0].BufferStart)
	require.Equal(t, len("const a = 1"), remaps[0].BufferEnd)
	require.Equal(t, 100, remaps[0].OriginalBase)
	require.Equal(t, len("const a = 1")+1, remaps[1].BufferStart)
	require.Equal(t, 500, remaps[1].OriginalBase)
}

func TestReconstruct_RemapsBothBlocksToOriginalOffsets(t *testing.T) {
	blocks := []scriptsetup.CodeBlock{
		{Name: "script", Source: "const a = 1;\n", Offset: 100},
		{Name: "scriptSetup", Source: "const b = a + 1;\n", Offset: 500},
	}
	lines := linecol.New(nil)

	result, err := scriptsetup.Reconstruct(scriptparser.NewGojaParser(), blocks, lines)
	require.NoError(t, err)
	require.NotNil(t, result.Programs["script"])
	require.NotNil(t, result.Programs["scriptSetup"])

	scriptProg := result.Programs["script"]
	require.Len(t, scriptProg.Body, 1)
	require.Equal(t, 100, scriptProg.Body[0].Range[0], "script block's first statement must map back to its original offset")

	setupProg := result.Programs["scriptSetup"]
	require.Len(t, setupProg.Body, 1)
	require.Equal(t, 500, setupProg.Body[0].Range[0], "scriptSetup block's first statement must map back to its original offset")

	require.Len(t, result.Merged.Body, 2, "Merged must concatenate both blocks' statements in source order")
	require.Equal(t, 100, result.Merged.Body[0].Range[0])
	require.Equal(t, 500, result.Merged.Body[1].Range[0])
}

func TestReconstruct_SingleBlock(t *testing.T) {
	blocks := []scriptsetup.CodeBlock{
		{Name: "scriptSetup", Source: "const x = 1;\n", Offset: 42},
	}
	lines := linecol.New(nil)

	result, err := scriptsetup.Reconstruct(scriptparser.NewGojaParser(), blocks, lines)
	require.NoError(t, err)
	require.Len(t, result.Merged.Body, 1)
	require.Equal(t, 42, result.Merged.Body[0].Range[0])
}

func TestReconstruct_PropagatesParseError(t *testing.T) {
	blocks := []scriptsetup.CodeBlock{
		{Name: "scriptSetup", Source: "const = ;", Offset: 0},
	}
	lines := linecol.New(nil)

	_, err := scriptsetup.Reconstruct(scriptparser.NewGojaParser(), blocks, lines)
	require.Error(t, err)
}
