package resolver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble_TwoBlocks(t *testing.T) {
	blocks := []Block{
		{Label: "X", Content: "content1"},
		{Label: "Y", Content: "content2"},
	}

	got := Assemble(blocks)
	want := "START X\ncontent1\nEND X\n\nSTART Y\ncontent2\nEND Y"
	assert.Equal(t, want, got)
}

func TestAssemble_OrderMatchesBlockOrder(t *testing.T) {
	blocks := []Block{
		{Label: "SECOND DECLARED", Content: "b"},
		{Label: "FIRST DECLARED", Content: "a"},
	}

	got := Assemble(blocks)
	assert.Less(t, strings.Index(got, "SECOND DECLARED"), strings.Index(got, "FIRST DECLARED"))
}

// Content between the markers must be byte-identical to the source, even
// when it contains marker-like lines, placeholder syntax, or trailing
// whitespace. The assembler applies no substitution of any kind.
func TestAssemble_ContentPassedThroughVerbatim(t *testing.T) {
	content := "line with {placeholder}\nSTART NOT A MARKER\n  trailing spaces  \n"
	got := Assemble([]Block{{Label: "RAW", Content: content}})

	inner := strings.TrimPrefix(got, "START RAW\n")
	inner = strings.TrimSuffix(inner, "\nEND RAW")
	require.Equal(t, content, inner)
}

func TestAssemble_Empty(t *testing.T) {
	assert.Equal(t, "", Assemble(nil))
}
