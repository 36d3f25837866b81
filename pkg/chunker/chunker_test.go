package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autowiki/autowiki/pkg/parser"
)

func TestChunkAndStructure_Markdown_SingleChunk(t *testing.T) {
	c := New(nil)
	content := []byte("# Title\nThis is a test documentation for AutoWiki.")
	chunks, structure, warnings := c.ChunkAndStructure(content, "docs/readme.md", "docs/readme.md")

	require.Empty(t, warnings)
	assert.Nil(t, structure)
	require.Len(t, chunks, 1)
	assert.Equal(t, ChunkTypeDocumentation, chunks[0].Metadata.Type)
	assert.Equal(t, 1, chunks[0].Metadata.StartLine)
	assert.Equal(t, 2, chunks[0].Metadata.EndLine)
}

func TestChunkText_SlidingWindow_OverlapsAndTerminates(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 100; i++ {
		b.WriteString("Line ")
		b.WriteString(strings.Repeat("x", 1))
		b.WriteString("\n")
	}
	c := &Chunker{WindowSize: 200, WindowOverlap: 50}
	chunks := c.chunkText([]byte(b.String()), "notes.txt")

	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Less(t, chunks[1].Metadata.StartLine, chunks[0].Metadata.EndLine)
}

func TestChunkText_OverlapMustBeLessThanSize_FallsBackToDefault(t *testing.T) {
	c := &Chunker{WindowSize: 100, WindowOverlap: 100}
	chunks := c.chunkText([]byte(strings.Repeat("a", 50)), "f.txt")
	assert.NotEmpty(t, chunks)
}

func TestChunkAndStructure_BinaryContent_YieldsNothing(t *testing.T) {
	c := New(nil)
	chunks, structure, warnings := c.ChunkAndStructure([]byte{0x00, 0x01, 0x02}, "blob.bin", "blob.bin")
	assert.Empty(t, chunks)
	assert.Nil(t, structure)
	// These bytes are valid UTF-8, so the unknown extension decides: no warning.
	assert.Empty(t, warnings)
}

func TestChunkAndStructure_UnknownExtension_YieldsNothingNoWarning(t *testing.T) {
	c := New(nil)
	chunks, structure, warnings := c.ChunkAndStructure([]byte("hello"), "data.xyz", "data.xyz")
	assert.Empty(t, chunks)
	assert.Nil(t, structure)
	assert.Empty(t, warnings)
}

func TestChunkAndStructure_PythonFile_StableIDsByNameAndKind(t *testing.T) {
	e := parser.NewExtractor(nil, nil)
	c := New(e)
	content := []byte("class Foo:\n    pass\n\ndef bar():\n    pass\n")

	chunks1, structure, _ := c.ChunkAndStructure(content, "/abs/pkg/mod.py", "pkg/mod.py")
	require.NotNil(t, structure)
	require.Len(t, chunks1, 2)

	chunks2, _, _ := c.ChunkAndStructure(content, "/abs/pkg/mod.py", "pkg/mod.py")
	require.Len(t, chunks2, 2)

	for i := range chunks1 {
		assert.Equal(t, chunks1[i].ID, chunks2[i].ID, "chunk id must be stable across ingestions")
	}
	assert.NotEqual(t, chunks1[0].ID, chunks1[1].ID)
}

func TestCodeChunkID_DiffersByKindAndName(t *testing.T) {
	a := codeChunkID("pkg/mod.py", ChunkTypeClass, "Foo")
	b := codeChunkID("pkg/mod.py", ChunkTypeFunction, "Foo")
	assert.NotEqual(t, a, b)
}
