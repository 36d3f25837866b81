// Package chunker splits source and documentation files into retrievable
// Chunks with stable, content-addressed identifiers.
package chunker

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/autowiki/autowiki/pkg/parser"
)

// ChunkType distinguishes what a Chunk's metadata.type describes.
type ChunkType string

const (
	ChunkTypeClass         ChunkType = "class"
	ChunkTypeFunction      ChunkType = "function"
	ChunkTypeDocumentation ChunkType = "documentation"
)

// Metadata describes a Chunk's provenance.
type Metadata struct {
	Name      string    `json:"name"`
	Type      ChunkType `json:"type"`
	FilePath  string    `json:"file_path"`
	Language  string    `json:"language,omitempty"`
	StartLine int       `json:"start_line"`
	EndLine   int       `json:"end_line"`
}

// Chunk is one retrievable unit of content, ready for embedding/indexing.
type Chunk struct {
	ID       string   `json:"id"`
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

const (
	defaultWindowSize    = 1000
	defaultWindowOverlap = 200
)

// Chunker splits files into Chunks. A zero-value Chunker uses the default
// 1000/200 sliding window for text files.
type Chunker struct {
	// WindowSize and WindowOverlap configure the text chunker's sliding
	// window, in bytes. WindowOverlap must be strictly less than
	// WindowSize or chunking would never advance.
	WindowSize    int
	WindowOverlap int

	extractor *parser.Extractor
}

// New builds a Chunker backed by the given structural extractor, used
// for code files. A nil extractor is valid if the caller never chunks
// code files (text-only use).
func New(extractor *parser.Extractor) *Chunker {
	return &Chunker{
		WindowSize:    defaultWindowSize,
		WindowOverlap: defaultWindowOverlap,
		extractor:     extractor,
	}
}

var docExtensions = map[string]bool{
	".md":   true,
	".txt":  true,
	".rst":  true,
	".adoc": true,
}

// ChunkAndStructure dispatches on absPath's extension: documentation
// extensions go through the text chunker, known code extensions through
// the code chunker (returning a FileStructure too), everything else
// yields no chunks and no structure. Non-UTF-8 content yields no chunks
// and a warning rather than an error.
func (c *Chunker) ChunkAndStructure(content []byte, absPath, relPath string) ([]Chunk, *parser.FileStructure, []parser.Warning) {
	ext := strings.ToLower(filepath.Ext(absPath))

	if !utf8.Valid(content) {
		return nil, nil, []parser.Warning{{FilePath: relPath, Message: "skipped: not valid UTF-8"}}
	}

	if docExtensions[ext] {
		return c.chunkText(content, relPath), nil, nil
	}

	lang := parser.LanguageFromExtension(ext)
	if lang == parser.LanguageUnknown || c.extractor == nil {
		return nil, nil, nil
	}

	structure, warnings := c.extractor.ExtractStructure(content, lang, relPath)
	chunks := c.chunkCode(&structure, relPath, string(lang))
	return chunks, &structure, warnings
}

// chunkText slides a window of size WindowSize over content, advancing
// by WindowSize-WindowOverlap each step, and stops once the window
// reaches EOF.
func (c *Chunker) chunkText(content []byte, relPath string) []Chunk {
	size := c.WindowSize
	if size <= 0 {
		size = defaultWindowSize
	}
	overlap := c.WindowOverlap
	if overlap < 0 || overlap >= size {
		overlap = defaultWindowOverlap
		// The default overlap does not fit a window this small either.
		if overlap >= size {
			overlap = 0
		}
	}
	stride := size - overlap

	lineStarts := buildLineStartIndex(content)

	var chunks []Chunk
	for s := 0; s < len(content); s += stride {
		end := s + size
		if end > len(content) {
			end = len(content)
		}
		chunk := Chunk{
			ID:      textChunkID(relPath, s),
			Content: string(content[s:end]),
			Metadata: Metadata{
				Type:      ChunkTypeDocumentation,
				FilePath:  relPath,
				StartLine: lineForOffset(lineStarts, s),
				EndLine:   lineForOffset(lineStarts, end),
			},
		}
		chunks = append(chunks, chunk)
		if end >= len(content) {
			break
		}
	}
	return chunks
}

// buildLineStartIndex returns the byte offset of the start of each line,
// 0-indexed by line number (index 0 is always 0).
func buildLineStartIndex(content []byte) []int {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' && i+1 < len(content) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineForOffset returns the 1-based line number containing byte offset,
// via an ascending linear scan of precomputed line starts. Called at
// most twice per window, so linear is sufficiently fast for realistic
// file sizes; a binary search would be a premature optimization here.
func lineForOffset(lineStarts []int, offset int) int {
	line := 1
	for i, start := range lineStarts {
		if start > offset {
			break
		}
		line = i + 1
	}
	return line
}

func textChunkID(relPath string, offset int) string {
	return hashID(fmt.Sprintf("%s:text:%d", relPath, offset))
}

// chunkCode emits one Chunk per class and function in structure.
func (c *Chunker) chunkCode(structure *parser.FileStructure, relPath, language string) []Chunk {
	var chunks []Chunk
	for _, cls := range structure.Classes {
		chunks = append(chunks, Chunk{
			ID:      codeChunkID(relPath, ChunkTypeClass, cls.Name),
			Content: cls.Source,
			Metadata: Metadata{
				Name:      cls.Name,
				Type:      ChunkTypeClass,
				FilePath:  relPath,
				Language:  language,
				StartLine: cls.StartLine,
				EndLine:   cls.EndLine,
			},
		})
	}
	for _, fn := range structure.Functions {
		chunks = append(chunks, Chunk{
			ID:      codeChunkID(relPath, ChunkTypeFunction, fn.Name),
			Content: fn.Source,
			Metadata: Metadata{
				Name:      fn.Name,
				Type:      ChunkTypeFunction,
				FilePath:  relPath,
				Language:  language,
				StartLine: fn.StartLine,
				EndLine:   fn.EndLine,
			},
		})
	}
	return chunks
}

func codeChunkID(relPath string, kind ChunkType, name string) string {
	return hashID(fmt.Sprintf("%s:%s:%s", relPath, kind, name))
}

func hashID(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
