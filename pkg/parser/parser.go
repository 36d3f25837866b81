package parser

import (
	"context"
	"log/slog"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Extractor extracts FileStructure from source text using Tree-sitter.
// One Extractor may be reused across files and languages; its internal
// per-language sitter.Parser instances are not safe for concurrent use,
// so callers parsing in parallel should use one Extractor per worker.
type Extractor struct {
	logger *slog.Logger

	// LocalRootPrefixes configures which dotted-module prefixes classify
	// as local_absolute rather than stdlib, e.g. "backend", "app".
	LocalRootPrefixes []string

	pyParser *sitter.Parser
	tsParser *sitter.Parser
	tsxParser *sitter.Parser
	jsParser *sitter.Parser
}

// NewExtractor creates an Extractor with the given local-root prefixes
// used for import classification (see ClassifyImport).
func NewExtractor(logger *slog.Logger, localRootPrefixes []string) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}

	py := sitter.NewParser()
	py.SetLanguage(python.GetLanguage())

	ts := sitter.NewParser()
	ts.SetLanguage(typescript.GetLanguage())

	tsxP := sitter.NewParser()
	tsxP.SetLanguage(tsx.GetLanguage())

	js := sitter.NewParser()
	js.SetLanguage(javascript.GetLanguage())

	return &Extractor{
		logger:            logger,
		LocalRootPrefixes: localRootPrefixes,
		pyParser:          py,
		tsParser:          ts,
		tsxParser:         tsxP,
		jsParser:          js,
	}
}

// ExtractStructure parses source and returns its FileStructure. It always
// succeeds: an unsupported language yields an empty structure, and a
// parse failure yields an empty structure plus a Warning rather than an
// error, so the caller never needs to abort ingestion over one bad file.
func (e *Extractor) ExtractStructure(source []byte, language Language, filePath string) (FileStructure, []Warning) {
	structure := FileStructure{FilePath: filePath}

	var p *sitter.Parser
	switch language {
	case LanguagePython:
		p = e.pyParser
	case LanguageTypeScript:
		p = e.tsParser
	case LanguageTSX:
		p = e.tsxParser
	case LanguageJavaScript:
		p = e.jsParser
	default:
		return structure, nil
	}

	tree, err := p.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return structure, []Warning{{FilePath: filePath, Message: "tree-sitter parse failed: " + err.Error()}}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return structure, []Warning{{FilePath: filePath, Message: "tree-sitter produced no root node"}}
	}

	var warnings []Warning
	if root.HasError() {
		warnings = append(warnings, Warning{FilePath: filePath, Message: "source contains syntax errors; extraction is best-effort"})
	}

	switch language {
	case LanguagePython:
		e.walkPython(root, source, filePath, &structure)
	case LanguageTypeScript, LanguageTSX, LanguageJavaScript:
		e.walkTSFamily(root, source, filePath, &structure)
	}

	return structure, warnings
}

// ClassifyImport applies the module-prefix heuristic from the import
// resolution algorithm: a leading dot means local_relative, a configured
// local-root prefix means local_absolute, anything else is treated as
// stdlib (a placeholder for "not resolvable to a file in this repo" —
// see the Open Question decisions in DESIGN.md).
func (e *Extractor) ClassifyImport(module string) ImportKind {
	if strings.HasPrefix(module, ".") {
		return ImportLocalRelative
	}
	head := module
	if idx := strings.IndexByte(module, '.'); idx >= 0 {
		head = module[:idx]
	}
	for _, prefix := range e.LocalRootPrefixes {
		if head == prefix {
			return ImportLocalAbsolute
		}
	}
	return ImportStdlib
}

func nodeText(source []byte, n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(source[n.StartByte():n.EndByte()])
}

func nodeLines(n *sitter.Node) (start, end int) {
	return int(n.StartPoint().Row), int(n.EndPoint().Row)
}
