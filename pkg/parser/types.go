// Package parser extracts a structural summary (imports, classes,
// functions) from a single source file using Tree-sitter grammars.
//
// Parsing always succeeds: an unsupported language yields an empty
// FileStructure and no Warning, and a malformed file yields a best-effort
// (possibly partial) FileStructure plus a Warning, never an error. The
// orchestrator relies on this to keep ingestion moving across a
// heterogeneous repository.
package parser

// Language identifies which Tree-sitter grammar to use.
type Language string

const (
	LanguagePython     Language = "python"
	LanguageTypeScript Language = "typescript"
	LanguageTSX        Language = "tsx"
	LanguageJavaScript Language = "javascript"
	LanguageUnknown    Language = ""
)

// LanguageFromExtension maps a lowercased file extension (including the
// leading dot) to a supported Language, or LanguageUnknown.
func LanguageFromExtension(ext string) Language {
	switch ext {
	case ".py":
		return LanguagePython
	case ".ts":
		return LanguageTypeScript
	case ".tsx":
		return LanguageTSX
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript
	default:
		return LanguageUnknown
	}
}

// ImportKind classifies where an imported module resolves to.
type ImportKind string

const (
	ImportStdlib         ImportKind = "stdlib"
	ImportLocalAbsolute  ImportKind = "local_absolute"
	ImportLocalRelative  ImportKind = "local_relative"
	ImportThirdParty     ImportKind = "third_party"
)

// ImportInfo is one imported name from one import statement.
//
// For `import M` / `import M as A`, one ImportInfo is emitted with Name
// empty. For `from M import N [as A]`, one ImportInfo is emitted per
// imported name with Module=M, Name=N. Relative imports (`from .X import
// Y`, `from .. import Y`) retain the leading dots in Module.
type ImportInfo struct {
	Module string     `json:"module"`
	Name   string     `json:"name,omitempty"`
	Alias  string     `json:"alias,omitempty"`
	Kind   ImportKind `json:"kind"`
}

// ClassInfo describes one class definition.
type ClassInfo struct {
	Name      string   `json:"name"`
	Bases     []string `json:"bases,omitempty"`
	StartLine int      `json:"start_line"`
	EndLine   int       `json:"end_line"`
	Source    string   `json:"-"`
}

// FunctionInfo describes one function or method definition. Methods
// appear in FileStructure.Functions alongside free functions; the
// enclosing class is captured separately in FileStructure.Classes.
type FunctionInfo struct {
	Name      string   `json:"name"`
	Args      []string `json:"args,omitempty"`
	StartLine int      `json:"start_line"`
	EndLine   int      `json:"end_line"`
	Source    string   `json:"-"`
}

// FileStructure is the parsed AST-level summary of one source file.
type FileStructure struct {
	FilePath  string         `json:"file_path"`
	Imports   []ImportInfo   `json:"imports,omitempty"`
	Classes   []ClassInfo    `json:"classes,omitempty"`
	Functions []FunctionInfo `json:"functions,omitempty"`
}

// Warning records a non-fatal parse issue; ingestion logs these and moves
// on rather than aborting.
type Warning struct {
	FilePath string
	Message  string
}
