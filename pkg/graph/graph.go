// Package graph builds and persists, per project, a directed dependency
// multigraph over a repository's files, classes, and functions, plus the
// ranked module tree derived from it.
package graph

import (
	"strings"

	"github.com/autowiki/autowiki/pkg/parser"
)

// NodeKind identifies what a GraphNode represents.
type NodeKind string

const (
	NodeFile     NodeKind = "FILE"
	NodeClass    NodeKind = "CLASS"
	NodeFunction NodeKind = "FUNCTION"
)

// EdgeKind identifies the relationship a GraphEdge represents.
type EdgeKind string

const (
	EdgeDefines  EdgeKind = "DEFINES"
	EdgeInherits EdgeKind = "INHERITS"
	EdgeImports  EdgeKind = "IMPORTS"
)

// Node is one vertex in the dependency graph. Attributes is a heterogeneous
// bag (path/imports for FILE nodes, bases for CLASS nodes, args for
// FUNCTION nodes); see the note on node/edge attributes in SPEC_FULL.md §3.
type Node struct {
	ID         string         `json:"id"`
	Kind       NodeKind       `json:"type"`
	Attributes map[string]any `json:"attributes"`
}

// Edge is one directed relationship between two nodes. The graph is a
// multigraph keyed on (Source, Target, Kind): re-adding the same triple
// is a no-op, but (a,b,DEFINES) and (a,b,IMPORTS) coexist independently.
type Edge struct {
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Kind       EdgeKind       `json:"type"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

type edgeKey struct {
	source string
	target string
	kind   EdgeKind
}

// Graph holds one project's in-memory dependency graph and its
// dotted-module-name → file-path lookup table.
type Graph struct {
	nodes    map[string]*Node
	nodeOrd  []string
	edges    map[edgeKey]*Edge
	edgeOrd  []edgeKey
	fileMap  map[string]string // dotted module name -> file_path
	imports  map[string][]parser.ImportInfo // file_path -> its recorded imports, for buildEdges
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		nodes:   make(map[string]*Node),
		edges:   make(map[edgeKey]*Edge),
		fileMap: make(map[string]string),
		imports: make(map[string][]parser.ImportInfo),
	}
}

func (g *Graph) upsertNode(id string, kind NodeKind, attrs map[string]any) *Node {
	if existing, ok := g.nodes[id]; ok {
		for k, v := range attrs {
			existing.Attributes[k] = v
		}
		return existing
	}
	n := &Node{ID: id, Kind: kind, Attributes: attrs}
	g.nodes[id] = n
	g.nodeOrd = append(g.nodeOrd, id)
	return n
}

func (g *Graph) addEdge(source, target string, kind EdgeKind) {
	if source == target {
		return
	}
	key := edgeKey{source, target, kind}
	if _, exists := g.edges[key]; exists {
		return
	}
	e := &Edge{Source: source, Target: target, Kind: kind}
	g.edges[key] = e
	g.edgeOrd = append(g.edgeOrd, key)
}

// AddFile registers one parsed file's structure into the graph: a FILE
// node, its dotted-module-name entry in the file map, and a node+DEFINES
// edge for every class and function it contains. A class base that names
// a symbol already added from the same file gets an INHERITS edge; bases
// defined in other files, or later in this file, are not linked.
func (g *Graph) AddFile(structure parser.FileStructure) {
	filePath := structure.FilePath
	var importModules []string
	for _, imp := range structure.Imports {
		importModules = append(importModules, imp.Module)
	}

	g.upsertNode(filePath, NodeFile, map[string]any{
		"path":    filePath,
		"imports": importModules,
	})
	g.imports[filePath] = structure.Imports

	registerFileMapEntry(g.fileMap, filePath)

	for _, cls := range structure.Classes {
		symbolID := filePath + "::" + cls.Name
		g.upsertNode(symbolID, NodeClass, map[string]any{
			"name":       cls.Name,
			"bases":      cls.Bases,
			"start_line": cls.StartLine,
			"end_line":   cls.EndLine,
		})
		g.addEdge(filePath, symbolID, EdgeDefines)
		for _, base := range cls.Bases {
			if baseID := filePath + "::" + base; g.nodes[baseID] != nil {
				g.addEdge(symbolID, baseID, EdgeInherits)
			}
		}
	}

	for _, fn := range structure.Functions {
		symbolID := filePath + "::" + fn.Name
		g.upsertNode(symbolID, NodeFunction, map[string]any{
			"name":       fn.Name,
			"args":       fn.Args,
			"start_line": fn.StartLine,
			"end_line":   fn.EndLine,
		})
		g.addEdge(filePath, symbolID, EdgeDefines)
	}
}

// registerFileMapEntry normalizes filePath into a dotted module name and
// registers it; if the module ends in ".__init__" the package form
// (without that suffix) is also registered, so `import pkg` resolves to
// `pkg/__init__.py`.
func registerFileMapEntry(fileMap map[string]string, filePath string) {
	normalized := strings.ReplaceAll(filePath, "\\", "/")
	trimmed := strings.TrimSuffix(normalized, ".py")
	dotted := strings.ReplaceAll(trimmed, "/", ".")
	fileMap[dotted] = filePath

	if strings.HasSuffix(dotted, ".__init__") {
		pkg := strings.TrimSuffix(dotted, ".__init__")
		fileMap[pkg] = filePath
	}
}

// BuildEdges resolves every FILE node's recorded imports against the
// file map and adds an IMPORTS edge where resolution succeeds. Must be
// called once after all files have been added; calling it again is
// idempotent since addEdge no-ops on an existing (source,target,kind).
func (g *Graph) BuildEdges() {
	for filePath, imports := range g.imports {
		for _, imp := range imports {
			target, ok := g.resolveImport(filePath, imp)
			if !ok {
				continue
			}
			if g.nodes[target] == nil || g.nodes[target].Kind != NodeFile {
				continue
			}
			g.addEdge(filePath, target, EdgeImports)
		}
	}
}

// resolveImport implements the Python import resolution algorithm: stdlib
// imports are never resolvable, local_absolute imports are a direct
// file-map lookup, and local_relative imports walk up from the current
// file's directory by the import's leading-dot count before appending
// the remaining dotted path.
func (g *Graph) resolveImport(currentFile string, imp parser.ImportInfo) (string, bool) {
	switch imp.Kind {
	case parser.ImportLocalAbsolute:
		target, ok := g.fileMap[imp.Module]
		return target, ok

	case parser.ImportLocalRelative:
		dir := parentDir(currentFile)
		pkgParts := splitNonEmpty(dir, "/")

		dots := 0
		for dots < len(imp.Module) && imp.Module[dots] == '.' {
			dots++
		}
		rest := imp.Module[dots:]

		pop := dots - 1
		if pop < 0 {
			pop = 0
		}
		if pop > len(pkgParts) {
			pop = len(pkgParts)
		}
		pkgParts = pkgParts[:len(pkgParts)-pop]

		if rest != "" {
			pkgParts = append(pkgParts, splitNonEmpty(rest, ".")...)
		}

		candidate := strings.Join(pkgParts, ".")
		target, ok := g.fileMap[candidate]
		return target, ok

	default:
		return "", false
	}
}

func parentDir(filePath string) string {
	idx := strings.LastIndexByte(filePath, '/')
	if idx < 0 {
		return ""
	}
	return filePath[:idx]
}

func splitNonEmpty(s, sep string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, sep)
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodeOrd))
	for _, id := range g.nodeOrd {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edgeOrd))
	for _, key := range g.edgeOrd {
		out = append(out, g.edges[key])
	}
	return out
}

// NodeImportance returns, for every node, its in-degree centrality
// normalized by (|V|-1). Returns an empty map on an empty or
// single-node graph.
func (g *Graph) NodeImportance() map[string]float64 {
	result := make(map[string]float64, len(g.nodeOrd))
	n := len(g.nodeOrd)
	if n <= 1 {
		return result
	}

	inDegree := make(map[string]int, n)
	for _, e := range g.edges {
		inDegree[e.Target]++
	}

	denom := float64(n - 1)
	for _, id := range g.nodeOrd {
		result[id] = float64(inDegree[id]) / denom
	}
	return result
}
