package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autowiki/autowiki/pkg/parser"
)

func TestAddFile_RegistersFileAndSymbolNodes(t *testing.T) {
	g := New()
	g.AddFile(parser.FileStructure{
		FilePath: "main.py",
		Classes:  []parser.ClassInfo{{Name: "A", StartLine: 1, EndLine: 3}},
		Functions: []parser.FunctionInfo{{Name: "run", StartLine: 5, EndLine: 6}},
	})

	nodes := g.Nodes()
	ids := map[string]NodeKind{}
	for _, n := range nodes {
		ids[n.ID] = n.Kind
	}
	assert.Equal(t, NodeFile, ids["main.py"])
	assert.Equal(t, NodeClass, ids["main.py::A"])
	assert.Equal(t, NodeFunction, ids["main.py::run"])

	var definesCount int
	for _, e := range g.Edges() {
		if e.Kind == EdgeDefines {
			definesCount++
		}
	}
	assert.Equal(t, 2, definesCount)
}

func TestBuildEdges_LocalAbsoluteImport_ResolvesToFileNode(t *testing.T) {
	g := New()
	g.AddFile(parser.FileStructure{FilePath: "utils.py"})
	g.AddFile(parser.FileStructure{
		FilePath: "main.py",
		Imports:  []parser.ImportInfo{{Module: "utils", Kind: parser.ImportLocalAbsolute}},
	})
	g.BuildEdges()

	require.True(t, hasEdge(g, "main.py", "utils.py", EdgeImports))
}

func TestBuildEdges_RelativeImport_ResolvesAcrossPackages(t *testing.T) {
	g := New()
	g.AddFile(parser.FileStructure{FilePath: "backend/app/services/parser.py"})
	g.AddFile(parser.FileStructure{
		FilePath: "backend/app/main.py",
		Imports: []parser.ImportInfo{
			{Module: ".services.parser", Name: "X", Kind: parser.ImportLocalRelative},
		},
	})
	g.BuildEdges()

	require.True(t, hasEdge(g, "backend/app/main.py", "backend/app/services/parser.py", EdgeImports))
}

func TestBuildEdges_StdlibImport_NeverResolves(t *testing.T) {
	g := New()
	g.AddFile(parser.FileStructure{FilePath: "main.py", Imports: []parser.ImportInfo{{Module: "os", Kind: parser.ImportStdlib}}})
	g.BuildEdges()
	assert.Empty(t, g.Edges())
}

func TestBuildEdges_Idempotent_NoDuplicateEdges(t *testing.T) {
	g := New()
	g.AddFile(parser.FileStructure{FilePath: "utils.py"})
	g.AddFile(parser.FileStructure{FilePath: "main.py", Imports: []parser.ImportInfo{{Module: "utils", Kind: parser.ImportLocalAbsolute}}})
	g.BuildEdges()
	g.BuildEdges()

	count := 0
	for _, e := range g.Edges() {
		if e.Kind == EdgeImports {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestBuildEdges_OnlyConnectsFileNodes(t *testing.T) {
	g := New()
	g.AddFile(parser.FileStructure{FilePath: "main.py", Imports: []parser.ImportInfo{{Module: "main", Kind: parser.ImportLocalAbsolute}}})
	g.BuildEdges()
	for _, e := range g.Edges() {
		if e.Kind == EdgeImports {
			assert.Equal(t, NodeFile, g.nodes[e.Source].Kind)
			assert.Equal(t, NodeFile, g.nodes[e.Target].Kind)
		}
	}
}

func TestNodeImportance_EmptyGraph_ReturnsEmptyMap(t *testing.T) {
	g := New()
	assert.Empty(t, g.NodeImportance())
}

func TestNodeImportance_InDegreeCentrality(t *testing.T) {
	g := New()
	g.AddFile(parser.FileStructure{FilePath: "utils.py"})
	g.AddFile(parser.FileStructure{FilePath: "a.py", Imports: []parser.ImportInfo{{Module: "utils", Kind: parser.ImportLocalAbsolute}}})
	g.AddFile(parser.FileStructure{FilePath: "b.py", Imports: []parser.ImportInfo{{Module: "utils", Kind: parser.ImportLocalAbsolute}}})
	g.BuildEdges()

	scores := g.NodeImportance()
	assert.InDelta(t, 2.0/2.0, scores["utils.py"], 0.0001)
	assert.InDelta(t, 0.0, scores["a.py"], 0.0001)
}

func TestTwoProjectsRemainDisjoint(t *testing.T) {
	g1 := New()
	g1.AddFile(parser.FileStructure{FilePath: "main.py", Classes: []parser.ClassInfo{{Name: "A"}}})

	g2 := New()
	g2.AddFile(parser.FileStructure{FilePath: "main.py", Classes: []parser.ClassInfo{{Name: "B"}}})

	assert.NotNil(t, g1.nodes["main.py::A"])
	assert.Nil(t, g1.nodes["main.py::B"])
	assert.NotNil(t, g2.nodes["main.py::B"])
	assert.Nil(t, g2.nodes["main.py::A"])
}

func hasEdge(g *Graph, source, target string, kind EdgeKind) bool {
	for _, e := range g.Edges() {
		if e.Source == source && e.Target == target && e.Kind == kind {
			return true
		}
	}
	return false
}
