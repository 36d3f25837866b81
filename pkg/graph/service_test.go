package graph

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autowiki/autowiki/pkg/parser"
)

func TestService_PersistAndReload_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, nil)

	svc.AddFile("proj1", parser.FileStructure{
		FilePath: "main.py",
		Classes:  []parser.ClassInfo{{Name: "A", StartLine: 1, EndLine: 2}},
	})
	svc.BuildEdges("proj1")
	tree := svc.BuildModuleTree("proj1")
	require.NotNil(t, tree)
	require.NoError(t, svc.Persist("proj1"))

	assert.FileExists(t, filepath.Join(dir, "proj1.json"))
	assert.FileExists(t, filepath.Join(dir, "proj1_tree.json"))

	// Fresh service instance forces rehydration from disk.
	svc2 := NewService(dir, nil)
	reloaded := svc2.Graph("proj1")
	ids := map[string]NodeKind{}
	for _, n := range reloaded.Nodes() {
		ids[n.ID] = n.Kind
	}
	assert.Equal(t, NodeFile, ids["main.py"])
	assert.Equal(t, NodeClass, ids["main.py::A"])

	reloadedTree, ok := svc2.Tree("proj1")
	require.True(t, ok)
	assert.Equal(t, tree.Children[0].Name, reloadedTree.Children[0].Name)
}

func TestService_DeleteGraph_RemovesFilesAndCache(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, nil)
	svc.AddFile("proj1", parser.FileStructure{FilePath: "main.py"})
	svc.BuildModuleTree("proj1")
	require.NoError(t, svc.Persist("proj1"))

	require.NoError(t, svc.DeleteGraph("proj1"))
	assert.NoFileExists(t, filepath.Join(dir, "proj1.json"))
	assert.NoFileExists(t, filepath.Join(dir, "proj1_tree.json"))

	// Idempotent: deleting again is not an error.
	assert.NoError(t, svc.DeleteGraph("proj1"))
}

func TestService_ProjectsAreIsolated(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, nil)

	svc.AddFile("project_a", parser.FileStructure{FilePath: "main.py", Classes: []parser.ClassInfo{{Name: "A"}}})
	svc.AddFile("project_b", parser.FileStructure{FilePath: "main.py", Classes: []parser.ClassInfo{{Name: "B"}}})

	ga := svc.Graph("project_a")
	gb := svc.Graph("project_b")
	assert.NotNil(t, ga.nodes["main.py::A"])
	assert.Nil(t, ga.nodes["main.py::B"])
	assert.NotNil(t, gb.nodes["main.py::B"])
	assert.Nil(t, gb.nodes["main.py::A"])
}

func TestSanitize_MapsUnsafeCharsToUnderscore(t *testing.T) {
	assert.Equal(t, "a_b_c-1_2", Sanitize("a/b c-1.2"))
}
