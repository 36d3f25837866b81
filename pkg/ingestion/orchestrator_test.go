package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autowiki/autowiki/pkg/chunker"
	"github.com/autowiki/autowiki/pkg/graph"
	"github.com/autowiki/autowiki/pkg/parser"
	"github.com/autowiki/autowiki/pkg/vectorstore"
)

func newTestOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	vs, err := vectorstore.Open(t.TempDir())
	require.NoError(t, err)
	graphs := graph.NewService(t.TempDir(), nil)
	c := chunker.New(parser.NewExtractor(nil, nil))
	return New(nil, c, vs, graphs)
}

func writeRepoFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return root
}

func TestIngestDirectory_BuildsGraphAndUpsertsChunks(t *testing.T) {
	root := writeRepoFiles(t, map[string]string{
		"main.py":       "import utils\n\ndef run():\n    pass\n",
		"utils.py":      "def helper():\n    pass\n",
		"README.md":     "# Title\nSome docs.\n",
		".git/HEAD":     "ref: refs/heads/main\n",
		"node_modules/x/y.js": "module.exports = {}\n",
	})

	o := newTestOrchestrator(t)
	stats, err := o.ingestDirectory(context.Background(), "proj1", root)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.FilesTotal) // main.py, utils.py, README.md; ignored dirs pruned
	assert.Equal(t, 2, stats.CodeFiles)
	assert.Equal(t, 1, stats.DocFiles)
	assert.Greater(t, stats.GraphNodes, 0)

	vsStats, err := o.VectorStore.Stats("proj1")
	require.NoError(t, err)
	assert.Equal(t, stats.ChunksTotal, vsStats.Count)
}

func TestIngestDirectory_ClearAndReingest_YieldsFreshContentOnly(t *testing.T) {
	o := newTestOrchestrator(t)
	ctx := context.Background()

	root1 := writeRepoFiles(t, map[string]string{"main.py": "class A:\n    pass\n"})
	_, err := o.ingestDirectory(ctx, "proj1", root1)
	require.NoError(t, err)

	root2 := writeRepoFiles(t, map[string]string{"main.py": "class B:\n    pass\n"})
	_, err = o.ingestDirectory(ctx, "proj1", root2)
	require.NoError(t, err)

	g := o.Graphs.Graph("proj1")
	ids := map[string]bool{}
	for _, n := range g.Nodes() {
		ids[n.ID] = true
	}
	assert.True(t, ids["main.py::B"])
	assert.False(t, ids["main.py::A"])
}

func TestClear_RemovesGraphTreeAndVectorCollection(t *testing.T) {
	o := newTestOrchestrator(t)
	ctx := context.Background()

	root := writeRepoFiles(t, map[string]string{"main.py": "def run():\n    pass\n"})
	_, err := o.ingestDirectory(ctx, "proj1", root)
	require.NoError(t, err)

	deleted, err := o.Clear(ctx, "proj1")
	require.NoError(t, err)
	assert.Greater(t, deleted, 0)

	stats, err := o.VectorStore.Stats("proj1")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Count)

	_, ok := o.Graphs.Tree("proj1")
	assert.False(t, ok)
}

func TestIngestDirectory_TwoProjects_AreIsolated(t *testing.T) {
	o := newTestOrchestrator(t)
	ctx := context.Background()

	rootA := writeRepoFiles(t, map[string]string{"main.py": "class A:\n    pass\n"})
	rootB := writeRepoFiles(t, map[string]string{"main.py": "class B:\n    pass\n"})

	_, err := o.ingestDirectory(ctx, "project_a", rootA)
	require.NoError(t, err)
	_, err = o.ingestDirectory(ctx, "project_b", rootB)
	require.NoError(t, err)

	ga := o.Graphs.Graph("project_a")
	gb := o.Graphs.Graph("project_b")

	foundA, foundB := false, false
	for _, n := range ga.Nodes() {
		if n.ID == "main.py::A" {
			foundA = true
		}
		if n.ID == "main.py::B" {
			foundB = true
		}
	}
	assert.True(t, foundA)
	assert.False(t, foundB)

	for _, n := range gb.Nodes() {
		if n.ID == "main.py::B" {
			foundB = true
		}
	}
	assert.True(t, foundB)
}
