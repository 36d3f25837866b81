package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autowiki/autowiki/pkg/chunker"
	"github.com/autowiki/autowiki/pkg/graph"
	"github.com/autowiki/autowiki/pkg/parser"
	"github.com/autowiki/autowiki/pkg/vectorstore"
)

func setupProject(t *testing.T) (*Service, string) {
	t.Helper()
	store, err := vectorstore.Open(t.TempDir())
	require.NoError(t, err)
	graphs := graph.NewService(t.TempDir(), nil)

	g := graphs.Graph("proj1")
	g.AddFile(parser.FileStructure{FilePath: "main.py"})
	g.AddFile(parser.FileStructure{FilePath: "utils.py"})
	g.AddFile(parser.FileStructure{FilePath: "README.md"})
	graphs.BuildEdges("proj1")
	graphs.BuildModuleTree("proj1")

	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, "proj1", []chunker.Chunk{
		{ID: "c1", Content: "def run(): pass", Metadata: chunker.Metadata{Name: "run", Type: chunker.ChunkTypeFunction, FilePath: "main.py"}},
		{ID: "c2", Content: "# Title", Metadata: chunker.Metadata{Type: chunker.ChunkTypeDocumentation, FilePath: "README.md"}},
	}))

	return New(store, graphs, nil), "proj1"
}

func TestSearch_OverlaysHitsOntoTree(t *testing.T) {
	svc, projectID := setupProject(t)
	resp, err := svc.Search(context.Background(), projectID, "run", 5)
	require.NoError(t, err)

	assert.True(t, resp.Tree.IsActive, "root must be active when any descendant is active")

	var mainLeaf, readmeLeaf, utilsLeaf *graph.TreeNode
	for _, child := range resp.Tree.Children {
		switch child.Name {
		case "main.py":
			mainLeaf = child
		case "README.md":
			readmeLeaf = child
		case "utils.py":
			utilsLeaf = child
		}
	}
	require.NotNil(t, mainLeaf)
	require.NotNil(t, readmeLeaf)
	require.NotNil(t, utilsLeaf)

	assert.True(t, mainLeaf.IsHit)
	assert.True(t, mainLeaf.IsActive)
	assert.True(t, readmeLeaf.IsHit)
	assert.False(t, utilsLeaf.IsHit)
	assert.False(t, utilsLeaf.IsActive)
}

func TestSearch_MissingTree_ReturnsResourceMissing(t *testing.T) {
	store, err := vectorstore.Open(t.TempDir())
	require.NoError(t, err)
	graphs := graph.NewService(t.TempDir(), nil)
	svc := New(store, graphs, nil)

	_, err = svc.Search(context.Background(), "no-such-project", "query", 5)
	require.Error(t, err)
}

func TestSearchRaw_FallsBackToRawResults_OnMissingTree(t *testing.T) {
	store, err := vectorstore.Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Upsert(context.Background(), "proj-no-tree", []chunker.Chunk{
		{ID: "c1", Content: "hello world", Metadata: chunker.Metadata{FilePath: "a.py"}},
	}))
	graphs := graph.NewService(t.TempDir(), nil)
	svc := New(store, graphs, nil)

	resp, raw, err := svc.SearchRaw(context.Background(), "proj-no-tree", "hello", 5)
	require.NoError(t, err)
	assert.Nil(t, resp.Tree)
	require.NotNil(t, raw)
	assert.True(t, raw.Fallback)
	assert.NotEmpty(t, raw.Results)
}
