package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autowiki/autowiki/pkg/chunker"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	return s
}

func sampleChunks() []chunker.Chunk {
	return []chunker.Chunk{
		{ID: "c1", Content: "def run(): pass", Metadata: chunker.Metadata{Name: "run", Type: chunker.ChunkTypeFunction, FilePath: "main.py"}},
		{ID: "c2", Content: "class A: pass", Metadata: chunker.Metadata{Name: "A", Type: chunker.ChunkTypeClass, FilePath: "main.py"}},
	}
}

func TestUpsertAndQuery_ReturnsAscendingDistance(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Upsert(ctx, "proj1", sampleChunks()))

	results, err := s.Query(ctx, "proj1", "run", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Distance, results[i].Distance)
	}
}

func TestQuery_MissingCollection_ReturnsEmptyNotError(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	results, err := s.Query(ctx, "no-such-project", "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestStats_MissingCollection_ReturnsZeroCount(t *testing.T) {
	s := newTestStore(t)
	stats, err := s.Stats("no-such-project")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Count)
}

func TestClear_RemovesEntriesKeepsCollection(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Upsert(ctx, "proj1", sampleChunks()))

	removed, err := s.Clear(ctx, "proj1")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	stats, err := s.Stats("proj1")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Count)
}

func TestDeleteCollection_Idempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.DeleteCollection("never-created"))

	ctx := context.Background()
	require.NoError(t, s.Upsert(ctx, "proj1", sampleChunks()))
	require.NoError(t, s.DeleteCollection("proj1"))
	require.NoError(t, s.DeleteCollection("proj1")) // second delete is a no-op
}

func TestCollectionName_SanitizesUnsafeCharacters(t *testing.T) {
	assert.Equal(t, "autowiki_a_b_c-1", CollectionName("a/b c-1"))
}

func TestIsolation_TwoProjectsHaveDisjointCollections(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Upsert(ctx, "project_a", []chunker.Chunk{
		{ID: "x", Content: "alpha", Metadata: chunker.Metadata{Name: "alpha", Type: chunker.ChunkTypeFunction, FilePath: "a.py"}},
	}))
	require.NoError(t, s.Upsert(ctx, "project_b", []chunker.Chunk{
		{ID: "y", Content: "beta", Metadata: chunker.Metadata{Name: "beta", Type: chunker.ChunkTypeFunction, FilePath: "b.py"}},
	}))

	statsA, _ := s.Stats("project_a")
	statsB, _ := s.Stats("project_b")
	assert.Equal(t, 1, statsA.Count)
	assert.Equal(t, 1, statsB.Count)
}
