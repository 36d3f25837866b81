// Package vectorstore provides a per-project semantic index backed by
// chromem-go, an embedded, persistent, Chroma-flavored nearest-neighbor
// store. Every public operation is parameterized by project_id and
// isolated to that project's own collection.
package vectorstore

import (
	"context"
	"strconv"

	"github.com/philippgille/chromem-go"

	"github.com/autowiki/autowiki/internal/errors"
	"github.com/autowiki/autowiki/pkg/chunker"
)

// Result is one match returned by Query, ordered by ascending distance
// (closest first).
type Result struct {
	ID       string
	Content  string
	Metadata chunker.Metadata
	Distance float64
}

// Stats summarizes the entries currently stored for a project.
type Stats struct {
	Count int `json:"count"`
}

// Store is the per-project VectorStore. It owns one chromem-go *DB and
// lazily creates one collection per project, named per Sanitize.
type Store struct {
	db *chromem.DB
}

// Open opens (creating if absent) a persistent chromem-go database
// rooted at dataDir - the directory named by the CHROMA_DB_PATH
// environment variable in the ambient configuration.
func Open(dataDir string) (*Store, error) {
	db, err := chromem.NewPersistentDB(dataDir, false)
	if err != nil {
		return nil, errors.NewExternalError("failed to open vector store", err.Error(), "check CHROMA_DB_PATH is writable", err)
	}
	return &Store{db: db}, nil
}

// CollectionName returns "autowiki_" + sanitize(projectID); sanitize
// maps any character outside [A-Za-z0-9_-] to '_'.
func CollectionName(projectID string) string {
	return "autowiki_" + sanitize(projectID)
}

func sanitize(projectID string) string {
	out := make([]byte, len(projectID))
	for i := 0; i < len(projectID); i++ {
		b := projectID[i]
		switch {
		case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z', b >= '0' && b <= '9', b == '_', b == '-':
			out[i] = b
		default:
			out[i] = '_'
		}
	}
	return string(out)
}

func (s *Store) collection(projectID string) (*chromem.Collection, error) {
	col, err := s.db.GetOrCreateCollection(CollectionName(projectID), nil, localEmbeddingFunc())
	if err != nil {
		return nil, errors.NewExternalError("failed to open project collection", err.Error(), "", err)
	}
	return col, nil
}

// Upsert inserts or replaces chunks by ID in projectID's collection.
// Called exactly once per ingestion with the full chunk batch.
func (s *Store) Upsert(ctx context.Context, projectID string, chunks []chunker.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	col, err := s.collection(projectID)
	if err != nil {
		return err
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for _, c := range chunks {
		docs = append(docs, chromem.Document{
			ID:       c.ID,
			Metadata: metadataToMap(c.Metadata),
			Content:  c.Content,
		})
	}

	if err := col.AddDocuments(ctx, docs, 1); err != nil {
		return errors.NewExternalError("failed to upsert chunks", err.Error(), "", err)
	}
	return nil
}

// Query returns at most k results ordered by ascending cosine distance.
// A missing collection is not an error: it yields an empty result set.
func (s *Store) Query(ctx context.Context, projectID, text string, k int) ([]Result, error) {
	col, err := s.existingCollection(projectID)
	if err != nil {
		return nil, err
	}
	if col == nil || k <= 0 {
		return nil, nil
	}

	n := k
	if count := col.Count(); count < n {
		n = count
	}
	if n <= 0 {
		return nil, nil
	}

	raw, err := col.Query(ctx, text, n, nil, nil)
	if err != nil {
		return nil, errors.NewExternalError("vector query failed", err.Error(), "", err)
	}

	results := make([]Result, 0, len(raw))
	for _, r := range raw {
		results = append(results, Result{
			ID:       r.ID,
			Content:  r.Content,
			Metadata: metadataFromMap(r.Metadata),
			Distance: 1 - float64(r.Similarity),
		})
	}
	return results, nil
}

// Clear removes all entries from projectID's collection but keeps the
// collection itself, returning the number of entries removed.
func (s *Store) Clear(ctx context.Context, projectID string) (int, error) {
	col, err := s.existingCollection(projectID)
	if err != nil {
		return 0, err
	}
	if col == nil {
		return 0, nil
	}

	prior := col.Count()
	ids := col.ListIDs(ctx)
	if len(ids) > 0 {
		if err := col.Delete(ctx, nil, nil, ids...); err != nil {
			return 0, errors.NewExternalError("failed to clear collection", err.Error(), "", err)
		}
	}
	return prior, nil
}

// DeleteCollection removes projectID's collection entirely. Idempotent:
// deleting an absent collection is not an error.
func (s *Store) DeleteCollection(projectID string) error {
	if s.db.GetCollection(CollectionName(projectID), localEmbeddingFunc()) == nil {
		return nil
	}
	if err := s.db.DeleteCollection(CollectionName(projectID)); err != nil {
		return errors.NewExternalError("failed to delete collection", err.Error(), "", err)
	}
	return nil
}

// Stats reports the entry count for projectID's collection. A missing
// collection yields {count: 0}, not an error.
func (s *Store) Stats(projectID string) (Stats, error) {
	col, err := s.existingCollection(projectID)
	if err != nil {
		return Stats{}, err
	}
	if col == nil {
		return Stats{Count: 0}, nil
	}
	return Stats{Count: col.Count()}, nil
}

// existingCollection returns the project's collection without creating
// one, or nil if it doesn't exist yet.
func (s *Store) existingCollection(projectID string) (*chromem.Collection, error) {
	return s.db.GetCollection(CollectionName(projectID), localEmbeddingFunc()), nil
}

func metadataToMap(m chunker.Metadata) map[string]string {
	return map[string]string{
		"name":       m.Name,
		"type":       string(m.Type),
		"file_path":  m.FilePath,
		"language":   m.Language,
		"start_line": strconv.Itoa(m.StartLine),
		"end_line":   strconv.Itoa(m.EndLine),
	}
}

func metadataFromMap(m map[string]string) chunker.Metadata {
	startLine, _ := strconv.Atoi(m["start_line"])
	endLine, _ := strconv.Atoi(m["end_line"])
	return chunker.Metadata{
		Name:      m["name"],
		Type:      chunker.ChunkType(m["type"]),
		FilePath:  m["file_path"],
		Language:  m["language"],
		StartLine: startLine,
		EndLine:   endLine,
	}
}
