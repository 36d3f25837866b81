// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ingestion drives the ingest pipeline end-to-end: clone, walk,
// parse+chunk, graph construction, and vector upsert.
package ingestion

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/autowiki/autowiki/internal/errors"
	"github.com/autowiki/autowiki/pkg/chunker"
	"github.com/autowiki/autowiki/pkg/graph"
	"github.com/autowiki/autowiki/pkg/vectorstore"
)

// Stats summarizes one completed ingestion run.
type Stats struct {
	ProjectID     string         `json:"project_id"`
	RepoURL       string         `json:"repo_url"`
	FilesTotal    int            `json:"files_total"`
	CodeFiles     int            `json:"code_files"`
	DocFiles      int            `json:"doc_files"`
	ChunksByKind  map[string]int `json:"chunks_by_kind"`
	ChunksTotal   int            `json:"chunks_total"`
	GraphNodes    int            `json:"graph_nodes"`
	GraphEdges    int            `json:"graph_edges"`
}

// Orchestrator drives the full ingestion pipeline. It holds no
// process-wide singletons: every collaborator is injected, and
// per-project locking guards against concurrent ingestion of the same
// project (undefined behavior per the concurrency model).
type Orchestrator struct {
	Logger      *slog.Logger
	Chunker     *chunker.Chunker
	VectorStore *vectorstore.Store
	Graphs      *graph.Service
	IgnoreExtra map[string]bool

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// New builds an Orchestrator from its collaborators.
func New(logger *slog.Logger, c *chunker.Chunker, vs *vectorstore.Store, graphs *graph.Service) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		Logger:      logger,
		Chunker:     c,
		VectorStore: vs,
		Graphs:      graphs,
		locks:       make(map[string]*sync.Mutex),
	}
}

func (o *Orchestrator) projectLock(projectID string) *sync.Mutex {
	o.locksMu.Lock()
	defer o.locksMu.Unlock()
	l, ok := o.locks[projectID]
	if !ok {
		l = &sync.Mutex{}
		o.locks[projectID] = l
	}
	return l
}

// Ingest clones repoURL, walks it, and rebuilds projectID's graph,
// module tree, and vector collection from scratch. If projectID is
// empty, a fresh UUID is generated. The temporary clone directory is
// always removed, on both success and failure.
func (o *Orchestrator) Ingest(ctx context.Context, projectID, repoURL string) (Stats, error) {
	ingMetrics.init()
	ingMetrics.ingestionsTotal.Inc()
	start := time.Now()
	defer func() { ingMetrics.totalDuration.Observe(time.Since(start).Seconds()) }()

	if projectID == "" {
		projectID = uuid.NewString()
	}

	lock := o.projectLock(projectID)
	lock.Lock()
	defer lock.Unlock()

	stats, err := o.ingestLocked(ctx, projectID, repoURL)
	if err != nil {
		ingMetrics.ingestionErrors.Inc()
	}
	return stats, err
}

func (o *Orchestrator) ingestLocked(ctx context.Context, projectID, repoURL string) (Stats, error) {
	cloneStart := time.Now()
	repoPath, err := cloneRepo(o.Logger, repoURL)
	ingMetrics.cloneDuration.Observe(time.Since(cloneStart).Seconds())
	if err != nil {
		return Stats{}, err
	}
	defer func() {
		if rmErr := os.RemoveAll(repoPath); rmErr != nil {
			o.Logger.Warn("ingestion.cleanup.failed", "dir", repoPath, "error", rmErr)
		}
	}()

	stats, err := o.ingestDirectory(ctx, projectID, repoPath)
	if err != nil {
		return Stats{}, err
	}
	stats.RepoURL = repoURL
	return stats, nil
}

// ingestDirectory runs the walk/parse/chunk/graph/upsert portion of the
// pipeline against an already-materialized directory (a git clone, or,
// in tests, a plain temp directory). It is the unit the orchestrator's
// ingestLocked wraps with the clone step.
func (o *Orchestrator) ingestDirectory(ctx context.Context, projectID, repoPath string) (Stats, error) {
	if err := o.VectorStore.DeleteCollection(projectID); err != nil {
		return Stats{}, err
	}
	if err := o.Graphs.DeleteGraph(projectID); err != nil {
		return Stats{}, err
	}

	walkStart := time.Now()
	stats := Stats{ProjectID: projectID, ChunksByKind: map[string]int{}}
	var allChunks []chunker.Chunk

	err := filepath.Walk(repoPath, func(absPath string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		name := info.Name()
		if info.IsDir() {
			if absPath != repoPath && ShouldIgnore(name, o.IgnoreExtra) {
				return filepath.SkipDir
			}
			return nil
		}
		if ShouldIgnore(name, o.IgnoreExtra) {
			return nil
		}

		relPath, relErr := filepath.Rel(repoPath, absPath)
		if relErr != nil {
			return relErr
		}
		relPath = filepath.ToSlash(relPath)

		content, readErr := os.ReadFile(absPath)
		if readErr != nil {
			o.Logger.Warn("ingestion.file.read_failed", "path", relPath, "error", readErr)
			ingMetrics.filesSkipped.Inc()
			return nil
		}

		chunks, structure, warnings := o.Chunker.ChunkAndStructure(content, absPath, relPath)
		for _, w := range warnings {
			o.Logger.Warn("ingestion.parse.warning", "path", w.FilePath, "message", w.Message)
			ingMetrics.parseWarnings.Inc()
		}
		if len(chunks) == 0 && structure == nil {
			ingMetrics.filesSkipped.Inc()
			return nil
		}

		stats.FilesTotal++
		isDoc := false
		for _, c := range chunks {
			allChunks = append(allChunks, c)
			stats.ChunksByKind[string(c.Metadata.Type)]++
			if c.Metadata.Type == chunker.ChunkTypeDocumentation {
				isDoc = true
			}
		}
		if isDoc {
			stats.DocFiles++
		} else {
			stats.CodeFiles++
		}
		ingMetrics.filesProcessed.Inc()

		if structure != nil {
			o.Graphs.AddFile(projectID, *structure)
		}
		return nil
	})
	ingMetrics.walkDuration.Observe(time.Since(walkStart).Seconds())
	if err != nil {
		return Stats{}, errors.NewFilesystemError("failed to walk repository", err.Error(), "", err)
	}

	upsertStart := time.Now()
	if err := o.VectorStore.Upsert(ctx, projectID, allChunks); err != nil {
		return Stats{}, err
	}
	ingMetrics.upsertDuration.Observe(time.Since(upsertStart).Seconds())
	ingMetrics.chunksEmitted.Add(float64(len(allChunks)))

	o.Graphs.BuildEdges(projectID)
	o.Graphs.BuildModuleTree(projectID)
	if err := o.Graphs.Persist(projectID); err != nil {
		return Stats{}, err
	}

	g := o.Graphs.Graph(projectID)
	stats.GraphNodes = len(g.Nodes())
	stats.GraphEdges = len(g.Edges())
	stats.ChunksTotal = len(allChunks)

	return stats, nil
}

// Clear deletes projectID's graph, tree, and vector collection.
// Returns the number of vector-store entries that were removed.
func (o *Orchestrator) Clear(ctx context.Context, projectID string) (int, error) {
	lock := o.projectLock(projectID)
	lock.Lock()
	defer lock.Unlock()

	deleted, err := o.VectorStore.Clear(ctx, projectID)
	if err != nil {
		return 0, err
	}
	if err := o.VectorStore.DeleteCollection(projectID); err != nil {
		return 0, err
	}
	if err := o.Graphs.DeleteGraph(projectID); err != nil {
		return 0, err
	}
	return deleted, nil
}
