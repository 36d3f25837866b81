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

// Package search answers semantic queries by overlaying vector-store
// hits onto a project's pre-built module tree.
package search

import (
	"context"
	"log/slog"

	"github.com/autowiki/autowiki/internal/errors"
	"github.com/autowiki/autowiki/pkg/graph"
	"github.com/autowiki/autowiki/pkg/vectorstore"
)

// Stats summarizes a completed search.
type Stats struct {
	HitsFound     int `json:"hits_found"`
	VectorResults int `json:"vector_results"`
}

// Response is the result of Search: the decorated module tree plus
// summary stats.
type Response struct {
	Tree  *graph.TreeNode `json:"tree"`
	Stats Stats           `json:"stats"`
}

// RawResponse is returned by SearchRaw when no module tree exists yet
// for the project: the original design's fallback to bare vector
// results rather than failing the request outright.
type RawResponse struct {
	Results []vectorstore.Result `json:"results"`
	Fallback bool                `json:"fallback"`
}

// fileHit is the best (lowest-distance) match for one file, plus every
// chunk that matched within it.
type fileHit struct {
	distance      float64
	matchedChunks []string
}

// Service answers search queries for a project, combining a VectorStore
// and a graph.Service's persisted module trees.
type Service struct {
	Store  *vectorstore.Store
	Graphs *graph.Service
	Logger *slog.Logger
}

// New builds a Service from its collaborators.
func New(store *vectorstore.Store, graphs *graph.Service, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{Store: store, Graphs: graphs, Logger: logger}
}

// Search queries the vector store for the project and overlays the hits
// onto its persisted module tree. If no tree exists, it returns a
// ResourceMissing (TreeMissing) error; callers that want the original
// design's raw-results fallback should use SearchRaw instead.
func (s *Service) Search(ctx context.Context, projectID, query string, limit int) (Response, error) {
	hits, vectorResultCount, err := s.queryHits(ctx, projectID, query, limit)
	if err != nil {
		return Response{}, err
	}

	tree, ok := s.Graphs.Tree(projectID)
	if !ok {
		return Response{}, errors.NewResourceMissingError(
			"no module tree for project", projectID, "ingest the project before searching",
		)
	}

	decorated := decorate(tree, hits)
	return Response{
		Tree: decorated,
		Stats: Stats{
			HitsFound:     len(hits),
			VectorResults: vectorResultCount,
		},
	}, nil
}

// SearchRaw behaves like Search, but on a missing tree falls back to
// returning the raw vector-store results instead of failing, mirroring
// the original implementation's fallback behavior.
func (s *Service) SearchRaw(ctx context.Context, projectID, query string, limit int) (Response, *RawResponse, error) {
	resp, err := s.Search(ctx, projectID, query, limit)
	if err == nil {
		return resp, nil, nil
	}
	if !errors.IsResourceMissing(err) {
		return Response{}, nil, err
	}

	results, qerr := s.Store.Query(ctx, projectID, query, limit)
	if qerr != nil {
		return Response{}, nil, qerr
	}
	return Response{}, &RawResponse{Results: results, Fallback: true}, nil
}

// queryHits runs a 3x-limit vector query and groups candidates by
// file_path, keeping the best (lowest) distance per file and the full
// list of matched chunk ids.
func (s *Service) queryHits(ctx context.Context, projectID, query string, limit int) (map[string]fileHit, int, error) {
	results, err := s.Store.Query(ctx, projectID, query, limit*3)
	if err != nil {
		return nil, 0, err
	}

	hits := make(map[string]fileHit)
	for _, r := range results {
		filePath := r.Metadata.FilePath
		h, exists := hits[filePath]
		if !exists || r.Distance < h.distance {
			h.distance = r.Distance
		}
		h.matchedChunks = append(h.matchedChunks, r.ID)
		hits[filePath] = h
	}
	return hits, len(results), nil
}

// decorate returns a deep copy of tree with is_hit/search_score/
// matched_chunks/is_active set on file nodes present in hits, and
// is_active propagated to any ancestor folder with an active descendant.
func decorate(tree *graph.TreeNode, hits map[string]fileHit) *graph.TreeNode {
	clone := cloneTree(tree)
	markActive(clone, hits)
	return clone
}

func cloneTree(n *graph.TreeNode) *graph.TreeNode {
	c := *n
	c.Children = nil
	for _, child := range n.Children {
		c.Children = append(c.Children, cloneTree(child))
	}
	return &c
}

// markActive recurses into n, returning whether n (or any descendant)
// is active, per the hit map.
func markActive(n *graph.TreeNode, hits map[string]fileHit) bool {
	if n.Kind == graph.TreeNodeFile {
		if h, ok := hits[n.ID]; ok {
			n.IsHit = true
			n.SearchScore = h.distance
			n.MatchedChunks = h.matchedChunks
			n.IsActive = true
		}
		return n.IsActive
	}

	anyActive := false
	for _, child := range n.Children {
		if markActive(child, hits) {
			anyActive = true
		}
	}
	n.IsActive = anyActive
	return anyActive
}
