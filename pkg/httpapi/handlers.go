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

package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	apierrors "github.com/autowiki/autowiki/internal/errors"
)

type ingestRequest struct {
	ProjectID string `json:"project_id"`
	RepoURL   string `json:"repo_url"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apierrors.NewInputError("invalid request body", err.Error(), "send a JSON body with repo_url"))
		return
	}
	if req.RepoURL == "" {
		respondError(w, apierrors.NewInputError("repo_url is required", "", "include repo_url in the request body"))
		return
	}

	stats, err := s.orchestrator.Ingest(ctx, req.ProjectID, req.RepoURL)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID := r.URL.Query().Get("project_id")
	query := r.URL.Query().Get("q")
	if projectID == "" || query == "" {
		respondError(w, apierrors.NewInputError("project_id and q are required", "", "pass both as query parameters"))
		return
	}
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	resp, raw, err := s.search.SearchRaw(ctx, projectID, query, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	if raw != nil {
		respondJSON(w, http.StatusOK, raw)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

type clearRequest struct {
	ProjectID string `json:"project_id"`
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req clearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apierrors.NewInputError("invalid request body", err.Error(), "send a JSON body with project_id"))
		return
	}
	if req.ProjectID == "" {
		respondError(w, apierrors.NewInputError("project_id is required", "", "include project_id in the request body"))
		return
	}

	deleted, err := s.orchestrator.Clear(ctx, req.ProjectID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"project_id": req.ProjectID, "deleted": deleted})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")
	if projectID == "" {
		respondError(w, apierrors.NewInputError("projectID is required", "", "GET /api/stats/{projectID}"))
		return
	}

	g := s.orchestrator.Graphs.Graph(projectID)
	vecStats, err := s.orchestrator.VectorStore.Stats(projectID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"project_id":  projectID,
		"graph_nodes": len(g.Nodes()),
		"graph_edges": len(g.Edges()),
		"chunk_count": vecStats.Count,
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, err error) {
	status := apierrors.HTTPStatus(err)
	if ue, ok := err.(*apierrors.UserError); ok {
		respondJSON(w, status, ue.ToJSON())
		return
	}
	respondJSON(w, status, apierrors.ErrorJSON{Error: err.Error(), ExitCode: apierrors.ExitInternal})
}
