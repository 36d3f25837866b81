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

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/autowiki/autowiki/internal/errors"
	"github.com/autowiki/autowiki/internal/output"
	"github.com/autowiki/autowiki/internal/ui"
)

// StatsResult is the JSON shape of the 'stats' command's output.
type StatsResult struct {
	ProjectID  string    `json:"project_id"`
	GraphNodes int       `json:"graph_nodes"`
	GraphEdges int       `json:"graph_edges"`
	ChunkCount int       `json:"chunk_count"`
	Timestamp  time.Time `json:"timestamp"`
}

// runStats executes the 'stats' CLI command, showing graph/vector counts
// for an already-ingested project.
//
// Examples:
//
//	autowiki stats abc123
//	autowiki stats abc123 --json
func runStats(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: autowiki stats <project-id> [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	projectID := fs.Arg(0)

	cfg, err := LoadConfig(globals.Config)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}
	logger := newLogger(globals)
	cc, err := buildCollaborators(cfg, logger)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	g := cc.graphs.Graph(projectID)
	vecStats, err := cc.store.Stats(projectID)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	result := StatsResult{
		ProjectID:  projectID,
		GraphNodes: len(g.Nodes()),
		GraphEdges: len(g.Edges()),
		ChunkCount: vecStats.Count,
		Timestamp:  time.Now(),
	}

	if globals.JSON {
		_ = output.JSON(result)
		return
	}

	ui.Header("Project stats")
	fmt.Printf("  %s  %s\n", ui.Label("project:"), result.ProjectID)
	fmt.Printf("  %s  %s nodes, %s edges\n", ui.Label("graph:"), ui.CountText(result.GraphNodes), ui.CountText(result.GraphEdges))
	fmt.Printf("  %s  %s chunks\n", ui.Label("vector store:"), ui.CountText(result.ChunkCount))
}
