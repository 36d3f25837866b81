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
	"log/slog"
	"os"

	"github.com/autowiki/autowiki/pkg/chunker"
	"github.com/autowiki/autowiki/pkg/config"
	"github.com/autowiki/autowiki/pkg/graph"
	"github.com/autowiki/autowiki/pkg/ingestion"
	"github.com/autowiki/autowiki/pkg/parser"
	"github.com/autowiki/autowiki/pkg/search"
	"github.com/autowiki/autowiki/pkg/vectorstore"
)

// LoadConfig resolves configPath (falling back to config.DefaultConfigPath)
// and loads it.
func LoadConfig(configPath string) (config.Config, error) {
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}
	return config.Load(configPath)
}

// collaborators bundles the services every subcommand needs, wired from a
// single loaded Config.
type collaborators struct {
	orchestrator *ingestion.Orchestrator
	search       *search.Service
	graphs       *graph.Service
	store        *vectorstore.Store
}

func buildCollaborators(cfg config.Config, logger *slog.Logger) (*collaborators, error) {
	store, err := vectorstore.Open(cfg.ChromaDBPath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.GraphBaseDir, 0o755); err != nil {
		return nil, err
	}
	graphs := graph.NewService(cfg.GraphBaseDir, logger)

	extractor := parser.NewExtractor(logger, cfg.LocalRootPrefixes)
	c := chunker.New(extractor)
	c.WindowSize = cfg.ChunkWindowSize
	c.WindowOverlap = cfg.ChunkWindowOverlap

	orch := ingestion.New(logger, c, store, graphs)
	orch.IgnoreExtra = cfg.IgnoreExtraSet()

	searchSvc := search.New(store, graphs, logger)

	return &collaborators{orchestrator: orch, search: searchSvc, graphs: graphs, store: store}, nil
}

func newLogger(globals GlobalFlags) *slog.Logger {
	level := slog.LevelInfo
	if globals.Quiet {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
