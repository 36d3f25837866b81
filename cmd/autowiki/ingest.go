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
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/autowiki/autowiki/internal/errors"
	"github.com/autowiki/autowiki/internal/output"
	"github.com/autowiki/autowiki/internal/ui"
)

// runIngest executes the 'ingest' CLI command: clones a repository and
// rebuilds its dependency graph, module tree, and vector index.
//
// Flags:
//   - --project-id: Reuse an existing project id (default: a fresh UUID)
//
// Examples:
//
//	autowiki ingest https://github.com/example/repo.git
//	autowiki ingest https://github.com/example/repo.git --project-id my-proj
func runIngest(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	projectID := fs.String("project-id", "", "Reuse an existing project id (default: a fresh UUID)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: autowiki ingest <repo-url> [options]

Clones repo-url and rebuilds its dependency graph and vector index.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	repoURL := fs.Arg(0)

	cfg, err := LoadConfig(globals.Config)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	logger := newLogger(globals)
	cc, err := buildCollaborators(cfg, logger)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("shutdown.signal", "signal", sig.String())
		cancel()
	}()

	progress := NewProgressConfig(globals)
	spinner := NewSpinner(progress, "ingesting")
	if spinner != nil {
		_ = spinner.RenderBlank()
	}

	stats, err := cc.orchestrator.Ingest(ctx, *projectID, repoURL)
	if spinner != nil {
		_ = spinner.Finish()
	}
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	if globals.JSON {
		_ = output.JSON(stats)
		return
	}

	ui.Header("Ingestion complete")
	fmt.Printf("  %s  %s\n", ui.Label("project:"), stats.ProjectID)
	fmt.Printf("  %s  %d files (%d code, %d docs)\n", ui.Label("files:"), stats.FilesTotal, stats.CodeFiles, stats.DocFiles)
	fmt.Printf("  %s  %d chunks\n", ui.Label("chunks:"), stats.ChunksTotal)
	fmt.Printf("  %s  %d nodes, %d edges\n", ui.Label("graph:"), stats.GraphNodes, stats.GraphEdges)
}
