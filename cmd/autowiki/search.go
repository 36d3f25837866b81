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

	"github.com/autowiki/autowiki/internal/errors"
	"github.com/autowiki/autowiki/internal/output"
	"github.com/autowiki/autowiki/internal/ui"
	"github.com/autowiki/autowiki/pkg/graph"
)

// runSearch executes the 'search' CLI command: a semantic query against an
// already-ingested project's vector index, overlaid onto its module tree.
//
// Flags:
//   - --limit: Result limit; the vector query fetches 3x this many chunks
//     and every file they touch is marked as a hit (default: 10)
//
// Examples:
//
//	autowiki search abc123 "where is auth handled"
//	autowiki search abc123 "rate limiting" --limit 5 --json
func runSearch(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	limit := fs.Int("limit", 10, "Result limit (the vector query fetches 3x this many chunks)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: autowiki search <project-id> <query> [options]

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 2 {
		fs.Usage()
		os.Exit(1)
	}
	projectID, query := fs.Arg(0), fs.Arg(1)

	cfg, err := LoadConfig(globals.Config)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}
	logger := newLogger(globals)
	cc, err := buildCollaborators(cfg, logger)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	ctx := context.Background()
	resp, raw, err := cc.search.SearchRaw(ctx, projectID, query, *limit)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	if globals.JSON {
		if raw != nil {
			_ = output.JSON(raw)
		} else {
			_ = output.JSON(resp)
		}
		return
	}

	if raw != nil {
		ui.Warning("no module tree for this project yet; showing raw matches")
		for _, r := range raw.Results {
			fmt.Printf("  %s  %s (%.4f)\n", ui.Label(r.Metadata.FilePath), r.Metadata.Name, r.Distance)
		}
		return
	}

	ui.Header(fmt.Sprintf("Search: %q", query))
	fmt.Printf("  %s %d file hits, %d vector results\n\n", ui.Label("stats:"), resp.Stats.HitsFound, resp.Stats.VectorResults)
	printTree(resp.Tree, 0)
}

func printTree(n *graph.TreeNode, depth int) {
	if n == nil {
		return
	}
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	marker := " "
	if n.IsHit {
		marker = "*"
	}
	if n.Kind == graph.TreeNodeFile {
		fmt.Printf("%s%s %s\n", indent, marker, n.Name)
	} else if n.IsActive || depth == 0 {
		fmt.Printf("%s%s %s/\n", indent, marker, n.Name)
	}
	for _, child := range n.Children {
		printTree(child, depth+1)
	}
}
