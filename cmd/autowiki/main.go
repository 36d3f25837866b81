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

// Package main implements the autowiki CLI: ingesting a repository into a
// dependency graph and vector index, and answering semantic search queries
// against it.
//
// Usage:
//
//	autowiki ingest <repo-url> [--project-id=...]   Clone and index a repository
//	autowiki search <project-id> <query>            Semantic search over an ingested project
//	autowiki stats <project-id>                     Show graph/vector stats for a project
//	autowiki clear <project-id>                      Delete a project's graph and vector data
//	autowiki serve                                   Run the HTTP API + metrics server
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/autowiki/autowiki/internal/ui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// GlobalFlags carries flags shared by every subcommand.
type GlobalFlags struct {
	JSON     bool
	NoColor  bool
	Quiet    bool
	Config   string
}

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version and exit")
		jsonOutput  = flag.Bool("json", false, "Output machine-readable JSON")
		noColor     = flag.Bool("no-color", false, "Disable colored output")
		quiet       = flag.Bool("quiet", false, "Suppress progress output")
		configPath  = flag.String("config", "", "Path to autowiki config (default: ./.autowiki/project.yaml)")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `autowiki - semantic code map CLI

Usage:
  autowiki <command> [options]

Commands:
  ingest <repo-url>          Clone a repository and build its graph + vector index
  search <project> <query>   Semantic search over an ingested project
  stats <project>            Show graph/vector stats for a project
  clear <project>            Delete a project's graph, tree, and vector data
  serve                      Run the HTTP API and Prometheus metrics server

Global Options:
  --config      Path to project config (default: ./.autowiki/project.yaml)
  --json        Output machine-readable JSON
  --no-color    Disable colored output
  --quiet       Suppress progress output
  --version     Show version and exit

Examples:
  autowiki ingest https://github.com/example/repo.git
  autowiki search abc123 "where is auth handled"
  autowiki serve --config ./.autowiki/project.yaml

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("autowiki version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
		os.Exit(0)
	}

	ui.InitColors(*noColor)

	globals := GlobalFlags{JSON: *jsonOutput, NoColor: *noColor, Quiet: *quiet || *jsonOutput, Config: *configPath}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "ingest":
		runIngest(cmdArgs, globals)
	case "search":
		runSearch(cmdArgs, globals)
	case "stats":
		runStats(cmdArgs, globals)
	case "clear":
		runClear(cmdArgs, globals)
	case "serve":
		runServe(cmdArgs, globals)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}
