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
)

// runClear executes the 'clear' CLI command: deletes a project's graph,
// module tree, and vector collection.
//
// Flags:
//   - --yes: Confirm the deletion (required)
//
// Examples:
//
//	autowiki clear abc123 --yes
func runClear(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	confirm := fs.Bool("yes", false, "Confirm the deletion (required)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: autowiki clear <project-id> --yes

Deletes the project's graph, module tree, and vector collection.
This operation is destructive and cannot be undone.

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
	projectID := fs.Arg(0)

	if !*confirm {
		fmt.Fprintln(os.Stderr, "Error: you must pass --yes to confirm the deletion")
		os.Exit(1)
	}

	cfg, err := LoadConfig(globals.Config)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}
	logger := newLogger(globals)
	cc, err := buildCollaborators(cfg, logger)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	deleted, err := cc.orchestrator.Clear(context.Background(), projectID)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	if globals.JSON {
		_ = output.JSON(map[string]any{"project_id": projectID, "deleted": deleted})
		return
	}
	ui.Success(fmt.Sprintf("cleared project %s (%d vector entries removed)", projectID, deleted))
}
