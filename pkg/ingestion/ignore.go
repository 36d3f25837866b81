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

package ingestion

import "strings"

// defaultIgnoreNames is pruned during the repository walk by exact name
// match, in addition to any name beginning with a dot.
var defaultIgnoreNames = map[string]bool{
	".git":            true,
	"__pycache__":     true,
	"node_modules":    true,
	".next":           true,
	"venv":            true,
	".venv":           true,
	".DS_Store":       true,
	"dist":            true,
	"build":           true,
	".pytest_cache":   true,
	"data":            true,
	"temp_repos":      true,
}

// ShouldIgnore reports whether name (a file or directory's base name)
// should be pruned from the walk.
func ShouldIgnore(name string, extra map[string]bool) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	if defaultIgnoreNames[name] {
		return true
	}
	return extra[name]
}
