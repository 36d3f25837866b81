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

// Package config loads autowiki's YAML project configuration, mirroring
// the .cie/project.yaml convention: a single file at the repository
// root naming where persisted state lives and how imports should be
// classified.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/autowiki/autowiki/internal/errors"
)

// DefaultConfigPath is where Load looks when no path is given.
const DefaultConfigPath = ".autowiki/project.yaml"

// Config is autowiki's project-level configuration.
type Config struct {
	// GraphBaseDir is where GraphService persists "<id>.json" and
	// "<id>_tree.json" files. Defaults to "./data/graphs".
	GraphBaseDir string `yaml:"graph_base_dir"`

	// ChromaDBPath is the vector store's persistence directory. Defaults
	// to "./data/chromadb"; the CHROMA_DB_PATH environment variable, when
	// set, overrides both the default and the file's value.
	ChromaDBPath string `yaml:"chroma_db_path"`

	// LocalRootPrefixes are dotted-module prefixes the parser treats as
	// local_absolute rather than stdlib, e.g. "backend", "app".
	LocalRootPrefixes []string `yaml:"local_root_prefixes"`

	// IgnoreExtra adds extra directory/file names to prune during the
	// ingestion walk, beyond the built-in ignore set.
	IgnoreExtra []string `yaml:"ignore_extra"`

	// ChunkWindowSize and ChunkWindowOverlap configure the text
	// chunker's sliding window in bytes. Defaults: 1000/200.
	ChunkWindowSize    int `yaml:"chunk_window_size"`
	ChunkWindowOverlap int `yaml:"chunk_window_overlap"`

	// HTTPAddr is the address the serve subcommand listens on.
	HTTPAddr string `yaml:"http_addr"`

	// MetricsAddr is loaded and merged but not read by any subcommand:
	// serve exposes /metrics on HTTPAddr alongside the API routes.
	MetricsAddr string `yaml:"metrics_addr"`
}

// Default returns a Config populated with autowiki's built-in defaults.
func Default() Config {
	return Config{
		GraphBaseDir:       "./data/graphs",
		ChromaDBPath:       "./data/chromadb",
		LocalRootPrefixes:  nil,
		ChunkWindowSize:    1000,
		ChunkWindowOverlap: 200,
		HTTPAddr:           ":8080",
		MetricsAddr:        ":9090",
	}
}

// Load reads and parses the YAML config at path, applying defaults for
// any zero-valued field and overlaying the CHROMA_DB_PATH environment
// variable on top of the file's chroma_db_path. A missing file is not
// an error: Load returns Default() in that case.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, errors.NewFilesystemError("failed to read config file", err.Error(), "", err)
	}

	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Config{}, errors.NewInputError("config file is not valid YAML", err.Error(), "check "+path)
	}

	merge(&cfg, loaded)
	applyEnv(&cfg)
	return cfg, nil
}

func merge(dst *Config, src Config) {
	if src.GraphBaseDir != "" {
		dst.GraphBaseDir = src.GraphBaseDir
	}
	if src.ChromaDBPath != "" {
		dst.ChromaDBPath = src.ChromaDBPath
	}
	if len(src.LocalRootPrefixes) > 0 {
		dst.LocalRootPrefixes = src.LocalRootPrefixes
	}
	if len(src.IgnoreExtra) > 0 {
		dst.IgnoreExtra = src.IgnoreExtra
	}
	if src.ChunkWindowSize > 0 {
		dst.ChunkWindowSize = src.ChunkWindowSize
	}
	if src.ChunkWindowOverlap > 0 {
		dst.ChunkWindowOverlap = src.ChunkWindowOverlap
	}
	if src.HTTPAddr != "" {
		dst.HTTPAddr = src.HTTPAddr
	}
	if src.MetricsAddr != "" {
		dst.MetricsAddr = src.MetricsAddr
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CHROMA_DB_PATH"); v != "" {
		cfg.ChromaDBPath = v
	}
}

// IgnoreExtraSet returns IgnoreExtra as a lookup set for ingestion.ShouldIgnore.
func (c Config) IgnoreExtraSet() map[string]bool {
	if len(c.IgnoreExtra) == 0 {
		return nil
	}
	set := make(map[string]bool, len(c.IgnoreExtra))
	for _, name := range c.IgnoreExtra {
		set[name] = true
	}
	return set
}
