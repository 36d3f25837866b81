package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFile_ReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().GraphBaseDir, cfg.GraphBaseDir)
	assert.Equal(t, 1000, cfg.ChunkWindowSize)
}

func TestLoad_OverridesOnlySetFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project.yaml")
	require.NoError(t, os.WriteFile(path, []byte("graph_base_dir: /tmp/graphs\nlocal_root_prefixes:\n  - backend\n  - app\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/graphs", cfg.GraphBaseDir)
	assert.Equal(t, []string{"backend", "app"}, cfg.LocalRootPrefixes)
	assert.Equal(t, Default().ChromaDBPath, cfg.ChromaDBPath)
	assert.Equal(t, 200, cfg.ChunkWindowOverlap)
}

func TestLoad_InvalidYAML_ReturnsInputError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid yaml"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_ChromaDBPathEnvOverride(t *testing.T) {
	t.Setenv("CHROMA_DB_PATH", "/env/override")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/env/override", cfg.ChromaDBPath)
}

func TestIgnoreExtraSet_BuildsLookupMap(t *testing.T) {
	cfg := Config{IgnoreExtra: []string{"vendor", "tmp"}}
	set := cfg.IgnoreExtraSet()
	assert.True(t, set["vendor"])
	assert.True(t, set["tmp"])
	assert.False(t, set["src"])
}

func TestIgnoreExtraSet_Empty_ReturnsNil(t *testing.T) {
	cfg := Config{}
	assert.Nil(t, cfg.IgnoreExtraSet())
}
