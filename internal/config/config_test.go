package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	return dir
}

func TestLoad(t *testing.T) {
	t.Run("yml file", func(t *testing.T) {
		dir := writeConfig(t, "crategraph.yml", `
project: my-crate
databasePath: ./graph.db
excludeDirs:
  - examples
  - benches
verbose: true
`)
		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, "my-crate", cfg.Project)
		assert.Equal(t, "./graph.db", cfg.DatabasePath)
		assert.Equal(t, []string{"examples", "benches"}, cfg.ExcludeDirs)
		assert.True(t, cfg.Verbose)
	})

	t.Run("yaml extension fallback", func(t *testing.T) {
		dir := writeConfig(t, "crategraph.yaml", "project: alt\n")
		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, "alt", cfg.Project)
	})

	t.Run("missing file yields zero config", func(t *testing.T) {
		cfg, err := Load(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, &Config{}, cfg)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		dir := writeConfig(t, "crategraph.yml", "project: [unclosed\n")
		_, err := Load(dir)
		assert.Error(t, err)
	})

	t.Run("env overrides file", func(t *testing.T) {
		dir := writeConfig(t, "crategraph.yml", "project: from-file\ndatabasePath: file.db\n")
		t.Setenv("CRATEGRAPH_PROJECT", "from-env")
		t.Setenv("CRATEGRAPH_DB", "env.db")

		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Project)
		assert.Equal(t, "env.db", cfg.DatabasePath)
	})
}
