package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rana718/acctgen/internal/config"
)

func TestInitializeProject(t *testing.T) {
	ws := t.TempDir()
	chdir(t, ws)

	require.False(t, config.IsInitialized())
	require.NoError(t, initializeProject(false))
	assert.True(t, config.IsInitialized())

	for _, p := range []string{"schema/reference.sql", "jobs/example.yaml", ".env.example"} {
		assert.FileExists(t, filepath.Join(ws, p))
	}
	assert.DirExists(t, filepath.Join(ws, "sql"), "output.dir is created")

	cfgPath := filepath.Join(ws, config.FileName)
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"version":"edited"}`), 0644))
	require.NoError(t, initializeProject(false))
	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"edited"}`, string(data), "existing config is kept without --force")
}
