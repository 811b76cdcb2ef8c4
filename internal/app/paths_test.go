package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	p := NewPaths("/project")
	assert.Equal(t, filepath.Join("/project", ".acm"), p.Root)
	assert.Equal(t, filepath.Join("/project", ".acm", "acm.db"), p.DB)
	assert.Equal(t, filepath.Join("/project", ".acm", "acm.yaml"), p.Config)
	assert.Equal(t, filepath.Join("/project", ".acm", "log"), p.LogDir)
	assert.Equal(t, filepath.Join("/project", ".acm", "log", "daemon.log"), p.DaemonLog)
	assert.Equal(t, filepath.Join("/project", ".acm", "run"), p.RunDir)
	assert.Equal(t, filepath.Join("/project", ".acm", "run", "daemon.pid"), p.PIDFile)
	assert.Equal(t, filepath.Join("/project", ".acm", "run", "http.port"), p.PortFile)
}

func TestEnsureDirs(t *testing.T) {
	dir := t.TempDir()
	p := NewPaths(dir)

	// First call creates directories.
	require.NoError(t, p.EnsureDirs())
	for _, d := range []string{p.Root, p.LogDir, p.RunDir} {
		info, err := os.Stat(d)
		require.NoError(t, err, "dir %s should exist", d)
		assert.True(t, info.IsDir())
	}

	// Second call is idempotent.
	require.NoError(t, p.EnsureDirs())
}

func TestCleanEphemeral(t *testing.T) {
	dir := t.TempDir()
	p := NewPaths(dir)
	require.NoError(t, p.EnsureDirs())

	require.NoError(t, os.WriteFile(p.PIDFile, []byte("12345"), 0644))
	require.NoError(t, os.WriteFile(p.PortFile, []byte("19042"), 0644))

	p.CleanEphemeral()

	_, err := os.Stat(p.PIDFile)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(p.PortFile)
	assert.True(t, os.IsNotExist(err))

	// Missing files are fine.
	p.CleanEphemeral()
}
