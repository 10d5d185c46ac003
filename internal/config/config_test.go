package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultListenAddr(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "0.0.0.0:50051", cfg.ListenAddr())
	assert.NotEmpty(t, cfg.Discovery.Name)
}

func TestLoadMergesOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "printctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("discovery:\n  name: bench1\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bench1", cfg.Discovery.Name)
	assert.Equal(t, 50051, cfg.Server.GRPCPort)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
