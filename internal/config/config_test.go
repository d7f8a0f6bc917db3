package config_test

import (
	"path/filepath"
	"testing"

	"github.com/oisee/bfsc/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Equal(t, 30000, cfg.Compile.TapeSize)
	assert.Equal(t, 4, cfg.Fuzz.Workers)
	assert.False(t, cfg.Compile.Debug)
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.LoadFrom(filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := config.DefaultConfig()
	cfg.Compile.TapeSize = 12345
	cfg.Fuzz.Seed = 99
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 12345, loaded.Compile.TapeSize)
	assert.Equal(t, int64(99), loaded.Fuzz.Seed)
}
