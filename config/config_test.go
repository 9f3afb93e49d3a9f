package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadMergesDefaults(t *testing.T) {
	path := writeConfig(t, "maxParseDepth: 16\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.MaxParseDepth)
	// unset fields come from the defaults
	assert.Equal(t, Default().QueryCacheSize, cfg.QueryCacheSize)
	assert.Equal(t, Default().Defrag.KeysPerSecond, cfg.Defrag.KeysPerSecond)
}

func TestLoadNestedOverride(t *testing.T) {
	path := writeConfig(t, "defrag:\n  keysPerSecond: 5\ncompactStorage: true\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5.0, cfg.Defrag.KeysPerSecond)
	assert.True(t, cfg.CompactStorage)
	assert.Equal(t, Default().Defrag.Burst, cfg.Defrag.Burst)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := writeConfig(t, "maxParseDepth: [not an int]\n")
	_, err = Load(path)
	assert.Error(t, err)
}
