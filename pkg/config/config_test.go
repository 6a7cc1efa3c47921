package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adc-share/sharecore/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFallsBackToDefaultsWhenNoFileExists(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.NotEmpty(t, cfg.Shares)
}

func TestLoadReadsAndValidatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yamlContent := `
cid: "abc123"
shutdown_timeout: 10s
shares:
  - path: /srv/movies
    virtual_name: movies
    profiles: [1]
logging:
  level: debug
  format: json
  output: stdout
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "abc123", cfg.CID)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	require.Len(t, cfg.Shares, 1)
	assert.Equal(t, "/srv/movies", cfg.Shares[0].Path)
	assert.Equal(t, 100, cfg.Search.MaxResults)
}

func TestLoadRejectsMissingRequiredFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	require.NoError(t, os.WriteFile(path, []byte("shutdown_timeout: 1s\n"), 0600))

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestSaveConfigRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "config.yaml")

	cfg := config.GetDefaultConfig()
	cfg.CID = "deadbeef"

	require.NoError(t, config.SaveConfig(cfg, path))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", loaded.CID)
}
