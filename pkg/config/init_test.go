package config_test

import (
	"path/filepath"
	"testing"

	"github.com/adc-share/sharecore/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfigToPathWritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	written, err := config.InitConfigToPath(path, false)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.CID)
}

func TestInitConfigToPathRefusesToOverwriteWithoutForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	_, err := config.InitConfigToPath(path, false)
	require.NoError(t, err)

	_, err = config.InitConfigToPath(path, false)
	assert.Error(t, err)

	_, err = config.InitConfigToPath(path, true)
	assert.NoError(t, err)
}
