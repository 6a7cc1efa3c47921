package config_test

import (
	"testing"
	"time"

	"github.com/adc-share/sharecore/pkg/config"
	"github.com/stretchr/testify/assert"
)

func TestApplyDefaultsPreservesExplicitValues(t *testing.T) {
	cfg := &config.Config{
		Logging: config.LoggingConfig{Level: "warn"},
		Search:  config.SearchConfig{MaxResults: 5},
	}
	config.ApplyDefaults(cfg)

	assert.Equal(t, "WARN", cfg.Logging.Level)
	assert.Equal(t, 5, cfg.Search.MaxResults)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, time.Minute, cfg.Filelist.CacheTTL)
	assert.Equal(t, "sharecore", cfg.Filelist.Generator)
}

func TestGetDefaultConfigHasOneExampleShare(t *testing.T) {
	cfg := config.GetDefaultConfig()
	assert.Len(t, cfg.Shares, 1)
	assert.Equal(t, 5*time.Minute, cfg.Search.InstanceTTL)
}
