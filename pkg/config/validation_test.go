package config_test

import (
	"testing"
	"time"

	"github.com/adc-share/sharecore/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *config.Config {
	cfg := &config.Config{
		CID:             "node-1",
		ShutdownTimeout: time.Second,
		Shares: []config.ShareRootConfig{
			{Path: "/srv/a", VirtualName: "a"},
		},
	}
	config.ApplyDefaults(cfg)
	return cfg
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	require.NoError(t, config.Validate(validConfig()))
}

func TestValidateRejectsMissingCID(t *testing.T) {
	cfg := validConfig()
	cfg.CID = ""
	assert.Error(t, config.Validate(cfg))
}

func TestValidateRejectsEmptyShares(t *testing.T) {
	cfg := validConfig()
	cfg.Shares = nil
	assert.Error(t, config.Validate(cfg))
}

func TestValidateRejectsDuplicateSharePaths(t *testing.T) {
	cfg := validConfig()
	cfg.Shares = append(cfg.Shares, config.ShareRootConfig{Path: "/srv/a", VirtualName: "b"})
	assert.Error(t, config.Validate(cfg))
}
