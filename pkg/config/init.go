package config

import (
	"crypto/rand"
	"fmt"
	"os"

	"github.com/adc-share/sharecore/pkg/sharetree"
)

// randomCID generates a fresh random CID for a new node identity.
// Grounded on the original source's CID generation (a random value the
// first time a client starts, persisted thereafter) rather than a
// name- or hardware-derived identity.
func randomCID() (sharetree.CID, error) {
	var raw [sharetree.CIDSize]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return sharetree.CID{}, err
	}
	return sharetree.CID(raw), nil
}

// InitConfig writes a fresh default configuration to the default
// config path, generating a random CID. Fails if a config already
// exists there unless force is set.
func InitConfig(force bool) (string, error) {
	return InitConfigToPath(GetDefaultConfigPath(), force)
}

// InitConfigToPath writes a fresh default configuration to path.
func InitConfigToPath(path string, force bool) (string, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", path)
		}
	}

	cfg := GetDefaultConfig()
	cid, err := randomCID()
	if err != nil {
		return "", fmt.Errorf("failed to generate CID: %w", err)
	}
	cfg.CID = cid.String()

	if err := SaveConfig(cfg, path); err != nil {
		return "", err
	}

	return path, nil
}
