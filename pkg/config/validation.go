package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var structValidator = validator.New()

// Validate checks cfg against its struct `validate` tags plus one
// cross-field invariant those tags can't express: no two share roots
// may have the same path. It performs no other cross-field checks.
func Validate(cfg *Config) error {
	if err := structValidator.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	seen := make(map[string]bool, len(cfg.Shares))
	for _, share := range cfg.Shares {
		if seen[share.Path] {
			return fmt.Errorf("invalid configuration: duplicate share root path %q", share.Path)
		}
		seen[share.Path] = true
	}

	return nil
}
