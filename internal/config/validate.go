package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// placeholderSecrets are values shipped in sample settings files that must
// never reach a production deployment.
var placeholderSecrets = map[string]struct{}{
	"":              {},
	"changeme":      {},
	"change-me":     {},
	"secret":        {},
	"secret_key":    {},
	"placeholder":   {},
	"insecure":      {},
	"hallo321321**": {},
}

var validate = validator.New()

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if err := validate.Struct(cfg.Server); err != nil {
		return fmt.Errorf("invalid server configuration: %w", err)
	}
	if err := validate.Struct(cfg.Site); err != nil {
		return fmt.Errorf("invalid site configuration: %w", err)
	}
	return cfg.Site.checkProduction()
}

// checkProduction rejects settings that are only tolerable while debugging.
func (s Site) checkProduction() error {
	if s.Debug {
		return nil
	}
	if IsPlaceholderSecret(s.SecretKey) {
		return ErrInsecureSecret
	}
	if len(s.AllowedHosts) == 0 {
		return ErrNoAllowedHosts
	}
	return nil
}

// IsPlaceholderSecret reports whether secret is empty or a known sample value.
func IsPlaceholderSecret(secret string) bool {
	_, ok := placeholderSecrets[strings.ToLower(strings.TrimSpace(secret))]
	return ok
}
