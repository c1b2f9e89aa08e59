package config

import (
	"strings"

	"github.com/eugenenazirov/site-overlay/internal/settings"
)

// Redacted returns a copy of the site settings with the secret masked.
func (s Site) Redacted() Site {
	s.SecretKey = maskSecret(s.SecretKey)
	s.AllowedHosts = append([]string(nil), s.AllowedHosts...)
	return s
}

// RedactedSettings returns every effective setting as plain values, with the
// secret masked.
func (c Config) RedactedSettings() map[string]any {
	if c.Settings == nil {
		return map[string]any{}
	}
	out := c.Settings.Map()
	if secret, ok := out[settings.KeySecretKey].(string); ok {
		out[settings.KeySecretKey] = maskSecret(secret)
	}
	return out
}

// Redacted returns the configuration as a document safe for logs and
// diagnostics output.
func (c Config) Redacted() map[string]any {
	return map[string]any{
		"server": c.Server,
		"site":   c.RedactedSettings(),
	}
}

// maskSecret masks a secret value for safe logging.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
