package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/eugenenazirov/site-overlay/internal/settings"
)

// envConfig lists the environment variables read at startup. Unset or empty
// variables leave the pointer nil so lower layers keep their value.
type envConfig struct {
	Port           *string  `env:"PORT"`
	RateLimitRPS   *float64 `env:"RATE_LIMIT_RPS"`
	RateLimitBurst *int     `env:"RATE_LIMIT_BURST"`

	SecretKey            *string  `env:"SITE_SECRET_KEY"`
	Debug                *bool    `env:"SITE_DEBUG"`
	ServeStatic          *bool    `env:"SITE_SERVE_STATIC"`
	StaticBasePath       *string  `env:"SITE_STATIC_BASE"`
	BaseURL              *string  `env:"SITE_BASE_URL"`
	ProjectURL           *string  `env:"SITE_PROJECT_URL"`
	MediaURL             *string  `env:"SITE_MEDIA_URL"`
	GeneratedArtifactURL *string  `env:"SITE_GENERATED_ARTIFACT_URL"`
	AllowedHosts         []string `env:"SITE_ALLOWED_HOSTS" envSeparator:","`
}

// loadEnv parses the environment with caarlos0/env.
func loadEnv() (*envConfig, error) {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}

// apply copies server overrides present in the environment.
func (e *envConfig) apply(server *Server) {
	if port := trimmed(e.Port); port != "" {
		server.Port = port
	}
	if e.RateLimitRPS != nil {
		server.RateLimitRPS = *e.RateLimitRPS
	}
	if e.RateLimitBurst != nil {
		server.RateLimitBurst = *e.RateLimitBurst
	}
}

// overlay returns the site declarations present in the environment. Values
// are literals; references are only expanded in config files and --set.
func (e *envConfig) overlay() *settings.Overlay {
	o := settings.NewOverlay("environment")
	setString(o, settings.KeySecretKey, e.SecretKey)
	setBool(o, settings.KeyDebugMode, e.Debug)
	setBool(o, settings.KeyServeStaticLocally, e.ServeStatic)
	setString(o, settings.KeyStaticBasePath, e.StaticBasePath)
	setString(o, settings.KeyBaseURL, e.BaseURL)
	setString(o, settings.KeyProjectURL, e.ProjectURL)
	setString(o, settings.KeyMediaURL, e.MediaURL)
	setString(o, settings.KeyGeneratedArtifactURL, e.GeneratedArtifactURL)
	if hosts := splitList(e.AllowedHosts); len(hosts) > 0 {
		o.SetValue(settings.KeyAllowedHosts, settings.List(hosts...))
	}
	return o
}

func setString(o *settings.Overlay, name string, v *string) {
	if s := trimmed(v); s != "" {
		o.SetValue(name, settings.String(s))
	}
}

func setBool(o *settings.Overlay, name string, v *bool) {
	if v != nil {
		o.SetValue(name, settings.Bool(*v))
	}
}

func trimmed(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

// splitList splits comma separated entries, trims them and drops empty ones.
func splitList(raw []string) []string {
	hosts := make([]string, 0, len(raw))
	for _, part := range raw {
		for _, host := range strings.Split(part, ",") {
			if host = strings.TrimSpace(host); host != "" {
				hosts = append(hosts, host)
			}
		}
	}
	return hosts
}
