package config

import (
	"fmt"
	"time"

	"github.com/eugenenazirov/site-overlay/internal/settings"
)

const (
	defaultPort           = "8080"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
)

// Config aggregates runtime configuration resolved from multiple sources.
type Config struct {
	Server Server
	Site   Site
	// Settings is the effective site configuration, including names that have
	// no typed field in Site.
	Settings *settings.Effective
}

// Server holds the HTTP server settings.
type Server struct {
	Port                 string        `yaml:"port" validate:"required"`
	ShutdownGracePeriod  time.Duration `yaml:"shutdown_grace_period" validate:"gte=0"`
	ReadHeaderTimeout    time.Duration `yaml:"read_header_timeout" validate:"gte=0"`
	WriteTimeout         time.Duration `yaml:"write_timeout" validate:"gte=0"`
	IdleTimeout          time.Duration `yaml:"idle_timeout" validate:"gte=0"`
	EnableRequestLogging bool          `yaml:"enable_request_logging"`
	RateLimitRPS         float64       `yaml:"rate_limit_rps" validate:"gte=0"`
	RateLimitBurst       int           `yaml:"rate_limit_burst" validate:"gte=0"`
}

// Site is the typed view of the effective site settings.
type Site struct {
	SecretKey            string   `yaml:"secret_key"`
	Debug                bool     `yaml:"debug_mode"`
	ServeStatic          bool     `yaml:"serve_static_locally"`
	StaticBasePath       string   `yaml:"static_base_path" validate:"required"`
	BaseURL              string   `yaml:"base_url" validate:"required,url"`
	ProjectURL           string   `yaml:"project_url" validate:"required,url"`
	MediaURL             string   `yaml:"media_url" validate:"required,url"`
	GeneratedArtifactURL string   `yaml:"generated_artifact_url" validate:"required,url"`
	AllowedHosts         []string `yaml:"allowed_hosts" validate:"dive,required"`
}

// Load extracts configuration from multiple sources. Server settings follow
// CLI flags > environment variables > config file > defaults. Site
// declarations follow the same precedence: a CLI or environment value for a
// name the file declares rebinds that declaration in place, and a literal for
// a name the file does not declare is bound before the file is evaluated, so
// file declarations computed from either see the new value.
func Load(overrides *CLIOverrides) (Config, error) {
	server := defaultServer()
	fileSite := settings.NewOverlay("overrides")

	if overrides != nil && overrides.ConfigFile != "" {
		file, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load config file: %w", err)
		}
		if err := applyFileServer(&server, file.Server); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", overrides.ConfigFile, err)
		}
		fileSite = file.Site
	}

	env, err := loadEnv()
	if err != nil {
		return Config{}, err
	}
	env.apply(&server)
	outer := settings.NewOverlay("environment and command line")
	outer.Merge(env.overlay())

	if overrides != nil {
		cliOverlay, err := overrides.apply(&server)
		if err != nil {
			return Config{}, err
		}
		outer.Merge(cliOverlay)
	}

	layers := layerOverrides(fileSite, outer)
	layers = append(layers, derivedFor(layers...))

	eff, err := settings.Apply(settings.Base(), layers...)
	if err != nil {
		return Config{}, err
	}

	return FromSettings(server, eff)
}

// layerOverrides splits the environment and CLI declarations around the file
// overlay. Names the file declares are rebound in place. Other literals are
// bound before the file; other expressions are evaluated after it, so they
// may reference file declarations.
func layerOverrides(file, outer *settings.Overlay) []*settings.Overlay {
	early := settings.NewOverlay(outer.Source)
	late := settings.NewOverlay(outer.Source)

	for _, d := range outer.Declarations() {
		switch {
		case file.Declares(d.Name):
			file.Set(d.Name, d.Expr)
		case len(d.Expr.Refs()) == 0:
			early.Set(d.Name, d.Expr)
		default:
			late.Set(d.Name, d.Expr)
		}
	}

	return []*settings.Overlay{early, file, late}
}

// FromSettings builds and validates a Config from an already assembled
// effective configuration.
func FromSettings(server Server, eff *settings.Effective) (Config, error) {
	site, err := siteFromSettings(eff)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{Server: server, Site: site, Settings: eff}
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// derivedFor returns the computed URL declarations that none of the layers
// declares.
func derivedFor(layers ...*settings.Overlay) *settings.Overlay {
	derived := settings.NewOverlay(settings.DerivedOverlay().Source)
	for _, d := range settings.DerivedOverlay().Declarations() {
		if !declaredIn(d.Name, layers) {
			derived.Set(d.Name, d.Expr)
		}
	}
	return derived
}

func declaredIn(name string, layers []*settings.Overlay) bool {
	for _, layer := range layers {
		if layer.Declares(name) {
			return true
		}
	}
	return false
}

// defaultServer returns the server section with default values.
func defaultServer() Server {
	return Server{
		Port:                 defaultPort,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

func siteFromSettings(eff *settings.Effective) (Site, error) {
	var (
		site Site
		err  error
	)
	strs := []struct {
		name string
		dst  *string
	}{
		{settings.KeySecretKey, &site.SecretKey},
		{settings.KeyStaticBasePath, &site.StaticBasePath},
		{settings.KeyBaseURL, &site.BaseURL},
		{settings.KeyProjectURL, &site.ProjectURL},
		{settings.KeyMediaURL, &site.MediaURL},
		{settings.KeyGeneratedArtifactURL, &site.GeneratedArtifactURL},
	}
	for _, s := range strs {
		if *s.dst, err = eff.String(s.name); err != nil {
			return Site{}, fmt.Errorf("read setting: %w", err)
		}
	}

	if site.Debug, err = eff.Bool(settings.KeyDebugMode); err != nil {
		return Site{}, fmt.Errorf("read setting: %w", err)
	}
	if site.ServeStatic, err = eff.Bool(settings.KeyServeStaticLocally); err != nil {
		return Site{}, fmt.Errorf("read setting: %w", err)
	}
	if site.AllowedHosts, err = eff.Strings(settings.KeyAllowedHosts); err != nil {
		return Site{}, fmt.Errorf("read setting: %w", err)
	}

	return site, nil
}
