package config

import (
	"fmt"
	"strings"

	"github.com/eugenenazirov/site-overlay/internal/settings"
)

// CLIOverrides holds command-line flag overrides. Nil pointers mean the flag
// was not given.
type CLIOverrides struct {
	ConfigFile     string
	Port           *string
	RateLimitRPS   *float64
	RateLimitBurst *int

	SecretKey      *string
	Debug          *bool
	ServeStatic    *bool
	StaticBasePath *string
	BaseURL        *string
	AllowedHosts   []string
	// Assignments are free-form name=value site overrides, applied in order
	// after the named flags.
	Assignments []string
}

// apply copies server overrides and returns the site declarations given on
// the command line.
func (c *CLIOverrides) apply(server *Server) (*settings.Overlay, error) {
	if port := trimmed(c.Port); port != "" {
		server.Port = port
	}
	if c.RateLimitRPS != nil && *c.RateLimitRPS >= 0 {
		server.RateLimitRPS = *c.RateLimitRPS
	}
	if c.RateLimitBurst != nil && *c.RateLimitBurst >= 0 {
		server.RateLimitBurst = *c.RateLimitBurst
	}

	o := settings.NewOverlay("command line")
	setString(o, settings.KeySecretKey, c.SecretKey)
	setBool(o, settings.KeyDebugMode, c.Debug)
	setBool(o, settings.KeyServeStaticLocally, c.ServeStatic)
	setString(o, settings.KeyStaticBasePath, c.StaticBasePath)
	setString(o, settings.KeyBaseURL, c.BaseURL)
	if hosts := splitList(c.AllowedHosts); len(hosts) > 0 {
		o.SetValue(settings.KeyAllowedHosts, settings.List(hosts...))
	}

	for _, raw := range c.Assignments {
		name, expr, err := parseAssignment(raw)
		if err != nil {
			return nil, err
		}
		o.Set(name, expr)
	}
	return o, nil
}

// parseAssignment parses name=value. A name whose default is a list takes a
// comma separated list. Otherwise "true" and "false" become booleans and any
// other value is a string that may reference earlier settings.
func parseAssignment(raw string) (string, settings.Expr, error) {
	name, value, ok := strings.Cut(raw, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", nil, fmt.Errorf("%w: %q", ErrInvalidOverride, raw)
	}
	value = strings.TrimSpace(value)

	if def, ok := settings.Base()[name]; ok && def.Kind() == settings.KindList {
		return name, settings.Literal(settings.List(splitList([]string{value})...)), nil
	}

	switch value {
	case "true":
		return name, settings.Literal(settings.Bool(true)), nil
	case "false":
		return name, settings.Literal(settings.Bool(false)), nil
	}

	expr, err := settings.ParseExpr(value)
	if err != nil {
		return "", nil, fmt.Errorf("override %s: %w", name, err)
	}
	return name, expr, nil
}
