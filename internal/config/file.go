package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/site-overlay/internal/settings"
)

// fileConfig is a decoded config file: the server section plus the site
// declarations in the order they appear in the file.
type fileConfig struct {
	Server fileServer
	Site   *settings.Overlay
}

// fileServer represents the server section of a config file.
type fileServer struct {
	Port                 string        `yaml:"port" toml:"port"`
	ShutdownGracePeriod  string        `yaml:"shutdown_grace_period" toml:"shutdown_grace_period"`
	ReadHeaderTimeout    string        `yaml:"read_header_timeout" toml:"read_header_timeout"`
	WriteTimeout         string        `yaml:"write_timeout" toml:"write_timeout"`
	IdleTimeout          string        `yaml:"idle_timeout" toml:"idle_timeout"`
	EnableRequestLogging *bool         `yaml:"enable_request_logging" toml:"enable_request_logging"`
	RateLimit            fileRateLimit `yaml:"rate_limit" toml:"rate_limit"`
}

// fileRateLimit represents the rate limit section.
type fileRateLimit struct {
	RPS   *float64 `yaml:"rps" toml:"rps"`
	Burst *int     `yaml:"burst" toml:"burst"`
}

// loadFromFile decodes a YAML or TOML config file, chosen by extension.
func loadFromFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAML(path, data)
	case ".toml":
		return parseTOML(path, data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// parseYAML walks the document node so the site declarations keep file order.
func parseYAML(source string, data []byte) (*fileConfig, error) {
	cfg := &fileConfig{Site: settings.NewOverlay(source)}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if len(doc.Content) == 0 {
		return cfg, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse YAML: top level must be a mapping")
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		switch key.Value {
		case "server":
			if err := value.Decode(&cfg.Server); err != nil {
				return nil, fmt.Errorf("parse YAML server section: %w", err)
			}
		case "site":
			if err := decodeYAMLSite(cfg.Site, value); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w %q at line %d", ErrUnknownSection, key.Value, key.Line)
		}
	}

	return cfg, nil
}

func decodeYAMLSite(overlay *settings.Overlay, node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("parse YAML: site section must be a mapping (line %d)", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		expr, err := yamlExpr(value)
		if err != nil {
			return fmt.Errorf("site.%s (line %d): %w", key.Value, value.Line, err)
		}
		overlay.Set(key.Value, expr)
	}
	return nil
}

// yamlExpr converts one site value. An empty value binds the empty string and
// an alias is resolved to its anchored node.
func yamlExpr(node *yaml.Node) (settings.Expr, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!str":
			return settings.ParseExpr(node.Value)
		case "!!null":
			return settings.Literal(settings.String("")), nil
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return nil, err
			}
			return settings.Literal(settings.Bool(b)), nil
		case "!!int", "!!float":
			return settings.Literal(settings.String(node.Value)), nil
		default:
			return nil, fmt.Errorf("%w: unsupported scalar %s", settings.ErrTypeMismatch, node.Tag)
		}
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return nil, fmt.Errorf("%w: %v", settings.ErrTypeMismatch, err)
		}
		return settings.Literal(settings.List(items...)), nil
	case yaml.AliasNode:
		if node.Alias == nil {
			return nil, fmt.Errorf("%w: alias *%s has no anchor", settings.ErrTypeMismatch, node.Value)
		}
		return yamlExpr(node.Alias)
	case yaml.MappingNode:
		return nil, fmt.Errorf("%w: nested mappings are not supported", settings.ErrTypeMismatch)
	default:
		return nil, fmt.Errorf("%w: unsupported YAML node", settings.ErrTypeMismatch)
	}
}

// parseTOML uses the decoder metadata to recover the declaration order of the
// site table.
func parseTOML(source string, data []byte) (*fileConfig, error) {
	var raw struct {
		Server fileServer     `toml:"server"`
		Site   map[string]any `toml:"site"`
	}
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w %q", ErrUnknownSection, undecoded[0].String())
	}

	cfg := &fileConfig{Server: raw.Server, Site: settings.NewOverlay(source)}
	for _, key := range md.Keys() {
		if len(key) != 2 || key[0] != "site" {
			continue
		}
		name := key[1]
		expr, err := tomlExpr(raw.Site[name])
		if err != nil {
			return nil, fmt.Errorf("site.%s: %w", name, err)
		}
		cfg.Site.Set(name, expr)
	}

	return cfg, nil
}

func tomlExpr(raw any) (settings.Expr, error) {
	if s, ok := raw.(string); ok {
		return settings.ParseExpr(s)
	}
	v, err := settings.FromInterface(raw)
	if err != nil {
		return nil, err
	}
	return settings.Literal(v), nil
}

// applyFileServer merges the file's server section over the current values.
// Empty strings leave the current value untouched.
func applyFileServer(server *Server, file fileServer) error {
	var partial Server
	partial.Port = strings.TrimSpace(file.Port)

	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"shutdown_grace_period", file.ShutdownGracePeriod, &partial.ShutdownGracePeriod},
		{"read_header_timeout", file.ReadHeaderTimeout, &partial.ReadHeaderTimeout},
		{"write_timeout", file.WriteTimeout, &partial.WriteTimeout},
		{"idle_timeout", file.IdleTimeout, &partial.IdleTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("server.%s: %w", d.name, err)
		}
		*d.dst = parsed
	}

	if err := mergo.Merge(server, partial, mergo.WithOverride); err != nil {
		return fmt.Errorf("merge server section: %w", err)
	}

	if file.EnableRequestLogging != nil {
		server.EnableRequestLogging = *file.EnableRequestLogging
	}
	if file.RateLimit.RPS != nil {
		server.RateLimitRPS = *file.RateLimit.RPS
	}
	if file.RateLimit.Burst != nil {
		server.RateLimitBurst = *file.RateLimit.Burst
	}
	return nil
}
