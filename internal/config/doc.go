// Package config assembles the runtime configuration. Server settings are
// resolved with precedence CLI flags > environment variables > config file >
// defaults. Site settings are an ordered overlay built from the same sources
// and applied to the framework defaults by package settings; the resulting
// effective configuration is validated once and then shared read-only.
package config
