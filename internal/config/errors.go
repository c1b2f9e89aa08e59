package config

import "errors"

var (
	// ErrInsecureSecret indicates an empty or placeholder secret key outside debug mode.
	ErrInsecureSecret = errors.New("secret_key is empty or a known placeholder; set SITE_SECRET_KEY to a random value")
	// ErrNoAllowedHosts indicates a production deployment without allowed hosts.
	ErrNoAllowedHosts = errors.New("allowed_hosts must not be empty when debug_mode is off")
	// ErrInvalidOverride indicates a malformed name=value command-line override.
	ErrInvalidOverride = errors.New("override must have the form name=value")
	// ErrUnsupportedFormat indicates a config file extension that cannot be decoded.
	ErrUnsupportedFormat = errors.New("unsupported config file format")
	// ErrUnknownSection indicates an unexpected top-level key in a config file.
	ErrUnknownSection = errors.New("unknown config section")
)
