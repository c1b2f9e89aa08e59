// Package settings implements the configuration overlay: a fully resolved base
// mapping of setting names to values, rebound by ordered override declarations
// into a read-only effective configuration. Declarations may reference names
// bound earlier in the same pass; referring forward is a ConfigurationError.
package settings
