// Package application provides application initialization and dependency wiring.
// It turns the validated configuration into handlers, the root HTTP handler
// (host validation, local static files, API routes) and the HTTP server,
// keeping the main package focused on CLI parsing and orchestration.
package application
