package api

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// debugHosts are accepted when debugging with an empty allowed_hosts list.
var debugHosts = []string{".localhost", "127.0.0.1", "[::1]"}

// HostPolicy decides which Host header values the server answers.
//
// A pattern is either an exact host name, a name with a leading dot that
// matches the domain and all of its subdomains, or "*" for any host.
// Matching ignores case, the port and a trailing dot.
type HostPolicy struct {
	patterns []string
}

// NewHostPolicy builds a policy from allowed_hosts. In debug mode an empty
// list falls back to loopback names.
func NewHostPolicy(allowed []string, debug bool) HostPolicy {
	if len(allowed) == 0 && debug {
		allowed = debugHosts
	}
	patterns := make([]string, 0, len(allowed))
	for _, p := range allowed {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			patterns = append(patterns, p)
		}
	}
	return HostPolicy{patterns: patterns}
}

// Allows reports whether a Host header value is acceptable.
func (p HostPolicy) Allows(hostHeader string) bool {
	host := normalizeHost(hostHeader)
	if host == "" {
		return false
	}
	for _, pattern := range p.patterns {
		if matchHost(host, pattern) {
			return true
		}
	}
	return false
}

func matchHost(host, pattern string) bool {
	switch {
	case pattern == "*":
		return true
	case strings.HasPrefix(pattern, "."):
		return host == pattern[1:] || strings.HasSuffix(host, pattern)
	default:
		return host == pattern
	}
}

// normalizeHost lowercases a Host header and strips the port and any trailing
// dot. IPv6 literals keep their brackets.
func normalizeHost(hostHeader string) string {
	host := strings.ToLower(strings.TrimSpace(hostHeader))
	if host == "" {
		return ""
	}

	if strings.HasPrefix(host, "[") {
		end := strings.IndexByte(host, ']')
		if end < 0 {
			return ""
		}
		return host[:end+1]
	}

	if strings.Count(host, ":") == 1 {
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
	}
	return strings.TrimSuffix(host, ".")
}

// HostValidationMiddleware rejects requests whose Host header is not allowed
// by policy.
func HostValidationMiddleware(policy HostPolicy, logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if policy.Allows(r.Host) {
			next.ServeHTTP(w, r)
			return
		}
		logger.Warn("rejected request with disallowed host",
			zap.String("host", r.Host),
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestIDFromContext(r.Context())),
		)
		writeError(w, http.StatusBadRequest, "Invalid host header",
			fmt.Sprintf("host %q is not listed in allowed_hosts", r.Host))
	})
}
