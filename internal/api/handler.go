package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/eugenenazirov/site-overlay/internal/config"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler serves the endpoints that expose the effective configuration.
type Handler struct {
	site     config.Site
	settings map[string]any

	clock     func() time.Time
	startedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler over the validated configuration. The
// redacted settings are captured once since the configuration never changes.
func NewHandler(cfg config.Config, opts ...HandlerOption) *Handler {
	h := &Handler{
		site:     cfg.Site,
		settings: cfg.RedactedSettings(),
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.startedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	now := h.clock()
	resp := healthResponse{
		Status:    "ok",
		Timestamp: now,
		Uptime:    now.Sub(h.startedAt).Round(time.Second).String(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleIndex(w http.ResponseWriter, _ *http.Request) {
	resp := indexResponse{
		ProjectURL:           h.site.ProjectURL,
		MediaURL:             h.site.MediaURL,
		GeneratedArtifactURL: h.site.GeneratedArtifactURL,
		ServeStatic:          h.site.ServeStatic,
		Debug:                h.site.Debug,
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSettings exposes the redacted effective configuration while debugging.
func (h *Handler) handleSettings(w http.ResponseWriter, r *http.Request) {
	if !h.site.Debug {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, settingsResponse{Settings: h.settings})
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
}

type indexResponse struct {
	ProjectURL           string `json:"projectUrl"`
	MediaURL             string `json:"mediaUrl"`
	GeneratedArtifactURL string `json:"generatedArtifactUrl"`
	ServeStatic          bool   `json:"serveStatic"`
	Debug                bool   `json:"debug"`
}

type settingsResponse struct {
	Settings map[string]any `json:"settings"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{
		Error:   message,
		Details: details,
	})
}
