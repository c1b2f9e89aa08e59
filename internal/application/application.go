package application

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/site-overlay/internal/api"
	"github.com/eugenenazirov/site-overlay/internal/config"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	cfg     config.Config
	handler *api.Handler
	router  http.Handler
	logger  *zap.Logger
	server  *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	handler := api.NewHandler(cfg)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.Server.EnableRequestLogging),
		api.WithRateLimit(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst),
		api.WithDebug(cfg.Site.Debug),
	)

	rootHandler, err := BuildRootHandler(cfg, apiRouter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP handler: %w", err)
	}

	return &App{
		cfg:     cfg,
		handler: handler,
		router:  apiRouter,
		logger:  logger,
		server:  NewServer(cfg, rootHandler),
	}, nil
}

// BuildRootHandler constructs the root HTTP handler. Every request passes host
// validation; static files are served from static_base_path under the media
// URL path when serve_static_locally is on, everything else goes to apiHandler.
func BuildRootHandler(cfg config.Config, apiHandler http.Handler, logger *zap.Logger) (http.Handler, error) {
	mux := http.NewServeMux()

	if cfg.Site.ServeStatic {
		mediaPath, err := urlPath(cfg.Site.MediaURL)
		if err != nil {
			return nil, fmt.Errorf("media_url: %w", err)
		}
		if mediaPath == "/" {
			return nil, errors.New("media_url must not point at the site root when serving static files")
		}

		staticPath, err := resolveStaticDir(cfg.Site.StaticBasePath)
		if err != nil {
			return nil, err
		}
		mux.Handle(mediaPath, http.StripPrefix(mediaPath, http.FileServer(http.Dir(staticPath))))
		logger.Info("serving static files",
			zap.String("path", mediaPath),
			zap.String("dir", staticPath),
		)
	}
	mux.Handle("/", apiHandler)

	policy := api.NewHostPolicy(cfg.Site.AllowedHosts, cfg.Site.Debug)
	var root http.Handler = api.HostValidationMiddleware(policy, logger, mux)
	root = api.RequestIDMiddleware(root)
	return root, nil
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Server.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening",
			zap.String("addr", a.server.Addr),
			zap.String("project_url", a.cfg.Site.ProjectURL),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// urlPath returns the path component of rawURL with leading and trailing slashes.
func urlPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	p := u.Path
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p, nil
}

// resolveStaticDir returns dir if absolute, otherwise locates it relative to
// the project root.
func resolveStaticDir(dir string) (string, error) {
	if filepath.IsAbs(dir) {
		if _, err := os.Stat(dir); err != nil {
			return "", fmt.Errorf("static_base_path: %w", err)
		}
		return dir, nil
	}
	return resolveProjectPath(filepath.Clean(dir))
}

// resolveProjectPath locates a file or directory relative to the project root by walking up the directory tree.
func resolveProjectPath(relative string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, relative)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("unable to locate %s", relative)
}
