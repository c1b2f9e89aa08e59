package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/site-overlay/internal/application"
	"github.com/eugenenazirov/site-overlay/internal/config"
	"github.com/eugenenazirov/site-overlay/internal/logging"
)

var signalNotify = signal.Notify

// cliFlags holds the raw flag values before they become config overrides.
type cliFlags struct {
	configFile     *string
	port           *string
	rateLimitRPS   *float64
	rateLimitBurst *int
	secretKey      *string
	debug          *bool
	debugSet       bool
	serveStatic    *bool
	serveStaticSet bool
	staticBase     *string
	baseURL        *string
	allowedHosts   *[]string
	assignments    *[]string
}

func main() {
	kingpinApp := kingpin.New("site-overlay", "Site settings overlay - assembles the effective site configuration and serves it")
	flags := registerFlags(kingpinApp)
	serveCmd := kingpinApp.Command("serve", "Validate the configuration and start the HTTP server").Default()
	showCmd := kingpinApp.Command("show", "Print the effective configuration with secrets masked")

	command := kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	cfg, err := config.Load(flags.overrides())
	if err != nil {
		kingpinApp.Fatalf("failed to load configuration: %v", err)
	}

	switch command {
	case showCmd.FullCommand():
		if err := writeEffective(os.Stdout, cfg); err != nil {
			kingpinApp.Fatalf("failed to print configuration: %v", err)
		}
	case serveCmd.FullCommand():
		serve(cfg)
	}
}

func registerFlags(app *kingpin.Application) *cliFlags {
	f := &cliFlags{}
	f.configFile = app.Flag("config", "Path to a YAML or TOML configuration file").Short('c').String()
	f.port = app.Flag("port", "HTTP port exposed by the service").String()
	f.rateLimitRPS = app.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	f.rateLimitBurst = app.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()
	f.secretKey = app.Flag("secret-key", "Secret key; prefer SITE_SECRET_KEY so it stays out of process listings").String()
	f.debug = app.Flag("debug", "Enable debug mode (verbose diagnostics, permissive hosts)").IsSetByUser(&f.debugSet).Bool()
	f.serveStatic = app.Flag("serve-static", "Serve static files from static_base_path").IsSetByUser(&f.serveStaticSet).Bool()
	f.staticBase = app.Flag("static-base", "Directory holding static files").String()
	f.baseURL = app.Flag("base-url", "Externally reachable root URL").String()
	f.allowedHosts = app.Flag("allowed-host", "Host name the server answers for (repeatable)").Strings()
	f.assignments = app.Flag("set", "Site setting override NAME=VALUE; values may reference ${name} (repeatable)").Short('s').PlaceHolder("NAME=VALUE").Strings()
	return f
}

// overrides converts parsed flags into config overrides, leaving unset flags nil.
func (f *cliFlags) overrides() *config.CLIOverrides {
	overrides := &config.CLIOverrides{
		ConfigFile:   *f.configFile,
		AllowedHosts: *f.allowedHosts,
		Assignments:  *f.assignments,
	}

	if *f.port != "" {
		overrides.Port = f.port
	}
	if *f.rateLimitRPS >= 0 {
		overrides.RateLimitRPS = f.rateLimitRPS
	}
	if *f.rateLimitBurst >= 0 {
		overrides.RateLimitBurst = f.rateLimitBurst
	}
	if *f.secretKey != "" {
		overrides.SecretKey = f.secretKey
	}
	if f.debugSet {
		overrides.Debug = f.debug
	}
	if f.serveStaticSet {
		overrides.ServeStatic = f.serveStatic
	}
	if *f.staticBase != "" {
		overrides.StaticBasePath = f.staticBase
	}
	if *f.baseURL != "" {
		overrides.BaseURL = f.baseURL
	}

	return overrides
}

func serve(cfg config.Config) {
	logger, err := logging.New(cfg.Site.Debug)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("configuration loaded", zap.Any("site", cfg.Site.Redacted()))
	if cfg.Site.Debug {
		logger.Warn("debug_mode is enabled; disable it for production deployments")
	}

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), cfg.Server.ShutdownGracePeriod, logger)
}

// writeEffective prints the redacted configuration as YAML.
func writeEffective(w io.Writer, cfg config.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg.Redacted()); err != nil {
		return fmt.Errorf("encode configuration: %w", err)
	}
	return enc.Close()
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
