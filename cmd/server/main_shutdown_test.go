package main

import (
	"errors"
	"net"
	"net/http"
	"os"
	osSignal "os/signal"
	"syscall"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/eugenenazirov/site-overlay/internal/application"
	"github.com/eugenenazirov/site-overlay/internal/config"
)

func sendSignal(t *testing.T, sig os.Signal) {
	t.Helper()
	t.Cleanup(func() {
		signalNotify = osSignal.Notify
	})

	signalNotify = func(ch chan<- os.Signal, _ ...os.Signal) {
		go func() {
			ch <- sig
		}()
	}
}

func TestShutdownStopsApplicationServer(t *testing.T) {
	for _, name := range []string{"PORT", "SITE_SECRET_KEY", "SITE_DEBUG", "SITE_BASE_URL", "SITE_ALLOWED_HOSTS"} {
		t.Setenv(name, "")
	}
	grace := 200 * time.Millisecond
	cfg, err := config.Load(&config.CLIOverrides{Debug: ptrTo(true)})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	cfg.Server.ShutdownGracePeriod = grace

	app, err := application.New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("application.New returned error: %v", err)
	}
	called := make(chan struct{}, 1)
	app.Server().RegisterOnShutdown(func() {
		called <- struct{}{}
	})

	sendSignal(t, syscall.SIGINT)
	shutdown(app.Server(), cfg.Server.ShutdownGracePeriod, zaptest.NewLogger(t))

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatalf("expected server shutdown callback to execute")
	}
	if err := app.Server().ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		t.Fatalf("expected closed server, got %v", err)
	}
}

func TestShutdownForcesCloseAfterGracePeriod(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	server := &http.Server{
		Handler: http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			close(entered)
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}),
		ReadHeaderTimeout: time.Second,
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	served := make(chan error, 1)
	go func() {
		served <- server.Serve(ln)
	}()

	requestDone := make(chan error, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/slow")
		if err == nil {
			_ = resp.Body.Close()
		}
		requestDone <- err
	}()
	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatalf("request never reached the handler")
	}

	core, logs := observer.New(zap.WarnLevel)
	sendSignal(t, syscall.SIGTERM)
	shutdown(server, 20*time.Millisecond, zap.New(core))

	if logs.FilterMessage("graceful shutdown failed").Len() != 1 {
		t.Fatalf("expected graceful shutdown failure to be logged, got %v", logs.All())
	}
	select {
	case err := <-served:
		if !errors.Is(err, http.ErrServerClosed) {
			t.Fatalf("expected ErrServerClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("server did not stop")
	}
	select {
	case err := <-requestDone:
		if err == nil {
			t.Fatalf("expected in-flight request to be cut off")
		}
	case <-time.After(time.Second):
		t.Fatalf("in-flight request did not finish")
	}
}

func ptrTo[T any](v T) *T {
	return &v
}
