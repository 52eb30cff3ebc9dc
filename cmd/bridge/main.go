// cmd/bridge/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/techdisc-bridge/internal/api"
	"github.com/techdisc-bridge/internal/config"
	"github.com/techdisc-bridge/internal/coordinator"
	"github.com/techdisc-bridge/internal/metrics"
	"github.com/techdisc-bridge/internal/techdisc"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: bridge <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	config.Normalize(cfg)

	if cfg.Bridge.Log.File != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   cfg.Bridge.Log.File,
			MaxSize:    cfg.Bridge.Log.MaxSizeMB,
			MaxBackups: cfg.Bridge.Log.MaxBackups,
		})
	}

	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Upstream client + one-time credential check (fail fast at startup)
	// --------------------

	endpoint := cfg.Bridge.API.Endpoint
	if endpoint == "" {
		endpoint = techdisc.DefaultEndpoint
	}

	client, err := techdisc.NewClient(techdisc.Config{
		Endpoint: endpoint,
		Token:    cfg.Bridge.API.Token,
		Timeout:  time.Duration(cfg.Bridge.API.TimeoutSec) * time.Second,
	})
	if err != nil {
		log.Fatalf("client build failed: %v", err)
	}

	if err := client.ValidateCredential(ctx); err != nil {
		if errors.Is(err, techdisc.ErrInvalidCredential) {
			log.Fatalf("credential check failed: %v", err)
		}
		log.Fatalf("credential check could not reach API: %v", err)
	}

	// --------------------
	// Coordinator + HTTP surface
	// --------------------

	hub := api.NewHub()

	coord, err := coordinator.New(client, coordinator.Config{
		Interval:  time.Duration(cfg.Bridge.Poll.IntervalMs) * time.Millisecond,
		Publisher: hub,
	})
	if err != nil {
		log.Fatalf("coordinator build failed: %v", err)
	}

	srv := &http.Server{
		Addr:    cfg.Bridge.Server.Listen,
		Handler: api.NewServer(coord, hub),
	}

	go func() {
		log.Printf("serving readings on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server failed: %v", err)
		}
	}()

	// First refresh before the ticker loop so readings are available as soon
	// as the device has a throw to report.
	if out := coord.PollOnce(ctx); out.Err != nil {
		log.Printf("initial poll: %v", out.Err)
	}

	coord.Run(ctx)

	// --------------------
	// Drain
	// --------------------

	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
}
