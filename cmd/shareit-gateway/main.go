package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/erazemk/shareit/internal/config"
	"github.com/erazemk/shareit/internal/gateway"
	"github.com/erazemk/shareit/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet("shareit-gateway", flag.ExitOnError)
	addr := fs.String("addr", cfg.Gateway.Addr, "listen address")
	serverURL := fs.String("server", cfg.Gateway.ServerURL, "ShareIt server base URL")
	fs.Parse(os.Args[1:])
	cfg.Gateway.Addr = *addr
	cfg.Gateway.ServerURL = *serverURL

	logger, err := logging.New(cfg.Environment, cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck
	zap.ReplaceGlobals(logger)

	if err := cfg.ValidateGateway(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}
	if cfg.Gateway.Secret == "" {
		logger.Warn("gateway.secret is empty, forwarding requests without service tokens")
	}

	g, err := gateway.New(gateway.Options{
		ServerURL: cfg.Gateway.ServerURL,
		Secret:    cfg.Gateway.Secret,
		RateLimit: cfg.Gateway.RateLimit,
		RateBurst: cfg.Gateway.RateBurst,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("creating gateway", zap.Error(err))
	}

	server := &http.Server{
		Addr:              cfg.Gateway.Addr,
		Handler:           g.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("gateway forced to shutdown", zap.Error(err))
		}
	}()

	logger.Info("gateway started",
		zap.String("addr", cfg.Gateway.Addr),
		zap.String("server", cfg.Gateway.ServerURL),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("gateway error", zap.Error(err))
	}
	logger.Info("gateway stopped")
}
