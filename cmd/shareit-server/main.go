package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/erazemk/shareit/internal/api"
	"github.com/erazemk/shareit/internal/config"
	"github.com/erazemk/shareit/internal/db"
	"github.com/erazemk/shareit/internal/logging"
	"github.com/erazemk/shareit/internal/service"
	"github.com/erazemk/shareit/internal/store"
)

const usage = "Usage: shareit-server <init|serve> [flags]"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Environment, cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck
	zap.ReplaceGlobals(logger)

	switch os.Args[1] {
	case "init":
		err = cmdInit(cfg, logger, os.Args[2:])
	case "serve":
		err = cmdServe(cfg, logger, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n%s\n", os.Args[1], usage)
		os.Exit(1)
	}
	if err != nil {
		logger.Error("command failed", zap.String("command", os.Args[1]), zap.Error(err))
		os.Exit(1)
	}
}

func cmdInit(cfg *config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	dbPath := fs.String("db", cfg.Server.DBPath, "path to SQLite database file")
	fs.Parse(args)

	if _, err := os.Stat(*dbPath); err == nil {
		return fmt.Errorf("database file %s already exists", *dbPath)
	}

	database, secret, err := initDatabase(*dbPath, logger)
	if err != nil {
		return err
	}
	database.Close()

	fmt.Printf("Database created: %s\n", *dbPath)
	fmt.Println("Schema migrated.")
	fmt.Println()
	fmt.Println("Gateway secret:")
	fmt.Printf("  %s\n", secret)
	fmt.Println()
	fmt.Println("Set SHAREIT_GATEWAY_SECRET to this value for the gateway.")
	return nil
}

func cmdServe(cfg *config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	dbPath := fs.String("db", cfg.Server.DBPath, "path to SQLite database file")
	addr := fs.String("addr", cfg.Server.Addr, "listen address")
	fs.Parse(args)

	cfg.Server.DBPath = *dbPath
	cfg.Server.Addr = *addr
	if err := cfg.ValidateServer(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	database, err := db.Open(cfg.Server.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx, database, logger); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	logger.Info("database ready", zap.String("path", cfg.Server.DBPath))

	repo := store.New(database)

	secret := cfg.Server.GatewaySecret
	if secret == "" {
		secret, err = repo.GatewaySecret(ctx)
		if err != nil {
			return err
		}
	}

	opts := []service.Option{
		service.WithLogger(logger),
		service.WithOverlapPrevention(cfg.Booking.PreventOverlap),
	}
	router := api.NewRouter(api.Services{
		Users:    service.NewUserService(repo, opts...),
		Items:    service.NewItemService(repo, opts...),
		Bookings: service.NewBookingService(repo, opts...),
		Requests: service.NewRequestService(repo, opts...),
	}, secret)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.LoggingMiddleware(logger)(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return run(server, logger)
}

// run serves until SIGINT or SIGTERM and then shuts down gracefully.
func run(server *http.Server, logger *zap.Logger) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	logger.Info("server started", zap.String("addr", server.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info("server stopped, closing database")
	return nil
}

// initDatabase creates a new database, migrates it and stores the gateway
// secret.
func initDatabase(path string, logger *zap.Logger) (*sql.DB, string, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening database: %w", err)
	}

	ctx := context.Background()
	if err := db.Migrate(ctx, database, logger); err != nil {
		database.Close()
		os.Remove(path)
		return nil, "", fmt.Errorf("running migrations: %w", err)
	}

	secret, err := store.New(database).GatewaySecret(ctx)
	if err != nil {
		database.Close()
		os.Remove(path)
		return nil, "", err
	}

	return database, secret, nil
}
