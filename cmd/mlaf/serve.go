package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mulagohealth/mlaf/internal/api"
	"github.com/mulagohealth/mlaf/internal/auth"
	"github.com/mulagohealth/mlaf/internal/config"
	"github.com/mulagohealth/mlaf/internal/db"
	"github.com/mulagohealth/mlaf/internal/store"
)

var (
	flagConfig string
	flagAddr   string
	flagDB     string
	flagLog    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MLAF API server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "config file (default: ./config.yaml if present)")
	serveCmd.Flags().StringVarP(&flagAddr, "addr", "a", "", "listen address (default: "+config.DefaultAddr+")")
	serveCmd.Flags().StringVarP(&flagDB, "db", "d", "", "SQLite database path (default: "+config.DefaultDBPath+")")
	serveCmd.Flags().StringVarP(&flagLog, "log", "l", "", "log file path (default: stdout/stderr only)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	// Flags beat env and file.
	if cmd.Flags().Changed("addr") {
		cfg.Addr = flagAddr
	}
	if cmd.Flags().Changed("db") {
		cfg.DBPath = flagDB
	}
	if cmd.Flags().Changed("log") {
		cfg.LogFile = flagLog
	}

	// Set up structured logging: INFO/WARN → stdout, ERROR → stderr.
	// Optionally also write to a log file.
	closeLog, err := setupLogger(cfg.LogFile)
	if err != nil {
		return err
	}
	if closeLog != nil {
		defer closeLog()
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	// Ensure schema exists (idempotent).
	if err := db.EnsureSchema(database); err != nil {
		slog.Error("failed to ensure database schema", "error", err)
		os.Exit(1)
	}

	slog.Info("database ready", "path", cfg.DBPath)

	ctx := context.Background()

	// JWT secret: configured value, or one persisted in the database
	// (auto-generated on first run so tokens survive restarts).
	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		jwtSecret, err = store.GetJWTSecret(ctx, database)
		if err != nil {
			slog.Error("failed to get JWT secret", "error", err)
			os.Exit(1)
		}
	}

	// Provision the bootstrap admin before accepting traffic, so a
	// configured admin always exists by the time the first request lands.
	// Best-effort: failures are logged inside, never fatal.
	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		hash, err := auth.HashPassword(cfg.AdminPassword)
		if err != nil {
			slog.Warn("failed to hash bootstrap admin password", "error", err)
		} else {
			store.BootstrapAdmin(ctx, database, cfg.AdminUsername, hash)
		}
	}

	handler := api.LoggingMiddleware(api.NewRouter(database, jwtSecret))

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped, closing database")
	return nil
}
