// Package main is the entry point for the weekly time tracker server.
package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/weekly-tracker/backend/internal/api"
	"github.com/weekly-tracker/backend/internal/config"
	"github.com/weekly-tracker/backend/internal/navigation"
	"github.com/weekly-tracker/backend/internal/settings"
	"github.com/weekly-tracker/backend/internal/storage"
	"github.com/weekly-tracker/backend/internal/websocket"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
// Defaults to "dev" when not provided.
var version = "dev"

type serverFlags struct {
	configPath  string
	addr        string
	dataDir     string
	staticDir   string
	timezone    string
	healthCheck bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f serverFlags

	cmd := &cobra.Command{
		Use:     "weekly-tracker",
		Short:   "Weekly time tracker server",
		Long:    "Serves the weekly time tracker API and UI. Every week boundary is computed on the server in one configured timezone.",
		Version: version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}

			// Health check mode for Docker HEALTHCHECK
			if f.healthCheck {
				return runHealthCheck(cfg.Listen)
			}

			return runServer(cfg)
		},
	}

	cmd.PersistentFlags().StringVar(&f.configPath, "config", "", "Path to YAML config file (created with defaults if missing)")
	cmd.PersistentFlags().StringVar(&f.timezone, "timezone", "", "Timezone seeded on first boot and used by the week command")
	cmd.Flags().StringVar(&f.addr, "addr", config.DefaultListen, "HTTP server address")
	cmd.Flags().StringVar(&f.dataDir, "data", config.DefaultDataDir, "Data directory for SQLite database")
	cmd.Flags().StringVar(&f.staticDir, "static", config.DefaultStaticDir, "Directory for static frontend files")
	cmd.Flags().BoolVar(&f.healthCheck, "health-check", false, "Run health check and exit")

	cmd.AddCommand(newWeekCmd(&f))

	return cmd
}

// loadConfig reads the config file, if any, and applies flags the user set
// explicitly on top of it.
func loadConfig(cmd *cobra.Command, f serverFlags) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Listen = f.addr
	}
	if flags.Changed("data") {
		cfg.DataDir = f.dataDir
	}
	if flags.Changed("static") {
		cfg.StaticDir = f.staticDir
	}
	if flags.Changed("timezone") {
		cfg.DefaultTimezone = f.timezone
	}
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func runServer(cfg *config.Config) error {
	// Allow overriding version via environment (e.g., injected by container build/runtime)
	if envVer := os.Getenv("VERSION"); envVer != "" {
		version = envVer
	}

	log.Printf("Starting weekly time tracker (version: %s)...", version)

	db, err := storage.OpenDataDir(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening database in %s: %w", cfg.DataDir, err)
	}
	defer db.Close()
	log.Printf("Database migrations complete (%s)", db.Path())

	settingsRepo := storage.NewSettingsRepository(db)

	// A broken stored timezone is reported by /api/health and fixed through
	// PUT /api/settings/timezone, so the server still starts.
	zones := settings.NewTimezone(settingsRepo, cfg.DefaultTimezone)
	if err := zones.Load(context.Background()); err != nil {
		log.Printf("Warning: Failed to load timezone setting: %v", err)
	}
	log.Printf("Using timezone %s", zones.Get())

	// Initialize WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	nav := navigation.NewService(zones)

	rollover := navigation.NewRolloverScheduler(nav, websocket.NewEventBroadcaster(hub), cfg.RolloverSpec)
	zones.OnChange(rollover.TimezoneChanged)
	if err := rollover.Start(); err != nil {
		return err
	}

	router := api.NewRouter(api.Services{
		DB:         db,
		Settings:   settingsRepo,
		Timezone:   zones,
		Navigation: nav,
		Hub:        hub,
		Rollover:   rollover,
		StaticDir:  cfg.StaticDir,
	})

	server := &http.Server{
		Addr:         cfg.Listen,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", cfg.Listen)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-errCh:
		rollover.Stop()
		hub.Stop()
		return fmt.Errorf("server error: %w", err)
	}

	log.Println("Shutting down server...")

	rollover.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	hub.Stop()

	log.Println("Server stopped")
	return nil
}

// runHealthCheck performs a health check against the running server.
func runHealthCheck(addr string) error {
	resp, err := http.Get(healthURL(addr))
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: %s", resp.Status)
	}
	return nil
}

// healthURL turns a listen address such as ":8099" or "0.0.0.0:8099" into a
// URL reachable from the same host.
func healthURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://localhost" + addr + "/api/health"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + "/api/health"
}
