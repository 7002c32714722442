package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/deskmate/deskmate/internal/agent"
	"github.com/deskmate/deskmate/internal/google"
	"github.com/deskmate/deskmate/internal/instrumentation"
	"github.com/deskmate/deskmate/internal/notion"
	"github.com/deskmate/deskmate/internal/server"
	"github.com/deskmate/deskmate/internal/session"
	"github.com/deskmate/deskmate/internal/tools"
	"github.com/deskmate/deskmate/internal/tools/calendar_tools"
	"github.com/deskmate/deskmate/internal/tools/docs_tools"
	"github.com/deskmate/deskmate/internal/tools/mail_tools"
	"github.com/deskmate/deskmate/internal/tools/notes_tools"
	"github.com/deskmate/deskmate/internal/tools/sheets_tools"
	"github.com/deskmate/deskmate/internal/tools/tasks_tools"
)

// serveConfig collects everything the serve command needs to boot.
type serveConfig struct {
	Transport          string
	HTTPAddr           string
	Debug              bool
	GeminiAPIKey       string
	GeminiModel        string
	GoogleClientID     string
	GoogleClientSecret string
	NotionToken        string
	SessionTTL         time.Duration
	MetricsEnabled     bool
	MetricsAddr        string
}

func newServeCmd() *cobra.Command {
	var cfg serveConfig

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the assistant server",
		Long: `Start the deskmate assistant server.

Supports multiple transport types:
  - http: HTTP server with /chat, /mail/send, /mail/draft and /health (default)
  - stdio: MCP (Model Context Protocol) server over standard input/output

Configuration:
  Google OAuth:
    --google-client-id and --google-client-secret flags
    OR GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET env vars
    Tokens are stored per account via the auth command.

  Reasoning backend:
    --gemini-api-key flag OR GEMINI_API_KEY env var (required)

  Notion (optional):
    --notion-token flag OR NOTION_TOKEN env var`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.Transport, "transport", "http", "Transport type: http or stdio")
	cmd.Flags().StringVar(&cfg.HTTPAddr, "addr", ":8080", "HTTP server address (for http transport)")
	cmd.Flags().BoolVar(&cfg.Debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&cfg.GeminiAPIKey, "gemini-api-key", "", "Gemini API key for the reasoning backend. Can also use GEMINI_API_KEY env var.")
	cmd.Flags().StringVar(&cfg.GeminiModel, "gemini-model", agent.DefaultGeminiModel, "Gemini model used for reasoning")
	cmd.Flags().StringVar(&cfg.GoogleClientID, "google-client-id", "", "Google OAuth Client ID. Can also use GOOGLE_CLIENT_ID env var.")
	cmd.Flags().StringVar(&cfg.GoogleClientSecret, "google-client-secret", "", "Google OAuth Client Secret. Can also use GOOGLE_CLIENT_SECRET env var.")
	cmd.Flags().StringVar(&cfg.NotionToken, "notion-token", "", "Notion integration token. Can also use NOTION_TOKEN env var.")
	cmd.Flags().DurationVar(&cfg.SessionTTL, "session-ttl", session.DefaultTTL, "Idle time after which a conversation session is evicted")
	cmd.Flags().BoolVar(&cfg.MetricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runServe(cfg serveConfig) error {
	// Graceful shutdown on SIGINT/SIGTERM.
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	loadServeEnv(&cfg)

	// On stdio transport stdout carries the protocol, so logs must go
	// to stderr only.
	logger := newLogger(cfg.Debug)
	slog.SetDefault(logger)

	if cfg.GoogleClientID != "" || cfg.GoogleClientSecret != "" {
		google.SetOAuthCredentials(cfg.GoogleClientID, cfg.GoogleClientSecret)
	}

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Warn("instrumentation shutdown failed", "error", err)
		}
	}()

	var metrics *instrumentation.Metrics
	if provider.Enabled() {
		metrics = provider.Metrics()
	}

	store := session.NewStore(cfg.SessionTTL, logger)
	store.SetMetrics(metrics)
	defer store.Stop()

	sc := server.NewServerContext(shutdownCtx, store, metrics, logger)
	defer sc.Shutdown()

	if cfg.NotionToken != "" {
		notionClient, err := notion.NewClient(cfg.NotionToken)
		if err != nil {
			return fmt.Errorf("failed to create Notion client: %w", err)
		}
		sc.SetNotionClient(notionClient)
	}

	registry := tools.NewRegistry(logger)
	if metrics != nil {
		registry.SetMetrics(metrics)
	}
	if err := registerToolFamilies(registry, sc); err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}
	registry.Seal()

	health := server.NewHealthChecker(sc)

	var metricsServer *server.MetricsServer
	if cfg.Transport != "stdio" && cfg.MetricsEnabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(cfg.MetricsAddr, provider, health)
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Warn("metrics server shutdown failed", "error", err)
			}
		}()
		logger.Info("metrics server listening", "addr", metricsServer.Addr())
	}

	switch cfg.Transport {
	case "stdio":
		mcpSrv := server.NewMCPServer("deskmate", version, registry)
		return server.ServeStdio(mcpSrv)
	case "http":
		backend, err := agent.NewGeminiBackend(shutdownCtx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return fmt.Errorf("failed to create reasoning backend: %w", err)
		}
		executor := agent.NewExecutor(backend, registry, store, metrics, logger)
		api := server.NewAPI(sc, executor, registry)
		return runHTTPServer(shutdownCtx, cfg.HTTPAddr, api, health, logger)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: http, stdio)", cfg.Transport)
	}
}

func runHTTPServer(ctx context.Context, addr string, api *server.API, health *server.HealthChecker, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/", api.Handler())
	health.RegisterHealthEndpoints(mux)

	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", addr)
		health.SetReady(true)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	health.SetReady(false)
	logger.Info("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}

// registerToolFamilies registers every tool family on the registry.
func registerToolFamilies(registry *tools.Registry, sc *server.ServerContext) error {
	type registration struct {
		name     string
		register func(*tools.Registry, *server.ServerContext) error
	}

	registrations := []registration{
		{name: "mail", register: mail_tools.Register},
		{name: "calendar", register: calendar_tools.Register},
		{name: "sheets", register: sheets_tools.Register},
		{name: "docs", register: docs_tools.Register},
		{name: "tasks", register: tasks_tools.Register},
		{name: "notes", register: notes_tools.Register},
	}

	for _, reg := range registrations {
		if err := reg.register(registry, sc); err != nil {
			return fmt.Errorf("failed to register %s tools: %w", reg.name, err)
		}
	}
	return nil
}

// loadServeEnv fills unset config fields from environment variables.
func loadServeEnv(cfg *serveConfig) {
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.GoogleClientID == "" {
		cfg.GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	}
	if cfg.GoogleClientSecret == "" {
		cfg.GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}
	if cfg.NotionToken == "" {
		cfg.NotionToken = os.Getenv("NOTION_TOKEN")
	}
	if os.Getenv("METRICS_ENABLED") == "false" {
		cfg.MetricsEnabled = false
	}
	if cfg.MetricsAddr == server.DefaultMetricsAddr {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			cfg.MetricsAddr = addr
		}
	}
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
