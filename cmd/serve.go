package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/omriShneor/booking_assistant/internal/config"
	"github.com/omriShneor/booking_assistant/internal/logging"
	"github.com/omriShneor/booking_assistant/internal/server"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	var (
		port    int
		dbPath  string
		devMode bool
		offline bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API that serves /chat and the calendar endpoints.

Calendar backend:
  GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE selects a service account.
  Otherwise the OAuth token in GOOGLE_TOKEN_FILE is used (see the auth command).
  Without credentials, or with --offline, bookings go to an in-memory calendar.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadFromEnv()
			if cmd.Flags().Changed("port") {
				cfg.HTTPPort = port
			}
			if cmd.Flags().Changed("db") {
				cfg.DBPath = dbPath
			}
			if devMode {
				cfg.DevMode = true
			}
			return runServe(cmd.Context(), cfg, offline)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8000, "HTTP port (overrides ASSISTANT_HTTP_PORT)")
	cmd.Flags().StringVar(&dbPath, "db", "./assistant.db", "SQLite audit log path (overrides ASSISTANT_DB_PATH)")
	cmd.Flags().BoolVar(&devMode, "dev", false, "Human-readable debug logging")
	cmd.Flags().BoolVar(&offline, "offline", false, "Use the in-memory calendar")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, offline bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := logging.New(cfg.DevMode)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	a, err := newApp(ctx, cfg, logger, appOptions{offline: offline, audit: true})
	if err != nil {
		return err
	}
	defer a.Close()

	srv := server.New(server.ServerConfig{
		Assistant:         a.orchestrator,
		Calendar:          a.calendar,
		CalendarID:        a.calendarID,
		DB:                a.db,
		NotifyService:     a.notify,
		Metrics:           a.metrics,
		Logger:            logger,
		Port:              cfg.HTTPPort,
		Location:          a.location,
		ChatRatePerMinute: cfg.ChatRatePerMinute,
		ChatRateBurst:     cfg.ChatRateBurst,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
		LLMConfigured:     a.llmConfigured(),
		Environment:       environmentStatus(cfg),
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	logger.Info("services initialized",
		zap.Int("port", cfg.HTTPPort),
		zap.String("calendar_id", a.calendarID),
		zap.Bool("llm", a.llmConfigured()),
		zap.Bool("email", a.notify.IsEmailAvailable()))

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	case <-sigCtx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}
	return nil
}
