package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/omriShneor/booking_assistant/internal/agent"
	"github.com/omriShneor/booking_assistant/internal/assistant"
	"github.com/omriShneor/booking_assistant/internal/config"
	"github.com/omriShneor/booking_assistant/internal/database"
	"github.com/omriShneor/booking_assistant/internal/gcal"
	"github.com/omriShneor/booking_assistant/internal/llm"
	"github.com/omriShneor/booking_assistant/internal/metrics"
	"github.com/omriShneor/booking_assistant/internal/notify"
	"github.com/omriShneor/booking_assistant/internal/session"
	"github.com/omriShneor/booking_assistant/internal/timeutil"
)

const memoryCalendarID = "memory"

// app holds the wired collaborators shared by serve and chat.
type app struct {
	cfg          *config.Config
	logger       *zap.Logger
	location     *time.Location
	db           *database.DB
	calendar     agent.CalendarBackend
	calendarID   string
	generator    llm.Generator
	notify       *notify.Service
	metrics      *metrics.Metrics
	orchestrator *assistant.Orchestrator
}

type appOptions struct {
	// offline uses the in-memory calendar regardless of credentials.
	offline bool
	// audit opens the SQLite audit log.
	audit bool
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts appOptions) (*app, error) {
	a := &app{cfg: cfg, logger: logger, metrics: metrics.New()}

	loc, fellBack := timeutil.ResolveLocation(cfg.Timezone)
	if fellBack && cfg.Timezone != "" {
		logger.Warn("unknown timezone, using UTC", zap.String("timezone", cfg.Timezone))
	}
	a.location = loc

	if opts.audit {
		db, err := database.New(cfg.DBPath, logger.Named("database"))
		if err != nil {
			return nil, fmt.Errorf("creating database: %w", err)
		}
		a.db = db
	}

	calendar, calendarID, err := initCalendar(ctx, cfg, loc, logger, opts.offline)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.calendar = calendar
	a.calendarID = calendarID

	generator, err := llm.New(ctx, llm.Options{
		Provider:    cfg.LLMProvider,
		GeminiKey:   cfg.GeminiAPIKey,
		GeminiModel: cfg.GeminiModel,
		ClaudeKey:   cfg.AnthropicAPIKey,
		ClaudeModel: cfg.ClaudeModel,
		Temperature: cfg.ClaudeTemperature,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("creating language model client: %w", err)
	}
	if _, disabled := generator.(llm.Disabled); disabled {
		logger.Warn("language model not configured, general questions get a canned reply",
			zap.String("provider", cfg.LLMProvider))
	}
	a.generator = generator

	a.notify = initNotifyService(cfg, logger)

	sessions := session.NewMemoryStore(session.MemoryStoreConfig{
		MaxSessions: cfg.MaxSessions,
		IdleTTL:     cfg.SessionTTL,
		Logger:      logger,
	})

	orchCfg := assistant.Config{
		Calendar:    a.calendar,
		Generator:   a.generator,
		Sessions:    sessions,
		Notifier:    a.notify,
		Metrics:     a.metrics,
		Logger:      logger,
		Location:    loc,
		HistorySize: cfg.MessageHistorySize,
		TurnTimeout: cfg.TurnTimeout,
	}
	if a.db != nil {
		orchCfg.Recorder = a.db
	}

	orch, err := assistant.New(orchCfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("creating assistant: %w", err)
	}
	a.orchestrator = orch

	return a, nil
}

// Close releases the database and the language model client.
func (a *app) Close() {
	if closer, ok := a.generator.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			a.logger.Warn("closing language model client", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("closing database", zap.Error(err))
		}
	}
}

func (a *app) llmConfigured() bool {
	_, disabled := a.generator.(llm.Disabled)
	return a.generator != nil && !disabled
}

// initCalendar picks the calendar backend: service account credentials win,
// then an authorized OAuth token. Without either the in-memory calendar is
// used so the assistant still runs.
func initCalendar(ctx context.Context, cfg *config.Config, loc *time.Location, logger *zap.Logger, offline bool) (agent.CalendarBackend, string, error) {
	if offline {
		logger.Info("using in-memory calendar (offline)")
		return gcal.NewMemoryCalendar(loc), memoryCalendarID, nil
	}

	opts := gcal.Options{CalendarID: cfg.CalendarID, Location: loc, Logger: logger}

	if cfg.HasServiceAccount() {
		var client *gcal.Client
		var err error
		if cfg.GoogleServiceAccountJSON != "" {
			client, err = gcal.NewServiceAccountClient(ctx, []byte(cfg.GoogleServiceAccountJSON), opts)
		} else {
			client, err = gcal.NewServiceAccountClientFromFile(ctx, cfg.GoogleServiceAccountFile, opts)
		}
		if err != nil {
			return nil, "", fmt.Errorf("creating Google Calendar client: %w", err)
		}
		logger.Info("Google Calendar configured (service account)", zap.String("calendar_id", client.CalendarID()))
		return client, client.CalendarID(), nil
	}

	client, err := gcal.NewClient(cfg.GoogleCredentialsFile, cfg.GoogleTokenFile, opts)
	if err != nil {
		logger.Warn("Google Calendar not configured, using in-memory calendar", zap.Error(err))
		return gcal.NewMemoryCalendar(loc), memoryCalendarID, nil
	}
	if !client.IsAuthenticated() {
		logger.Warn("Google Calendar not authorized, using in-memory calendar. Run the auth command to connect.")
		return gcal.NewMemoryCalendar(loc), memoryCalendarID, nil
	}

	logger.Info("Google Calendar configured (OAuth)", zap.String("calendar_id", client.CalendarID()))
	return client, client.CalendarID(), nil
}

func initNotifyService(cfg *config.Config, logger *zap.Logger) *notify.Service {
	var emailNotifier notify.Notifier
	if resendNotifier := notify.NewResendNotifier(cfg.ResendAPIKey, cfg.EmailFrom); resendNotifier != nil {
		emailNotifier = resendNotifier
		logger.Info("email notification service configured (Resend)")
	}
	if emailNotifier != nil && cfg.NotifyEmail == "" {
		logger.Warn("RESEND_API_KEY set but ASSISTANT_NOTIFY_EMAIL is empty, booking emails disabled")
	}

	return notify.NewService(emailNotifier, cfg.NotifyEmail, logger)
}

// environmentStatus reports which settings are present without their values.
func environmentStatus(cfg *config.Config) map[string]string {
	set := func(v string) string {
		if v != "" {
			return "✅ Set"
		}
		return "❌ Not set"
	}

	timezone := cfg.Timezone
	if timezone == "" {
		timezone = "Not set (using UTC)"
	}

	return map[string]string{
		"GOOGLE_SERVICE_ACCOUNT_JSON": set(cfg.GoogleServiceAccountJSON),
		"GOOGLE_SERVICE_ACCOUNT_FILE": set(cfg.GoogleServiceAccountFile),
		"GEMINI_API_KEY":              set(cfg.GeminiAPIKey),
		"ANTHROPIC_API_KEY":           set(cfg.AnthropicAPIKey),
		"RESEND_API_KEY":              set(cfg.ResendAPIKey),
		"ASSISTANT_LLM_PROVIDER":      cfg.LLMProvider,
		"TIMEZONE":                    timezone,
	}
}
