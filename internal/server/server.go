package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/omriShneor/booking_assistant/internal/agent"
	"github.com/omriShneor/booking_assistant/internal/assistant"
	"github.com/omriShneor/booking_assistant/internal/database"
	"github.com/omriShneor/booking_assistant/internal/logging"
	"github.com/omriShneor/booking_assistant/internal/metrics"
	"github.com/omriShneor/booking_assistant/internal/notify"
)

const (
	version         = "1.0.0"
	maxChatBodySize = 64 << 10
)

type Server struct {
	assistant     *assistant.Orchestrator
	calendar      agent.CalendarBackend
	calendarID    string
	db            *database.DB
	notifyService *notify.Service
	metrics       *metrics.Metrics
	logger        *zap.Logger
	chatLimiter   *ipRateLimiter
	trustProxy    bool
	location      *time.Location
	llmConfigured bool
	environment   map[string]string
	now           func() time.Time
	httpSrv       *http.Server
	port          int
}

// ServerConfig holds the collaborators the HTTP layer exposes.
type ServerConfig struct {
	Assistant     *assistant.Orchestrator
	Calendar      agent.CalendarBackend
	CalendarID    string
	DB            *database.DB
	NotifyService *notify.Service
	Metrics       *metrics.Metrics
	Logger        *zap.Logger
	Port          int
	Location      *time.Location

	// Per client IP on /chat. Zero disables limiting.
	ChatRatePerMinute int
	ChatRateBurst     int
	// TrustProxyHeaders keys the limiter on X-Forwarded-For / X-Real-IP
	// instead of the connection address. Clients can set those headers
	// freely, so enable it only behind a proxy that overwrites them.
	TrustProxyHeaders bool

	LLMConfigured bool
	// Environment is reported by /debug, already redacted.
	Environment map[string]string
}

func New(cfg ServerConfig) *Server {
	s := &Server{
		assistant:     cfg.Assistant,
		calendar:      cfg.Calendar,
		calendarID:    cfg.CalendarID,
		db:            cfg.DB,
		notifyService: cfg.NotifyService,
		metrics:       cfg.Metrics,
		logger:        logging.OrNop(cfg.Logger).Named("http"),
		chatLimiter:   newIPRateLimiter(cfg.ChatRatePerMinute, cfg.ChatRateBurst, defaultMaxTrackedClients),
		trustProxy:    cfg.TrustProxyHeaders,
		location:      cfg.Location,
		llmConfigured: cfg.LLMConfigured,
		environment:   cfg.Environment,
		now:           time.Now,
		port:          cfg.Port,
	}
	if s.location == nil {
		s.location = time.Local
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.corsMiddleware(s.loggingMiddleware(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /health", s.handleHealthCheck)
	mux.HandleFunc("GET /debug", s.handleDebug)

	// Conversation
	mux.Handle("POST /chat", s.rateLimit(http.HandlerFunc(s.handleChat)))

	// Calendar
	mux.HandleFunc("GET /events", s.handleListEvents)
	mux.HandleFunc("DELETE /events/{id}", s.handleDeleteEvent)
	mux.HandleFunc("POST /test-event", s.handleCreateTestEvent)

	// Audit log
	mux.HandleFunc("GET /sessions/{id}/turns", s.handleListTurns)
	mux.HandleFunc("GET /bookings", s.handleListBookings)

	mux.Handle("GET /metrics", s.metrics.Handler())
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", fmt.Sprintf("http://localhost:%d", s.port)))
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler returns the server's HTTP handler for testing purposes
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}
