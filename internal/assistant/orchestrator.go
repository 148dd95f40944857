// Package assistant runs a conversation turn: it classifies the message,
// extracts booking fields, merges them into the session and dispatches to
// the handler for the intent.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/omriShneor/booking_assistant/internal/agent"
	"github.com/omriShneor/booking_assistant/internal/agent/extract"
	"github.com/omriShneor/booking_assistant/internal/agent/intents"
	"github.com/omriShneor/booking_assistant/internal/database"
	"github.com/omriShneor/booking_assistant/internal/llm"
	"github.com/omriShneor/booking_assistant/internal/logging"
	"github.com/omriShneor/booking_assistant/internal/metrics"
	"github.com/omriShneor/booking_assistant/internal/notify"
	"github.com/omriShneor/booking_assistant/internal/session"
)

const (
	DefaultHistorySize = 25
	DefaultTurnTimeout = 30 * time.Second
)

// Classifier maps a message to an intent.
type Classifier interface {
	Classify(message string) intents.RoutedIntent
}

// Recorder persists turns and booking attempts.
type Recorder interface {
	RecordTurn(turn database.TurnRecord) (int64, error)
	RecordBooking(booking database.BookingRecord) (int64, error)
}

// BookingNotifier is told about every confirmed booking.
type BookingNotifier interface {
	NotifyBooking(ctx context.Context, notice notify.BookingNotice)
}

// Response is the envelope returned for every turn.
type Response struct {
	Response         string   `json:"response"`
	BookingConfirmed bool     `json:"booking_confirmed"`
	AvailableSlots   []string `json:"available_slots"`
	SessionID        string   `json:"session_id"`
}

// Turn is the state a handler works on. Session is locked for the duration
// of the turn.
type Turn struct {
	Message string
	Session *session.Session
	Routed  intents.RoutedIntent
	Info    agent.BookingInfo
	Now     time.Time
}

// Config wires an Orchestrator. Calendar is required; nil optional
// collaborators are replaced with defaults or disabled.
type Config struct {
	Calendar    agent.CalendarBackend
	Generator   llm.Generator
	Sessions    session.Store
	Classifier  Classifier
	Recorder    Recorder
	Notifier    BookingNotifier
	Metrics     *metrics.Metrics
	Logger      *zap.Logger
	Location    *time.Location
	Now         func() time.Time
	HistorySize int
	TurnTimeout time.Duration
}

type Orchestrator struct {
	calendar    agent.CalendarBackend
	generator   llm.Generator
	sessions    session.Store
	classifier  Classifier
	recorder    Recorder
	notifier    BookingNotifier
	metrics     *metrics.Metrics
	logger      *zap.Logger
	location    *time.Location
	now         func() time.Time
	historySize int
	turnTimeout time.Duration

	locks    *session.KeyedMutex
	registry *Registry
}

func New(cfg Config) (*Orchestrator, error) {
	if cfg.Calendar == nil {
		return nil, errors.New("calendar backend is required")
	}

	o := &Orchestrator{
		calendar:    cfg.Calendar,
		generator:   cfg.Generator,
		sessions:    cfg.Sessions,
		classifier:  cfg.Classifier,
		recorder:    cfg.Recorder,
		notifier:    cfg.Notifier,
		metrics:     cfg.Metrics,
		logger:      logging.OrNop(cfg.Logger).Named("assistant"),
		location:    cfg.Location,
		now:         cfg.Now,
		historySize: cfg.HistorySize,
		turnTimeout: cfg.TurnTimeout,
		locks:       session.NewKeyedMutex(),
		registry:    NewRegistry(),
	}

	if o.generator == nil {
		o.generator = llm.Disabled{}
	}
	if o.sessions == nil {
		o.sessions = session.NewMemoryStore(session.MemoryStoreConfig{Logger: cfg.Logger})
	}
	if o.classifier == nil {
		o.classifier = intents.NewKeywordRouter()
	}
	if o.location == nil {
		o.location = time.Local
	}
	if o.now == nil {
		o.now = time.Now
	}
	if o.historySize == 0 {
		o.historySize = DefaultHistorySize
	}
	if o.turnTimeout == 0 {
		o.turnTimeout = DefaultTurnTimeout
	}

	o.registry.MustRegister(agent.IntentBookMeeting, HandlerFunc(o.handleBooking))
	o.registry.MustRegister(agent.IntentCheckAvailability, HandlerFunc(o.handleAvailability))
	o.registry.MustRegister(agent.IntentListMeetings, HandlerFunc(o.handleListMeetings))
	o.registry.MustRegister(agent.IntentCancelMeeting, HandlerFunc(o.handleCancelMeeting))
	o.registry.MustRegister(agent.IntentGeneral, HandlerFunc(o.handleGeneral))

	return o, nil
}

// Intents lists the intents the orchestrator can answer.
func (o *Orchestrator) Intents() []agent.Intent {
	return o.registry.List()
}

// Sessions exposes the session store.
func (o *Orchestrator) Sessions() session.Store {
	return o.sessions
}

// ProcessMessage runs one conversation turn. It never fails: internal errors
// and panics are logged and answered with a generic apology. An empty
// sessionID starts a new session whose generated ID is returned in the
// response.
func (o *Orchestrator) ProcessMessage(ctx context.Context, message, sessionID string) (resp Response) {
	started := time.Now()
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	unlock := o.locks.Lock(sessionID)
	defer unlock()

	if o.turnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.turnTimeout)
		defer cancel()
	}

	intent := "error"
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("turn panicked",
				zap.String("session_id", sessionID),
				zap.Any("panic", r),
				zap.Stack("stack"))
			resp = errorResponse(sessionID)
			intent = "error"
		}
		o.metrics.ObserveTurn(intent, time.Since(started))
	}()

	now := o.now().In(o.location)
	sess := o.loadSession(sessionID, now)

	routed := o.classifier.Classify(message)
	info := extract.Booking(message, now)
	sess.Pending.Merge(info)

	dispatch := o.route(routed.Intent, sess, info)
	intent = string(dispatch)

	o.logger.Debug("turn classified",
		zap.String("session_id", sessionID),
		zap.String("intent", string(routed.Intent)),
		zap.String("dispatch", string(dispatch)),
		zap.String("keyword", routed.Keyword),
		zap.Bool("has_datetime", info.DateTime != nil))

	turn := &Turn{Message: message, Session: sess, Routed: routed, Info: info, Now: now}

	handler, ok := o.registry.Get(dispatch)
	if !ok {
		handler, _ = o.registry.Get(agent.IntentGeneral)
	}

	resp, err := handler.Handle(ctx, turn)
	if err != nil {
		o.logger.Error("turn failed",
			zap.String("session_id", sessionID),
			zap.String("intent", intent),
			zap.Error(err))
		resp = errorResponse(sessionID)
	}
	resp.SessionID = sessionID
	if resp.AvailableSlots == nil {
		resp.AvailableSlots = []string{}
	}

	sess.AppendTurn(session.Turn{
		Message:  message,
		Response: resp.Response,
		Intent:   dispatch,
		At:       now,
	}, o.historySize)
	o.sessions.Put(sess)
	o.metrics.SetSessions(o.sessions.Len())

	o.recordTurn(sessionID, message, resp, routed, dispatch, now, time.Since(started))

	return resp
}

// route applies the continuation rule: while a booking waits for a date, a
// message the classifier could not place but that carries a datetime
// continues the booking.
func (o *Orchestrator) route(classified agent.Intent, sess *session.Session, info agent.BookingInfo) agent.Intent {
	if classified == agent.IntentGeneral && sess.Step == session.StepAwaitingDateTime && info.DateTime != nil {
		return agent.IntentBookMeeting
	}
	return classified
}

func (o *Orchestrator) loadSession(id string, now time.Time) *session.Session {
	if sess, ok := o.sessions.Get(id); ok {
		return sess
	}

	sess := session.New(id, now)
	o.sessions.Put(sess)
	o.logger.Debug("session created", zap.String("session_id", id))
	return sess
}

func (o *Orchestrator) recordTurn(sessionID, message string, resp Response, routed intents.RoutedIntent, dispatch agent.Intent, now time.Time, elapsed time.Duration) {
	if o.recorder == nil {
		return
	}

	_, err := o.recorder.RecordTurn(database.TurnRecord{
		SessionID:        sessionID,
		Message:          message,
		Response:         resp.Response,
		Intent:           string(dispatch),
		Confidence:       routed.Confidence,
		BookingConfirmed: resp.BookingConfirmed,
		LatencyMS:        elapsed.Milliseconds(),
		CreatedAt:        now,
	})
	if err != nil {
		o.logger.Warn("failed to record turn", zap.String("session_id", sessionID), zap.Error(err))
	}
}

func errorResponse(sessionID string) Response {
	return Response{
		Response:       msgTurnError,
		AvailableSlots: []string{},
		SessionID:      sessionID,
	}
}

func bookingFailedText(reason string) string {
	if reason == "" {
		reason = "Unknown error"
	}
	return fmt.Sprintf(msgBookingFailed, reason)
}
