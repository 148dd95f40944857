package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/omriShneor/booking_assistant/internal/agent"
	"github.com/omriShneor/booking_assistant/internal/assistant"
	"github.com/omriShneor/booking_assistant/internal/database"
	"github.com/omriShneor/booking_assistant/internal/gcal"
	"github.com/omriShneor/booking_assistant/internal/metrics"
	"github.com/omriShneor/booking_assistant/internal/mocks"
)

// Wednesday
var refNow = time.Date(2026, 3, 11, 10, 17, 42, 0, time.UTC)

type testServerOptions struct {
	calendar   agent.CalendarBackend
	ratePerMin int
	rateBurst  int
	trustProxy bool
}

// createTestServer wires a server over an in-memory calendar and database
func createTestServer(t *testing.T, opts testServerOptions) *Server {
	t.Helper()

	cal := opts.calendar
	if cal == nil {
		cal = gcal.NewMemoryCalendar(time.UTC)
	}
	db := database.NewTestDB(t)
	m := metrics.New()

	orch, err := assistant.New(assistant.Config{
		Calendar: cal,
		Recorder: db,
		Metrics:  m,
		Location: time.UTC,
		Now:      func() time.Time { return refNow },
	})
	require.NoError(t, err)

	s := New(ServerConfig{
		Assistant:         orch,
		Calendar:          cal,
		CalendarID:        "primary",
		DB:                db,
		Metrics:           m,
		Location:          time.UTC,
		ChatRatePerMinute: opts.ratePerMin,
		ChatRateBurst:     opts.rateBurst,
		TrustProxyHeaders: opts.trustProxy,
		Environment:       map[string]string{"GEMINI_API_KEY": "❌ Not set"},
	})
	s.now = func() time.Time { return refNow }
	return s
}

func doRequest(t *testing.T, s *Server, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(b)
		}
		reader = bytes.NewReader([]byte(raw))
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHandleIndex(t *testing.T) {
	s := createTestServer(t, testServerOptions{})

	w := doRequest(t, s, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Calendar Booking API is running", body["message"])
	assert.Contains(t, body["endpoints"], "chat")

	w = doRequest(t, s, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleHealthCheck(t *testing.T) {
	t.Run("calendar reachable", func(t *testing.T) {
		s := createTestServer(t, testServerOptions{})

		w := doRequest(t, s, http.MethodGet, "/health", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "ok", body["status"])
		services := body["services"].(map[string]interface{})
		assert.Equal(t, true, services["calendar"])
		assert.Equal(t, false, services["llm"])
		assert.Equal(t, false, services["email"])
	})

	t.Run("calendar unreachable", func(t *testing.T) {
		cal := new(mocks.MockCalendarBackend)
		cal.On("VerifyAccess", mock.Anything).Return(gcal.ErrNotAuthenticated)
		s := createTestServer(t, testServerOptions{calendar: cal})

		w := doRequest(t, s, http.MethodGet, "/health", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "degraded", body["status"])
		access := body["calendar_access"].(map[string]interface{})
		assert.Equal(t, false, access["success"])
		assert.Equal(t, gcal.ErrNotAuthenticated.Error(), access["error"])
	})
}

func TestHandleDebug(t *testing.T) {
	s := createTestServer(t, testServerOptions{})

	w := doRequest(t, s, http.MethodGet, "/debug", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "primary", body["calendar_id"])
	assert.Equal(t, float64(0), body["upcoming_events_count"])
	assert.Equal(t, float64(0), body["active_sessions"])
	assert.Equal(t, "UTC", body["server_timezone"])
	assert.Len(t, body["intents"], 5)
	assert.Equal(t, map[string]interface{}{"GEMINI_API_KEY": "❌ Not set"}, body["environment"])
}

func TestHandleChat(t *testing.T) {
	t.Run("asks for a date and starts a session", func(t *testing.T) {
		s := createTestServer(t, testServerOptions{})

		w := doRequest(t, s, http.MethodPost, "/chat", map[string]string{"message": "book a meeting"})

		assert.Equal(t, http.StatusOK, w.Code)
		var resp assistant.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.BookingConfirmed)
		assert.NotEmpty(t, resp.SessionID)
		assert.Len(t, resp.AvailableSlots, 10)
		assert.Contains(t, resp.Response, "specify the date and time")
	})

	t.Run("books across two requests", func(t *testing.T) {
		s := createTestServer(t, testServerOptions{})

		w := doRequest(t, s, http.MethodPost, "/chat", map[string]string{
			"message":    "book a meeting with alice@example.com",
			"session_id": "web-1",
		})
		require.Equal(t, http.StatusOK, w.Code)

		w = doRequest(t, s, http.MethodPost, "/chat", map[string]string{
			"message":    "tomorrow at 3pm",
			"session_id": "web-1",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var resp assistant.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.BookingConfirmed)
		assert.Equal(t, "web-1", resp.SessionID)
		assert.NotNil(t, resp.AvailableSlots)

		turns := decode(t, doRequest(t, s, http.MethodGet, "/sessions/web-1/turns", nil))
		assert.Equal(t, float64(2), turns["count"])

		bookings := decode(t, doRequest(t, s, http.MethodGet, "/bookings", nil))
		assert.Equal(t, float64(1), bookings["count"])
		first := bookings["bookings"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, true, first["success"])
		assert.Equal(t, []interface{}{"alice@example.com"}, first["attendees"])
	})

	t.Run("rejects empty message", func(t *testing.T) {
		s := createTestServer(t, testServerOptions{})

		w := doRequest(t, s, http.MethodPost, "/chat", map[string]string{"message": "   "})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "message is required", decode(t, w)["error"])
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		s := createTestServer(t, testServerOptions{})

		w := doRequest(t, s, http.MethodPost, "/chat", "{not json")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects oversized body", func(t *testing.T) {
		s := createTestServer(t, testServerOptions{})

		w := doRequest(t, s, http.MethodPost, "/chat", map[string]string{
			"message": strings.Repeat("a", maxChatBodySize+1),
		})

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestHandleChat_RateLimited(t *testing.T) {
	s := createTestServer(t, testServerOptions{ratePerMin: 1, rateBurst: 1})

	w := doRequest(t, s, http.MethodPost, "/chat", map[string]string{"message": "hello"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, s, http.MethodPost, "/chat", map[string]string{"message": "hello again"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// Other routes are not limited.
	w = doRequest(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func chatFrom(t *testing.T, s *Server, forwardedFor string) int {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w.Code
}

func TestHandleChat_RateLimitIgnoresForwardedForByDefault(t *testing.T) {
	s := createTestServer(t, testServerOptions{ratePerMin: 1, rateBurst: 1})

	assert.Equal(t, http.StatusOK, chatFrom(t, s, "203.0.113.1"))
	// A new header value does not buy a fresh bucket.
	assert.Equal(t, http.StatusTooManyRequests, chatFrom(t, s, "203.0.113.2"))
}

func TestHandleChat_RateLimitBehindTrustedProxy(t *testing.T) {
	s := createTestServer(t, testServerOptions{ratePerMin: 1, rateBurst: 1, trustProxy: true})

	assert.Equal(t, http.StatusOK, chatFrom(t, s, "203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, chatFrom(t, s, "203.0.113.1"))
	assert.Equal(t, http.StatusOK, chatFrom(t, s, "203.0.113.2"))
}

func TestEventsLifecycle(t *testing.T) {
	s := createTestServer(t, testServerOptions{})

	// The in-memory calendar lists relative to the wall clock.
	start := time.Now().UTC().Add(2 * time.Hour).Truncate(time.Minute)

	w := doRequest(t, s, http.MethodPost, "/test-event", map[string]interface{}{
		"title":            "Integration check",
		"start_time":       start.Format(time.RFC3339),
		"duration_minutes": 30,
		"attendee_emails":  []string{"bob@example.com"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created agent.EventResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, created.Success)
	require.NotEmpty(t, created.EventID)

	w = doRequest(t, s, http.MethodGet, "/events?days_ahead=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Events     []agent.EventRecord `json:"events"`
		Count      int                 `json:"count"`
		CalendarID string              `json:"calendar_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Equal(t, 1, listed.Count)
	assert.Equal(t, "primary", listed.CalendarID)
	assert.Equal(t, "Integration check", listed.Events[0].Title)
	assert.True(t, listed.Events[0].End.Equal(start.Add(30*time.Minute)))
	assert.Equal(t, []string{"bob@example.com"}, listed.Events[0].Attendees)

	w = doRequest(t, s, http.MethodDelete, "/events/"+created.EventID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, s, http.MethodDelete, "/events/"+created.EventID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, gcal.ErrEventNotFound.Error(), decode(t, w)["error"])
}

func TestHandleListEvents_InvalidDays(t *testing.T) {
	s := createTestServer(t, testServerOptions{})

	for _, v := range []string{"abc", "0", "-3", "365"} {
		w := doRequest(t, s, http.MethodGet, "/events?days_ahead="+v, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "days_ahead=%s", v)
	}
}

func TestHandleListEvents_BackendError(t *testing.T) {
	cal := new(mocks.MockCalendarBackend)
	cal.On("ListEvents", mock.Anything, defaultDaysAhead).Return(nil, errors.New("quota exceeded"))
	s := createTestServer(t, testServerOptions{calendar: cal})

	w := doRequest(t, s, http.MethodGet, "/events", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "quota exceeded", decode(t, w)["error"])
}

func TestHandleCreateTestEvent(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cal := new(mocks.MockCalendarBackend)
		start := time.Date(2026, 3, 12, 15, 0, 0, 0, time.UTC)
		cal.On("CreateEvent", mock.Anything, agent.EventRequest{
			Title:       "Test Event",
			Description: "Test event created via API",
			Start:       start,
			End:         start.Add(time.Hour),
			Attendees:   []string{},
		}).Return(agent.EventResult{Success: true, EventID: "evt-1"}, nil).Once()
		s := createTestServer(t, testServerOptions{calendar: cal})

		w := doRequest(t, s, http.MethodPost, "/test-event", map[string]string{"start_time": "2026-03-12T15:00"})

		assert.Equal(t, http.StatusCreated, w.Code)
		cal.AssertExpectations(t)
	})

	t.Run("backend rejects", func(t *testing.T) {
		cal := new(mocks.MockCalendarBackend)
		cal.On("CreateEvent", mock.Anything, mock.Anything).
			Return(agent.EventResult{Success: false, Error: "forbidden"}, nil).Once()
		s := createTestServer(t, testServerOptions{calendar: cal})

		w := doRequest(t, s, http.MethodPost, "/test-event", map[string]string{"start_time": "2026-03-12T15:00:00Z"})

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, "forbidden", decode(t, w)["error"])
	})

	t.Run("missing start time", func(t *testing.T) {
		s := createTestServer(t, testServerOptions{})

		w := doRequest(t, s, http.MethodPost, "/test-event", map[string]string{"title": "x"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unparseable start time", func(t *testing.T) {
		s := createTestServer(t, testServerOptions{})

		w := doRequest(t, s, http.MethodPost, "/test-event", map[string]string{"start_time": "next tuesday"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decode(t, w)["error"], "invalid start_time format")
	})
}

func TestCORSPreflight(t *testing.T) {
	s := createTestServer(t, testServerOptions{})

	w := doRequest(t, s, http.MethodOptions, "/chat", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	s := createTestServer(t, testServerOptions{})

	doRequest(t, s, http.MethodPost, "/chat", map[string]string{"message": "show my calendar"})
	w := doRequest(t, s, http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `booking_assistant_turns_total{intent="list_meetings"} 1`)
	assert.Contains(t, body, `booking_assistant_http_requests_total{code="200",method="POST",route="POST /chat"} 1`)
}

func TestRespondJSON_LogsEncodeFailure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	s := &Server{logger: zap.New(core)}

	w := httptest.NewRecorder()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"bad": make(chan int)})

	assert.Equal(t, http.StatusOK, w.Code)
	entries := logs.FilterMessage("encoding JSON response").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
}
