package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveTurn(t *testing.T) {
	m := New()

	m.ObserveTurn("book_meeting", 20*time.Millisecond)
	m.ObserveTurn("book_meeting", 30*time.Millisecond)
	m.ObserveTurn("general", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.turns.WithLabelValues("book_meeting")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.turns.WithLabelValues("general")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.turnDuration))
}

func TestObserveBooking(t *testing.T) {
	m := New()

	m.ObserveBooking(true)
	m.ObserveBooking(false)
	m.ObserveBooking(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookings.WithLabelValues("confirmed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookings.WithLabelValues("failed")))
}

func TestSetSessionsAndRequests(t *testing.T) {
	m := New()

	m.SetSessions(7)
	m.ObserveRequest(http.MethodPost, "/chat", http.StatusOK)

	assert.Equal(t, 7.0, testutil.ToFloat64(m.sessions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("POST", "/chat", "200")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveTurn("general", time.Second)
		m.ObserveBooking(true)
		m.SetSessions(1)
		m.ObserveRequest("GET", "/", 200)
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveTurn("check_availability", time.Millisecond)

	server := httptest.NewServer(m.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `booking_assistant_turns_total{intent="check_availability"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
