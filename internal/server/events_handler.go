package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/omriShneor/booking_assistant/internal/agent"
	"github.com/omriShneor/booking_assistant/internal/database"
	"github.com/omriShneor/booking_assistant/internal/gcal"
	"github.com/omriShneor/booking_assistant/internal/timeutil"
)

const (
	defaultDaysAhead = 7
	maxDaysAhead     = 90
	defaultListLimit = 50
)

// Events API

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	if s.calendar == nil {
		s.respondError(w, http.StatusServiceUnavailable, "calendar backend not configured")
		return
	}

	daysAhead := defaultDaysAhead
	if v := r.URL.Query().Get("days_ahead"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d <= 0 || d > maxDaysAhead {
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("days_ahead must be between 1 and %d", maxDaysAhead))
			return
		}
		daysAhead = d
	}

	events, err := s.calendar.ListEvents(r.Context(), daysAhead)
	if err != nil {
		s.logger.Error("list events failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"events":      events,
		"count":       len(events),
		"calendar_id": s.calendarID,
	})
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if s.calendar == nil {
		s.respondError(w, http.StatusServiceUnavailable, "calendar backend not configured")
		return
	}

	result, err := s.calendar.DeleteEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		if gcal.IsEventNotFound(err) {
			s.respondJSON(w, http.StatusNotFound, result)
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !result.Success {
		s.respondJSON(w, http.StatusBadGateway, result)
		return
	}

	s.respondJSON(w, http.StatusOK, result)
}

type testEventRequest struct {
	Title           string   `json:"title"`
	StartTime       string   `json:"start_time"`
	DurationMinutes int      `json:"duration_minutes"`
	Description     string   `json:"description"`
	AttendeeEmails  []string `json:"attendee_emails"`
}

// handleCreateTestEvent creates an event directly, bypassing the conversation,
// to check the calendar integration end to end.
func (s *Server) handleCreateTestEvent(w http.ResponseWriter, r *http.Request) {
	if s.calendar == nil {
		s.respondError(w, http.StatusServiceUnavailable, "calendar backend not configured")
		return
	}

	var req testEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.StartTime == "" {
		s.respondError(w, http.StatusBadRequest, "start_time is required")
		return
	}
	start, err := timeutil.ParseDateTime(req.StartTime, s.location)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid start_time format: %v", err))
		return
	}

	if req.Title == "" {
		req.Title = "Test Event"
	}
	if req.DurationMinutes <= 0 {
		req.DurationMinutes = agent.DefaultDurationMinutes
	}
	if req.Description == "" {
		req.Description = "Test event created via API"
	}
	if req.AttendeeEmails == nil {
		req.AttendeeEmails = []string{}
	}

	s.logger.Info("creating test event",
		zap.String("title", req.Title),
		zap.Time("start", start),
		zap.Int("duration_minutes", req.DurationMinutes))

	result, err := s.calendar.CreateEvent(r.Context(), agent.EventRequest{
		Title:       req.Title,
		Description: req.Description,
		Start:       start,
		End:         start.Add(time.Duration(req.DurationMinutes) * time.Minute),
		Attendees:   req.AttendeeEmails,
	})
	if err != nil {
		s.logger.Error("test event creation failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !result.Success {
		s.respondJSON(w, http.StatusBadGateway, result)
		return
	}

	s.respondJSON(w, http.StatusCreated, result)
}

// Audit log API

func (s *Server) handleListTurns(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.respondError(w, http.StatusServiceUnavailable, "audit log not configured")
		return
	}

	turns, err := s.db.ListTurns(r.PathValue("id"), parseLimit(r, 0))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if turns == nil {
		turns = []database.TurnRecord{}
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": r.PathValue("id"),
		"turns":      turns,
		"count":      len(turns),
	})
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.respondError(w, http.StatusServiceUnavailable, "audit log not configured")
		return
	}

	bookings, err := s.db.ListBookings(parseLimit(r, defaultListLimit))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if bookings == nil {
		bookings = []database.BookingRecord{}
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

func parseLimit(r *http.Request, def int) int {
	limit := def
	if v := r.URL.Query().Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil && l > 0 {
			limit = l
		}
	}
	return limit
}
