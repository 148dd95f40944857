package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding JSON response", zap.Int("status", status), zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// Index

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Calendar Booking API is running",
		"version": version,
		"endpoints": map[string]string{
			"chat":       "/chat",
			"health":     "/health",
			"debug":      "/debug",
			"events":     "/events",
			"test-event": "/test-event",
			"bookings":   "/bookings",
			"metrics":    "/metrics",
		},
	})
}

// Health Check

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.PingContext(r.Context()); err != nil {
			s.respondError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}

	access := s.calendarAccess(r)

	status := "ok"
	if !access["success"].(bool) {
		status = "degraded"
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"timestamp": s.now().In(s.location).Format(time.RFC3339),
		"services": map[string]bool{
			"calendar": access["success"].(bool),
			"llm":      s.llmConfigured,
			"database": s.db != nil,
			"email":    s.notifyService.IsEmailAvailable(),
		},
		"calendar_access": access,
	})
}

// calendarAccess reports whether the backend calendar can be read.
func (s *Server) calendarAccess(r *http.Request) map[string]interface{} {
	access := map[string]interface{}{
		"success":     false,
		"calendar_id": s.calendarID,
	}
	if s.calendar == nil {
		access["error"] = "calendar backend not configured"
		return access
	}

	if err := s.calendar.VerifyAccess(r.Context()); err != nil {
		s.logger.Warn("calendar access check failed", zap.Error(err))
		access["error"] = err.Error()
		return access
	}

	access["success"] = true
	access["message"] = "Calendar is accessible"
	return access
}

// Debug

func (s *Server) handleDebug(w http.ResponseWriter, r *http.Request) {
	now := s.now().In(s.location)

	info := map[string]interface{}{
		"environment":     s.environment,
		"calendar_access": s.calendarAccess(r),
		"calendar_id":     s.calendarID,
		"server_time":     now.Format(time.RFC3339),
		"server_timezone": s.location.String(),
	}

	if s.calendar != nil {
		events, err := s.calendar.ListEvents(r.Context(), 7)
		if err != nil {
			info["upcoming_events_error"] = err.Error()
		} else {
			info["upcoming_events_count"] = len(events)
		}
	}

	if s.assistant != nil {
		info["intents"] = s.assistant.Intents()
		info["active_sessions"] = s.assistant.Sessions().Len()
	}

	if s.db != nil {
		if n, err := s.db.CountTurns(); err == nil {
			info["recorded_turns"] = n
		}
	}

	s.respondJSON(w, http.StatusOK, info)
}

// Chat

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		s.respondError(w, http.StatusServiceUnavailable, "assistant not initialized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxChatBodySize)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, http.StatusRequestEntityTooLarge, "message too large")
			return
		}
		s.respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		s.respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	s.logger.Debug("incoming message",
		zap.String("session_id", req.SessionID),
		zap.Int("message_length", len(req.Message)))

	resp := s.assistant.ProcessMessage(r.Context(), req.Message, req.SessionID)

	s.respondJSON(w, http.StatusOK, resp)
}
