package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// BookingRecord is one attempt to create a calendar event from a conversation.
type BookingRecord struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Attendees []string  `json:"attendees"`
	Success   bool      `json:"success"`
	EventID   string    `json:"event_id,omitempty"`
	EventLink string    `json:"event_link,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordBooking stores a booking attempt.
func (d *DB) RecordBooking(b BookingRecord) (int64, error) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	if b.Attendees == nil {
		b.Attendees = []string{}
	}

	attendees, err := json.Marshal(b.Attendees)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal attendees: %w", err)
	}

	result, err := d.Exec(`
		INSERT INTO bookings (session_id, title, start_time, end_time, attendees, success, event_id, event_link, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.SessionID, b.Title, b.StartTime.UTC(), b.EndTime.UTC(), string(attendees), b.Success,
		nullString(b.EventID), nullString(b.EventLink), nullString(b.Error), b.CreatedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert booking: %w", err)
	}

	return result.LastInsertId()
}

// ListBookings returns the most recent booking attempts, newest first.
func (d *DB) ListBookings(limit int) ([]BookingRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := d.Query(`
		SELECT id, session_id, title, start_time, end_time, attendees, success, event_id, event_link, error, created_at
		FROM bookings
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []BookingRecord
	for rows.Next() {
		var b BookingRecord
		var attendees string
		var eventID, eventLink, errText sql.NullString
		if err := rows.Scan(&b.ID, &b.SessionID, &b.Title, &b.StartTime, &b.EndTime, &attendees, &b.Success,
			&eventID, &eventLink, &errText, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		if err := json.Unmarshal([]byte(attendees), &b.Attendees); err != nil {
			return nil, fmt.Errorf("failed to parse attendees for booking %d: %w", b.ID, err)
		}
		b.EventID = eventID.String
		b.EventLink = eventLink.String
		b.Error = errText.String
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}

	return bookings, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
