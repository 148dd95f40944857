package database

import (
	"fmt"
	"time"
)

// TurnRecord is one processed chat message and the reply sent back.
type TurnRecord struct {
	ID               int64     `json:"id"`
	SessionID        string    `json:"session_id"`
	Message          string    `json:"message"`
	Response         string    `json:"response"`
	Intent           string    `json:"intent"`
	Confidence       float64   `json:"confidence"`
	BookingConfirmed bool      `json:"booking_confirmed"`
	LatencyMS        int64     `json:"latency_ms"`
	CreatedAt        time.Time `json:"created_at"`
}

// RecordTurn appends a turn to the audit log.
func (d *DB) RecordTurn(turn TurnRecord) (int64, error) {
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}

	result, err := d.Exec(`
		INSERT INTO conversation_turns (session_id, message, response, intent, confidence, booking_confirmed, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, turn.SessionID, turn.Message, turn.Response, turn.Intent, turn.Confidence, turn.BookingConfirmed, turn.LatencyMS, turn.CreatedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert turn: %w", err)
	}

	return result.LastInsertId()
}

// ListTurns returns the turns of a session, oldest first. A non-positive
// limit returns every turn.
func (d *DB) ListTurns(sessionID string, limit int) ([]TurnRecord, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := d.Query(`
		SELECT id, session_id, message, response, intent, confidence, booking_confirmed, latency_ms, created_at
		FROM conversation_turns
		WHERE session_id = ?
		ORDER BY created_at ASC, id ASC
		LIMIT ?
	`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var turns []TurnRecord
	for rows.Next() {
		var t TurnRecord
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Message, &t.Response, &t.Intent, &t.Confidence, &t.BookingConfirmed, &t.LatencyMS, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turns = append(turns, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating turns: %w", err)
	}

	return turns, nil
}

// CountTurns returns the total number of recorded turns.
func (d *DB) CountTurns() (int, error) {
	var count int
	if err := d.QueryRow(`SELECT COUNT(*) FROM conversation_turns`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count turns: %w", err)
	}
	return count, nil
}
