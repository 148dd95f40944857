package migrations

import (
	"database/sql"
)

func init() {
	Register(Migration{
		Version: 2,
		Name:    "turn_latency",
		Up:      turnLatency,
	})
}

// turnLatency records how long each turn took and its classifier confidence.
func turnLatency(db *sql.DB) error {
	if err := AddColumnIfNotExists(db, "conversation_turns", "latency_ms", "INTEGER NOT NULL DEFAULT 0"); err != nil {
		return err
	}
	return AddColumnIfNotExists(db, "conversation_turns", "confidence", "REAL NOT NULL DEFAULT 0")
}
