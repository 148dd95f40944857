package notify

import (
	"context"
	"time"
)

// BookingNotice describes a meeting the assistant just put on the calendar.
type BookingNotice struct {
	SessionID string
	EventID   string
	Title     string
	Start     time.Time
	End       time.Time
	Attendees []string
	EventLink string
}

// Notifier sends booking notifications to a specific recipient
type Notifier interface {
	// Send sends a notification for a booking to the specified recipient
	Send(ctx context.Context, notice BookingNotice, recipient string) error
	// Name returns the notifier type name (for logging)
	Name() string
	// IsConfigured returns true if the notifier has server-side config
	IsConfigured() bool
}
