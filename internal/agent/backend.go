package agent

import (
	"context"
	"time"
)

// CalendarBackend is the system of record for events.
type CalendarBackend interface {
	// CreateEvent books an event. Backend-side failures are reported through
	// EventResult; the error return is reserved for unexpected failures.
	CreateEvent(ctx context.Context, req EventRequest) (EventResult, error)

	// CheckAvailability reports whether [start, end) is free.
	CheckAvailability(ctx context.Context, start, end time.Time) (bool, error)

	// AvailableSlots lists business-hour slots of the given length over the
	// days following from.
	AvailableSlots(ctx context.Context, from time.Time, days, durationMinutes int) ([]Slot, error)

	// ListEvents returns events from now until daysAhead days out.
	ListEvents(ctx context.Context, daysAhead int) ([]EventRecord, error)

	// DeleteEvent removes an event by ID.
	DeleteEvent(ctx context.Context, eventID string) (EventResult, error)

	// VerifyAccess checks that the calendar can be reached.
	VerifyAccess(ctx context.Context) error
}
