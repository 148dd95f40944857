package gcal

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/omriShneor/booking_assistant/internal/agent"
)

// MemoryCalendar is an in-process calendar used for offline runs and tests.
// Events live only as long as the process.
type MemoryCalendar struct {
	mu       sync.Mutex
	events   map[string]agent.EventRecord
	location *time.Location
	now      func() time.Time
}

// NewMemoryCalendar creates an empty calendar. A nil location means time.Local.
func NewMemoryCalendar(loc *time.Location) *MemoryCalendar {
	if loc == nil {
		loc = time.Local
	}
	return &MemoryCalendar{
		events:   make(map[string]agent.EventRecord),
		location: loc,
		now:      time.Now,
	}
}

func (m *MemoryCalendar) CreateEvent(_ context.Context, req agent.EventRequest) (agent.EventResult, error) {
	if !req.End.After(req.Start) {
		return agent.EventResult{Error: "end time must be after start time"}, nil
	}

	id := uuid.NewString()
	attendees := append([]string{}, req.Attendees...)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.events[id] = agent.EventRecord{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Start:       req.Start.In(m.location),
		End:         req.End.In(m.location),
		Attendees:   attendees,
		HTMLLink:    fmt.Sprintf("memory://events/%s", id),
	}

	return agent.EventResult{Success: true, EventID: id, EventLink: m.events[id].HTMLLink}, nil
}

func (m *MemoryCalendar) CheckAvailability(_ context.Context, start, end time.Time) (bool, error) {
	want := agent.TimeRange{Start: start, End: end}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ev := range m.events {
		if want.Overlaps(agent.TimeRange{Start: ev.Start, End: ev.End}) {
			return false, nil
		}
	}
	return true, nil
}

func (m *MemoryCalendar) AvailableSlots(_ context.Context, from time.Time, days, durationMinutes int) ([]agent.Slot, error) {
	from = from.In(m.location)

	m.mu.Lock()
	busy := make([]agent.TimeRange, 0, len(m.events))
	for _, ev := range m.events {
		busy = append(busy, agent.TimeRange{Start: ev.Start, End: ev.End})
	}
	m.mu.Unlock()

	return BusinessHourSlots(from, days, durationMinutes, busy), nil
}

func (m *MemoryCalendar) ListEvents(_ context.Context, daysAhead int) ([]agent.EventRecord, error) {
	now := m.now().In(m.location)
	window := agent.TimeRange{Start: now, End: now.AddDate(0, 0, daysAhead)}

	m.mu.Lock()
	result := []agent.EventRecord{}
	for _, ev := range m.events {
		if window.Overlaps(agent.TimeRange{Start: ev.Start, End: ev.End}) {
			result = append(result, ev)
		}
	}
	m.mu.Unlock()

	sort.Slice(result, func(i, j int) bool { return result[i].Start.Before(result[j].Start) })
	return result, nil
}

func (m *MemoryCalendar) DeleteEvent(_ context.Context, eventID string) (agent.EventResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.events[eventID]; !ok {
		return agent.EventResult{EventID: eventID, Error: ErrEventNotFound.Error()}, ErrEventNotFound
	}
	delete(m.events, eventID)
	return agent.EventResult{Success: true, EventID: eventID}, nil
}

func (m *MemoryCalendar) VerifyAccess(context.Context) error {
	return nil
}

var (
	_ agent.CalendarBackend = (*MemoryCalendar)(nil)
	_ agent.CalendarBackend = (*Client)(nil)
)
