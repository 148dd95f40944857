package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/omriShneor/booking_assistant/internal/agent"
)

// MockCalendarBackend is a mock implementation of agent.CalendarBackend
type MockCalendarBackend struct {
	mock.Mock
}

func (m *MockCalendarBackend) CreateEvent(ctx context.Context, req agent.EventRequest) (agent.EventResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(agent.EventResult), args.Error(1)
}

func (m *MockCalendarBackend) CheckAvailability(ctx context.Context, start, end time.Time) (bool, error) {
	args := m.Called(ctx, start, end)
	return args.Bool(0), args.Error(1)
}

func (m *MockCalendarBackend) AvailableSlots(ctx context.Context, from time.Time, days, durationMinutes int) ([]agent.Slot, error) {
	args := m.Called(ctx, from, days, durationMinutes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]agent.Slot), args.Error(1)
}

func (m *MockCalendarBackend) ListEvents(ctx context.Context, daysAhead int) ([]agent.EventRecord, error) {
	args := m.Called(ctx, daysAhead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]agent.EventRecord), args.Error(1)
}

func (m *MockCalendarBackend) DeleteEvent(ctx context.Context, eventID string) (agent.EventResult, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(agent.EventResult), args.Error(1)
}

func (m *MockCalendarBackend) VerifyAccess(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
