package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/omriShneor/booking_assistant/internal/database"
)

// MockRecorder is a mock implementation of the audit log
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordTurn(turn database.TurnRecord) (int64, error) {
	args := m.Called(turn)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockRecorder) RecordBooking(booking database.BookingRecord) (int64, error) {
	args := m.Called(booking)
	return int64(args.Int(0)), args.Error(1)
}
