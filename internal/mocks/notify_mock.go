package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/omriShneor/booking_assistant/internal/notify"
)

// MockNotifyService is a mock implementation of the notification service
type MockNotifyService struct {
	mock.Mock
}

func (m *MockNotifyService) NotifyBooking(ctx context.Context, notice notify.BookingNotice) {
	m.Called(ctx, notice)
}
