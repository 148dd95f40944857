package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/omriShneor/booking_assistant/internal/logging"
)

// Service sends booking notifications to the configured organizer address.
type Service struct {
	emailNotifier Notifier
	recipient     string
	logger        *zap.Logger
}

// NewService creates a notification service
func NewService(emailNotifier Notifier, recipient string, logger *zap.Logger) *Service {
	return &Service{
		emailNotifier: emailNotifier,
		recipient:     recipient,
		logger:        logging.OrNop(logger).Named("notify"),
	}
}

// NotifyBooking emails the organizer about a confirmed booking.
// Errors are logged but don't fail the operation.
func (s *Service) NotifyBooking(ctx context.Context, notice BookingNotice) {
	if s == nil {
		return
	}
	if s.recipient == "" {
		s.logger.Debug("no notification address configured")
		return
	}
	if !s.IsEmailAvailable() {
		s.logger.Debug("email notifier not configured")
		return
	}

	if err := s.emailNotifier.Send(ctx, notice, s.recipient); err != nil {
		s.logger.Warn("booking notification failed",
			zap.String("notifier", s.emailNotifier.Name()),
			zap.String("event_id", notice.EventID),
			zap.Error(err))
		return
	}

	s.logger.Info("booking notification sent",
		zap.String("notifier", s.emailNotifier.Name()),
		zap.String("event_id", notice.EventID))
}

// IsEmailAvailable returns true if email notifications can be used
func (s *Service) IsEmailAvailable() bool {
	return s != nil && s.emailNotifier != nil && s.emailNotifier.IsConfigured()
}
