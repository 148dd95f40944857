package assistant

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/omriShneor/booking_assistant/internal/agent"
	"github.com/omriShneor/booking_assistant/internal/database"
	"github.com/omriShneor/booking_assistant/internal/notify"
	"github.com/omriShneor/booking_assistant/internal/session"
)

func (o *Orchestrator) handleBooking(ctx context.Context, t *Turn) (Response, error) {
	booking := t.Session.Pending.Resolve()

	if booking.DateTime == nil {
		t.Session.Step = session.StepAwaitingDateTime
		return Response{
			Response:       msgAskDateTime,
			AvailableSlots: SuggestedSlots(t.Now),
		}, nil
	}

	start := *booking.DateTime
	end := booking.End()

	result, err := o.calendar.CreateEvent(ctx, agent.EventRequest{
		Title:       booking.Title,
		Description: bookingDescription,
		Start:       start,
		End:         end,
		Attendees:   booking.Attendees,
	})
	o.recordBooking(t.Session.ID, booking, result, err)
	o.metrics.ObserveBooking(err == nil && result.Success)

	if err != nil || !result.Success {
		// Offer fresh slots and wait for a new time.
		t.Session.Pending.DateTime = nil
		t.Session.Step = session.StepAwaitingDateTime

		if err != nil {
			o.logger.Error("booking error", zap.String("session_id", t.Session.ID), zap.Error(err))
			return Response{Response: msgBookingUnexpected, AvailableSlots: SuggestedSlots(t.Now)}, nil
		}

		o.logger.Warn("calendar rejected booking",
			zap.String("session_id", t.Session.ID),
			zap.String("reason", result.Error))
		return Response{Response: bookingFailedText(result.Error), AvailableSlots: SuggestedSlots(t.Now)}, nil
	}

	o.logger.Info("meeting booked",
		zap.String("session_id", t.Session.ID),
		zap.String("event_id", result.EventID),
		zap.Time("start", start))

	t.Session.Step = session.StepConfirmed
	t.Session.ResetPending()

	if o.notifier != nil {
		o.notifier.NotifyBooking(ctx, notify.BookingNotice{
			SessionID: t.Session.ID,
			EventID:   result.EventID,
			Title:     booking.Title,
			Start:     start,
			End:       end,
			Attendees: booking.Attendees,
			EventLink: result.EventLink,
		})
	}

	return Response{
		Response:         confirmationText(booking, result.EventLink),
		BookingConfirmed: true,
	}, nil
}

func confirmationText(booking agent.BookingInfo, link string) string {
	start := *booking.DateTime
	end := booking.End()

	var sb strings.Builder
	sb.WriteString("✅ Meeting booked successfully!\n\n")
	fmt.Fprintf(&sb, "📅 **%s**\n", booking.Title)
	fmt.Fprintf(&sb, "🗓️ %s\n", start.Format(confirmDateLayout))
	fmt.Fprintf(&sb, "🕐 %s - %s\n", start.Format(confirmClockLayout), end.Format(confirmClockLayout))
	if len(booking.Attendees) > 0 {
		fmt.Fprintf(&sb, "👥 Attendees: %s\n", strings.Join(booking.Attendees, ", "))
	}
	if link != "" {
		fmt.Fprintf(&sb, "[🔗 View Event](%s)\n", link)
	}
	return sb.String()
}

func (o *Orchestrator) recordBooking(sessionID string, booking agent.BookingInfo, result agent.EventResult, callErr error) {
	if o.recorder == nil {
		return
	}

	errText := result.Error
	if callErr != nil {
		errText = callErr.Error()
	}

	_, err := o.recorder.RecordBooking(database.BookingRecord{
		SessionID: sessionID,
		Title:     booking.Title,
		StartTime: *booking.DateTime,
		EndTime:   booking.End(),
		Attendees: booking.Attendees,
		Success:   callErr == nil && result.Success,
		EventID:   result.EventID,
		EventLink: result.EventLink,
		Error:     errText,
		CreatedAt: o.now(),
	})
	if err != nil {
		o.logger.Warn("failed to record booking", zap.String("session_id", sessionID), zap.Error(err))
	}
}

func (o *Orchestrator) handleAvailability(ctx context.Context, t *Turn) (Response, error) {
	slots, err := o.calendar.AvailableSlots(ctx, t.Now, availabilityDays, t.Info.DurationMinutes)
	if err != nil {
		o.logger.Warn("availability check failed", zap.String("session_id", t.Session.ID), zap.Error(err))
		return Response{Response: msgAvailabilityTrouble}, nil
	}

	formatted := formatSlots(slots)
	if len(formatted) == 0 {
		return Response{Response: msgNoAvailability, AvailableSlots: formatted}, nil
	}

	var sb strings.Builder
	sb.WriteString(msgAvailabilityHeader)
	for i, slot := range formatted {
		if i == maxRenderedSlots {
			break
		}
		fmt.Fprintf(&sb, "• %s\n", slot)
	}

	return Response{Response: sb.String(), AvailableSlots: formatted}, nil
}

func (o *Orchestrator) handleListMeetings(_ context.Context, _ *Turn) (Response, error) {
	return Response{Response: msgListMeetings}, nil
}

func (o *Orchestrator) handleCancelMeeting(_ context.Context, _ *Turn) (Response, error) {
	return Response{Response: msgCancelMeeting}, nil
}

func (o *Orchestrator) handleGeneral(ctx context.Context, t *Turn) (Response, error) {
	prompt := fmt.Sprintf("%s\n\nUser: %s%s", PersonaPrompt, t.Message, generalPromptSuffix)

	text, err := o.generator.Generate(ctx, prompt)
	if err != nil {
		o.logger.Warn("language model unavailable", zap.String("session_id", t.Session.ID), zap.Error(err))
		return Response{Response: msgGeneralUnavailable}, nil
	}
	if strings.TrimSpace(text) == "" {
		return Response{Response: msgGeneralEmpty}, nil
	}

	return Response{Response: text}, nil
}
