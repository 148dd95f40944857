package gcal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/omriShneor/booking_assistant/internal/agent"
)

var ErrEventNotFound = errors.New("google calendar event not found")

// IsEventNotFound returns true when a calendar event no longer exists.
func IsEventNotFound(err error) bool {
	return errors.Is(err, ErrEventNotFound)
}

func parseGoogleEventTimes(item *calendar.Event, loc *time.Location) (time.Time, time.Time, bool, error) {
	if item == nil || item.Start == nil || item.End == nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("event is missing start or end")
	}

	// All-day events use Date instead of DateTime.
	if item.Start.Date != "" {
		startDate, err := time.ParseInLocation("2006-01-02", item.Start.Date, loc)
		if err != nil {
			return time.Time{}, time.Time{}, false, fmt.Errorf("failed to parse all-day start date: %w", err)
		}
		endDate, err := time.ParseInLocation("2006-01-02", item.End.Date, loc)
		if err != nil {
			return time.Time{}, time.Time{}, false, fmt.Errorf("failed to parse all-day end date: %w", err)
		}
		return startDate, endDate, true, nil
	}

	if item.Start.DateTime == "" || item.End.DateTime == "" {
		return time.Time{}, time.Time{}, false, fmt.Errorf("event datetime is missing")
	}

	startTime, err := time.Parse(time.RFC3339, item.Start.DateTime)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("failed to parse start datetime: %w", err)
	}
	endTime, err := time.Parse(time.RFC3339, item.End.DateTime)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("failed to parse end datetime: %w", err)
	}

	return startTime.In(loc), endTime.In(loc), false, nil
}

func isNotFound(err error) bool {
	var gErr *googleapi.Error
	return errors.As(err, &gErr) && (gErr.Code == http.StatusNotFound || gErr.Code == http.StatusGone)
}

// CreateEvent inserts an event. API failures are reported in the result so
// the conversation can echo them back to the user.
func (c *Client) CreateEvent(ctx context.Context, req agent.EventRequest) (agent.EventResult, error) {
	if c.service == nil {
		return agent.EventResult{Error: ErrNotAuthenticated.Error()}, nil
	}
	if !req.End.After(req.Start) {
		return agent.EventResult{Error: "end time must be after start time"}, nil
	}

	// RFC3339 format includes timezone offset, so Google Calendar can infer the timezone
	event := &calendar.Event{
		Summary:     req.Title,
		Description: req.Description,
		Start: &calendar.EventDateTime{
			DateTime: req.Start.Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: req.End.Format(time.RFC3339),
		},
	}

	if len(req.Attendees) > 0 {
		attendees := make([]*calendar.EventAttendee, len(req.Attendees))
		for i, email := range req.Attendees {
			attendees[i] = &calendar.EventAttendee{Email: email}
		}
		event.Attendees = attendees
	}

	// SendUpdates sends notifications to attendees
	created, err := c.service.Events.Insert(c.calendarID, event).SendUpdates("all").Context(ctx).Do()
	if err != nil {
		c.logger.Warn("event insert failed", zap.String("title", req.Title), zap.Error(err))
		return agent.EventResult{Error: err.Error()}, nil
	}

	c.logger.Info("event created", zap.String("event_id", created.Id), zap.String("title", req.Title))
	return agent.EventResult{
		Success:   true,
		EventID:   created.Id,
		EventLink: created.HtmlLink,
	}, nil
}

// DeleteEvent deletes an event. A missing event yields ErrEventNotFound.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) (agent.EventResult, error) {
	if c.service == nil {
		return agent.EventResult{Error: ErrNotAuthenticated.Error()}, nil
	}
	if eventID == "" {
		return agent.EventResult{Error: "event id is required"}, nil
	}

	if err := c.service.Events.Delete(c.calendarID, eventID).Context(ctx).Do(); err != nil {
		if isNotFound(err) {
			return agent.EventResult{EventID: eventID, Error: ErrEventNotFound.Error()}, ErrEventNotFound
		}
		return agent.EventResult{EventID: eventID, Error: err.Error()}, nil
	}

	return agent.EventResult{Success: true, EventID: eventID}, nil
}

// ListEvents returns upcoming events from now until daysAhead days out.
func (c *Client) ListEvents(ctx context.Context, daysAhead int) ([]agent.EventRecord, error) {
	now := c.now().In(c.location)
	return c.ListEventsInRange(ctx, now, now.AddDate(0, 0, daysAhead))
}

// ListEventsInRange returns events in a time window, expanding recurring
// events and skipping cancelled or malformed ones.
func (c *Client) ListEventsInRange(ctx context.Context, timeMin, timeMax time.Time) ([]agent.EventRecord, error) {
	if c.service == nil {
		return nil, ErrNotAuthenticated
	}
	if timeMax.Before(timeMin) {
		return nil, fmt.Errorf("invalid range: time_max is before time_min")
	}

	result := []agent.EventRecord{}
	pageToken := ""

	for {
		call := c.service.Events.List(c.calendarID).
			TimeMin(timeMin.Format(time.RFC3339)).
			TimeMax(timeMax.Format(time.RFC3339)).
			SingleEvents(true).
			ShowDeleted(false).
			OrderBy("startTime").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		events, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list events in range: %w", err)
		}

		for _, item := range events.Items {
			if item == nil || item.Status == "cancelled" {
				continue
			}

			startTime, endTime, allDay, parseErr := parseGoogleEventTimes(item, c.location)
			if parseErr != nil {
				continue
			}

			attendees := make([]string, 0, len(item.Attendees))
			for _, attendee := range item.Attendees {
				if attendee != nil && attendee.Email != "" {
					attendees = append(attendees, attendee.Email)
				}
			}

			result = append(result, agent.EventRecord{
				ID:          item.Id,
				Title:       item.Summary,
				Description: item.Description,
				Start:       startTime,
				End:         endTime,
				AllDay:      allDay,
				Attendees:   attendees,
				HTMLLink:    item.HtmlLink,
			})
		}

		if events.NextPageToken == "" {
			break
		}
		pageToken = events.NextPageToken
	}

	return result, nil
}

// QueryBusy returns the busy intervals of the target calendar in
// [timeMin, timeMax), sorted by start.
func (c *Client) QueryBusy(ctx context.Context, timeMin, timeMax time.Time) ([]agent.TimeRange, error) {
	if c.service == nil {
		return nil, ErrNotAuthenticated
	}

	query := &calendar.FreeBusyRequest{
		TimeMin: timeMin.Format(time.RFC3339),
		TimeMax: timeMax.Format(time.RFC3339),
		Items:   []*calendar.FreeBusyRequestItem{{Id: c.calendarID}},
	}

	result, err := c.service.Freebusy.Query(query).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to query freebusy: %w", err)
	}

	var busy []agent.TimeRange
	for calID, cal := range result.Calendars {
		if len(cal.Errors) > 0 {
			return nil, fmt.Errorf("freebusy error for %s: %s", calID, cal.Errors[0].Reason)
		}
		for _, period := range cal.Busy {
			start, err := time.Parse(time.RFC3339, period.Start)
			if err != nil {
				continue
			}
			end, err := time.Parse(time.RFC3339, period.End)
			if err != nil {
				continue
			}
			busy = append(busy, agent.TimeRange{Start: start.In(c.location), End: end.In(c.location)})
		}
	}

	sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })
	return busy, nil
}

// CheckAvailability reports whether [start, end) has no busy time.
func (c *Client) CheckAvailability(ctx context.Context, start, end time.Time) (bool, error) {
	busy, err := c.QueryBusy(ctx, start, end)
	if err != nil {
		return false, err
	}
	want := agent.TimeRange{Start: start, End: end}
	for _, b := range busy {
		if b.Overlaps(want) {
			return false, nil
		}
	}
	return true, nil
}

// AvailableSlots returns free business-hour slots for the days after from.
func (c *Client) AvailableSlots(ctx context.Context, from time.Time, days, durationMinutes int) ([]agent.Slot, error) {
	from = from.In(c.location)
	windowStart, windowEnd := slotWindow(from, days)

	busy, err := c.QueryBusy(ctx, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	return BusinessHourSlots(from, days, durationMinutes, busy), nil
}
