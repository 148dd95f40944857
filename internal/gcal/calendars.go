package gcal

import (
	"context"
	"fmt"
)

// CalendarInfo represents a Google Calendar
type CalendarInfo struct {
	ID         string `json:"id"`
	Summary    string `json:"summary"`
	TimeZone   string `json:"time_zone,omitempty"`
	Primary    bool   `json:"primary"`
	AccessRole string `json:"access_role"`
}

// ListCalendars returns all calendars the account has access to
func (c *Client) ListCalendars(ctx context.Context) ([]CalendarInfo, error) {
	if c.service == nil {
		return nil, ErrNotAuthenticated
	}

	list, err := c.service.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	var calendars []CalendarInfo
	for _, item := range list.Items {
		calendars = append(calendars, CalendarInfo{
			ID:         item.Id,
			Summary:    item.Summary,
			TimeZone:   item.TimeZone,
			Primary:    item.Primary,
			AccessRole: item.AccessRole,
		})
	}

	return calendars, nil
}

// VerifyAccess fetches the target calendar's metadata.
func (c *Client) VerifyAccess(ctx context.Context) error {
	if c.service == nil {
		return ErrNotAuthenticated
	}

	if _, err := c.service.Calendars.Get(c.calendarID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to access calendar %s: %w", c.calendarID, err)
	}
	return nil
}
