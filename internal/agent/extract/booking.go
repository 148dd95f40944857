// Package extract turns free text into booking fields using keyword and
// regular expression heuristics.
package extract

import (
	"time"

	"github.com/omriShneor/booking_assistant/internal/agent"
)

// Booking runs every extractor on message.
func Booking(message string, now time.Time) agent.BookingInfo {
	info := agent.BookingInfo{
		Attendees: Attendees(message),
	}
	if dt, ok := DateTime(message, now); ok {
		info.DateTime = &dt
	}
	info.DurationMinutes, info.DurationExplicit = FindDuration(message)
	info.Title, info.TitleExplicit = FindTitle(message)
	return info
}
