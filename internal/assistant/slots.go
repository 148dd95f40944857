package assistant

import (
	"time"

	"github.com/omriShneor/booking_assistant/internal/agent"
)

const (
	suggestionDays     = 5
	maxSuggestions     = 10
	availabilityDays   = 7
	maxRenderedSlots   = 10
	slotDisplayLayout  = "Monday, January 02 at 03:04 PM"
	confirmDateLayout  = "Monday, January 02, 2006"
	confirmClockLayout = "03:04 PM"
)

var suggestionHours = []int{9, 10, 11, 14, 15, 16}

// SuggestedSlots lists candidate start times on the weekdays among the next
// five days, without consulting any calendar. At most ten are returned.
func SuggestedSlots(now time.Time) []string {
	slots := make([]string, 0, maxSuggestions)
	for d := 1; d <= suggestionDays; d++ {
		day := now.AddDate(0, 0, d)
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		for _, hour := range suggestionHours {
			start := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, now.Location())
			slots = append(slots, FormatSlot(start))
			if len(slots) == maxSuggestions {
				return slots
			}
		}
	}
	return slots
}

// FormatSlot renders a slot start the way it is shown to users.
func FormatSlot(start time.Time) string {
	return start.Format(slotDisplayLayout)
}

func formatSlots(slots []agent.Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = FormatSlot(s.Start)
	}
	return out
}
