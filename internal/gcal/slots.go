package gcal

import (
	"time"

	"github.com/omriShneor/booking_assistant/internal/agent"
)

const (
	BusinessDayStartHour = 9
	BusinessDayEndHour   = 17
)

// BusinessHourSlots lists hourly-aligned slots of durationMinutes between
// 09:00 and 17:00 on the weekdays among the days days after from, dropping
// any slot that overlaps busy. Slots are in from's location.
func BusinessHourSlots(from time.Time, days, durationMinutes int, busy []agent.TimeRange) []agent.Slot {
	if durationMinutes <= 0 {
		durationMinutes = agent.DefaultDurationMinutes
	}
	length := time.Duration(durationMinutes) * time.Minute

	slots := []agent.Slot{}
	for d := 1; d <= days; d++ {
		day := from.AddDate(0, 0, d)
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}

		closing := time.Date(day.Year(), day.Month(), day.Day(), BusinessDayEndHour, 0, 0, 0, from.Location())
		for hour := BusinessDayStartHour; hour < BusinessDayEndHour; hour++ {
			start := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, from.Location())
			slot := agent.Slot{Start: start, End: start.Add(length)}
			if slot.End.After(closing) {
				break
			}
			if overlapsAny(slot, busy) {
				continue
			}
			slots = append(slots, slot)
		}
	}
	return slots
}

func overlapsAny(slot agent.Slot, busy []agent.TimeRange) bool {
	for _, b := range busy {
		if slot.Overlaps(b) {
			return true
		}
	}
	return false
}

// slotWindow is the interval BusinessHourSlots can draw from.
func slotWindow(from time.Time, days int) (time.Time, time.Time) {
	first := from.AddDate(0, 0, 1)
	last := from.AddDate(0, 0, days)
	start := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, from.Location())
	end := time.Date(last.Year(), last.Month(), last.Day(), 23, 59, 59, 0, from.Location())
	return start, end
}
