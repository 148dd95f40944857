package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// relativeDay resolves a keyword to a day offset from the reference time.
type relativeDay struct {
	keyword string
	offset  func(now time.Time) int
}

// Evaluated in order; the first keyword found in the message sets the base date.
var relativeDays = []relativeDay{
	{"tomorrow", func(time.Time) int { return 1 }},
	{"today", func(time.Time) int { return 0 }},
	{"next week", func(time.Time) int { return 7 }},
	{"monday", nextWeekday(time.Monday)},
	{"tuesday", nextWeekday(time.Tuesday)},
	{"wednesday", nextWeekday(time.Wednesday)},
	{"thursday", nextWeekday(time.Thursday)},
	{"friday", nextWeekday(time.Friday)},
}

// nextWeekday returns the offset to the next occurrence of day, never today.
func nextWeekday(day time.Weekday) func(now time.Time) int {
	return func(now time.Time) int {
		ahead := int(day) - int(now.Weekday())
		if ahead <= 0 {
			ahead += 7
		}
		return ahead
	}
}

type clockPattern struct {
	re *regexp.Regexp
	// hour, minute and meridiem are capture group indexes; 0 means not captured.
	hour, minute, meridiem int
}

// Priority order: "3:30 pm", "3 pm", "at 3". Only the first match of each
// pattern is considered.
var clockPatterns = []clockPattern{
	{re: regexp.MustCompile(`(\d{1,2}):(\d{2})\s*(am|pm)`), hour: 1, minute: 2, meridiem: 3},
	{re: regexp.MustCompile(`(\d{1,2})\s*(am|pm)`), hour: 1, meridiem: 2},
	{re: regexp.MustCompile(`at\s*(\d{1,2})`), hour: 1},
}

// DateTime finds a date and clock time in message, relative to now. It
// returns false when no clock time is present: a date alone is not
// schedulable. The result is in now's location with seconds zeroed.
func DateTime(message string, now time.Time) (time.Time, bool) {
	lower := strings.ToLower(message)
	base := now.AddDate(0, 0, baseDayOffset(lower, now))

	for _, p := range clockPatterns {
		m := p.re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}

		hour, err := strconv.Atoi(m[p.hour])
		if err != nil {
			continue
		}
		minute := 0
		if p.minute > 0 {
			if minute, err = strconv.Atoi(m[p.minute]); err != nil {
				continue
			}
		}
		if p.meridiem > 0 {
			hour = To24Hour(hour, m[p.meridiem])
		} else {
			hour = BareHour(hour)
		}

		if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
			continue
		}
		return time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, now.Location()), true
	}

	return time.Time{}, false
}

func baseDayOffset(lower string, now time.Time) int {
	for _, rd := range relativeDays {
		if strings.Contains(lower, rd.keyword) {
			return rd.offset(now)
		}
	}
	return 0
}

// To24Hour converts a 12-hour clock reading. 12pm is noon and 12am midnight.
func To24Hour(hour int, meridiem string) int {
	switch {
	case meridiem == "pm" && hour != 12:
		return hour + 12
	case meridiem == "am" && hour == 12:
		return 0
	}
	return hour
}

// BareHour interprets an hour given without am/pm. 8 through 12 are taken as
// written (morning or noon); 1 through 7 are assumed to be afternoon. This is
// a guess: "at 7" for breakfast will land at 19:00.
func BareHour(hour int) int {
	if hour >= 1 && hour <= 7 {
		return hour + 12
	}
	return hour
}
