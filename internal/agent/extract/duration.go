package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/omriShneor/booking_assistant/internal/agent"
)

type durationPattern struct {
	re         *regexp.Regexp
	multiplier int
}

// Evaluated in order against the lower-cased message; first match wins.
var durationPatterns = []durationPattern{
	{regexp.MustCompile(`(\d+)\s*hours?`), 60},
	{regexp.MustCompile(`(\d+)\s*h\b`), 60},
	{regexp.MustCompile(`(\d+)\s*minutes?`), 1},
	{regexp.MustCompile(`(\d+)\s*mins?`), 1},
	{regexp.MustCompile(`(\d+)\s*m\b`), 1},
}

// Matches "2 to 3" or "2-3", read as hours.
var hourRangePattern = regexp.MustCompile(`(\d+)\s*(?:to|-)\s*(\d+)`)

// Duration returns the meeting length in minutes, defaulting to 60.
func Duration(message string) int {
	minutes, _ := FindDuration(message)
	return minutes
}

// FindDuration is Duration that also reports whether the value came from the
// message. A zero length, or one longer than agent.MaxDurationMinutes, is
// treated as not found.
func FindDuration(message string) (int, bool) {
	lower := strings.ToLower(message)

	for _, p := range durationPatterns {
		m := p.re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 || n > agent.MaxDurationMinutes/p.multiplier {
			return agent.DefaultDurationMinutes, false
		}
		return n * p.multiplier, true
	}

	if m := hourRangePattern.FindStringSubmatch(message); m != nil {
		start, errStart := strconv.Atoi(m[1])
		end, errEnd := strconv.Atoi(m[2])
		if errStart == nil && errEnd == nil && end > start && end-start <= agent.MaxDurationMinutes/60 {
			return (end - start) * 60, true
		}
	}

	return agent.DefaultDurationMinutes, false
}
