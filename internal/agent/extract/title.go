package extract

import (
	"strings"

	"github.com/omriShneor/booking_assistant/internal/agent"
)

type titleRule struct {
	keywords []string
	title    string
}

// First rule with a keyword in the message wins.
var titleRules = []titleRule{
	{[]string{"standup", "stand up"}, "Team Standup"},
	{[]string{"review"}, "Review Meeting"},
	{[]string{"interview"}, "Interview"},
	{[]string{"call"}, "Call"},
	{[]string{"demo"}, "Demo"},
	{[]string{"sync"}, "Sync Meeting"},
}

// Title maps the message to one of a fixed set of meeting titles.
func Title(message string) string {
	title, _ := FindTitle(message)
	return title
}

// FindTitle is Title that also reports whether a keyword matched.
func FindTitle(message string) (string, bool) {
	lower := strings.ToLower(message)
	for _, rule := range titleRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.title, true
			}
		}
	}
	return agent.DefaultTitle, false
}
