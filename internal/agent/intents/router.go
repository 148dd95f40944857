package intents

import (
	"strings"

	"github.com/omriShneor/booking_assistant/internal/agent"
)

// RoutedIntent is the router decision for a single message.
type RoutedIntent struct {
	Intent     agent.Intent
	Confidence float64
	Keyword    string // the keyword that matched, empty for general
}

// Rule maps a keyword set to an intent.
type Rule struct {
	Intent   agent.Intent
	Keywords []string
}

// DefaultRules are checked in order and the first rule with a keyword in the
// message wins. Booking comes first, so "cancel my meeting" is a booking
// request because of "meeting".
var DefaultRules = []Rule{
	{
		Intent:   agent.IntentBookMeeting,
		Keywords: []string{"book", "schedule", "arrange", "set up", "create", "plan", "meeting", "appointment", "call"},
	},
	{
		Intent:   agent.IntentCheckAvailability,
		Keywords: []string{"available", "availability", "free", "busy", "when can", "what time"},
	},
	{
		Intent:   agent.IntentListMeetings,
		Keywords: []string{"list", "show", "what meetings", "my schedule", "upcoming"},
	},
	{
		Intent:   agent.IntentCancelMeeting,
		Keywords: []string{"cancel", "delete", "remove", "reschedule"},
	},
}

// KeywordRouter is a deterministic keyword-membership intent classifier.
type KeywordRouter struct {
	rules []Rule
}

func NewKeywordRouter() *KeywordRouter {
	return &KeywordRouter{rules: DefaultRules}
}

// NewKeywordRouterWithRules builds a router over a custom rule list.
func NewKeywordRouterWithRules(rules []Rule) *KeywordRouter {
	return &KeywordRouter{rules: rules}
}

// Classify buckets message into an intent. It never fails; unmatched input is general.
func (r *KeywordRouter) Classify(message string) RoutedIntent {
	normalized := strings.ToLower(message)

	for _, rule := range r.rules {
		if kw, ok := containsAny(normalized, rule.Keywords); ok {
			return RoutedIntent{Intent: rule.Intent, Confidence: 0.8, Keyword: kw}
		}
	}
	return RoutedIntent{Intent: agent.IntentGeneral, Confidence: 0.5}
}

func containsAny(text string, values []string) (string, bool) {
	for _, v := range values {
		if strings.Contains(text, v) {
			return v, true
		}
	}
	return "", false
}
