package extract

import "regexp"

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// Attendees returns every e-mail address in message in order of appearance.
// Duplicates are kept. The result is never nil.
func Attendees(message string) []string {
	found := emailPattern.FindAllString(message, -1)
	if found == nil {
		return []string{}
	}
	return found
}
