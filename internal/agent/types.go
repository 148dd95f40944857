package agent

import "time"

// Intent is the coarse category of a user request.
type Intent string

const (
	IntentBookMeeting       Intent = "book_meeting"
	IntentCheckAvailability Intent = "check_availability"
	IntentListMeetings      Intent = "list_meetings"
	IntentCancelMeeting     Intent = "cancel_meeting"
	IntentGeneral           Intent = "general"
)

const (
	DefaultDurationMinutes = 60
	DefaultTitle           = "Meeting"

	// MaxDurationMinutes is one week. Longer lengths are not meetings and
	// would overflow time.Duration if taken at face value.
	MaxDurationMinutes = 7 * 24 * 60
)

// BookingInfo is the structured extraction result for a single message.
type BookingInfo struct {
	DateTime        *time.Time `json:"datetime,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	Title           string     `json:"title"`
	Attendees       []string   `json:"attendees"`

	// DurationExplicit and TitleExplicit are false when the value is the default
	// rather than something found in the message.
	DurationExplicit bool `json:"-"`
	TitleExplicit    bool `json:"-"`
}

// End returns the end of the booking, or the zero time if no datetime was resolved.
func (b BookingInfo) End() time.Time {
	if b.DateTime == nil {
		return time.Time{}
	}
	return b.DateTime.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

// PendingBooking accumulates booking fields across the turns of a session.
// A nil field has not been supplied yet.
type PendingBooking struct {
	DateTime        *time.Time `json:"datetime,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	Title           *string    `json:"title,omitempty"`
	Attendees       []string   `json:"attendees,omitempty"`
}

// Merge folds a fresh extraction into the pending booking. Values present in
// info overwrite, absent ones keep what the session already had. Defaults
// count as absent, except when the pending booking has nothing for that field.
func (p *PendingBooking) Merge(info BookingInfo) {
	if info.DateTime != nil {
		dt := *info.DateTime
		p.DateTime = &dt
	}
	if validDuration(info.DurationMinutes) && (info.DurationExplicit || p.DurationMinutes == nil) {
		d := info.DurationMinutes
		p.DurationMinutes = &d
	}
	if info.Title != "" && (info.TitleExplicit || p.Title == nil) {
		t := info.Title
		p.Title = &t
	}
	if len(info.Attendees) > 0 {
		p.Attendees = append([]string(nil), info.Attendees...)
	}
}

// Resolve returns the pending booking as a BookingInfo with defaults filled in.
func (p PendingBooking) Resolve() BookingInfo {
	info := BookingInfo{
		DurationMinutes: DefaultDurationMinutes,
		Title:           DefaultTitle,
		Attendees:       []string{},
	}
	if p.DateTime != nil {
		dt := *p.DateTime
		info.DateTime = &dt
	}
	if p.DurationMinutes != nil && validDuration(*p.DurationMinutes) {
		info.DurationMinutes = *p.DurationMinutes
		info.DurationExplicit = true
	}
	if p.Title != nil && *p.Title != "" {
		info.Title = *p.Title
		info.TitleExplicit = true
	}
	if len(p.Attendees) > 0 {
		info.Attendees = append(info.Attendees, p.Attendees...)
	}
	return info
}

func validDuration(minutes int) bool {
	return minutes > 0 && minutes <= MaxDurationMinutes
}

// IsEmpty reports whether nothing has been collected yet.
func (p PendingBooking) IsEmpty() bool {
	return p.DateTime == nil && p.DurationMinutes == nil && p.Title == nil && len(p.Attendees) == 0
}

// EventRequest describes an event to create on the calendar backend.
type EventRequest struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Attendees   []string
}

// EventResult is what the calendar backend reports after a create or delete.
type EventResult struct {
	Success   bool   `json:"success"`
	EventID   string `json:"event_id,omitempty"`
	EventLink string `json:"event_link,omitempty"`
	Error     string `json:"error,omitempty"`
}

// TimeRange is a half-open interval [Start, End).
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether the two ranges share any instant.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Slot is a candidate open interval offered to the user.
type Slot = TimeRange

// EventRecord is a calendar event as listed by the backend.
type EventRecord struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	AllDay      bool      `json:"all_day,omitempty"`
	Attendees   []string  `json:"attendees"`
	HTMLLink    string    `json:"html_link,omitempty"`
}
