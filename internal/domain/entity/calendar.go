package entity

import "time"

// BusyRange is an interval during which an external calendar is occupied.
type BusyRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// BusyResult is the outcome of one free/busy lookup. Calendars listed in Failed returned
// an error and their ranges are missing from Busy.
type BusyResult struct {
	Busy   []BusyRange       `json:"busy"`
	Failed map[string]string `json:"failed,omitempty"`
}

// CalendarEvent is what gets written to the provider's calendar for a booking.
type CalendarEvent struct {
	CalendarID  string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Attendees   []string
	RequestID   string
	Timezone    string
}

// CreatedEvent identifies an event written to the external calendar.
type CreatedEvent struct {
	EventID  string
	MeetLink string
}

// CalendarHealth is the last recorded state of the external calendar integration.
type CalendarHealth struct {
	OK              bool              `json:"ok"`
	Error           string            `json:"error,omitempty"`
	FailedCalendars map[string]string `json:"failed_calendars,omitempty"`
	CheckedAt       time.Time         `json:"checked_at"`
}

// TokenGrant holds credentials returned by an OAuth code exchange.
type TokenGrant struct {
	RefreshToken string
	AccessToken  string
	Expiry       time.Time
}
