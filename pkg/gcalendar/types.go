package gcalendar

import "time"

// Attendee response statuses as reported by the Calendar API.
const (
	ResponseAccepted    = "accepted"
	ResponseDeclined    = "declined"
	ResponseTentative   = "tentative"
	ResponseNeedsAction = "needsAction"
)

// Config selects credentials for New.
type Config struct {
	CredentialsPath string
	// TokenPath is the OAuth token written by scripts/gcal-auth. Only used
	// for installed-app credentials. Defaults to "token.json".
	TokenPath string
}

// CreateEventRequest is the input for creating a Google Calendar event.
type CreateEventRequest struct {
	CalendarID    string
	Summary       string
	Description   string
	StartTime     time.Time
	EndTime       time.Time
	Timezone      string // e.g. "America/New_York"
	AttendeeEmail string // optional invitee whose response is tracked
	// Private properties stored on the event, e.g. the task id.
	Properties map[string]string
}

// Event is a simplified representation of a Google Calendar event.
type Event struct {
	ID          string
	Summary     string
	Description string
	HtmlLink    string
	StartTime   time.Time
	EndTime     time.Time
	AllDay      bool
	Status      string // confirmed, tentative, cancelled
	Transparent bool   // event does not block time
	Location    string
	Attendees   []Attendee
}

// Attendee is an invitee with their response.
type Attendee struct {
	Email          string
	ResponseStatus string
	Self           bool
}

// ListEventsRequest is the input for listing Google Calendar events.
type ListEventsRequest struct {
	CalendarID string
	TimeMin    time.Time
	TimeMax    time.Time
	MaxResults int64
}
