package gcalendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	defaultCalendarID = "primary"
	defaultTokenPath  = "token.json"
	maxListPages      = 20
)

// ErrEventNotFound is returned when an event id does not exist.
var ErrEventNotFound = errors.New("calendar event not found")

// Client wraps the Google Calendar API service.
type Client struct {
	service *calendar.Service
}

// New creates a Calendar client from the credentials file named in cfg.
func New(ctx context.Context, cfg Config) (*Client, error) {
	data, err := os.ReadFile(cfg.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return NewClientFromCredentialsJSON(ctx, data, cfg.TokenPath)
}

// NewClientFromCredentialsJSON accepts either Service Account JSON or OAuth
// installed-app JSON. The latter needs a token previously stored at tokenPath.
func NewClientFromCredentialsJSON(ctx context.Context, credentialsJSON []byte, tokenPath string) (*Client, error) {
	config, err := google.JWTConfigFromJSON(credentialsJSON, calendar.CalendarScope)
	if err == nil {
		svc, svcErr := calendar.NewService(ctx, option.WithTokenSource(config.TokenSource(ctx)))
		if svcErr != nil {
			return nil, fmt.Errorf("failed to create calendar service: %w", svcErr)
		}
		return &Client{service: svc}, nil
	}

	oauthConfig, oauthErr := google.ConfigFromJSON(credentialsJSON, calendar.CalendarScope)
	if oauthErr != nil {
		return nil, fmt.Errorf("unsupported credentials format: %w", err)
	}

	if tokenPath == "" {
		tokenPath = defaultTokenPath
	}
	tokenData, tokenErr := os.ReadFile(tokenPath)
	if tokenErr != nil {
		return nil, fmt.Errorf("installed-app credentials need a token at %s (run scripts/gcal-auth): %w", tokenPath, tokenErr)
	}
	var tok oauth2.Token
	if jsonErr := json.Unmarshal(tokenData, &tok); jsonErr != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", tokenPath, jsonErr)
	}

	svc, svcErr := calendar.NewService(ctx, option.WithTokenSource(oauthConfig.TokenSource(ctx, &tok)))
	if svcErr != nil {
		return nil, fmt.Errorf("failed to create calendar service from OAuth token: %w", svcErr)
	}
	return &Client{service: svc}, nil
}

// NewClientFromHTTP creates a Calendar client from a pre-configured HTTP client.
func NewClientFromHTTP(ctx context.Context, httpClient *http.Client) (*Client, error) {
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &Client{service: svc}, nil
}

// CreateEvent creates a timed event, inviting AttendeeEmail when set.
func (c *Client) CreateEvent(ctx context.Context, req CreateEventRequest) (*Event, error) {
	event := &calendar.Event{
		Summary:     req.Summary,
		Description: req.Description,
		Start: &calendar.EventDateTime{
			DateTime: req.StartTime.Format(time.RFC3339),
			TimeZone: req.Timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: req.EndTime.Format(time.RFC3339),
			TimeZone: req.Timezone,
		},
	}
	if req.AttendeeEmail != "" {
		event.Attendees = []*calendar.EventAttendee{{Email: req.AttendeeEmail}}
	}
	if len(req.Properties) > 0 {
		event.ExtendedProperties = &calendar.EventExtendedProperties{Private: req.Properties}
	}

	call := c.service.Events.Insert(calendarID(req.CalendarID), event).Context(ctx)
	if req.AttendeeEmail != "" {
		call = call.SendUpdates("all")
	}
	created, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar event: %w", err)
	}

	out := toEvent(created)
	out.StartTime, out.EndTime = req.StartTime, req.EndTime
	return &out, nil
}

// ListEvents returns single events overlapping [TimeMin, TimeMax), following
// pagination.
func (c *Client) ListEvents(ctx context.Context, req ListEventsRequest) ([]Event, error) {
	call := c.service.Events.List(calendarID(req.CalendarID)).
		Context(ctx).
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(req.TimeMin.Format(time.RFC3339)).
		TimeMax(req.TimeMax.Format(time.RFC3339))
	if req.MaxResults > 0 {
		call = call.MaxResults(req.MaxResults)
	}

	var out []Event
	for page := 0; page < maxListPages; page++ {
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list calendar events: %w", err)
		}
		for _, item := range resp.Items {
			out = append(out, toEvent(item))
		}
		if resp.NextPageToken == "" {
			break
		}
		call = call.PageToken(resp.NextPageToken)
	}
	return out, nil
}

// GetEvent fetches one event by id.
func (c *Client) GetEvent(ctx context.Context, calID, eventID string) (*Event, error) {
	ev, err := c.service.Events.Get(calendarID(calID), eventID).Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && (gerr.Code == http.StatusNotFound || gerr.Code == http.StatusGone) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get calendar event: %w", err)
	}
	out := toEvent(ev)
	return &out, nil
}

// GetAttendeeResponse returns the response status of email on the event.
// A cancelled event reads as declined.
func (c *Client) GetAttendeeResponse(ctx context.Context, calID, eventID, email string) (string, error) {
	ev, err := c.GetEvent(ctx, calID, eventID)
	if err != nil {
		return "", err
	}
	if ev.Status == "cancelled" {
		return ResponseDeclined, nil
	}
	for _, a := range ev.Attendees {
		if strings.EqualFold(a.Email, email) {
			return a.ResponseStatus, nil
		}
	}
	return ResponseNeedsAction, nil
}

func calendarID(id string) string {
	if id == "" {
		return defaultCalendarID
	}
	return id
}

func toEvent(ev *calendar.Event) Event {
	out := Event{
		ID:          ev.Id,
		Summary:     ev.Summary,
		Description: ev.Description,
		HtmlLink:    ev.HtmlLink,
		Status:      ev.Status,
		Transparent: ev.Transparency == "transparent",
		Location:    ev.Location,
	}
	out.StartTime, out.AllDay = parseEventTime(ev.Start)
	out.EndTime, _ = parseEventTime(ev.End)
	for _, a := range ev.Attendees {
		out.Attendees = append(out.Attendees, Attendee{
			Email:          a.Email,
			ResponseStatus: a.ResponseStatus,
			Self:           a.Self,
		})
	}
	return out
}

// parseEventTime reads either a dateTime or an all-day date.
func parseEventTime(t *calendar.EventDateTime) (time.Time, bool) {
	if t == nil {
		return time.Time{}, false
	}
	if t.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, t.DateTime)
		if err == nil {
			return parsed, false
		}
	}
	if t.Date != "" {
		loc := time.UTC
		if t.TimeZone != "" {
			if l, err := time.LoadLocation(t.TimeZone); err == nil {
				loc = l
			}
		}
		parsed, err := time.ParseInLocation("2006-01-02", t.Date, loc)
		if err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
