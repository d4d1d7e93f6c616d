// Package calendar reads busy time from and publishes placements to a
// Google Calendar.
package calendar

import (
	"context"
	"time"

	"timely-scheduler/pkg/gcalendar"
	"timely-scheduler/pkg/log"
)

// Private event properties written on every published placement.
const (
	PropUserID      = "timely_user_id"
	PropTaskID      = "timely_task_id"
	PropPlacementID = "timely_placement_id"
)

// Client is the part of gcalendar.Client used here.
type Client interface {
	ListEvents(ctx context.Context, req gcalendar.ListEventsRequest) ([]gcalendar.Event, error)
	CreateEvent(ctx context.Context, req gcalendar.CreateEventRequest) (*gcalendar.Event, error)
}

// Config selects the calendar and invitee.
type Config struct {
	CalendarID    string
	AttendeeEmail string
	Timezone      *time.Location
	// BlockAllDay makes all-day events occupy their whole day(s).
	BlockAllDay bool
}

type implRepository struct {
	cfg    Config
	client Client
	l      log.Logger
}

// New creates a calendar-backed busy source and event sink.
func New(cfg Config, client Client, l log.Logger) *implRepository {
	if cfg.Timezone == nil {
		cfg.Timezone = time.UTC
	}
	return &implRepository{cfg: cfg, client: client, l: l}
}

func (r *implRepository) dsn(op string) string {
	return "schedule.repository.calendar." + op
}
