package calendar

import (
	"context"
	"fmt"

	"timely-scheduler/internal/model"
	repo "timely-scheduler/internal/schedule/repository"
	"timely-scheduler/pkg/gcalendar"
)

// Publish creates an event for the placement, inviting the configured
// attendee. The event id is the invite id.
func (r *implRepository) Publish(ctx context.Context, p model.Placement) (string, error) {
	ev, err := r.client.CreateEvent(ctx, gcalendar.CreateEventRequest{
		CalendarID:    r.cfg.CalendarID,
		Summary:       p.TaskName,
		Description:   fmt.Sprintf("Scheduled work block: %.1fh of %q (%s)", p.ChunkDuration, p.TaskName, p.Context.TaskCategory),
		StartTime:     p.Start.In(r.cfg.Timezone),
		EndTime:       p.End.In(r.cfg.Timezone),
		Timezone:      r.cfg.Timezone.String(),
		AttendeeEmail: r.cfg.AttendeeEmail,
		Properties: map[string]string{
			PropUserID:      p.UserID,
			PropTaskID:      p.TaskID,
			PropPlacementID: p.ID,
		},
	})
	if err != nil {
		r.l.Errorf(ctx, "%s %s: %v", r.dsn("Publish"), p.ID, err)
		return "", fmt.Errorf("%w: %v", repo.ErrFailedToPublish, err)
	}
	if ev.ID == "" {
		return "", fmt.Errorf("%w: calendar returned no event id", repo.ErrFailedToPublish)
	}
	return ev.ID, nil
}
