package calendar

import (
	"context"
	"time"

	"timely-scheduler/internal/model"
	repo "timely-scheduler/internal/schedule/repository"
	"timely-scheduler/pkg/gcalendar"
)

// ListBusy returns the calendar's blocking events overlapping [from, to).
// Cancelled and transparent ("free") events do not block.
func (r *implRepository) ListBusy(ctx context.Context, userID string, from, to time.Time) ([]model.BusyInterval, error) {
	events, err := r.client.ListEvents(ctx, gcalendar.ListEventsRequest{
		CalendarID: r.cfg.CalendarID,
		TimeMin:    from,
		TimeMax:    to,
	})
	if err != nil {
		r.l.Errorf(ctx, "%s %s: %v", r.dsn("ListBusy"), userID, err)
		return nil, repo.ErrFailedToList
	}

	out := make([]model.BusyInterval, 0, len(events))
	for _, ev := range events {
		if ev.Status == "cancelled" || ev.Transparent {
			continue
		}
		if ev.AllDay && !r.cfg.BlockAllDay {
			continue
		}
		start, end := ev.StartTime, ev.EndTime
		if ev.AllDay {
			// All-day dates are calendar days in the user's zone.
			start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, r.cfg.Timezone)
			end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, r.cfg.Timezone)
		}
		if !end.After(start) {
			continue
		}
		out = append(out, model.BusyInterval{Start: start, End: end, Label: ev.Summary})
	}
	return out, nil
}
