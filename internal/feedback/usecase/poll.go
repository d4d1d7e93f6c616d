package usecase

import (
	"context"
	"errors"

	"timely-scheduler/internal/feedback"
	repo "timely-scheduler/internal/feedback/repository"
	"timely-scheduler/pkg/gcalendar"
)

const pollBatch = 100

// Poll reads the invitee's response for each open invite of userID and
// applies the definitive ones.
func (uc *implUseCase) Poll(ctx context.Context, userID string) (feedback.PollResult, error) {
	var res feedback.PollResult
	if uc.responses == nil || uc.cfg.AttendeeEmail == "" {
		return res, feedback.ErrPollingDisabled
	}

	open, err := uc.repo.ListUnhandled(ctx, repo.ListUnhandledOptions{UserID: userID, Limit: pollBatch})
	if err != nil {
		uc.l.Errorf(ctx, "Poll: ListUnhandled %s: %v", userID, err)
		return res, err
	}

	for _, rec := range open {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Checked++

		status, err := uc.responses.GetAttendeeResponse(ctx, uc.cfg.CalendarID, rec.InviteID, uc.cfg.AttendeeEmail)
		if errors.Is(err, gcalendar.ErrEventNotFound) {
			res.NotFound++
			continue
		}
		if err != nil {
			uc.l.Errorf(ctx, "Poll: response for %s: %v", rec.InviteID, err)
			return res, err
		}

		outcome, err := uc.HandleStatus(ctx, rec.InviteID, status)
		if err != nil {
			return res, err
		}
		if outcome == feedback.OutcomeApplied {
			res.Applied++
		} else {
			res.Pending++
		}
	}

	uc.l.Infof(ctx, "Poll: user %s checked=%d applied=%d pending=%d missing=%d", userID, res.Checked, res.Applied, res.Pending, res.NotFound)
	return res, nil
}
