package usecase

import (
	"context"
	"fmt"
	"strings"

	"timely-scheduler/internal/feedback"
	repo "timely-scheduler/internal/feedback/repository"
)

// OnOutcome turns an accept/decline into one policy update. Unknown and
// already handled invites are reported, not treated as errors. When the
// policy update fails the invite stays unhandled so a later delivery can retry.
// A decline also releases the placement so the next pass can offer the task
// again.
func (uc *implUseCase) OnOutcome(ctx context.Context, inviteID string, accepted bool) (feedback.Outcome, error) {
	if inviteID == "" {
		return "", feedback.ErrEmptyInviteID
	}
	defer uc.lock(inviteID)()

	rec, err := uc.repo.GetInvite(ctx, inviteID)
	if err != nil {
		uc.l.Errorf(ctx, "OnOutcome: GetInvite %s: %v", inviteID, err)
		return "", err
	}
	if rec.InviteID == "" {
		uc.l.Warnf(ctx, "OnOutcome: unknown invite %s", inviteID)
		uc.metrics.IncOutcome(string(feedback.OutcomeNotFound))
		return feedback.OutcomeNotFound, nil
	}
	if rec.Handled {
		uc.l.Infof(ctx, "OnOutcome: invite %s already handled (%s)", inviteID, rec.Outcome)
		uc.metrics.IncOutcome(string(feedback.OutcomeAlreadyHandled))
		return feedback.OutcomeAlreadyHandled, nil
	}

	cost, status := 1.0, feedback.StatusDeclined
	if accepted {
		cost, status = 0.0, feedback.StatusAccepted
	}

	if err := uc.policy.Update(ctx, rec.UserID, rec.Context, rec.ChosenOffset, cost, rec.Probability); err != nil {
		uc.l.Errorf(ctx, "OnOutcome: policy update for invite %s: %v", inviteID, err)
		return "", fmt.Errorf("apply outcome %s: %w", inviteID, err)
	}
	uc.metrics.IncPolicyUpdate()

	marked, err := uc.repo.MarkHandled(ctx, repo.MarkHandledOptions{
		InviteID: inviteID,
		Outcome:  status,
		At:       uc.now(),
	})
	if err != nil {
		uc.l.Errorf(ctx, "OnOutcome: MarkHandled %s after policy update: %v", inviteID, err)
		return "", err
	}
	if !marked {
		// Another process handled it between our read and write.
		uc.l.Warnf(ctx, "OnOutcome: invite %s was handled concurrently", inviteID)
	}
	if marked && !accepted {
		uc.release(ctx, rec)
	}

	uc.l.Infof(ctx, "OnOutcome: invite %s %s (offset %d, p=%.3f)", inviteID, status, rec.ChosenOffset, rec.Probability)
	uc.metrics.IncOutcome(string(feedback.OutcomeApplied))
	return feedback.OutcomeApplied, nil
}

func (uc *implUseCase) release(ctx context.Context, rec feedback.InviteRecord) {
	if uc.releaser == nil || rec.PlacementID == "" {
		return
	}
	released, err := uc.releaser.ReleasePlacement(ctx, rec.PlacementID)
	if err != nil {
		uc.l.Errorf(ctx, "OnOutcome: release placement %s of invite %s: %v", rec.PlacementID, rec.InviteID, err)
		return
	}
	if released {
		uc.l.Infof(ctx, "OnOutcome: placement %s released, task %s can be offered again", rec.PlacementID, rec.TaskID)
	}
}

// HandleStatus maps a raw calendar status onto OnOutcome. Statuses other
// than accepted and declined leave the invite open.
func (uc *implUseCase) HandleStatus(ctx context.Context, inviteID, status string) (feedback.Outcome, error) {
	if inviteID == "" {
		return "", feedback.ErrEmptyInviteID
	}
	switch strings.ToLower(strings.TrimSpace(status)) {
	case feedback.StatusAccepted:
		return uc.OnOutcome(ctx, inviteID, true)
	case feedback.StatusDeclined:
		return uc.OnOutcome(ctx, inviteID, false)
	default:
		uc.l.Debugf(ctx, "HandleStatus: invite %s status %q ignored", inviteID, status)
		uc.metrics.IncOutcome(string(feedback.OutcomeIgnored))
		return feedback.OutcomeIgnored, nil
	}
}
