package usecase

import (
	"context"
	"errors"
	"fmt"

	"timely-scheduler/internal/feedback"
	repo "timely-scheduler/internal/feedback/repository"
	"timely-scheduler/internal/model"
)

// Track stores the context snapshot of a published placement under its
// invite id. Tracking the same invite twice is a no-op.
func (uc *implUseCase) Track(ctx context.Context, p model.Placement) error {
	switch {
	case p.InviteID == "":
		return fmt.Errorf("%w: placement %s has no invite id", feedback.ErrInvalidInvite, p.ID)
	case p.UserID == "":
		return fmt.Errorf("%w: placement %s has no user", feedback.ErrInvalidInvite, p.ID)
	case p.Probability <= 0 || p.Probability > 1:
		return fmt.Errorf("%w: probability %v", feedback.ErrInvalidInvite, p.Probability)
	}

	err := uc.repo.CreateInvite(ctx, feedback.InviteRecord{
		InviteID:     p.InviteID,
		UserID:       p.UserID,
		TaskID:       p.TaskID,
		PlacementID:  p.ID,
		Context:      p.Context,
		ChosenOffset: p.Offset,
		Probability:  p.Probability,
		CreatedAt:    uc.now(),
	})
	if errors.Is(err, repo.ErrDuplicate) {
		uc.l.Debugf(ctx, "Track: invite %s already tracked", p.InviteID)
		return nil
	}
	if err != nil {
		uc.l.Errorf(ctx, "Track: CreateInvite %s: %v", p.InviteID, err)
		return err
	}
	return nil
}
