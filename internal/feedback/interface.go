package feedback

import (
	"context"

	"timely-scheduler/internal/model"
)

// PolicyUpdater receives training steps. policy.Store satisfies it.
type PolicyUpdater interface {
	Update(ctx context.Context, userID string, pc model.PolicyContext, action int, cost, probability float64) error
}

// PlacementReleaser gives a declined placement's slot and hours back to its
// task. The schedule sqlite repository satisfies it.
type PlacementReleaser interface {
	ReleasePlacement(ctx context.Context, placementID string) (bool, error)
}

// ResponseReader reads an invitee's current response to an event.
type ResponseReader interface {
	GetAttendeeResponse(ctx context.Context, calendarID, eventID, email string) (string, error)
}

//go:generate mockery --name UseCase
type UseCase interface {
	// Track records the decision behind a published placement.
	Track(ctx context.Context, p model.Placement) error
	// OnOutcome applies one accept/decline to the policy, at most once per invite.
	OnOutcome(ctx context.Context, inviteID string, accepted bool) (Outcome, error)
	// HandleStatus routes a raw status; anything but accepted/declined is ignored.
	HandleStatus(ctx context.Context, inviteID, status string) (Outcome, error)
	// Poll reads responses for the user's unhandled invites.
	Poll(ctx context.Context, userID string) (PollResult, error)
}
