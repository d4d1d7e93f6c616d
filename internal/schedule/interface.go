package schedule

import (
	"context"
	"time"

	"timely-scheduler/internal/model"
)

// TaskSource supplies the pending tasks of a user.
type TaskSource interface {
	ListPending(ctx context.Context, userID string) ([]model.Task, error)
}

// BusySource lists intervals in [from, to) the user cannot be scheduled in.
type BusySource interface {
	ListBusy(ctx context.Context, userID string, from, to time.Time) ([]model.BusyInterval, error)
}

// PlacementStore records committed placements. Saving takes the placement's
// hours off its task; releasing frees the slot and gives the hours back.
type PlacementStore interface {
	SavePlacements(ctx context.Context, placements []model.Placement) error
	AttachInvite(ctx context.Context, placementID, inviteID string) error
	ReleasePlacement(ctx context.Context, placementID string) (bool, error)
}

// EventSink publishes a placement as a calendar invite and returns its id.
type EventSink interface {
	Publish(ctx context.Context, p model.Placement) (string, error)
}

// InviteTracker remembers the decision behind a published invite.
// feedback.UseCase satisfies it.
type InviteTracker interface {
	Track(ctx context.Context, p model.Placement) error
}

//go:generate mockery --name UseCase
type UseCase interface {
	// RunPass schedules the user's pending tasks into their free hours.
	RunPass(ctx context.Context, userID string) (PassResult, error)
	// CreateTask stores a new pending task.
	CreateTask(ctx context.Context, in CreateTaskInput) (model.Task, error)
	// ListTasks returns the user's tasks, finished ones included when all is set.
	ListTasks(ctx context.Context, userID string, all bool) ([]model.Task, error)
}
