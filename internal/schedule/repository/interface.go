package repository

import (
	"context"
	"time"

	"timely-scheduler/internal/model"
)

// Repository is the composed interface for the schedule data store.
type Repository interface {
	TaskRepository
	PlacementRepository
}

// TaskRepository persists tasks and their remaining hours.
type TaskRepository interface {
	CreateTask(ctx context.Context, opt CreateTaskOptions) (model.Task, error)
	ListTasks(ctx context.Context, opt ListTasksOptions) ([]model.Task, error)
	ListPending(ctx context.Context, userID string) ([]model.Task, error)
}

// PlacementRepository persists placements and serves the live ones back as
// busy time. Saving a placement deducts its hours from the task; releasing it
// returns them.
type PlacementRepository interface {
	SavePlacements(ctx context.Context, placements []model.Placement) error
	AttachInvite(ctx context.Context, placementID, inviteID string) error
	ReleasePlacement(ctx context.Context, placementID string) (bool, error)
	ListBusy(ctx context.Context, userID string, from, to time.Time) ([]model.BusyInterval, error)
}
