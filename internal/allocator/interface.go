package allocator

import (
	"context"
	"time"

	"timely-scheduler/internal/model"
	"timely-scheduler/internal/recommender"
	"timely-scheduler/internal/timegrid"
)

// Recommender proposes ranked candidates for a task.
type Recommender interface {
	Recommend(ctx context.Context, userID string, pc model.PolicyContext, candidateHours []int, topK int, preferSplitting bool) (recommender.Recommendation, error)
}

//go:generate mockery --name UseCase
type UseCase interface {
	AllocateAll(ctx context.Context, userID string, tasks []model.Task, grid *timegrid.Grid, busy []model.BusyInterval, now time.Time) (Result, error)
}
