package recommender

import (
	"context"

	"timely-scheduler/internal/model"
)

// Scorer evaluates slot offsets for a user. policy.Store satisfies it.
type Scorer interface {
	Score(ctx context.Context, userID string, pc model.PolicyContext, actions []int) ([]float64, error)
}

//go:generate mockery --name UseCase
type UseCase interface {
	Recommend(ctx context.Context, userID string, pc model.PolicyContext, candidateHours []int, topK int, preferSplitting bool) (Recommendation, error)
	Config() Config
}
