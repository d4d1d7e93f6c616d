package policy

import (
	"context"

	"timely-scheduler/internal/model"
)

// Scorer is one learnable model. Implementations are not safe for concurrent
// use; the Store serializes access per user.
type Scorer interface {
	// Score returns a preference in [0,1] per action, higher is better.
	Score(pc model.PolicyContext, actions []int) ([]float64, error)
	// Update applies one importance-weighted training step.
	Update(pc model.PolicyContext, action int, cost, probability float64) error
	Save() ([]byte, error)
	Load(data []byte) error
}

// BlobStore is the durable per-user model storage.
type BlobStore interface {
	Load(ctx context.Context, userID string) ([]byte, error)
	Save(ctx context.Context, userID string, data []byte) error
}

// Store owns one Scorer per user.
//
//go:generate mockery --name Store
type Store interface {
	GetOrCreate(ctx context.Context, userID string) (*Handle, error)
	Score(ctx context.Context, userID string, pc model.PolicyContext, actions []int) ([]float64, error)
	Update(ctx context.Context, userID string, pc model.PolicyContext, action int, cost, probability float64) error
	Persist(ctx context.Context, userID string) error
	Load(ctx context.Context, userID string) error
	PersistAll(ctx context.Context) error
	Evict(ctx context.Context, userID string) error
}
