package policy

import "sync"

// Config configures a Store.
type Config struct {
	CacheSize      int
	HashBits       int
	LearningRate   float64
	BaselineUserID string
}

// Handle is the cached model of one user.
type Handle struct {
	userID string
	mu     sync.RWMutex
	scorer Scorer
	dirty  bool
}

// UserID returns the owner of the model.
func (h *Handle) UserID() string { return h.userID }
