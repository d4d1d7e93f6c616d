package policy

import (
	"context"
	"errors"
	"fmt"

	"timely-scheduler/internal/model"
)

// GetOrCreate returns the cached model for userID, loading it from the blob
// store or creating it on first access. Concurrent callers for the same user
// share one load.
func (s *implStore) GetOrCreate(ctx context.Context, userID string) (*Handle, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	if h, ok := s.cache.Get(userID); ok {
		return h, nil
	}

	v, err, _ := s.group.Do(userID, func() (any, error) {
		if h, ok := s.cache.Get(userID); ok {
			return h, nil
		}
		h, err := s.open(ctx, userID)
		if err != nil {
			return nil, err
		}
		s.cache.Add(userID, h)
		s.flushEvicted(ctx)
		return h, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Handle), nil
}

// open restores a user's model, falling back to the baseline model and then
// to a fresh one.
func (s *implStore) open(ctx context.Context, userID string) (*Handle, error) {
	scorer := s.newScorer()

	data, err := s.blobs.Load(ctx, userID)
	switch {
	case err == nil:
		if err := scorer.Load(data); err != nil {
			return nil, fmt.Errorf("%w: load %s: %v", ErrPersistence, userID, err)
		}
		return &Handle{userID: userID, scorer: scorer}, nil
	case !errors.Is(err, ErrBlobNotFound):
		return nil, fmt.Errorf("%w: load %s: %v", ErrPersistence, userID, err)
	}

	if base := s.cfg.BaselineUserID; base != "" && base != userID {
		data, err := s.blobs.Load(ctx, base)
		switch {
		case err == nil:
			if err := scorer.Load(data); err != nil {
				s.l.Warnf(ctx, "policy.open: baseline %s unusable, starting fresh: %v", base, err)
				scorer = s.newScorer()
			} else {
				s.l.Infof(ctx, "policy.open: cloned baseline %s for new user", base)
			}
		case errors.Is(err, ErrBlobNotFound):
			s.l.Debugf(ctx, "policy.open: baseline %s has no model yet", base)
		default:
			return nil, fmt.Errorf("%w: load baseline %s: %v", ErrPersistence, base, err)
		}
	}

	return &Handle{userID: userID, scorer: scorer}, nil
}

func (s *implStore) Score(ctx context.Context, userID string, pc model.PolicyContext, actions []int) ([]float64, error) {
	h, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	scores, err := h.scorer.Score(pc, actions)
	if err != nil {
		if !errors.Is(err, ErrScoring) {
			err = fmt.Errorf("%w: %v", ErrScoring, err)
		}
		return nil, err
	}
	return scores, nil
}

// Update applies one training step and writes the model through to the blob
// store. A failed write leaves the model dirty for the next Persist.
func (s *implStore) Update(ctx context.Context, userID string, pc model.PolicyContext, action int, cost, probability float64) error {
	h, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.scorer.Update(pc, action, cost, probability); err != nil {
		if !errors.Is(err, ErrScoring) {
			err = fmt.Errorf("%w: %v", ErrScoring, err)
		}
		return err
	}
	h.dirty = true

	return s.persistLocked(ctx, h)
}

// Persist writes the cached model of userID. Users not in the cache have
// nothing to write.
func (s *implStore) Persist(ctx context.Context, userID string) error {
	h, ok := s.cache.Peek(userID)
	if !ok {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return s.persistLocked(ctx, h)
}

// Load replaces any cached model for userID with the stored one. A cached
// model with unsaved changes is written first; if that fails it stays cached.
func (s *implStore) Load(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	if old, ok := s.cache.Peek(userID); ok {
		old.mu.Lock()
		var err error
		if old.dirty {
			err = s.persistLocked(ctx, old)
		}
		old.mu.Unlock()
		if err != nil {
			s.l.Errorf(ctx, "policy.Load: keeping unsaved model of %s: %v", userID, err)
			return err
		}
	}

	h, err := s.open(ctx, userID)
	if err != nil {
		return err
	}
	s.cache.Add(userID, h)
	s.flushEvicted(ctx)
	return nil
}

// PersistAll writes every cached model. It keeps going after failures and
// returns them joined.
func (s *implStore) PersistAll(ctx context.Context) error {
	var errs []error
	for _, userID := range s.cache.Keys() {
		if err := s.Persist(ctx, userID); err != nil {
			errs = append(errs, err)
		}
	}
	s.flushEvicted(ctx)
	return errors.Join(errs...)
}

// Evict persists and drops the cached model of userID.
func (s *implStore) Evict(ctx context.Context, userID string) error {
	if err := s.Persist(ctx, userID); err != nil {
		return err
	}
	s.cache.Remove(userID)
	s.flushEvicted(ctx)
	return nil
}

func (s *implStore) persistLocked(ctx context.Context, h *Handle) error {
	data, err := h.scorer.Save()
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrPersistence, h.userID, err)
	}
	if err := s.blobs.Save(ctx, h.userID, data); err != nil {
		return fmt.Errorf("%w: save %s: %v", ErrPersistence, h.userID, err)
	}
	h.dirty = false
	return nil
}

// flushEvicted writes models that left the cache with unsaved changes.
func (s *implStore) flushEvicted(ctx context.Context) {
	s.evictMu.Lock()
	pending := s.evicted
	s.evicted = nil
	s.evictMu.Unlock()

	for _, h := range pending {
		h.mu.Lock()
		if h.dirty {
			if err := s.persistLocked(ctx, h); err != nil {
				s.l.Errorf(ctx, "policy.flushEvicted: %v", err)
			}
		}
		h.mu.Unlock()
	}
}
