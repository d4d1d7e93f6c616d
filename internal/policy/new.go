package policy

import (
	"errors"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"timely-scheduler/pkg/log"
)

const defaultCacheSize = 256

type implStore struct {
	cfg       Config
	blobs     BlobStore
	l         log.Logger
	newScorer func() Scorer

	cache *lru.Cache[string, *Handle]
	group singleflight.Group

	evictMu sync.Mutex
	evicted []*Handle
}

// New creates a Store backed by blobs.
func New(cfg Config, blobs BlobStore, l log.Logger) (*implStore, error) {
	if blobs == nil {
		return nil, errors.New("policy: blob store is required")
	}
	if l == nil {
		return nil, errors.New("policy: logger is required")
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultCacheSize
	}

	s := &implStore{
		cfg:   cfg,
		blobs: blobs,
		l:     l,
	}
	s.newScorer = func() Scorer { return NewLinear(cfg.HashBits, cfg.LearningRate) }

	cache, err := lru.NewWithEvict(cfg.CacheSize, s.onEvict)
	if err != nil {
		return nil, err
	}
	s.cache = cache
	return s, nil
}

// onEvict runs under the cache lock, so it only queues the handle.
func (s *implStore) onEvict(_ string, h *Handle) {
	s.evictMu.Lock()
	s.evicted = append(s.evicted, h)
	s.evictMu.Unlock()
}
