package recommender

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"timely-scheduler/pkg/log"
)

type implUseCase struct {
	cfg    Config
	scorer Scorer
	l      log.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Recommender. A zero seed draws one from the clock.
func New(cfg Config, scorer Scorer, l log.Logger) (*implUseCase, error) {
	if scorer == nil {
		return nil, errors.New("recommender: scorer is required")
	}
	if l == nil {
		return nil, errors.New("recommender: logger is required")
	}
	if cfg.Epsilon < 0 || cfg.Epsilon > 1 {
		return nil, errors.New("recommender: epsilon must be within [0,1]")
	}
	def := DefaultConfig()
	if cfg.MaxChunkHours <= 0 {
		cfg.MaxChunkHours = def.MaxChunkHours
	}
	if cfg.TopK <= 0 {
		cfg.TopK = def.TopK
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return &implUseCase{
		cfg:    cfg,
		scorer: scorer,
		l:      l,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}, nil
}

func (uc *implUseCase) Config() Config { return uc.cfg }
