package usecase

import (
	"errors"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"timely-scheduler/internal/allocator"
	"timely-scheduler/internal/metrics"
	"timely-scheduler/internal/schedule"
	"timely-scheduler/internal/schedule/repository"
	"timely-scheduler/internal/timegrid"
	"timely-scheduler/pkg/log"
)

const (
	defaultHorizonHours = 168
	lockStripes         = 64
)

type implUseCase struct {
	cfg        schedule.Config
	repo       repository.TaskRepository
	placements schedule.PlacementStore
	busy       []schedule.BusySource
	alloc      allocator.UseCase
	sink       schedule.EventSink
	tracker    schedule.InviteTracker
	metrics    *metrics.Metrics
	l          log.Logger
	now        func() time.Time

	locks [lockStripes]sync.Mutex
}

// Deps are the collaborators of a scheduling pass. Metrics may be nil.
type Deps struct {
	Tasks      repository.TaskRepository
	Placements schedule.PlacementStore
	Busy       []schedule.BusySource
	Allocator  allocator.UseCase
	Sink       schedule.EventSink
	Tracker    schedule.InviteTracker
	Metrics    *metrics.Metrics
}

// New creates the schedule UseCase.
func New(cfg schedule.Config, d Deps, l log.Logger) (*implUseCase, error) {
	switch {
	case d.Tasks == nil:
		return nil, errors.New("schedule: task repository is required")
	case d.Placements == nil:
		return nil, errors.New("schedule: placement store is required")
	case d.Allocator == nil:
		return nil, errors.New("schedule: allocator is required")
	case d.Sink == nil:
		return nil, errors.New("schedule: event sink is required")
	case d.Tracker == nil:
		return nil, errors.New("schedule: invite tracker is required")
	case l == nil:
		return nil, errors.New("schedule: logger is required")
	}

	if cfg.HorizonHours <= 0 {
		cfg.HorizonHours = defaultHorizonHours
	}
	if cfg.HorizonHours > timegrid.MaxHorizonHours {
		cfg.HorizonHours = timegrid.MaxHorizonHours
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	return &implUseCase{
		cfg:        cfg,
		repo:       d.Tasks,
		placements: d.Placements,
		busy:       d.Busy,
		alloc:      d.Allocator,
		sink:       d.Sink,
		tracker:    d.Tracker,
		metrics:    d.Metrics,
		l:          l,
		now:        time.Now,
	}, nil
}

// lock serializes passes of one user within the process.
func (uc *implUseCase) lock(userID string) func() {
	mu := &uc.locks[xxhash.Sum64String(userID)%lockStripes]
	mu.Lock()
	return mu.Unlock
}
