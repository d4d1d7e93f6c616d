package usecase

import (
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"timely-scheduler/internal/feedback"
	"timely-scheduler/internal/feedback/repository"
	"timely-scheduler/internal/metrics"
	"timely-scheduler/pkg/log"
)

const lockStripes = 64

// Config names the calendar and invitee the poller reads responses for.
type Config struct {
	CalendarID    string
	AttendeeEmail string
}

type implUseCase struct {
	cfg       Config
	repo      repository.Repository
	policy    feedback.PolicyUpdater
	responses feedback.ResponseReader
	releaser  feedback.PlacementReleaser
	metrics   *metrics.Metrics
	l         log.Logger
	now       func() time.Time

	locks [lockStripes]sync.Mutex
}

// New creates the feedback UseCase. responses may be nil, which disables Poll.
// releaser may be nil, in which case declined placements keep their slot.
func New(cfg Config, repo repository.Repository, policy feedback.PolicyUpdater, responses feedback.ResponseReader, releaser feedback.PlacementReleaser, m *metrics.Metrics, l log.Logger) *implUseCase {
	return &implUseCase{
		cfg:       cfg,
		repo:      repo,
		policy:    policy,
		responses: responses,
		releaser:  releaser,
		metrics:   m,
		l:         l,
		now:       time.Now,
	}
}

// lock serializes handling of one invite id within the process.
func (uc *implUseCase) lock(inviteID string) func() {
	mu := &uc.locks[xxhash.Sum64String(inviteID)%lockStripes]
	mu.Lock()
	return mu.Unlock
}
