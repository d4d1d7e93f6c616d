package allocator

import (
	"fmt"
	"math"
	"sort"
	"time"

	"timely-scheduler/internal/model"
)

// sortByPriority orders tasks nearest deadline first, then most remaining
// work, then most urgent category, then id.
func (uc *implUseCase) sortByPriority(tasks []*model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if !a.Deadline.Equal(b.Deadline) {
			return a.Deadline.Before(b.Deadline)
		}
		if a.RemainingHours != b.RemainingHours {
			return a.RemainingHours > b.RemainingHours
		}
		ua, ub := uc.catalog.UrgencyRank(a.Category), uc.catalog.UrgencyRank(b.Category)
		if ua != ub {
			return ua > ub
		}
		return a.ID < b.ID
	})
}

// ineligible returns the skip reason for a task that cannot be placed at all
// this pass, or "" when the task may be tried.
func (uc *implUseCase) ineligible(t *model.Task, now time.Time) (string, string) {
	if t.Done() {
		return ReasonNoRemainingHours, ""
	}
	due := t.HoursUntilDue(now)
	if due <= 0 {
		return ReasonDeadlinePassed, ""
	}
	if minimal := math.Min(uc.cfg.MinChunkHours, t.RemainingHours); due < minimal {
		return ReasonDeadlineTooClose, fmt.Sprintf("%.2fh left, need %.2fh", due, minimal)
	}
	return "", ""
}
