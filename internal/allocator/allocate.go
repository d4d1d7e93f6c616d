package allocator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"timely-scheduler/internal/model"
	"timely-scheduler/internal/policy"
	"timely-scheduler/internal/timegrid"
)

// AllocateAll places at most one slice per task, most urgent task first,
// committing each accepted slice to grid before the next task is tried.
// Per-task problems end up in Result.Skipped; only a policy persistence
// failure aborts the pass.
func (uc *implUseCase) AllocateAll(ctx context.Context, userID string, tasks []model.Task, grid *timegrid.Grid, busy []model.BusyInterval, now time.Time) (Result, error) {
	res := Result{
		Status: StatusOK,
		Tasks:  make([]model.Task, len(tasks)),
	}
	copy(res.Tasks, tasks)

	if len(tasks) == 0 || grid == nil || grid.Len() == 0 || grid.FreeCount() == 0 {
		res.Status = StatusNothingToSchedule
		for i := range res.Tasks {
			if !res.Tasks[i].Done() {
				res.Skipped = append(res.Skipped, skipOf(&res.Tasks[i], ReasonNoCandidateHours, "no free hours in horizon"))
			}
		}
		uc.l.Infof(ctx, "AllocateAll: nothing to schedule (%d tasks)", len(tasks))
		return res, nil
	}

	// Local copy so placements from this pass are checked like busy time.
	occupied := make([]model.BusyInterval, len(busy), len(busy)+len(tasks))
	copy(occupied, busy)

	var queue []*model.Task
	for i := range res.Tasks {
		t := &res.Tasks[i]
		if reason, detail := uc.ineligible(t, now); reason != "" {
			res.Skipped = append(res.Skipped, skipOf(t, reason, detail))
			continue
		}
		queue = append(queue, t)
	}
	uc.sortByPriority(queue)
	if len(queue) > uc.cfg.MaxTasksPerPass {
		for _, t := range queue[uc.cfg.MaxTasksPerPass:] {
			res.Skipped = append(res.Skipped, skipOf(t, ReasonDeferred, "over per-pass task limit"))
		}
		queue = queue[:uc.cfg.MaxTasksPerPass]
	}

	for _, t := range queue {
		p, skip, explored, err := uc.allocateOne(ctx, userID, t, grid, occupied, now)
		if err != nil {
			return Result{}, err
		}
		if explored {
			res.Explored++
		}
		if skip != nil {
			res.Skipped = append(res.Skipped, *skip)
			continue
		}
		res.Placements = append(res.Placements, p)
		occupied = append(occupied, p.AsBusy())
	}

	uc.l.Infof(ctx, "AllocateAll: %d placed, %d skipped of %d tasks", len(res.Placements), len(res.Skipped), len(tasks))
	return res, nil
}

func (uc *implUseCase) allocateOne(ctx context.Context, userID string, t *model.Task, grid *timegrid.Grid, busy []model.BusyInterval, now time.Time) (model.Placement, *Skip, bool, error) {
	// Latest start hour that still leaves room for a minimal chunk.
	minimal := math.Min(uc.cfg.MinChunkHours, t.RemainingHours)
	limit := int(math.Floor(grid.OffsetOf(t.Deadline) - minimal))
	var hours []int
	for _, h := range grid.CandidateHoursUntil(limit) {
		if !grid.SlotStart(h).Before(now) {
			hours = append(hours, h)
		}
	}
	if len(hours) == 0 {
		s := skipOf(t, ReasonNoCandidateHours, "")
		return model.Placement{}, &s, false, nil
	}

	pc := uc.policyContext(t, grid, now)
	rec, err := uc.rec.Recommend(ctx, userID, pc, hours, uc.cfg.TopK, uc.cfg.PreferSplitting)
	if err != nil {
		if errors.Is(err, policy.ErrPersistence) {
			uc.l.Errorf(ctx, "AllocateAll: task %s: %v", t.ID, err)
			return model.Placement{}, nil, false, fmt.Errorf("allocate task %s: %w", t.ID, err)
		}
		uc.l.Warnf(ctx, "AllocateAll: task %s: recommend: %v", t.ID, err)
		s := skipOf(t, ReasonScoringError, err.Error())
		return model.Placement{}, &s, false, nil
	}

	for _, c := range rec.Candidates {
		if c.ChunkDuration > t.RemainingHours {
			c.ChunkDuration = t.RemainingHours
		}
		start, end, v := uc.validate(c, t, grid, busy, now)
		if v != violationNone {
			uc.l.Debugf(ctx, "AllocateAll: task %s offset %d rejected: %s", t.ID, c.Offset, v)
			continue
		}

		grid.Commit(c.Offset, c.ChunkDuration)
		t.RemainingHours = roundHours(math.Max(0, t.RemainingHours-c.ChunkDuration))

		return model.Placement{
			ID:            uuid.NewString(),
			UserID:        userID,
			TaskID:        t.ID,
			TaskName:      t.Name,
			Start:         start,
			End:           end,
			ChunkDuration: c.ChunkDuration,
			Offset:        c.Offset,
			Probability:   c.Probability,
			Context:       pc,
		}, nil, rec.Explored, nil
	}

	s := skipOf(t, ReasonNoValidRecommendation, fmt.Sprintf("%d candidates rejected", len(rec.Candidates)))
	return model.Placement{}, &s, rec.Explored, nil
}

func (uc *implUseCase) policyContext(t *model.Task, grid *timegrid.Grid, now time.Time) model.PolicyContext {
	dow := model.MondayFirst(int(now.Weekday()))
	origin := grid.Origin()
	return model.PolicyContext{
		TaskCategory:  uc.catalog.Normalize(t.Category),
		TaskDuration:  t.RemainingHours,
		HoursUntilDue: t.HoursUntilDue(now),
		DayOfWeek:     dow,
		IsWeekend:     dow >= 5,
		OriginHour:    origin.Hour(),
		OriginWeekday: model.MondayFirst(int(origin.Weekday())),
	}
}

func skipOf(t *model.Task, reason, detail string) Skip {
	return Skip{TaskID: t.ID, TaskName: t.Name, Reason: reason, Detail: detail}
}

// roundHours drops float noise below a microhour.
func roundHours(h float64) float64 {
	return math.Round(h*1e6) / 1e6
}
