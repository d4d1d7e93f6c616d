package allocator

import (
	"time"

	"timely-scheduler/internal/model"
	"timely-scheduler/internal/recommender"
	"timely-scheduler/internal/timegrid"
)

// violation names the first hard constraint a candidate breaks.
type violation string

const (
	violationNone     violation = ""
	violationPast     violation = "starts_in_past"
	violationDeadline violation = "ends_after_deadline"
	violationSleep    violation = "overlaps_sleep"
	violationGrid     violation = "grid_occupied"
	violationBusy     violation = "overlaps_busy"
	violationShort    violation = "too_short"
)

const hoursEpsilon = 1e-6

func (uc *implUseCase) validate(c recommender.Candidate, t *model.Task, grid *timegrid.Grid, busy []model.BusyInterval, now time.Time) (time.Time, time.Time, violation) {
	start := grid.SlotStart(c.Offset)
	end := start.Add(time.Duration(c.ChunkDuration * float64(time.Hour)))

	switch {
	case c.ChunkDuration <= 0:
		return start, end, violationShort
	case start.Before(now):
		return start, end, violationPast
	case end.After(t.Deadline):
		return start, end, violationDeadline
	case grid.Sleep().Overlaps(start, end):
		return start, end, violationSleep
	case !grid.SpanFree(c.Offset, c.ChunkDuration):
		return start, end, violationGrid
	}
	for _, b := range busy {
		if b.Overlaps(start, end) {
			return start, end, violationBusy
		}
	}
	if c.ChunkDuration < uc.cfg.MinChunkHours && c.ChunkDuration < t.RemainingHours-hoursEpsilon {
		return start, end, violationShort
	}
	return start, end, violationNone
}
