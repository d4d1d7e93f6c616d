package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"timely-scheduler/internal/allocator"
	"timely-scheduler/internal/model"
	"timely-scheduler/internal/schedule"
	"timely-scheduler/internal/timegrid"
	"timely-scheduler/pkg/datemath"
	"timely-scheduler/pkg/log"
)

// RunPass builds the user's grid from every busy source, allocates pending
// tasks, records the placements and then publishes them. Passes of the same
// user never overlap. A placement the sink rejects is released again, so a
// task's remaining hours only shrink by what was actually published.
func (uc *implUseCase) RunPass(ctx context.Context, userID string) (schedule.PassResult, error) {
	if userID == "" {
		return schedule.PassResult{}, schedule.ErrEmptyUserID
	}
	ctx = log.WithUserID(ctx, userID)
	if log.TraceID(ctx) == "" {
		ctx = log.WithTraceID(ctx, uuid.NewString())
	}
	defer uc.lock(userID)()

	started := time.Now()
	now := uc.now().In(uc.cfg.Location)

	tasks, err := uc.repo.ListPending(ctx, userID)
	if err != nil {
		uc.l.Errorf(ctx, "RunPass: ListPending: %v", err)
		return schedule.PassResult{}, fmt.Errorf("%w: %v", schedule.ErrTaskSource, err)
	}

	from := datemath.FloorToHour(now)
	to := from.Add(time.Duration(uc.cfg.HorizonHours) * time.Hour)
	busy, err := uc.listBusy(ctx, userID, from, to)
	if err != nil {
		return schedule.PassResult{}, err
	}

	grid := timegrid.Build(now, busy, uc.cfg.HorizonHours, uc.cfg.Sleep)
	res, err := uc.alloc.AllocateAll(ctx, userID, tasks, grid, busy, now)
	if err != nil {
		uc.l.Errorf(ctx, "RunPass: AllocateAll: %v", err)
		return schedule.PassResult{}, err
	}

	// Saved before publishing: an invite never exists without its row.
	if err := uc.placements.SavePlacements(ctx, res.Placements); err != nil {
		uc.l.Errorf(ctx, "RunPass: SavePlacements: %v", err)
		return schedule.PassResult{}, fmt.Errorf("%w: %v", schedule.ErrSavePlacements, err)
	}

	out := schedule.PassResult{
		UserID:   userID,
		Status:   res.Status,
		Skipped:  res.Skipped,
		Explored: res.Explored,
		Origin:   grid.Origin(),
	}
	out.Scheduled = uc.publish(ctx, res.Placements, &out.Skipped)

	reasons := make([]string, len(out.Skipped))
	for i, s := range out.Skipped {
		reasons[i] = s.Reason
	}
	uc.metrics.ObservePass(out.Status, time.Since(started), len(out.Scheduled), reasons)
	uc.l.Infof(ctx, "RunPass: status=%s scheduled=%d skipped=%d explored=%d", out.Status, len(out.Scheduled), len(out.Skipped), out.Explored)
	return out, nil
}

func (uc *implUseCase) listBusy(ctx context.Context, userID string, from, to time.Time) ([]model.BusyInterval, error) {
	var busy []model.BusyInterval
	for _, src := range uc.busy {
		b, err := src.ListBusy(ctx, userID, from, to)
		if err != nil {
			uc.l.Errorf(ctx, "RunPass: ListBusy: %v", err)
			return nil, fmt.Errorf("%w: %v", schedule.ErrBusySource, err)
		}
		busy = append(busy, b...)
	}
	return busy, nil
}

// publish sends saved placements to the sink and tracks them. A placement
// the sink rejects is released, which frees its slot and returns its hours.
func (uc *implUseCase) publish(ctx context.Context, placements []model.Placement, skipped *[]allocator.Skip) []model.Placement {
	published := make([]model.Placement, 0, len(placements))
	for _, p := range placements {
		inviteID, err := uc.sink.Publish(ctx, p)
		if err != nil {
			uc.l.Warnf(ctx, "RunPass: publish %s for task %s: %v", p.ID, p.TaskID, err)
			if _, rerr := uc.placements.ReleasePlacement(ctx, p.ID); rerr != nil {
				uc.l.Errorf(ctx, "RunPass: release unpublished %s: %v", p.ID, rerr)
			}
			*skipped = append(*skipped, allocator.Skip{
				TaskID:   p.TaskID,
				TaskName: p.TaskName,
				Reason:   schedule.ReasonPublishFailed,
				Detail:   err.Error(),
			})
			continue
		}

		p.InviteID = inviteID
		if err := uc.placements.AttachInvite(ctx, p.ID, inviteID); err != nil {
			uc.l.Errorf(ctx, "RunPass: AttachInvite %s to %s: %v", inviteID, p.ID, err)
		}
		if err := uc.tracker.Track(ctx, p); err != nil {
			// The invite exists; only its feedback is lost.
			uc.l.Errorf(ctx, "RunPass: Track invite %s: %v", inviteID, err)
		}
		published = append(published, p)
	}
	return published
}
