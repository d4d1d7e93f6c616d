package http

import (
	"time"

	"timely-scheduler/internal/allocator"
	"timely-scheduler/internal/model"
	"timely-scheduler/internal/schedule"
)

type createTaskReq struct {
	UserID        string  `json:"-"`
	Name          string  `json:"name" binding:"required,max=255"`
	Category      string  `json:"category"`
	DurationHours float64 `json:"duration_hours" binding:"gte=0,lte=200"`
	// Deadline is RFC3339 or a phrase like "tomorrow", "in 5 hours", "next friday".
	Deadline string `json:"deadline" binding:"required"`
}

func (r createTaskReq) toInput(deadline time.Time) schedule.CreateTaskInput {
	return schedule.CreateTaskInput{
		UserID:             r.UserID,
		Name:               r.Name,
		Category:           r.Category,
		TotalDurationHours: r.DurationHours,
		Deadline:           deadline,
	}
}

type listTasksReq struct {
	All bool `form:"all"`
}

type taskResp struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	TotalHours     float64   `json:"total_hours"`
	RemainingHours float64   `json:"remaining_hours"`
	Deadline       time.Time `json:"deadline"`
}

func newTaskResp(t model.Task) taskResp {
	return taskResp{
		ID:             t.ID,
		Name:           t.Name,
		Category:       t.Category,
		TotalHours:     t.TotalDurationHours,
		RemainingHours: t.RemainingHours,
		Deadline:       t.Deadline,
	}
}

type listTasksResp struct {
	Tasks []taskResp `json:"tasks"`
}

func (h *handler) newListTasksResp(tasks []model.Task) listTasksResp {
	out := listTasksResp{Tasks: make([]taskResp, len(tasks))}
	for i, t := range tasks {
		out.Tasks[i] = newTaskResp(t)
	}
	return out
}

type placementResp struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	TaskName    string    `json:"task_name"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Hours       float64   `json:"hours"`
	InviteID    string    `json:"invite_id"`
	Probability float64   `json:"probability"`
}

type skipResp struct {
	TaskID   string `json:"task_id"`
	TaskName string `json:"task_name"`
	Reason   string `json:"reason"`
	Detail   string `json:"detail,omitempty"`
}

type runPassResp struct {
	Status    string          `json:"status"`
	Scheduled []placementResp `json:"scheduled"`
	Skipped   []skipResp      `json:"skipped"`
}

func (h *handler) newRunPassResp(res schedule.PassResult) runPassResp {
	out := runPassResp{
		Status:    res.Status,
		Scheduled: make([]placementResp, len(res.Scheduled)),
		Skipped:   make([]skipResp, len(res.Skipped)),
	}
	for i, p := range res.Scheduled {
		out.Scheduled[i] = placementResp{
			ID:          p.ID,
			TaskID:      p.TaskID,
			TaskName:    p.TaskName,
			Start:       p.Start,
			End:         p.End,
			Hours:       p.ChunkDuration,
			InviteID:    p.InviteID,
			Probability: p.Probability,
		}
	}
	for i, s := range res.Skipped {
		out.Skipped[i] = newSkipResp(s)
	}
	return out
}

func newSkipResp(s allocator.Skip) skipResp {
	return skipResp{TaskID: s.TaskID, TaskName: s.TaskName, Reason: s.Reason, Detail: s.Detail}
}
