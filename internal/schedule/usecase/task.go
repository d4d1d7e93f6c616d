package usecase

import (
	"context"
	"fmt"
	"strings"

	"timely-scheduler/internal/model"
	"timely-scheduler/internal/schedule"
	"timely-scheduler/internal/schedule/repository"
)

// CreateTask validates and stores a new task.
func (uc *implUseCase) CreateTask(ctx context.Context, in schedule.CreateTaskInput) (model.Task, error) {
	switch {
	case in.UserID == "":
		return model.Task{}, schedule.ErrEmptyUserID
	case strings.TrimSpace(in.Name) == "":
		return model.Task{}, fmt.Errorf("%w: name is required", schedule.ErrInvalidTask)
	case in.TotalDurationHours < 0:
		return model.Task{}, fmt.Errorf("%w: negative duration", schedule.ErrInvalidTask)
	case in.Deadline.IsZero():
		return model.Task{}, fmt.Errorf("%w: deadline is required", schedule.ErrInvalidTask)
	}

	t, err := uc.repo.CreateTask(ctx, repository.CreateTaskOptions{
		UserID:             in.UserID,
		Name:               strings.TrimSpace(in.Name),
		Category:           in.Category,
		TotalDurationHours: in.TotalDurationHours,
		Deadline:           in.Deadline,
	})
	if err != nil {
		uc.l.Errorf(ctx, "CreateTask: %v", err)
		return model.Task{}, err
	}
	uc.l.Infof(ctx, "CreateTask: %s %q %.1fh due %s", t.ID, t.Name, t.TotalDurationHours, t.Deadline.Format("2006-01-02 15:04"))
	return t, nil
}

func (uc *implUseCase) ListTasks(ctx context.Context, userID string, all bool) ([]model.Task, error) {
	if userID == "" {
		return nil, schedule.ErrEmptyUserID
	}
	return uc.repo.ListTasks(ctx, repository.ListTasksOptions{UserID: userID, IncludeDone: all})
}
