package sqlite

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"timely-scheduler/internal/model"
	repo "timely-scheduler/internal/schedule/repository"
	storage "timely-scheduler/internal/storage/sqlite"
)

const taskColumns = `id, user_id, name, category, total_duration_hours, remaining_hours, deadline`

// CreateTask inserts a task with its full duration remaining.
func (r *implRepository) CreateTask(ctx context.Context, opt repo.CreateTaskOptions) (model.Task, error) {
	total := opt.TotalDurationHours
	if total <= 0 {
		total = r.catalog.TypicalDuration(opt.Category)
	}

	t := model.Task{
		ID:                 uuid.NewString(),
		UserID:             opt.UserID,
		Name:               opt.Name,
		Category:           r.catalog.Normalize(opt.Category),
		TotalDurationHours: total,
		RemainingHours:     total,
		Deadline:           opt.Deadline.UTC(),
	}

	now := storage.Unix(r.now())
	const query = `
		INSERT INTO tasks (id, user_id, name, category, total_duration_hours, remaining_hours, deadline, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NULL, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.UserID, t.Name, t.Category, t.TotalDurationHours, storage.Unix(t.Deadline), now, now,
	)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CreateTask"), err)
		return model.Task{}, repo.ErrFailedToInsert
	}
	return t, nil
}

// ListTasks returns a user's tasks ordered by deadline.
func (r *implRepository) ListTasks(ctx context.Context, opt repo.ListTasksOptions) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ?`
	if !opt.IncludeDone {
		query += ` AND (remaining_hours IS NULL OR remaining_hours > 0)`
	}
	query += ` ORDER BY deadline, id`

	rows, err := r.db.QueryContext(ctx, query, opt.UserID)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListTasks"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var (
			t         model.Task
			remaining sql.NullFloat64
			deadline  int64
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Category, &t.TotalDurationHours, &remaining, &deadline); err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("ListTasks"), err)
			return nil, repo.ErrFailedToList
		}
		// Never scheduled: the whole duration is still open.
		t.RemainingHours = t.TotalDurationHours
		if remaining.Valid {
			t.RemainingHours = remaining.Float64
		}
		t.Deadline = storage.FromUnix(deadline)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "%s rows: %v", r.dsn("ListTasks"), err)
		return nil, repo.ErrFailedToList
	}
	return tasks, nil
}

// ListPending returns tasks with work left.
func (r *implRepository) ListPending(ctx context.Context, userID string) ([]model.Task, error) {
	return r.ListTasks(ctx, repo.ListTasksOptions{UserID: userID})
}
