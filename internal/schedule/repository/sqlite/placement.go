package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"timely-scheduler/internal/model"
	repo "timely-scheduler/internal/schedule/repository"
	storage "timely-scheduler/internal/storage/sqlite"
)

// SavePlacements inserts placements and takes their hours off the owning
// tasks, all in one transaction.
func (r *implRepository) SavePlacements(ctx context.Context, placements []model.Placement) error {
	if len(placements) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.l.Errorf(ctx, "%s begin: %v", r.dsn("SavePlacements"), err)
		return repo.ErrFailedToInsert
	}
	defer tx.Rollback()

	const insert = `
		INSERT INTO placements (id, user_id, task_id, task_name, start_at, end_at, chunk_hours,
			offset_hours, probability, invite_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	const deduct = `
		UPDATE tasks
		SET remaining_hours = MAX(0, ROUND(COALESCE(remaining_hours, total_duration_hours) - ?, 6)), updated_at = ?
		WHERE id = ? AND user_id = ?`
	now := storage.Unix(r.now())
	for _, p := range placements {
		if _, err := tx.ExecContext(ctx, insert,
			p.ID, p.UserID, p.TaskID, p.TaskName, storage.Unix(p.Start), storage.Unix(p.End),
			p.ChunkDuration, p.Offset, p.Probability, p.InviteID, now,
		); err != nil {
			r.l.Errorf(ctx, "%s %s: %v", r.dsn("SavePlacements"), p.ID, err)
			return repo.ErrFailedToInsert
		}
		if _, err := tx.ExecContext(ctx, deduct, p.ChunkDuration, now, p.TaskID, p.UserID); err != nil {
			r.l.Errorf(ctx, "%s deduct %s: %v", r.dsn("SavePlacements"), p.TaskID, err)
			return repo.ErrFailedToInsert
		}
	}

	if err := tx.Commit(); err != nil {
		r.l.Errorf(ctx, "%s commit: %v", r.dsn("SavePlacements"), err)
		return repo.ErrFailedToInsert
	}
	return nil
}

// AttachInvite stores the invite id a placement was published under.
func (r *implRepository) AttachInvite(ctx context.Context, placementID, inviteID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE placements SET invite_id = ? WHERE id = ?`, inviteID, placementID,
	)
	if err != nil {
		r.l.Errorf(ctx, "%s %s: %v", r.dsn("AttachInvite"), placementID, err)
		return repo.ErrFailedToUpdate
	}
	if n, _ := res.RowsAffected(); n == 0 {
		r.l.Warnf(ctx, "%s: placement %s not found", r.dsn("AttachInvite"), placementID)
		return repo.ErrNotFound
	}
	return nil
}

// ReleasePlacement frees a placement's slot and gives its hours back to the
// task, capped at the task's total. It reports false when the placement is
// unknown or was already released.
func (r *implRepository) ReleasePlacement(ctx context.Context, placementID string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.l.Errorf(ctx, "%s begin: %v", r.dsn("ReleasePlacement"), err)
		return false, repo.ErrFailedToUpdate
	}
	defer tx.Rollback()

	var (
		userID, taskID string
		chunk          float64
	)
	err = tx.QueryRowContext(ctx,
		`SELECT user_id, task_id, chunk_hours FROM placements WHERE id = ? AND released_at IS NULL`,
		placementID,
	).Scan(&userID, &taskID, &chunk)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s %s: %v", r.dsn("ReleasePlacement"), placementID, err)
		return false, repo.ErrFailedToUpdate
	}

	now := storage.Unix(r.now())
	if _, err := tx.ExecContext(ctx,
		`UPDATE placements SET released_at = ? WHERE id = ?`, now, placementID,
	); err != nil {
		r.l.Errorf(ctx, "%s mark %s: %v", r.dsn("ReleasePlacement"), placementID, err)
		return false, repo.ErrFailedToUpdate
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE tasks
		SET remaining_hours = MIN(total_duration_hours, ROUND(COALESCE(remaining_hours, total_duration_hours) + ?, 6)), updated_at = ?
		WHERE id = ? AND user_id = ?`,
		chunk, now, taskID, userID,
	); err != nil {
		r.l.Errorf(ctx, "%s restore %s: %v", r.dsn("ReleasePlacement"), taskID, err)
		return false, repo.ErrFailedToUpdate
	}

	if err := tx.Commit(); err != nil {
		r.l.Errorf(ctx, "%s commit: %v", r.dsn("ReleasePlacement"), err)
		return false, repo.ErrFailedToUpdate
	}
	return true, nil
}

// ListBusy returns the user's live placements overlapping [from, to).
func (r *implRepository) ListBusy(ctx context.Context, userID string, from, to time.Time) ([]model.BusyInterval, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT task_id, start_at, end_at FROM placements
		 WHERE user_id = ? AND released_at IS NULL AND start_at < ? AND end_at > ? ORDER BY start_at`,
		userID, storage.Unix(to), storage.Unix(from),
	)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListBusy"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var out []model.BusyInterval
	for rows.Next() {
		var (
			taskID     string
			start, end int64
		)
		if err := rows.Scan(&taskID, &start, &end); err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("ListBusy"), err)
			return nil, repo.ErrFailedToList
		}
		out = append(out, model.BusyInterval{
			Start: storage.FromUnix(start),
			End:   storage.FromUnix(end),
			Label: "placement:" + taskID,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, repo.ErrFailedToList
	}
	return out, nil
}
