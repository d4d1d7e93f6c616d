package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"timely-scheduler/internal/feedback"
	repo "timely-scheduler/internal/feedback/repository"
	storage "timely-scheduler/internal/storage/sqlite"
)

const inviteColumns = `invite_id, user_id, task_id, placement_id, context_json, chosen_offset,
	probability, handled, outcome, created_at, handled_at`

// CreateInvite stores a new, unhandled record.
func (r *implRepository) CreateInvite(ctx context.Context, rec feedback.InviteRecord) error {
	ctxJSON, err := json.Marshal(rec.Context)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO invites (invite_id, user_id, task_id, placement_id, context_json,
			chosen_offset, probability, handled, outcome, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, '', ?)`
	_, err = r.db.ExecContext(ctx, query,
		rec.InviteID, rec.UserID, rec.TaskID, rec.PlacementID, string(ctxJSON),
		rec.ChosenOffset, rec.Probability, storage.Unix(rec.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return repo.ErrDuplicate
		}
		r.l.Errorf(ctx, "%s: %v", r.dsn("CreateInvite"), err)
		return repo.ErrFailedToInsert
	}
	return nil
}

// GetInvite returns a zero-value record when the invite is unknown.
func (r *implRepository) GetInvite(ctx context.Context, inviteID string) (feedback.InviteRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+inviteColumns+` FROM invites WHERE invite_id = ?`, inviteID)
	rec, err := scanInvite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return feedback.InviteRecord{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetInvite"), err)
		return feedback.InviteRecord{}, repo.ErrFailedToGet
	}
	return rec, nil
}

// MarkHandled is a compare-and-set on the handled flag.
func (r *implRepository) MarkHandled(ctx context.Context, opt repo.MarkHandledOptions) (bool, error) {
	const query = `UPDATE invites SET handled = 1, outcome = ?, handled_at = ? WHERE invite_id = ? AND handled = 0`
	res, err := r.db.ExecContext(ctx, query, opt.Outcome, storage.Unix(opt.At), opt.InviteID)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("MarkHandled"), err)
		return false, repo.ErrFailedToUpdate
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, repo.ErrFailedToUpdate
	}
	return n == 1, nil
}

// ListUnhandled returns the oldest open invites of a user first.
func (r *implRepository) ListUnhandled(ctx context.Context, opt repo.ListUnhandledOptions) ([]feedback.InviteRecord, error) {
	limit := opt.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE user_id = ? AND handled = 0 ORDER BY created_at, invite_id LIMIT ?`,
		opt.UserID, limit,
	)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListUnhandled"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var out []feedback.InviteRecord
	for rows.Next() {
		rec, err := scanInvite(rows)
		if err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("ListUnhandled"), err)
			return nil, repo.ErrFailedToList
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, repo.ErrFailedToList
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInvite(s scanner) (feedback.InviteRecord, error) {
	var (
		rec       feedback.InviteRecord
		ctxJSON   string
		handled   int
		createdAt int64
		handledAt sql.NullInt64
	)
	if err := s.Scan(&rec.InviteID, &rec.UserID, &rec.TaskID, &rec.PlacementID, &ctxJSON,
		&rec.ChosenOffset, &rec.Probability, &handled, &rec.Outcome, &createdAt, &handledAt); err != nil {
		return feedback.InviteRecord{}, err
	}
	if err := json.Unmarshal([]byte(ctxJSON), &rec.Context); err != nil {
		return feedback.InviteRecord{}, err
	}
	rec.Handled = handled == 1
	rec.CreatedAt = storage.FromUnix(createdAt)
	if handledAt.Valid {
		rec.HandledAt = storage.FromUnix(handledAt.Int64)
	}
	return rec, nil
}
