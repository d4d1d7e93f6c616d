package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"timely-scheduler/internal/feedback"
	repo "timely-scheduler/internal/feedback/repository"
	"timely-scheduler/internal/model"
	storage "timely-scheduler/internal/storage/sqlite"
	"timely-scheduler/pkg/log"
)

func newTestRepo(t *testing.T) *implRepository {
	t.Helper()
	db, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db, log.NewNop())
}

func TestInviteLifecycle(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	created := time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)

	rec := feedback.InviteRecord{
		InviteID:     "ev-1",
		UserID:       "u1",
		TaskID:       "t1",
		PlacementID:  "p1",
		Context:      model.PolicyContext{TaskCategory: "School", TaskDuration: 2, HoursUntilDue: 30, OriginHour: 10},
		ChosenOffset: 4,
		Probability:  0.84,
		CreatedAt:    created,
	}
	if err := r.CreateInvite(ctx, rec); err != nil {
		t.Fatalf("CreateInvite() error = %v", err)
	}
	if err := r.CreateInvite(ctx, rec); !errors.Is(err, repo.ErrDuplicate) {
		t.Errorf("second CreateInvite() error = %v, want ErrDuplicate", err)
	}

	got, err := r.GetInvite(ctx, "ev-1")
	if err != nil {
		t.Fatalf("GetInvite() error = %v", err)
	}
	if got.Context != rec.Context || got.ChosenOffset != 4 || got.Probability != 0.84 || got.Handled {
		t.Errorf("GetInvite() = %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}

	open, err := r.ListUnhandled(ctx, repo.ListUnhandledOptions{UserID: "u1"})
	if err != nil || len(open) != 1 {
		t.Fatalf("ListUnhandled() = %d records, %v; want 1", len(open), err)
	}

	ok, err := r.MarkHandled(ctx, repo.MarkHandledOptions{InviteID: "ev-1", Outcome: "declined", At: created.Add(time.Hour)})
	if err != nil || !ok {
		t.Fatalf("MarkHandled() = %v, %v; want true", ok, err)
	}
	ok, err = r.MarkHandled(ctx, repo.MarkHandledOptions{InviteID: "ev-1", Outcome: "accepted", At: created})
	if err != nil || ok {
		t.Errorf("second MarkHandled() = %v, %v; want false", ok, err)
	}

	got, _ = r.GetInvite(ctx, "ev-1")
	if !got.Handled || got.Outcome != "declined" {
		t.Errorf("after MarkHandled: handled=%v outcome=%q", got.Handled, got.Outcome)
	}
	open, _ = r.ListUnhandled(ctx, repo.ListUnhandledOptions{UserID: "u1"})
	if len(open) != 0 {
		t.Errorf("ListUnhandled() after handling = %d, want 0", len(open))
	}
}

func TestGetInviteMissing(t *testing.T) {
	r := newTestRepo(t)
	got, err := r.GetInvite(context.Background(), "nope")
	if err != nil || got.InviteID != "" {
		t.Errorf("GetInvite(nope) = %+v, %v; want zero value", got, err)
	}
	ok, err := r.MarkHandled(context.Background(), repo.MarkHandledOptions{InviteID: "nope", Outcome: "accepted"})
	if err != nil || ok {
		t.Errorf("MarkHandled(nope) = %v, %v; want false, nil", ok, err)
	}
}
