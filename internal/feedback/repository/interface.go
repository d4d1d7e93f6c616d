package repository

import (
	"context"
	"time"

	"timely-scheduler/internal/feedback"
)

// Repository stores InviteRecords.
type Repository interface {
	CreateInvite(ctx context.Context, rec feedback.InviteRecord) error
	// GetInvite returns a zero-value record (InviteID == "") when not found.
	GetInvite(ctx context.Context, inviteID string) (feedback.InviteRecord, error)
	// MarkHandled flips handled from false to true. It reports false when the
	// record was already handled or does not exist.
	MarkHandled(ctx context.Context, opt MarkHandledOptions) (bool, error)
	ListUnhandled(ctx context.Context, opt ListUnhandledOptions) ([]feedback.InviteRecord, error)
}

// MarkHandledOptions identifies the record and the outcome to store.
type MarkHandledOptions struct {
	InviteID string
	Outcome  string
	At       time.Time
}

// ListUnhandledOptions filters open invites of one user.
type ListUnhandledOptions struct {
	UserID string
	Limit  int
}
