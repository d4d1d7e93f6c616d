package feedback

import (
	"time"

	"timely-scheduler/internal/model"
)

// Outcome statuses delivered by the calendar side.
const (
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
)

// Outcome is the handling result of one delivered status.
type Outcome string

const (
	OutcomeApplied        Outcome = "applied"
	OutcomeNotFound       Outcome = "not_found"
	OutcomeAlreadyHandled Outcome = "already_handled"
	OutcomeIgnored        Outcome = "ignored"
)

// InviteRecord ties an offered placement to the decision that produced it.
// It is marked handled exactly once, when a definitive response arrives.
type InviteRecord struct {
	InviteID     string
	UserID       string
	TaskID       string
	PlacementID  string
	Context      model.PolicyContext
	ChosenOffset int
	Probability  float64
	Handled      bool
	Outcome      string
	CreatedAt    time.Time
	HandledAt    time.Time
}

// PollResult summarizes one poll over a user's open invites.
type PollResult struct {
	Checked  int
	Applied  int
	Pending  int
	NotFound int
}
