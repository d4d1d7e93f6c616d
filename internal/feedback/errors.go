package feedback

import "errors"

var (
	ErrInviteNotFound = errors.New("invite not found")
	ErrEmptyInviteID  = errors.New("invite id is required")
	ErrInvalidInvite  = errors.New("invalid invite record")
	ErrInvalidStatus  = errors.New("invalid outcome status")
)

// ErrPollingDisabled is returned by Poll when no response reader or attendee is configured.
var ErrPollingDisabled = errors.New("outcome polling is not configured")
