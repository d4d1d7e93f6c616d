package schedule

import "errors"

var (
	ErrEmptyUserID    = errors.New("user id is required")
	ErrInvalidTask    = errors.New("invalid task")
	ErrTaskSource     = errors.New("failed to load pending tasks")
	ErrBusySource     = errors.New("failed to load busy intervals")
	ErrSavePlacements = errors.New("failed to save placements")
)
