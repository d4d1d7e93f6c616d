package repository

import "time"

// CreateTaskOptions holds parameters for inserting a task. A zero
// TotalDurationHours takes the category's typical duration.
type CreateTaskOptions struct {
	UserID             string
	Name               string
	Category           string
	TotalDurationHours float64
	Deadline           time.Time
}

// ListTasksOptions filters a user's tasks.
type ListTasksOptions struct {
	UserID      string
	IncludeDone bool
}
