package schedule

import (
	"time"

	"timely-scheduler/internal/allocator"
	"timely-scheduler/internal/model"
	"timely-scheduler/internal/timegrid"
)

// ReasonPublishFailed is reported when a valid placement could not be
// delivered to the event sink. The chunk is returned to the task.
const ReasonPublishFailed = "publish_failed"

// Config shapes the grid each pass is built on.
type Config struct {
	HorizonHours int
	Sleep        timegrid.SleepWindow
	// Location is the user's wall clock; slot hours and the sleep window are
	// read in it. Nil means UTC.
	Location *time.Location
}

// PassResult is what one scheduling pass did.
type PassResult struct {
	UserID    string
	Status    string
	Scheduled []model.Placement
	Skipped   []allocator.Skip
	Explored  int
	Origin    time.Time
}

// CreateTaskInput is a new task as entered by a user.
type CreateTaskInput struct {
	UserID             string
	Name               string
	Category           string
	TotalDurationHours float64
	Deadline           time.Time
}
