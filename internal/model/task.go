package model

import "time"

// Task is a unit of pending work owned by a user.
// Invariant: 0 <= RemainingHours <= TotalDurationHours.
type Task struct {
	ID                 string
	UserID             string
	Name               string
	Category           string
	TotalDurationHours float64
	RemainingHours     float64
	Deadline           time.Time
}

// HoursUntilDue returns the hours between now and the deadline (negative once passed).
func (t Task) HoursUntilDue(now time.Time) float64 {
	return t.Deadline.Sub(now).Hours()
}

// Done reports whether no work is left.
func (t Task) Done() bool {
	return t.RemainingHours <= 0
}

// BusyInterval is a span of time that must not be scheduled over.
type BusyInterval struct {
	Start time.Time
	End   time.Time
	Label string
}

// Overlaps reports whether [start, end) intersects the interval.
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return start.Before(b.End) && end.After(b.Start)
}

// Placement is a committed, constraint-valid slice of a task's work.
type Placement struct {
	ID            string
	UserID        string
	TaskID        string
	TaskName      string
	Start         time.Time
	End           time.Time
	ChunkDuration float64 // hours
	Offset        int     // hour offset from the pass origin
	Probability   float64 // selection propensity of the offset
	Context       PolicyContext
	InviteID      string
}

// AsBusy converts a placement into a busy interval for later passes.
func (p Placement) AsBusy() BusyInterval {
	return BusyInterval{Start: p.Start, End: p.End, Label: "placement:" + p.TaskID}
}
