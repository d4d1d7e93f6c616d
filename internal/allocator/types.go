package allocator

import "timely-scheduler/internal/model"

// Skip reasons reported per task.
const (
	ReasonNoRemainingHours      = "no_remaining_hours"
	ReasonDeadlinePassed        = "deadline_passed"
	ReasonDeadlineTooClose      = "deadline_too_close"
	ReasonNoCandidateHours      = "no_candidate_hours"
	ReasonScoringError          = "scoring_error"
	ReasonNoValidRecommendation = "no_valid_recommendation"
	ReasonDeferred              = "deferred"
)

// Pass status values.
const (
	StatusOK                = "ok"
	StatusNothingToSchedule = "nothing_to_schedule"
)

// Config bounds a single allocation pass.
type Config struct {
	MaxTasksPerPass int
	TopK            int
	PreferSplitting bool
	MinChunkHours   float64
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MaxTasksPerPass: 5,
		TopK:            6,
		PreferSplitting: true,
		MinChunkHours:   0.5,
	}
}

// Skip records why a task got no placement this pass.
type Skip struct {
	TaskID   string
	TaskName string
	Reason   string
	Detail   string
}

// Result is the aggregate outcome of AllocateAll.
type Result struct {
	Status     string
	Placements []model.Placement
	Skipped    []Skip
	// Tasks holds every input task, in input order, with RemainingHours
	// reduced by what was placed.
	Tasks []model.Task
	// Explored counts tasks whose ranking came from exploration.
	Explored int
}
