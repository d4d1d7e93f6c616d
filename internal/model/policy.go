package model

// PolicyContext is the feature vector describing one scheduling decision.
type PolicyContext struct {
	TaskCategory  string  `json:"task_category"`
	TaskDuration  float64 `json:"task_duration"`
	HoursUntilDue float64 `json:"hours_until_due"`
	DayOfWeek     int     `json:"day_of_week"` // 0=Monday .. 6=Sunday
	IsWeekend     bool    `json:"is_weekend"`
	OriginHour    int     `json:"origin_hour"`    // hour-of-day at offset 0
	OriginWeekday int     `json:"origin_weekday"` // 0=Monday .. 6=Sunday at offset 0
}

// MondayFirst converts a time.Weekday (Sunday=0) into a Monday=0 index.
func MondayFirst(w int) int {
	return (w + 6) % 7
}
