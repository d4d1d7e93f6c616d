package timegrid

import "time"

// SleepWindow is a nightly half-open range of local hours [StartHour, EndHour).
// A window whose end is before its start wraps midnight (e.g. 23-7).
type SleepWindow struct {
	StartHour int
	EndHour   int
}

// DefaultSleepWindow blocks 01:00-05:00.
var DefaultSleepWindow = SleepWindow{StartHour: 1, EndHour: 5}

// Empty reports whether the window blocks nothing.
func (w SleepWindow) Empty() bool {
	return w.StartHour == w.EndHour
}

// Contains reports whether the given hour-of-day lies inside the window.
func (w SleepWindow) Contains(hour int) bool {
	if w.Empty() {
		return false
	}
	if w.StartHour < w.EndHour {
		return hour >= w.StartHour && hour < w.EndHour
	}
	return hour >= w.StartHour || hour < w.EndHour
}

// Overlaps reports whether [start, end) touches the window on any day,
// even partially. Times are evaluated in start's location.
func (w SleepWindow) Overlaps(start, end time.Time) bool {
	if w.Empty() || !end.After(start) {
		return false
	}
	loc := start.Location()
	end = end.In(loc)
	// Local hour boundary; time.Truncate works on absolute time.
	cur := time.Date(start.Year(), start.Month(), start.Day(), start.Hour(), 0, 0, 0, loc)
	for cur.Before(end) {
		if w.Contains(cur.Hour()) {
			return true
		}
		cur = cur.Add(time.Hour)
	}
	return false
}
