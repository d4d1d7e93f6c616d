package datemath

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FloorToHour truncates t to the start of its local hour.
func FloorToHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// ParseWeekday accepts full or three-letter English day names.
func ParseWeekday(name string) (time.Weekday, error) {
	if wd, ok := weekdays[normalize(name)]; ok {
		return wd, nil
	}
	return time.Sunday, fmt.Errorf("%w: weekday %q", ErrUnrecognized, name)
}

// ParseClock reads a 24-hour "HH:MM" time of day as an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("%w: clock %q", ErrUnrecognized, s)
	}
	h, herr := strconv.Atoi(hh)
	m, merr := strconv.Atoi(mm)
	if herr != nil || merr != nil || h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("%w: clock %q", ErrUnrecognized, s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}
