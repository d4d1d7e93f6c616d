package timegrid

import (
	"testing"
	"time"
)

func TestSleepWindowContains(t *testing.T) {
	tests := []struct {
		name   string
		window SleepWindow
		hour   int
		want   bool
	}{
		{"default start", DefaultSleepWindow, 1, true},
		{"default last", DefaultSleepWindow, 4, true},
		{"default end exclusive", DefaultSleepWindow, 5, false},
		{"default before", DefaultSleepWindow, 0, false},
		{"wrapping late", SleepWindow{StartHour: 23, EndHour: 7}, 23, true},
		{"wrapping early", SleepWindow{StartHour: 23, EndHour: 7}, 3, true},
		{"wrapping outside", SleepWindow{StartHour: 23, EndHour: 7}, 12, false},
		{"empty", SleepWindow{StartHour: 2, EndHour: 2}, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.window.Contains(tt.hour); got != tt.want {
				t.Errorf("Contains(%d) = %v, want %v", tt.hour, got, tt.want)
			}
		})
	}
}

func TestSleepWindowOverlaps(t *testing.T) {
	day := func(h, m int) time.Time { return time.Date(2024, 5, 6, h, m, 0, 0, time.UTC) }

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"evening", day(20, 0), day(22, 0), false},
		{"ends at window start", day(23, 0), day(25, 0), false},
		{"runs into window", day(23, 30), day(25, 30), true},
		{"starts in last sleep hour", day(4, 30), day(6, 0), true},
		{"starts at window end", day(5, 0), day(7, 0), false},
		{"empty span", day(2, 0), day(2, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultSleepWindow.Overlaps(tt.start, tt.end); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}
