package datemath_test

import (
	"errors"
	"testing"
	"time"

	"timely-scheduler/pkg/datemath"
)

// Wednesday 2024-05-01 15:30 UTC.
var base = time.Date(2024, 5, 1, 15, 30, 0, 0, time.UTC)

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewParser(t *testing.T) {
	if _, err := datemath.NewParser("Europe/Berlin"); err != nil {
		t.Fatalf("NewParser(valid) error = %v", err)
	}
	if _, err := datemath.NewParser("Invalid/Timezone"); err == nil {
		t.Fatal("NewParser(invalid) error = nil")
	}
}

func TestParse(t *testing.T) {
	parser, _ := datemath.NewParser("UTC")

	tests := []struct {
		phrase string
		want   time.Time
	}{
		{"today", day(5, 1)},
		{"  Tomorrow ", day(5, 2)},
		{"yesterday", day(4, 30)},
		{"in 3 days", day(5, 4)},
		{"in a day", day(5, 2)},
		{"in 2 weeks", day(5, 15)},
		{"in 1 month", day(6, 1)},
		{"in 5 hours", base.Add(5 * time.Hour)},
		{"next monday", day(5, 6)},
		{"next wednesday", day(5, 8)},
		{"wednesday", day(5, 1)},
		{"this fri", day(5, 3)},
		{"next week", day(5, 6)},
		{"end of week", day(5, 5)},
		{"2024-06-10", day(6, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			got, err := parser.Parse(tt.phrase, base)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.phrase, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.phrase, got, tt.want)
			}
		})
	}
}

func TestParseUnrecognized(t *testing.T) {
	parser, _ := datemath.NewParser("UTC")
	for _, phrase := range []string{"in a few days", "next funday", "some random day", "2024-13-40"} {
		t.Run(phrase, func(t *testing.T) {
			if _, err := parser.Parse(phrase, base); !errors.Is(err, datemath.ErrUnrecognized) {
				t.Errorf("Parse(%q) error = %v, want ErrUnrecognized", phrase, err)
			}
		})
	}
}

func TestParseInLocation(t *testing.T) {
	parser, err := datemath.NewParser("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 02:00 UTC on Thursday is still Wednesday evening in New York.
	at := time.Date(2024, 5, 2, 2, 0, 0, 0, time.UTC)
	got, err := parser.Parse("tomorrow", at)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 5, 2, 0, 0, 0, 0, parser.Location())
	if !got.Equal(want) {
		t.Errorf("Parse(tomorrow) = %v, want %v", got, want)
	}
}

func TestEndOfDay(t *testing.T) {
	parser, _ := datemath.NewParser("UTC")
	want := time.Date(2024, 5, 1, 23, 59, 59, 0, time.UTC)
	if got := parser.EndOfDay(day(5, 1)); !got.Equal(want) {
		t.Errorf("EndOfDay() = %v, want %v", got, want)
	}
}

func TestParseDeadline(t *testing.T) {
	parser, _ := datemath.NewParser("UTC")

	tests := []struct {
		name       string
		value      string
		want       time.Time
		wantAllDay bool
		wantErr    bool
	}{
		{name: "rfc3339", value: "2024-05-03T10:00:00Z", want: time.Date(2024, 5, 3, 10, 0, 0, 0, time.UTC)},
		{name: "local timestamp", value: "2024-05-03 17:45", want: time.Date(2024, 5, 3, 17, 45, 0, 0, time.UTC)},
		{name: "hours are exact", value: "in 5 hours", want: base.Add(5 * time.Hour)},
		{name: "minutes are exact", value: "in 90 minutes", want: base.Add(90 * time.Minute)},
		{name: "tomorrow is end of day", value: "tomorrow", want: time.Date(2024, 5, 2, 23, 59, 59, 0, time.UTC), wantAllDay: true},
		{name: "mixed case", value: "In 2 Days", want: time.Date(2024, 5, 3, 23, 59, 59, 0, time.UTC), wantAllDay: true},
		{name: "bare date", value: "2024-05-20", want: time.Date(2024, 5, 20, 23, 59, 59, 0, time.UTC), wantAllDay: true},
		{name: "unknown weekday", value: "next funday", wantErr: true},
		{name: "empty", value: "  ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.ParseDeadline(tt.value, base)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDeadline() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !got.AbsoluteTime.Equal(tt.want) {
				t.Errorf("ParseDeadline() = %v, want %v", got.AbsoluteTime, tt.want)
			}
			if got.IsAllDay != tt.wantAllDay {
				t.Errorf("ParseDeadline() IsAllDay = %v, want %v", got.IsAllDay, tt.wantAllDay)
			}
		})
	}
}

func TestFloorToHour(t *testing.T) {
	in := time.Date(2024, 5, 1, 15, 42, 17, 99, time.UTC)
	want := time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC)
	if got := datemath.FloorToHour(in); !got.Equal(want) {
		t.Errorf("FloorToHour() = %v, want %v", got, want)
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Weekday
		wantErr bool
	}{
		{"Monday", time.Monday, false},
		{" wed ", time.Wednesday, false},
		{"SUN", time.Sunday, false},
		{"someday", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := datemath.ParseWeekday(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWeekday() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseWeekday() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"14:00", 14 * time.Hour, false},
		{"9:30", 9*time.Hour + 30*time.Minute, false},
		{"24:00", 24 * time.Hour, false},
		{"24:30", 0, true},
		{"7pm", 0, true},
		{"12:75", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := datemath.ParseClock(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClock() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, datemath.ErrUnrecognized) {
				t.Errorf("ParseClock() error = %v, want ErrUnrecognized", err)
			}
			if got != tt.want {
				t.Errorf("ParseClock() = %v, want %v", got, tt.want)
			}
		})
	}
}
