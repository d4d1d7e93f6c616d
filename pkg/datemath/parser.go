// Package datemath resolves the deadline phrases people type ("tomorrow",
// "in 3 days", "next friday") into absolute times in one timezone.
package datemath

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrUnrecognized is returned for input no rule understands.
var ErrUnrecognized = errors.New("datemath: unrecognized date")

// ParseResult is a resolved deadline.
type ParseResult struct {
	AbsoluteTime time.Time
	// IsAllDay is set when only a day was given; AbsoluteTime is then the
	// last second of that day.
	IsAllDay bool
}

// Parser resolves phrases relative to a base time in a fixed location.
type Parser struct {
	location *time.Location
}

// NewParser creates a parser for an IANA timezone, e.g. "Europe/Berlin".
func NewParser(timezone string) (*Parser, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Parser{location: loc}, nil
}

// Location returns the parser's timezone.
func (p *Parser) Location() *time.Location {
	return p.location
}

var (
	relativeDays = map[string]int{
		"yesterday": -1,
		"today":     0,
		"tonight":   0,
		"tomorrow":  1,
	}

	weekdays = map[string]time.Weekday{
		"monday": time.Monday, "mon": time.Monday,
		"tuesday": time.Tuesday, "tue": time.Tuesday,
		"wednesday": time.Wednesday, "wed": time.Wednesday,
		"thursday": time.Thursday, "thu": time.Thursday,
		"friday": time.Friday, "fri": time.Friday,
		"saturday": time.Saturday, "sat": time.Saturday,
		"sunday": time.Sunday, "sun": time.Sunday,
	}

	inDurationRe = regexp.MustCompile(`^in (\d+|an?) (minute|hour|day|week|month)s?$`)

	// Local layouts tried before any phrase.
	timestampLayouts = []string{"2006-01-02 15:04", "2006-01-02T15:04"}
)

// Parse resolves a phrase to midnight of the day it names. Minute and hour
// offsets ("in 5 hours") resolve to the exact instant instead.
func (p *Parser) Parse(phrase string, base time.Time) (time.Time, error) {
	phrase = normalize(phrase)

	if d, ok := relativeDays[phrase]; ok {
		return p.startOfDay(base.AddDate(0, 0, d)), nil
	}
	if m := inDurationRe.FindStringSubmatch(phrase); m != nil {
		return p.offset(m[1], m[2], base)
	}
	if phrase == "end of week" || phrase == "eow" {
		return p.upcoming(time.Sunday, base, true), nil
	}
	if name, ok := strings.CutPrefix(phrase, "next "); ok {
		if wd, ok := weekdays[name]; ok {
			return p.upcoming(wd, base, false), nil
		}
		if name == "week" {
			return p.upcoming(time.Monday, base, false), nil
		}
	}
	if name, ok := strings.CutPrefix(phrase, "this "); ok {
		phrase = name
	}
	if wd, ok := weekdays[phrase]; ok {
		return p.upcoming(wd, base, true), nil
	}
	if day, err := time.ParseInLocation(time.DateOnly, phrase, p.location); err == nil {
		return day, nil
	}

	return base, fmt.Errorf("%w: %q", ErrUnrecognized, phrase)
}

// ParseDeadline resolves a task deadline. RFC3339 and local "YYYY-MM-DD
// HH:MM" timestamps are exact, as are minute and hour offsets. Anything
// naming a day resolves to the end of that day.
func (p *Parser) ParseDeadline(value string, base time.Time) (ParseResult, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return ParseResult{}, fmt.Errorf("%w: empty", ErrUnrecognized)
	}

	if abs, err := time.Parse(time.RFC3339, value); err == nil {
		return ParseResult{AbsoluteTime: abs.In(p.location)}, nil
	}
	for _, layout := range timestampLayouts {
		if abs, err := time.ParseInLocation(layout, value, p.location); err == nil {
			return ParseResult{AbsoluteTime: abs}, nil
		}
	}

	phrase := normalize(value)
	if m := inDurationRe.FindStringSubmatch(phrase); m != nil && (m[2] == "minute" || m[2] == "hour") {
		abs, err := p.offset(m[1], m[2], base)
		return ParseResult{AbsoluteTime: abs}, err
	}

	day, err := p.Parse(phrase, base)
	if err != nil {
		return ParseResult{}, err
	}
	return ParseResult{AbsoluteTime: p.EndOfDay(day), IsAllDay: true}, nil
}

// EndOfDay returns 23:59:59 of the day starting at startOfDay.
func (p *Parser) EndOfDay(startOfDay time.Time) time.Time {
	return startOfDay.Add(24*time.Hour - time.Second)
}

func (p *Parser) offset(amount, unit string, base time.Time) (time.Time, error) {
	n := 1
	if amount != "a" && amount != "an" {
		var err error
		if n, err = strconv.Atoi(amount); err != nil {
			return base, fmt.Errorf("%w: amount %q", ErrUnrecognized, amount)
		}
	}

	switch unit {
	case "minute":
		return base.In(p.location).Add(time.Duration(n) * time.Minute), nil
	case "hour":
		return base.In(p.location).Add(time.Duration(n) * time.Hour), nil
	case "day":
		return p.startOfDay(base.AddDate(0, 0, n)), nil
	case "week":
		return p.startOfDay(base.AddDate(0, 0, 7*n)), nil
	default:
		return p.startOfDay(base.AddDate(0, n, 0)), nil
	}
}

// upcoming returns midnight of the next wd after base's day, or of base's
// day itself when includeToday is set and it already is wd.
func (p *Parser) upcoming(wd time.Weekday, base time.Time, includeToday bool) time.Time {
	base = base.In(p.location)
	days := int(wd - base.Weekday())
	if days < 0 || (days == 0 && !includeToday) {
		days += 7
	}
	return p.startOfDay(base.AddDate(0, 0, days))
}

func (p *Parser) startOfDay(t time.Time) time.Time {
	t = t.In(p.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, p.location)
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
