// Package weekly serves recurring weekly commitments, such as classes, as
// busy time. Each block can carry a buffer that stays blocked after it ends.
package weekly

import (
	"context"
	"errors"
	"fmt"
	"time"

	"timely-scheduler/internal/model"
	"timely-scheduler/pkg/datemath"
	"timely-scheduler/pkg/log"
)

// DefaultBuffer keeps 90 minutes free of work after every block.
const DefaultBuffer = 90 * time.Minute

// Block is one weekly commitment. An empty UserID applies it to everyone.
type Block struct {
	Name    string
	UserID  string
	Weekday time.Weekday
	// Start and End are offsets from local midnight; End is after Start.
	Start time.Duration
	End   time.Duration
}

// BlockSpec is a block as written in configuration.
type BlockSpec struct {
	Name     string
	UserID   string
	Weekdays []string
	Start    string
	End      string
}

// Config lists the blocks and the wall clock they are read in.
type Config struct {
	Blocks []Block
	Buffer time.Duration
	// Location defaults to UTC.
	Location *time.Location
}

type implRepository struct {
	cfg Config
	l   log.Logger
}

// ParseBlocks expands specs into one Block per weekday.
func ParseBlocks(specs []BlockSpec) ([]Block, error) {
	var out []Block
	for _, s := range specs {
		start, err := datemath.ParseClock(s.Start)
		if err != nil {
			return nil, fmt.Errorf("block %q start: %w", s.Name, err)
		}
		end, err := datemath.ParseClock(s.End)
		if err != nil {
			return nil, fmt.Errorf("block %q end: %w", s.Name, err)
		}
		if len(s.Weekdays) == 0 {
			return nil, fmt.Errorf("block %q: no weekdays", s.Name)
		}
		for _, name := range s.Weekdays {
			wd, err := datemath.ParseWeekday(name)
			if err != nil {
				return nil, fmt.Errorf("block %q: %w", s.Name, err)
			}
			out = append(out, Block{Name: s.Name, UserID: s.UserID, Weekday: wd, Start: start, End: end})
		}
	}
	return out, nil
}

// New creates the recurring busy source.
func New(cfg Config, l log.Logger) (*implRepository, error) {
	if cfg.Buffer < 0 {
		return nil, errors.New("weekly: buffer must not be negative")
	}
	for _, b := range cfg.Blocks {
		if b.End <= b.Start || b.End > 24*time.Hour {
			return nil, fmt.Errorf("weekly: block %q must end after it starts, on the same day", b.Name)
		}
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &implRepository{cfg: cfg, l: l}, nil
}

// ListBusy returns every occurrence of the user's blocks and their buffers
// that overlaps [from, to).
func (r *implRepository) ListBusy(ctx context.Context, userID string, from, to time.Time) ([]model.BusyInterval, error) {
	if len(r.cfg.Blocks) == 0 || !to.After(from) {
		return nil, nil
	}

	loc := r.cfg.Location
	f := from.In(loc)
	// A buffer can spill past midnight, so start a day early.
	day := time.Date(f.Year(), f.Month(), f.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -1)

	var out []model.BusyInterval
	for ; day.Before(to); day = day.AddDate(0, 0, 1) {
		for _, b := range r.cfg.Blocks {
			if b.Weekday != day.Weekday() || (b.UserID != "" && b.UserID != userID) {
				continue
			}
			start, end := day.Add(b.Start), day.Add(b.End)
			class := model.BusyInterval{Start: start, End: end, Label: "class:" + b.Name}
			if class.Overlaps(from, to) {
				out = append(out, class)
			}
			if r.cfg.Buffer > 0 {
				buffer := model.BusyInterval{Start: end, End: end.Add(r.cfg.Buffer), Label: "class_buffer:" + b.Name}
				if buffer.Overlaps(from, to) {
					out = append(out, buffer)
				}
			}
		}
	}

	r.l.Debugf(ctx, "weekly.ListBusy: %d intervals for %s", len(out), userID)
	return out, nil
}
