package timegrid

import (
	"math"
	"time"

	"timely-scheduler/internal/model"
	"timely-scheduler/pkg/datemath"
)

// MaxHorizonHours bounds a grid to 30 days.
const MaxHorizonHours = 720

// Grid is an hourly occupancy mask indexed from the hour containing "now".
// Cells only ever go from free to occupied within a pass.
type Grid struct {
	origin   time.Time
	occupied []bool
	sleep    SleepWindow
}

// Build discretizes [floor(now), floor(now)+horizonHours) into hourly cells.
// A cell is occupied when its hour-of-day is inside the sleep window or when
// any busy interval overlaps it. Horizon is clamped to (0, MaxHorizonHours].
func Build(now time.Time, busy []model.BusyInterval, horizonHours int, sleep SleepWindow) *Grid {
	if horizonHours < 0 {
		horizonHours = 0
	}
	if horizonHours > MaxHorizonHours {
		horizonHours = MaxHorizonHours
	}

	g := &Grid{
		origin:   datemath.FloorToHour(now),
		occupied: make([]bool, horizonHours),
		sleep:    sleep,
	}

	for h := range g.occupied {
		start := g.SlotStart(h)
		if sleep.Contains(start.Hour()) {
			g.occupied[h] = true
			continue
		}
		end := start.Add(time.Hour)
		for _, b := range busy {
			if b.Overlaps(start, end) {
				g.occupied[h] = true
				break
			}
		}
	}

	return g
}

// Origin is the start of cell 0.
func (g *Grid) Origin() time.Time { return g.origin }

// Len is the horizon in hours.
func (g *Grid) Len() int { return len(g.occupied) }

// Sleep returns the sleep window the grid was built with.
func (g *Grid) Sleep() SleepWindow { return g.sleep }

// SlotStart returns the wall-clock start of cell h.
func (g *Grid) SlotStart(h int) time.Time {
	return g.origin.Add(time.Duration(h) * time.Hour)
}

// At returns the wall-clock time offset hours (possibly fractional) after origin.
func (g *Grid) At(offset float64) time.Time {
	return g.origin.Add(time.Duration(offset * float64(time.Hour)))
}

// OffsetOf returns the fractional hour offset of t from origin.
func (g *Grid) OffsetOf(t time.Time) float64 {
	return t.Sub(g.origin).Hours()
}

// IsFree reports whether cell h exists and is free.
func (g *Grid) IsFree(h int) bool {
	return h >= 0 && h < len(g.occupied) && !g.occupied[h]
}

// CandidateHours returns the sorted list of free cell indices.
func (g *Grid) CandidateHours() []int {
	return g.CandidateHoursUntil(len(g.occupied) - 1)
}

// CandidateHoursUntil returns free cell indices h with h <= limit.
func (g *Grid) CandidateHoursUntil(limit int) []int {
	if limit >= len(g.occupied) {
		limit = len(g.occupied) - 1
	}
	var out []int
	for h := 0; h <= limit; h++ {
		if !g.occupied[h] {
			out = append(out, h)
		}
	}
	return out
}

// FreeCount returns the number of free cells.
func (g *Grid) FreeCount() int {
	n := 0
	for _, occ := range g.occupied {
		if !occ {
			n++
		}
	}
	return n
}

// SpanFree reports whether every cell spanned by [offset, offset+duration) is
// inside the horizon and free.
func (g *Grid) SpanFree(offset int, duration float64) bool {
	last := spanEnd(offset, duration)
	if offset < 0 || last > len(g.occupied) {
		return false
	}
	for h := offset; h < last; h++ {
		if g.occupied[h] {
			return false
		}
	}
	return true
}

// Commit marks the cells spanned by [offset, offset+duration) occupied.
// Cells outside the horizon are ignored.
func (g *Grid) Commit(offset int, duration float64) {
	last := spanEnd(offset, duration)
	for h := offset; h < last; h++ {
		if h >= 0 && h < len(g.occupied) {
			g.occupied[h] = true
		}
	}
}

// spanEnd returns the exclusive index of the last cell touched by the span.
func spanEnd(offset int, duration float64) int {
	if duration <= 0 {
		return offset
	}
	return offset + int(math.Ceil(duration-1e-9))
}
