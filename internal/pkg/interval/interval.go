// Package interval implements half-open time interval arithmetic.
package interval

import (
	"sort"
	"time"
)

// Interval is the half-open range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// New returns the interval [start, end).
func New(start, end time.Time) Interval {
	return Interval{Start: start, End: end}
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) share at least one instant.
// Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Overlaps reports whether i and o overlap.
func (i Interval) Overlaps(o Interval) bool {
	return Overlaps(i.Start, i.End, o.Start, o.End)
}

// Contains reports whether o lies fully inside i.
func (i Interval) Contains(o Interval) bool {
	return !o.Start.Before(i.Start) && !o.End.After(i.End)
}

// Duration returns the length of the interval, zero when it is empty or inverted.
func (i Interval) Duration() time.Duration {
	if !i.End.After(i.Start) {
		return 0
	}
	return i.End.Sub(i.Start)
}

// IsEmpty reports whether the interval has no length.
func (i Interval) IsEmpty() bool {
	return !i.End.After(i.Start)
}

// Subtract removes every occupied interval from window and returns the maximal free pieces,
// ordered by start. Occupied intervals may be unsorted, overlap each other, or lie outside the window.
func Subtract(window Interval, occupied []Interval) []Interval {
	if window.IsEmpty() {
		return nil
	}

	sorted := make([]Interval, len(occupied))
	copy(sorted, occupied)
	sort.Slice(sorted, func(a, b int) bool {
		return sorted[a].Start.Before(sorted[b].Start)
	})

	free := []Interval{window}
	for _, occ := range sorted {
		next := make([]Interval, 0, len(free)+1)
		for _, f := range free {
			if !f.Overlaps(occ) {
				next = append(next, f)
				continue
			}
			if occ.Start.After(f.Start) {
				next = append(next, Interval{Start: f.Start, End: occ.Start})
			}
			if occ.End.Before(f.End) {
				next = append(next, Interval{Start: occ.End, End: f.End})
			}
		}
		// Drop zero-length leftovers.
		free = free[:0]
		for _, n := range next {
			if !n.IsEmpty() {
				free = append(free, n)
			}
		}
	}

	if len(free) == 0 {
		return nil
	}
	return free
}
