// Package schedule manages the weekly availability template of a resource.
package schedule

import (
	"net/http"
	"sort"
	"time"

	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/interval"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/timeutil"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, apperror.KindNotFound, "schedule window not found")
	ErrInvalidWeekday  = apperror.New(http.StatusBadRequest, apperror.KindInputFormat, "weekday must be between 0 (Monday) and 6 (Sunday)")
	ErrInvalidKind     = apperror.New(http.StatusBadRequest, apperror.KindInputFormat, "kind must be discrete or continuous")
	ErrInvalidRange    = apperror.New(http.StatusBadRequest, apperror.KindInputFormat, "start time must be before end time")
	ErrInvalidDuration = apperror.New(http.StatusBadRequest, apperror.KindInputFormat, "invalid duration settings for window kind")
	ErrWindowOverlap   = apperror.New(http.StatusConflict, apperror.KindConflict, "window overlaps another active window on the same weekday")
)

// Kind selects how a window may be booked.
type Kind string

const (
	// KindDiscrete windows are booked as published: the whole window, or whole slots when partitioned.
	KindDiscrete Kind = "discrete"
	// KindContinuous windows accept any sub-range of at least MinDurationMinutes.
	KindContinuous Kind = "continuous"
)

func (k Kind) Valid() bool {
	return k == KindDiscrete || k == KindContinuous
}

const DefaultMinDurationMinutes = 60

// Window is one published availability range on a weekday.
type Window struct {
	ID                 string
	ResourceID         string
	Weekday            int
	Kind               Kind
	Start              timeutil.Clock
	End                timeutil.Clock
	MinDurationMinutes int
	// SlotMinutes partitions a discrete window into fixed slots; zero keeps it atomic.
	SlotMinutes int
	Active      bool
	CreatedAt   time.Time
}

// On anchors the window to the given date.
func (w Window) On(date time.Time) interval.Interval {
	return interval.New(w.Start.On(date), w.End.On(date))
}

// MinDuration is the shortest bookable range of a continuous window.
func (w Window) MinDuration() time.Duration {
	return timeutil.Minutes(w.MinDurationMinutes)
}

// Slots returns the bookable units of a discrete window on date. Partitioned windows are cut
// from their start on the wall clock; the last slot is truncated at the window end.
func (w Window) Slots(date time.Time) []interval.Interval {
	if w.Kind != KindDiscrete || w.SlotMinutes <= 0 {
		return []interval.Interval{w.On(date)}
	}

	var slots []interval.Interval
	for start := w.Start; start < w.End; start += timeutil.Clock(w.SlotMinutes) {
		end := min(start+timeutil.Clock(w.SlotMinutes), w.End)
		slots = append(slots, interval.New(start.On(date), end.On(date)))
	}
	return slots
}

// ForWeekday returns the active windows for weekday, ordered by start.
func ForWeekday(windows []Window, weekday int) []Window {
	var out []Window
	for _, w := range windows {
		if w.Active && w.Weekday == weekday {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// Filter defines parameters for listing windows.
type Filter struct {
	ResourceID string
	Weekday    *int
	ActiveOnly bool
}
