package booking

import (
	"time"

	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/interval"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/timeutil"
	"github.com/nekogravitycat/studio-booking-backend/internal/schedule"
)

// Candidate is a booking about to be written.
type Candidate struct {
	// ID is set when an existing booking is being edited, so it does not conflict with itself.
	ID         string
	ResourceID string
	StartTime  time.Time
	EndTime    time.Time
	Status     Status
}

type ValidateOptions struct {
	// CheckSchedule enables the published-window rules. Edits of persisted bookings skip them.
	CheckSchedule bool
	// Windows of the resource; inactive windows and other weekdays are ignored.
	Windows []schedule.Window
	// Location fixes the calendar day of the candidate. Defaults to the location of StartTime.
	Location *time.Location
}

// Validate checks a candidate against confirmed bookings and, optionally, the weekly schedule.
// The first failing rule wins: time order, overlap (confirmed candidates only), schedule.
func Validate(c Candidate, existing []*Booking, opts ValidateOptions) error {
	if !c.EndTime.After(c.StartTime) {
		return ErrInvalidTimeRange
	}

	if c.Status == StatusConfirmed {
		if conflict := FindConflict(c, existing); conflict != nil {
			return apperror.WithDetail(ErrTimeConflict, "%s - %s",
				conflict.StartTime.Format("2006-01-02 15:04"), conflict.EndTime.Format("15:04"))
		}
	}

	if opts.CheckSchedule {
		loc := opts.Location
		if loc == nil {
			loc = c.StartTime.Location()
		}
		return CheckSchedule(c.StartTime.In(loc), c.EndTime.In(loc), opts.Windows)
	}
	return nil
}

// FindConflict returns the first confirmed booking of the same resource overlapping c.
func FindConflict(c Candidate, existing []*Booking) *Booking {
	for _, e := range existing {
		if e.Status != StatusConfirmed || e.ResourceID != c.ResourceID {
			continue
		}
		if c.ID != "" && e.ID == c.ID {
			continue
		}
		if interval.Overlaps(c.StartTime, c.EndTime, e.StartTime, e.EndTime) {
			return e
		}
	}
	return nil
}

// CheckSchedule verifies that [start, end) is bookable under the windows published for its weekday.
// start and end must already be in the schedule's location.
func CheckSchedule(start, end time.Time, windows []schedule.Window) error {
	date := timeutil.DayStart(start)
	if end.After(timeutil.Clock(timeutil.MinutesPerDay).On(date)) {
		return ErrMultiDay
	}

	weekday := timeutil.Weekday(date)
	active := schedule.ForWeekday(windows, weekday)
	if len(active) == 0 {
		return apperror.WithDetail(ErrNoSchedule, "%s", timeutil.WeekdayName(weekday))
	}

	cand := interval.New(start, end)
	inside := false
	for _, w := range active {
		if !w.On(date).Contains(cand) {
			continue
		}
		inside = true
		if Matches(w, date, cand) {
			return nil
		}
	}

	if !inside {
		return ErrOutsideSchedule
	}
	return ErrSlotMismatch
}

// Matches reports whether cand is a valid booking of window w on date.
// Atomic discrete windows must be booked exactly. Partitioned windows accept runs of whole slots.
// Continuous windows accept any contained range of at least the minimum duration.
func Matches(w schedule.Window, date time.Time, cand interval.Interval) bool {
	whole := w.On(date)
	if !whole.Contains(cand) {
		return false
	}

	switch w.Kind {
	case schedule.KindContinuous:
		return cand.Duration() >= w.MinDuration()
	case schedule.KindDiscrete:
		if w.SlotMinutes <= 0 {
			return cand.Start.Equal(whole.Start) && cand.End.Equal(whole.End)
		}
		onGrid := func(t time.Time) bool {
			return int(timeutil.ClockOf(t)-w.Start)%w.SlotMinutes == 0
		}
		return onGrid(cand.Start) && (onGrid(cand.End) || cand.End.Equal(whole.End))
	}
	return false
}
