// Package availability derives free time of a resource from its weekly schedule
// and its confirmed bookings.
package availability

import (
	"time"

	"github.com/nekogravitycat/studio-booking-backend/internal/booking"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/interval"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/timeutil"
	"github.com/nekogravitycat/studio-booking-backend/internal/schedule"
)

// Slot is one bookable unit. Discrete slots are listed whether free or not;
// continuous slots are free ranges only.
type Slot struct {
	WindowID  string
	Start     time.Time
	End       time.Time
	Available bool
	// MinDuration is the shortest bookable sub-range of a continuous slot.
	MinDuration time.Duration
}

type DayAvailability struct {
	Date       time.Time
	Weekday    int
	Discrete   []Slot
	Continuous []Slot
}

// HasAvailability reports whether anything on the day can still be booked.
func (d *DayAvailability) HasAvailability() bool {
	if d == nil {
		return false
	}
	for _, s := range d.Discrete {
		if s.Available {
			return true
		}
	}
	return len(d.Continuous) > 0
}

// DaySummary is the calendar indicator of one day.
type DaySummary struct {
	Date            time.Time
	Weekday         int
	HasSchedule     bool
	HasAvailability bool
}

// Resolve computes the availability of date. It returns nil when no active window is published
// for the weekday, which is distinct from a fully booked day.
// Bookings that are not confirmed, or that do not touch the day, are ignored.
func Resolve(date time.Time, windows []schedule.Window, bookings []*booking.Booking) *DayAvailability {
	day := timeutil.DayStart(date)
	weekday := timeutil.Weekday(day)

	active := schedule.ForWeekday(windows, weekday)
	if len(active) == 0 {
		return nil
	}

	// Free ranges start where bookings end, so bookings are moved to the day's location.
	loc := day.Location()
	var occupied []interval.Interval
	for _, b := range bookings {
		if b.Status == booking.StatusConfirmed {
			occupied = append(occupied, interval.New(b.StartTime.In(loc), b.EndTime.In(loc)))
		}
	}

	result := &DayAvailability{
		Date:       day,
		Weekday:    weekday,
		Discrete:   []Slot{},
		Continuous: []Slot{},
	}

	for _, w := range active {
		switch w.Kind {
		case schedule.KindDiscrete:
			for _, slot := range w.Slots(day) {
				result.Discrete = append(result.Discrete, Slot{
					WindowID:  w.ID,
					Start:     slot.Start,
					End:       slot.End,
					Available: !overlapsAny(slot, occupied),
				})
			}
		case schedule.KindContinuous:
			for _, free := range interval.Subtract(w.On(day), occupied) {
				if free.Duration() < w.MinDuration() {
					continue
				}
				result.Continuous = append(result.Continuous, Slot{
					WindowID:    w.ID,
					Start:       free.Start,
					End:         free.End,
					Available:   true,
					MinDuration: w.MinDuration(),
				})
			}
		}
	}

	return result
}

func overlapsAny(slot interval.Interval, occupied []interval.Interval) bool {
	for _, o := range occupied {
		if slot.Overlaps(o) {
			return true
		}
	}
	return false
}
