// Package timeutil handles wall-clock values used by weekly schedules:
// HH:MM clocks, YYYY-MM-DD dates and Monday-based weekday numbers.
package timeutil

import (
	"errors"
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"

	// MinutesPerDay is the exclusive upper bound of a Clock; 24:00 is accepted as end of day.
	MinutesPerDay = 24 * 60
)

var (
	ErrInvalidClock = errors.New("invalid time of day, use HH:MM")
	ErrInvalidDate  = errors.New("invalid date, use YYYY-MM-DD")
)

// Clock is a time of day expressed in minutes since midnight.
type Clock int

// ParseClock accepts "HH:MM" or "HH:MM:SS" (seconds must be zero) and "24:00".
func ParseClock(s string) (Clock, error) {
	if s == "24:00" || s == "24:00:00" {
		return Clock(MinutesPerDay), nil
	}
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		t, err = time.Parse("15:04:05", s)
		if err != nil || t.Second() != 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

// MustClock is ParseClock for literals known to be valid.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ClockOf returns the time of day of t in t's location.
func ClockOf(t time.Time) Clock {
	return Clock(t.Hour()*60 + t.Minute())
}

// Valid reports whether c is inside [00:00, 24:00].
func (c Clock) Valid() bool {
	return c >= 0 && c <= MinutesPerDay
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// On anchors c to the calendar day of date, in date's location. The result is the wall-clock
// time c on that day, so days with a DST change keep their published clocks. 24:00 is the next
// day's midnight.
func (c Clock) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, int(c)/60, int(c)%60, 0, 0, date.Location())
}

// Minutes converts a minute count to a Clock-compatible duration.
func Minutes(m int) time.Duration {
	return time.Duration(m) * time.Minute
}

// ParseDate parses YYYY-MM-DD as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DayStart truncates t to midnight in its own location.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// InLocation reinterprets the calendar day of t (as stored, e.g. a DATE column) in loc.
func InLocation(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Weekday returns 0 for Monday through 6 for Sunday.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

var weekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WeekdayName names a Monday-based weekday number.
func WeekdayName(weekday int) string {
	if weekday < 0 || weekday > 6 {
		return "unknown"
	}
	return weekdayNames[weekday]
}
