package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/studio-booking-backend/internal/booking"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/timeutil"
	"github.com/nekogravitycat/studio-booking-backend/internal/schedule"
)

var monday = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func at(hhmm string) time.Time {
	return timeutil.MustClock(hhmm).On(monday)
}

func mondayWindow(kind schedule.Kind, start, end string, slotMinutes int) schedule.Window {
	return schedule.Window{
		ID:                 string(kind) + start,
		ResourceID:         "studio-a",
		Weekday:            0,
		Kind:               kind,
		Start:              timeutil.MustClock(start),
		End:                timeutil.MustClock(end),
		MinDurationMinutes: 60,
		SlotMinutes:        slotMinutes,
		Active:             true,
	}
}

func confirmedBooking(start, end string) *booking.Booking {
	return &booking.Booking{ResourceID: "studio-a", StartTime: at(start), EndTime: at(end), Status: booking.StatusConfirmed}
}

func TestResolve_NoScheduleIsNil(t *testing.T) {
	windows := []schedule.Window{mondayWindow(schedule.KindContinuous, "09:00", "18:00", 0)}

	assert.Nil(t, Resolve(monday.AddDate(0, 0, 1), windows, nil))
	assert.Nil(t, Resolve(monday, nil, nil))

	inactive := windows[0]
	inactive.Active = false
	assert.Nil(t, Resolve(monday, []schedule.Window{inactive}, nil))
}

func TestResolve_DiscreteHourly(t *testing.T) {
	windows := []schedule.Window{mondayWindow(schedule.KindDiscrete, "09:00", "18:00", 60)}
	bookings := []*booking.Booking{confirmedBooking("10:00", "11:00")}

	day := Resolve(monday, windows, bookings)
	require.NotNil(t, day)
	assert.Equal(t, 0, day.Weekday)
	assert.Empty(t, day.Continuous)
	require.Len(t, day.Discrete, 9)

	for _, slot := range day.Discrete {
		if slot.Start.Equal(at("10:00")) {
			assert.False(t, slot.Available, "10:00 slot should be taken")
			continue
		}
		assert.True(t, slot.Available, "slot %s should be free", slot.Start.Format("15:04"))
	}
	assert.True(t, day.HasAvailability())
}

func TestResolve_DiscreteAtomic(t *testing.T) {
	windows := []schedule.Window{
		mondayWindow(schedule.KindDiscrete, "09:00", "12:00", 0),
		mondayWindow(schedule.KindDiscrete, "14:00", "17:00", 0),
	}
	bookings := []*booking.Booking{confirmedBooking("15:00", "15:30")}

	day := Resolve(monday, windows, bookings)
	require.NotNil(t, day)
	require.Len(t, day.Discrete, 2)
	assert.True(t, day.Discrete[0].Available)
	assert.False(t, day.Discrete[1].Available, "any overlap takes the whole atomic window")
}

func TestResolve_Continuous(t *testing.T) {
	windows := []schedule.Window{mondayWindow(schedule.KindContinuous, "09:00", "18:00", 0)}
	bookings := []*booking.Booking{confirmedBooking("12:00", "13:30")}

	day := Resolve(monday, windows, bookings)
	require.NotNil(t, day)
	require.Len(t, day.Continuous, 2)

	assert.Equal(t, at("09:00"), day.Continuous[0].Start)
	assert.Equal(t, at("12:00"), day.Continuous[0].End)
	assert.Equal(t, at("13:30"), day.Continuous[1].Start)
	assert.Equal(t, at("18:00"), day.Continuous[1].End)
	assert.Equal(t, time.Hour, day.Continuous[0].MinDuration)
}

func TestResolve_ContinuousDropsShortGaps(t *testing.T) {
	windows := []schedule.Window{mondayWindow(schedule.KindContinuous, "09:00", "18:00", 0)}
	bookings := []*booking.Booking{confirmedBooking("10:00", "17:30")}

	day := Resolve(monday, windows, bookings)
	require.NotNil(t, day)
	require.Len(t, day.Continuous, 1)
	assert.Equal(t, at("09:00"), day.Continuous[0].Start)
	assert.Equal(t, at("10:00"), day.Continuous[0].End)
}

func TestResolve_FullyBookedIsNotNil(t *testing.T) {
	windows := []schedule.Window{mondayWindow(schedule.KindContinuous, "09:00", "18:00", 0)}
	bookings := []*booking.Booking{confirmedBooking("08:00", "19:00")}

	day := Resolve(monday, windows, bookings)
	require.NotNil(t, day)
	assert.Empty(t, day.Continuous)
	assert.False(t, day.HasAvailability())
}

func TestResolve_IgnoresCancelledBookings(t *testing.T) {
	windows := []schedule.Window{mondayWindow(schedule.KindDiscrete, "09:00", "10:00", 0)}
	cancelled := confirmedBooking("09:00", "10:00")
	cancelled.Status = booking.StatusCancelled

	day := Resolve(monday, windows, []*booking.Booking{cancelled})
	require.NotNil(t, day)
	require.Len(t, day.Discrete, 1)
	assert.True(t, day.Discrete[0].Available)
}

func TestResolve_MixedWindows(t *testing.T) {
	windows := []schedule.Window{
		mondayWindow(schedule.KindContinuous, "14:00", "18:00", 0),
		mondayWindow(schedule.KindDiscrete, "09:00", "11:00", 60),
	}

	day := Resolve(monday, windows, nil)
	require.NotNil(t, day)
	assert.Len(t, day.Discrete, 2)
	require.Len(t, day.Continuous, 1)
	assert.Equal(t, at("14:00"), day.Continuous[0].Start)
}

func TestHasAvailability_Nil(t *testing.T) {
	var day *DayAvailability
	assert.False(t, day.HasAvailability())
}
