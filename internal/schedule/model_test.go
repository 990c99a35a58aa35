package schedule

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/timeutil"
)

var monday = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func at(hhmm string) time.Time {
	return timeutil.MustClock(hhmm).On(monday)
}

func TestWindowSlots(t *testing.T) {
	t.Run("atomic discrete window is one slot", func(t *testing.T) {
		w := Window{Kind: KindDiscrete, Start: timeutil.MustClock("09:00"), End: timeutil.MustClock("12:00")}
		slots := w.Slots(monday)
		require.Len(t, slots, 1)
		assert.Equal(t, at("09:00"), slots[0].Start)
		assert.Equal(t, at("12:00"), slots[0].End)
	})

	t.Run("hourly partition", func(t *testing.T) {
		w := Window{Kind: KindDiscrete, Start: timeutil.MustClock("09:00"), End: timeutil.MustClock("18:00"), SlotMinutes: 60}
		slots := w.Slots(monday)
		require.Len(t, slots, 9)
		assert.Equal(t, at("09:00"), slots[0].Start)
		assert.Equal(t, at("17:00"), slots[8].Start)
		assert.Equal(t, at("18:00"), slots[8].End)
	})

	t.Run("last slot truncated at window end", func(t *testing.T) {
		w := Window{Kind: KindDiscrete, Start: timeutil.MustClock("09:30"), End: timeutil.MustClock("11:45"), SlotMinutes: 60}
		slots := w.Slots(monday)
		require.Len(t, slots, 3)
		assert.Equal(t, at("11:30"), slots[2].Start)
		assert.Equal(t, at("11:45"), slots[2].End)
	})

	t.Run("continuous window is not partitioned", func(t *testing.T) {
		w := Window{Kind: KindContinuous, Start: timeutil.MustClock("09:00"), End: timeutil.MustClock("18:00"), MinDurationMinutes: 60}
		assert.Len(t, w.Slots(monday), 1)
	})
}

func TestForWeekday(t *testing.T) {
	windows := []Window{
		{ID: "evening", Weekday: 0, Start: timeutil.MustClock("18:00"), End: timeutil.MustClock("21:00"), Active: true},
		{ID: "morning", Weekday: 0, Start: timeutil.MustClock("09:00"), End: timeutil.MustClock("12:00"), Active: true},
		{ID: "inactive", Weekday: 0, Start: timeutil.MustClock("13:00"), End: timeutil.MustClock("14:00")},
		{ID: "tuesday", Weekday: 1, Start: timeutil.MustClock("09:00"), End: timeutil.MustClock("12:00"), Active: true},
	}

	got := ForWeekday(windows, 0)
	require.Len(t, got, 2)
	assert.Equal(t, "morning", got[0].ID)
	assert.Equal(t, "evening", got[1].ID)

	assert.Empty(t, ForWeekday(windows, 6))
}

func TestCheck(t *testing.T) {
	base := Window{
		Weekday:            2,
		Kind:               KindContinuous,
		Start:              timeutil.MustClock("09:00"),
		End:                timeutil.MustClock("18:00"),
		MinDurationMinutes: 60,
	}
	require.NoError(t, Check(base))

	tests := []struct {
		name   string
		mutate func(w *Window)
		want   error
	}{
		{"weekday out of range", func(w *Window) { w.Weekday = 7 }, ErrInvalidWeekday},
		{"unknown kind", func(w *Window) { w.Kind = "hourly" }, ErrInvalidKind},
		{"start equals end", func(w *Window) { w.End = w.Start }, ErrInvalidRange},
		{"end before start", func(w *Window) { w.Start, w.End = w.End, w.Start }, ErrInvalidRange},
		{"continuous without minimum", func(w *Window) { w.MinDurationMinutes = 0 }, ErrInvalidDuration},
		{"continuous with partition", func(w *Window) { w.SlotMinutes = 30 }, ErrInvalidDuration},
		{"discrete negative partition", func(w *Window) { w.Kind = KindDiscrete; w.SlotMinutes = -1 }, ErrInvalidDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := base
			tt.mutate(&w)
			assert.ErrorIs(t, Check(w), tt.want)
		})
	}
}

func TestWindowSlotsOnDSTChange(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	springForward := time.Date(2026, 3, 8, 0, 0, 0, 0, ny)

	w := Window{Kind: KindDiscrete, Start: timeutil.MustClock("09:00"), End: timeutil.MustClock("12:00"), SlotMinutes: 60}
	slots := w.Slots(springForward)
	require.Len(t, slots, 3)
	for i, want := range []string{"09:00", "10:00", "11:00"} {
		assert.Equal(t, timeutil.MustClock(want), timeutil.ClockOf(slots[i].Start))
		assert.Equal(t, time.Hour, slots[i].Duration())
	}
	assert.Equal(t, timeutil.MustClock("12:00"), timeutil.ClockOf(slots[2].End))

	// The window straddling the 02:00 jump loses an hour of real time but keeps its clocks.
	night := Window{Kind: KindDiscrete, Start: timeutil.MustClock("00:00"), End: timeutil.MustClock("04:00"), SlotMinutes: 60}
	slots = night.Slots(springForward)
	require.Len(t, slots, 4)
	assert.Equal(t, timeutil.MustClock("03:00"), timeutil.ClockOf(slots[3].Start))
	assert.Equal(t, timeutil.MustClock("04:00"), timeutil.ClockOf(slots[3].End))
}
