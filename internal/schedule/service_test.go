package schedule_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/studio-booking-backend/internal/memstore"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/timeutil"
	"github.com/nekogravitycat/studio-booking-backend/internal/resource"
	"github.com/nekogravitycat/studio-booking-backend/internal/schedule"
)

func TestServiceWindows(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	resService := resource.NewService(store.Resources())
	service := schedule.NewService(store.Schedule(), resService)

	res, err := resService.Create(ctx, resource.CreateRequest{Name: "Studio B", Active: true})
	require.NoError(t, err)

	window := func(weekday int, start, end string) schedule.CreateRequest {
		return schedule.CreateRequest{
			ResourceID:  res.ID,
			Weekday:     weekday,
			Kind:        schedule.KindDiscrete,
			Start:       timeutil.MustClock(start),
			End:         timeutil.MustClock(end),
			SlotMinutes: 60,
			Active:      true,
		}
	}

	var afternoon *schedule.Window

	t.Run("Split Shift", func(t *testing.T) {
		_, err := service.Create(ctx, window(2, "08:00", "12:00"))
		require.NoError(t, err)
		afternoon, err = service.Create(ctx, window(2, "14:00", "18:00"))
		require.NoError(t, err)
		assert.Equal(t, schedule.DefaultMinDurationMinutes, afternoon.MinDurationMinutes)

		windows, err := service.ListForWeekday(ctx, res.ID, 2)
		require.NoError(t, err)
		require.Len(t, windows, 2)
		assert.Equal(t, timeutil.MustClock("08:00"), windows[0].Start)
	})

	t.Run("Overlapping Window Rejected", func(t *testing.T) {
		_, err := service.Create(ctx, window(2, "11:00", "15:00"))
		assert.ErrorIs(t, err, schedule.ErrWindowOverlap)
	})

	t.Run("Inactive Window May Overlap", func(t *testing.T) {
		req := window(2, "11:00", "15:00")
		req.Active = false
		_, err := service.Create(ctx, req)
		require.NoError(t, err)

		windows, err := service.ListForWeekday(ctx, res.ID, 2)
		require.NoError(t, err)
		assert.Len(t, windows, 2)

		all, err := service.ListByResource(ctx, res.ID)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("Update Into Sibling Rejected", func(t *testing.T) {
		start := timeutil.MustClock("10:00")
		_, err := service.Update(ctx, afternoon.ID, schedule.UpdateRequest{Start: &start})
		assert.ErrorIs(t, err, schedule.ErrWindowOverlap)
	})

	t.Run("Move To Other Day", func(t *testing.T) {
		weekday := 5
		w, err := service.Update(ctx, afternoon.ID, schedule.UpdateRequest{Weekday: &weekday})
		require.NoError(t, err)
		assert.Equal(t, 5, w.Weekday)
	})

	t.Run("Invalid Weekday", func(t *testing.T) {
		_, err := service.Create(ctx, window(7, "08:00", "09:00"))
		assert.ErrorIs(t, err, schedule.ErrInvalidWeekday)

		_, err = service.ListForWeekday(ctx, res.ID, -1)
		assert.ErrorIs(t, err, schedule.ErrInvalidWeekday)
	})

	t.Run("Unknown Resource", func(t *testing.T) {
		req := window(1, "08:00", "09:00")
		req.ResourceID = "00000000-0000-0000-0000-000000000000"
		_, err := service.Create(ctx, req)
		assert.ErrorIs(t, err, resource.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, service.Delete(ctx, afternoon.ID))
		_, err := service.GetByID(ctx, afternoon.ID)
		assert.ErrorIs(t, err, schedule.ErrNotFound)
	})
}
