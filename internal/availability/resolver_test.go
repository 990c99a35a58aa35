package availability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/studio-booking-backend/internal/availability"
	"github.com/nekogravitycat/studio-booking-backend/internal/booking"
	"github.com/nekogravitycat/studio-booking-backend/internal/memstore"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/timeutil"
	"github.com/nekogravitycat/studio-booking-backend/internal/resource"
	"github.com/nekogravitycat/studio-booking-backend/internal/schedule"
)

func TestResolver(t *testing.T) {
	ctx := context.Background()
	zone := time.FixedZone("UTC+2", 2*60*60)
	store := memstore.New()

	resService := resource.NewService(store.Resources())
	schedService := schedule.NewService(store.Schedule(), resService)
	resolver := availability.NewResolver(resService, schedService, store.Bookings(), zone, 14)

	studio, err := resService.Create(ctx, resource.CreateRequest{Name: "Studio A", Active: true})
	require.NoError(t, err)
	closed, err := resService.Create(ctx, resource.CreateRequest{Name: "Old Studio", Active: false})
	require.NoError(t, err)

	// Mondays, hourly slots from 09:00 to 12:00.
	_, err = schedService.Create(ctx, schedule.CreateRequest{
		ResourceID:  studio.ID,
		Weekday:     0,
		Kind:        schedule.KindDiscrete,
		Start:       timeutil.MustClock("09:00"),
		End:         timeutil.MustClock("12:00"),
		SlotMinutes: 60,
		Active:      true,
	})
	require.NoError(t, err)

	monday := time.Date(2026, 11, 2, 0, 0, 0, 0, zone)
	book := func(start, end string, status booking.Status) {
		require.NoError(t, store.Bookings().Create(ctx, &booking.Booking{
			ResourceID: studio.ID,
			StartTime:  timeutil.MustClock(start).On(monday),
			EndTime:    timeutil.MustClock(end).On(monday),
			Status:     status,
		}))
	}
	book("10:00", "11:00", booking.StatusConfirmed)
	book("11:00", "12:00", booking.StatusCancelled)

	t.Run("For Date", func(t *testing.T) {
		// Only the calendar date of the argument matters.
		day, err := resolver.ForDate(ctx, studio.ID, time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.NotNil(t, day)
		require.Len(t, day.Discrete, 3)

		available := make([]bool, len(day.Discrete))
		for i, s := range day.Discrete {
			available[i] = s.Available
		}
		assert.Equal(t, []bool{true, false, true}, available)
		assert.True(t, day.HasAvailability())
	})

	t.Run("No Schedule", func(t *testing.T) {
		day, err := resolver.ForDate(ctx, studio.ID, monday.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Nil(t, day)
	})

	t.Run("Inactive Resource", func(t *testing.T) {
		_, err := resolver.ForDate(ctx, closed.ID, monday)
		assert.ErrorIs(t, err, resource.ErrInactive)
	})

	t.Run("Range", func(t *testing.T) {
		days, err := resolver.ForRange(ctx, studio.ID, monday, 8)
		require.NoError(t, err)
		require.Len(t, days, 8)

		assert.True(t, days[0].HasSchedule)
		assert.True(t, days[0].HasAvailability)
		for _, d := range days[1:7] {
			assert.False(t, d.HasSchedule)
			assert.False(t, d.HasAvailability)
		}
		assert.True(t, days[7].HasSchedule)
		assert.Equal(t, 0, days[7].Weekday)
	})

	t.Run("Fully Booked", func(t *testing.T) {
		next := monday.AddDate(0, 0, 7)
		for _, start := range []string{"09:00", "10:00", "11:00"} {
			s := timeutil.MustClock(start).On(next)
			require.NoError(t, store.Bookings().Create(ctx, &booking.Booking{
				ResourceID: studio.ID,
				StartTime:  s,
				EndTime:    s.Add(time.Hour),
				Status:     booking.StatusConfirmed,
			}))
		}

		day, err := resolver.ForDate(ctx, studio.ID, next)
		require.NoError(t, err)
		require.NotNil(t, day)
		assert.False(t, day.HasAvailability())
	})

	t.Run("Range Bounds", func(t *testing.T) {
		_, err := resolver.ForRange(ctx, studio.ID, monday, 0)
		assert.ErrorIs(t, err, availability.ErrInvalidDays)

		_, err = resolver.ForRange(ctx, studio.ID, monday, 15)
		assert.ErrorIs(t, err, availability.ErrInvalidDays)
	})
}
