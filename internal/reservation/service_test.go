package reservation_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/studio-booking-backend/internal/booking"
	"github.com/nekogravitycat/studio-booking-backend/internal/catalog"
	"github.com/nekogravitycat/studio-booking-backend/internal/memstore"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/timeutil"
	"github.com/nekogravitycat/studio-booking-backend/internal/reservation"
	"github.com/nekogravitycat/studio-booking-backend/internal/resource"
	"github.com/nekogravitycat/studio-booking-backend/internal/schedule"
)

var studioZone = time.FixedZone("UTC-3", -3*60*60)

// nextMonday is 2026-11-02; the clock of every fixture reads Monday 2026-10-19 08:00.
var nextMonday = time.Date(2026, 11, 2, 0, 0, 0, 0, studioZone)

const staffHandle = "whatsapp:+5491100000000"

type sentMessage struct {
	Recipient string
	Subject   string
	Body      string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, recipient, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMessage{Recipient: recipient, Subject: subject, Body: body})
	return n.err
}

func (n *recordingNotifier) to(recipient string) []sentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentMessage
	for _, m := range n.sent {
		if m.Recipient == recipient {
			out = append(out, m)
		}
	}
	return out
}

type fixture struct {
	store    *memstore.Store
	service  reservation.Service
	notifier *recordingNotifier
	studio   *resource.Resource
	mixing   *catalog.AddOn
}

type fixtureOption func(*reservation.Deps)

func withVerification(d *reservation.Deps) {
	d.Machine = reservation.NewMachine(reservation.Config{RequireEmailVerification: true})
}

func withCodes(random []byte) fixtureOption {
	return func(d *reservation.Deps) {
		d.Codes = d.Codes.WithRandom(bytes.NewReader(random))
	}
}

// newFixture opens Studio A on Mondays from 09:00 to 18:00 in hourly slots.
func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()

	resService := resource.NewService(store.Resources())
	schedService := schedule.NewService(store.Schedule(), resService)
	catalogService := catalog.NewService(store.Catalog())

	studio, err := resService.Create(ctx, resource.CreateRequest{Name: "Studio A", Active: true, ContactHandle: staffHandle})
	require.NoError(t, err)
	_, err = schedService.Create(ctx, schedule.CreateRequest{
		ResourceID:  studio.ID,
		Weekday:     0,
		Kind:        schedule.KindDiscrete,
		Start:       timeutil.MustClock("09:00"),
		End:         timeutil.MustClock("18:00"),
		SlotMinutes: 60,
		Active:      true,
	})
	require.NoError(t, err)
	mixing, err := catalogService.Create(ctx, catalog.CreateRequest{Name: "Mixing", Price: decimal.RequireFromString("50.00"), Active: true})
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	deps := reservation.Deps{
		Repo:            store.Reservations(),
		BookingRepo:     store.Bookings(),
		Tx:              store,
		ResourceService: resService,
		ScheduleService: schedService,
		CatalogService:  catalogService,
		Codes:           reservation.NewCodeGenerator(store.Reservations(), 4, 10),
		Machine:         reservation.NewMachine(reservation.Config{}),
		Notifier:        notifier,
		Location:        studioZone,
		PublicBaseURL:   "https://studio.example.com/",
		Now: func() time.Time {
			return time.Date(2026, 10, 19, 8, 0, 0, 0, studioZone)
		},
	}
	for _, opt := range opts {
		opt(&deps)
	}

	return &fixture{
		store:    store,
		service:  reservation.NewService(deps),
		notifier: notifier,
		studio:   studio,
		mixing:   mixing,
	}
}

func (f *fixture) request(start, end string) reservation.CreateRequest {
	return reservation.CreateRequest{
		ResourceID:  f.studio.ID,
		Date:        nextMonday,
		Start:       timeutil.MustClock(start),
		End:         timeutil.MustClock(end),
		ClientName:  "Ana Souza",
		ClientEmail: "ana@example.com",
	}
}

func (f *fixture) create(t *testing.T, start, end string) *reservation.Reservation {
	t.Helper()
	v, err := f.service.Create(context.Background(), f.request(start, end))
	require.NoError(t, err)
	return v
}

func (f *fixture) confirmedBookings(t *testing.T) []*booking.Booking {
	t.Helper()
	day := nextMonday
	items, err := f.store.Bookings().ListConfirmed(context.Background(), f.studio.ID, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	return items
}

func TestConfirmAndUndo(t *testing.T) {
	ctx := context.Background()
	// 0, 1, 27, 28 -> "AB12".
	f := newFixture(t, withCodes([]byte{0, 1, 27, 28}))

	req := f.request("10:00", "11:00")
	req.ServiceIDs = []string{f.mixing.ID, f.mixing.ID}
	v, err := f.service.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "AB12", v.Code)
	assert.Equal(t, reservation.StatusPending, v.Status)
	require.Len(t, v.Services, 1)
	assert.Equal(t, "50.00", v.Total().StringFixed(2))
	assert.Empty(t, f.confirmedBookings(t), "a pending request does not hold the slot")

	t.Run("Confirm", func(t *testing.T) {
		confirmed, err := f.service.Confirm(ctx, "ab12")
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusConfirmed, confirmed.Status)
		require.NotNil(t, confirmed.ConfirmedAt)

		b, err := f.store.Bookings().GetByReservationID(ctx, v.ID)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusConfirmed, b.Status)
		assert.Contains(t, b.Notes, "AB12")
		assert.True(t, b.StartTime.Equal(timeutil.MustClock("10:00").On(nextMonday)))
		assert.True(t, b.EndTime.Equal(timeutil.MustClock("11:00").On(nextMonday)))

		msgs := f.notifier.to("ana@example.com")
		require.NotEmpty(t, msgs)
		assert.Contains(t, msgs[len(msgs)-1].Subject, "AB12")
	})

	t.Run("Second Confirm Rejected", func(t *testing.T) {
		_, err := f.service.Confirm(ctx, "AB12")
		assert.ErrorIs(t, err, reservation.ErrInvalidTransition)
		assert.Len(t, f.confirmedBookings(t), 1)
	})

	t.Run("Undo", func(t *testing.T) {
		undone, err := f.service.Undo(ctx, "AB12")
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusPending, undone.Status)
		assert.Nil(t, undone.ConfirmedAt)

		_, err = f.store.Bookings().GetByReservationID(ctx, v.ID)
		assert.ErrorIs(t, err, booking.ErrNotFound)
	})

	t.Run("Undo Only From Confirmed", func(t *testing.T) {
		_, err := f.service.Undo(ctx, "AB12")
		assert.ErrorIs(t, err, reservation.ErrInvalidTransition)
	})
}

func TestConfirmRevalidatesLiveBookings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first := f.create(t, "14:00", "15:00")
	second := f.create(t, "14:00", "15:00")

	_, err := f.service.Confirm(ctx, first.Code)
	require.NoError(t, err)

	t.Run("Overlapping Confirm Fails", func(t *testing.T) {
		_, err := f.service.Confirm(ctx, second.Code)
		assert.ErrorIs(t, err, booking.ErrTimeConflict)

		current, err := f.service.GetByCode(ctx, second.Code)
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusPending, current.Status)
	})

	t.Run("Rejected May Still Be Confirmed", func(t *testing.T) {
		_, err := f.service.Reject(ctx, second.Code)
		require.NoError(t, err)

		_, err = f.service.Cancel(ctx, first.Code)
		require.NoError(t, err)
		assert.Empty(t, f.confirmedBookings(t))

		confirmed, err := f.service.Confirm(ctx, second.Code)
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusConfirmed, confirmed.Status)
	})

	t.Run("Reactivate Into Filled Slot", func(t *testing.T) {
		_, err := f.service.Reactivate(ctx, first.Code)
		assert.ErrorIs(t, err, booking.ErrTimeConflict)

		current, err := f.service.GetByCode(ctx, first.Code)
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusCancelled, current.Status)
	})

	t.Run("Reactivate After Slot Frees", func(t *testing.T) {
		_, err := f.service.Undo(ctx, second.Code)
		require.NoError(t, err)

		v, err := f.service.Reactivate(ctx, first.Code)
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusConfirmed, v.Status)
		assert.Len(t, f.confirmedBookings(t), 1)
	})
}

func TestConcurrentConfirm(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	codes := []string{
		f.create(t, "16:00", "17:00").Code,
		f.create(t, "16:00", "17:00").Code,
	}

	errs := make([]error, len(codes))
	var wg sync.WaitGroup
	for i, code := range codes {
		i, code := i, code
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.service.Confirm(ctx, code)
		}()
	}
	wg.Wait()

	var succeeded, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, booking.ErrTimeConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicts)
	assert.Len(t, f.confirmedBookings(t), 1)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	taken := f.create(t, "09:00", "10:00")
	_, err := f.service.Confirm(ctx, taken.Code)
	require.NoError(t, err)

	closed, err := resource.NewService(f.store.Resources()).Create(ctx, resource.CreateRequest{Name: "Closed", Active: false})
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*reservation.CreateRequest)
		want   error
	}{
		{"Missing Client", func(r *reservation.CreateRequest) { r.ClientEmail = " " }, reservation.ErrClientRequired},
		{"Inverted Range", func(r *reservation.CreateRequest) { r.End = timeutil.MustClock("11:00") }, reservation.ErrInvalidTimeRange},
		{"In The Past", func(r *reservation.CreateRequest) { r.Date = nextMonday.AddDate(0, 0, -21) }, reservation.ErrDateInPast},
		{"No Schedule", func(r *reservation.CreateRequest) { r.Date = nextMonday.AddDate(0, 0, 1) }, booking.ErrNoSchedule},
		{"Off Slot Grid", func(r *reservation.CreateRequest) {
			r.Start, r.End = timeutil.MustClock("12:30"), timeutil.MustClock("13:30")
		}, booking.ErrSlotMismatch},
		{"Outside Window", func(r *reservation.CreateRequest) {
			r.Start, r.End = timeutil.MustClock("18:00"), timeutil.MustClock("19:00")
		}, booking.ErrOutsideSchedule},
		{"Slot Already Confirmed", func(r *reservation.CreateRequest) {
			r.Start, r.End = timeutil.MustClock("09:00"), timeutil.MustClock("10:00")
		}, booking.ErrTimeConflict},
		{"Unknown Service", func(r *reservation.CreateRequest) {
			r.ServiceIDs = []string{"00000000-0000-0000-0000-000000000000"}
		}, catalog.ErrUnknownService},
		{"Inactive Resource", func(r *reservation.CreateRequest) { r.ResourceID = closed.ID }, resource.ErrInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request("12:00", "13:00")
			tt.mutate(&req)
			_, err := f.service.Create(ctx, req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreateNotifies(t *testing.T) {
	f := newFixture(t)
	v := f.create(t, "11:00", "12:00")

	client := f.notifier.to("ana@example.com")
	require.Len(t, client, 1)
	assert.Contains(t, client[0].Subject, v.Code)
	assert.Contains(t, client[0].Body, "Studio A")

	staff := f.notifier.to(staffHandle)
	require.Len(t, staff, 1)
	assert.Contains(t, staff[0].Body, "Ana Souza")
}

func TestVerificationFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, withVerification)

	v := f.create(t, "11:00", "12:00")
	assert.Equal(t, reservation.StatusPendingVerification, v.Status)
	require.NotEmpty(t, v.VerificationToken)

	client := f.notifier.to("ana@example.com")
	require.Len(t, client, 1)
	assert.Contains(t, client[0].Body, "https://studio.example.com/v1/reservations/verify/"+v.VerificationToken)
	assert.Empty(t, f.notifier.to(staffHandle), "staff hear about a request only once it is verified")

	t.Run("Confirm Before Verify", func(t *testing.T) {
		_, err := f.service.Confirm(ctx, v.Code)
		assert.ErrorIs(t, err, reservation.ErrInvalidTransition)
	})

	t.Run("Verify", func(t *testing.T) {
		verified, result, err := f.service.Verify(ctx, v.VerificationToken)
		require.NoError(t, err)
		assert.Equal(t, reservation.VerifyOK, result)
		assert.Equal(t, reservation.StatusPending, verified.Status)
		assert.NotNil(t, verified.EmailVerifiedAt)
		assert.Len(t, f.notifier.to(staffHandle), 1)
	})

	t.Run("Verify Twice", func(t *testing.T) {
		_, result, err := f.service.Verify(ctx, v.VerificationToken)
		require.NoError(t, err)
		assert.Equal(t, reservation.VerifyAlreadyVerified, result)
		assert.Len(t, f.notifier.to(staffHandle), 1)
	})

	t.Run("Unknown Token", func(t *testing.T) {
		_, _, err := f.service.Verify(ctx, "1b4e28ba-2fa1-11d2-883f-0016d3cca427")
		assert.ErrorIs(t, err, reservation.ErrTokenNotFound)
	})

	t.Run("Statuses", func(t *testing.T) {
		assert.Contains(t, f.service.AllowedStatuses(), reservation.StatusPendingVerification)
	})
}

func TestVerifyNotRequired(t *testing.T) {
	f := newFixture(t)
	v := f.create(t, "11:00", "12:00")

	got, result, err := f.service.Verify(context.Background(), v.VerificationToken)
	require.NoError(t, err)
	assert.Equal(t, reservation.VerifyNotRequired, result)
	assert.Equal(t, reservation.StatusPending, got.Status)
	assert.NotContains(t, f.service.AllowedStatuses(), reservation.StatusPendingVerification)
}

func TestNotificationFailureKeepsTransition(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.notifier.err = errors.New("smtp: connection refused")

	v := f.create(t, "15:00", "16:00")

	confirmed, err := f.service.Confirm(ctx, v.Code)
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusConfirmed, confirmed.Status)
	assert.Len(t, f.confirmedBookings(t), 1)
	assert.NotEmpty(t, f.notifier.to("ana@example.com"))
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a := f.create(t, "09:00", "10:00")
	b := f.create(t, "09:00", "10:00")
	c := f.create(t, "10:00", "11:00")

	result := f.service.Apply(ctx, reservation.ActionConfirm, []string{a.Code, b.Code, c.Code, "ZZZZ"})
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Errors, 2)
	assert.True(t, strings.HasPrefix(result.Errors[0], b.Code))
	assert.True(t, strings.HasPrefix(result.Errors[1], "ZZZZ"))

	result = f.service.Apply(ctx, reservation.ActionCancel, []string{a.Code, c.Code})
	assert.Equal(t, 2, result.Succeeded)
	assert.Empty(t, result.Errors)
	assert.Empty(t, f.confirmedBookings(t))
}

func TestInternalNotes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	v := f.create(t, "13:00", "14:00")

	updated, err := f.service.UpdateInternalNotes(ctx, v.Code, "paid deposit")
	require.NoError(t, err)
	assert.Equal(t, "paid deposit", updated.InternalNotes)

	items, total, err := f.service.List(ctx, reservation.Filter{Keyword: "souza"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "paid deposit", items[0].InternalNotes)
}

func TestLinkedAddOnCannotBeDeleted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	catalogService := catalog.NewService(f.store.Catalog())

	req := f.request("10:00", "11:00")
	req.ServiceIDs = []string{f.mixing.ID}
	v, err := f.service.Create(ctx, req)
	require.NoError(t, err)

	err = catalogService.Delete(ctx, f.mixing.ID)
	assert.ErrorIs(t, err, catalog.ErrInUse)

	got, err := f.service.GetByCode(ctx, v.Code)
	require.NoError(t, err)
	require.Len(t, got.Services, 1)
	assert.Equal(t, "50.00", got.Total().StringFixed(2))

	// Deactivating keeps the history while hiding the service from new requests.
	inactive := false
	_, err = catalogService.Update(ctx, f.mixing.ID, catalog.UpdateRequest{Active: &inactive})
	require.NoError(t, err)
	_, err = f.service.Create(ctx, req)
	assert.ErrorIs(t, err, catalog.ErrUnknownService)

	unused, err := catalogService.Create(ctx, catalog.CreateRequest{Name: "Mastering", Price: decimal.RequireFromString("80.00"), Active: true})
	require.NoError(t, err)
	require.NoError(t, catalogService.Delete(ctx, unused.ID))
}
