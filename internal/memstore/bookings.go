package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/nekogravitycat/studio-booking-backend/internal/booking"
)

type bookingRepo struct {
	s *Store
}

func (s *Store) Bookings() booking.Repository {
	return &bookingRepo{s: s}
}

// check enforces the foreign keys, the unique reservation link and the
// no-overlap exclusion on confirmed bookings. The caller holds the write lock.
func (r *bookingRepo) check(b *booking.Booking) error {
	if _, ok := r.s.data.resources[b.ResourceID]; !ok {
		return booking.ErrResourceNotFound
	}
	for id, other := range r.s.data.bookings {
		if id == b.ID {
			continue
		}
		if b.ReservationID != nil && other.ReservationID != nil && *b.ReservationID == *other.ReservationID {
			return booking.ErrAlreadyExists
		}
		if b.Status != booking.StatusConfirmed || other.Status != booking.StatusConfirmed {
			continue
		}
		if other.ResourceID == b.ResourceID && other.StartTime.Before(b.EndTime) && b.StartTime.Before(other.EndTime) {
			return booking.ErrTimeConflict
		}
	}
	return nil
}

func (r *bookingRepo) fill(b booking.Booking) *booking.Booking {
	b.ResourceName = r.s.data.resources[b.ResourceID].Name
	return &b
}

func (r *bookingRepo) Create(ctx context.Context, b *booking.Booking) error {
	return r.s.write(ctx, func() error {
		b.ID = newID()
		if err := r.check(b); err != nil {
			return err
		}
		b.CreatedAt = r.s.Now()
		b.UpdatedAt = b.CreatedAt
		r.s.data.bookings[b.ID] = *b
		return nil
	})
}

func (r *bookingRepo) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	var out *booking.Booking
	r.s.read(func() {
		if b, ok := r.s.data.bookings[id]; ok {
			out = r.fill(b)
		}
	})
	if out == nil {
		return nil, booking.ErrNotFound
	}
	return out, nil
}

// GetByIDForUpdate needs no row lock: transactions already run one at a time.
func (r *bookingRepo) GetByIDForUpdate(ctx context.Context, id string) (*booking.Booking, error) {
	return r.GetByID(ctx, id)
}

func (r *bookingRepo) GetByReservationID(ctx context.Context, reservationID string) (*booking.Booking, error) {
	var out *booking.Booking
	r.s.read(func() {
		for _, b := range r.s.data.bookings {
			if b.ReservationID != nil && *b.ReservationID == reservationID {
				out = r.fill(b)
				return
			}
		}
	})
	if out == nil {
		return nil, booking.ErrNotFound
	}
	return out, nil
}

// List orders by start time; SortBy is ignored.
func (r *bookingRepo) List(ctx context.Context, filter booking.Filter) ([]*booking.Booking, int, error) {
	var items []*booking.Booking
	r.s.read(func() {
		for _, b := range r.s.data.bookings {
			if filter.ResourceID != "" && b.ResourceID != filter.ResourceID {
				continue
			}
			if filter.Status != "" && string(b.Status) != filter.Status {
				continue
			}
			if filter.StartTime != nil && !b.EndTime.After(*filter.StartTime) {
				continue
			}
			if filter.EndTime != nil && !b.StartTime.Before(*filter.EndTime) {
				continue
			}
			items = append(items, r.fill(b))
		}
	})
	sortByStart(items)
	return page(items, filter.Page, filter.PageSize), len(items), nil
}

func (r *bookingRepo) ListConfirmed(ctx context.Context, resourceID string, from, to time.Time) ([]*booking.Booking, error) {
	var items []*booking.Booking
	r.s.read(func() {
		for _, b := range r.s.data.bookings {
			if b.ResourceID != resourceID || b.Status != booking.StatusConfirmed {
				continue
			}
			if b.EndTime.After(from) && b.StartTime.Before(to) {
				items = append(items, r.fill(b))
			}
		}
	})
	sortByStart(items)
	return items, nil
}

func (r *bookingRepo) Update(ctx context.Context, b *booking.Booking) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.data.bookings[b.ID]; !ok {
			return booking.ErrNotFound
		}
		if err := r.check(b); err != nil {
			return err
		}
		b.UpdatedAt = r.s.Now()
		r.s.data.bookings[b.ID] = *b
		return nil
	})
}

func (r *bookingRepo) Delete(ctx context.Context, id string) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.data.bookings[id]; !ok {
			return booking.ErrNotFound
		}
		delete(r.s.data.bookings, id)
		return nil
	})
}

// LockResource only checks existence; transactions are already serial.
func (r *bookingRepo) LockResource(ctx context.Context, resourceID string) error {
	var ok bool
	r.s.read(func() { _, ok = r.s.data.resources[resourceID] })
	if !ok {
		return booking.ErrResourceNotFound
	}
	return nil
}

func sortByStart(items []*booking.Booking) {
	sort.Slice(items, func(i, j int) bool { return items[i].StartTime.Before(items[j].StartTime) })
}
