package memstore

import (
	"context"
	"slices"
	"sort"

	"github.com/google/uuid"
	"github.com/nekogravitycat/studio-booking-backend/internal/reservation"
)

type reservationRepo struct {
	s *Store
}

func (s *Store) Reservations() reservation.Repository {
	return &reservationRepo{s: s}
}

// fill attaches the resource name and services. The caller holds the read lock.
func (r *reservationRepo) fill(v reservation.Reservation) *reservation.Reservation {
	v.ResourceName = r.s.data.resources[v.ResourceID].Name
	v.Services = r.s.linked(v.ID)
	return &v
}

func (r *reservationRepo) find(match func(v reservation.Reservation) bool) *reservation.Reservation {
	var out *reservation.Reservation
	r.s.read(func() {
		for _, v := range r.s.data.reservations {
			if match(v) {
				out = r.fill(v)
				return
			}
		}
	})
	return out
}

func (r *reservationRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	return r.find(func(v reservation.Reservation) bool { return v.Code == code }) != nil, nil
}

func (r *reservationRepo) Create(ctx context.Context, v *reservation.Reservation) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.data.resources[v.ResourceID]; !ok {
			return reservation.ErrNotFound
		}
		for _, other := range r.s.data.reservations {
			if other.Code == v.Code {
				return reservation.ErrCodeTaken
			}
		}
		v.ID = newID()
		v.VerificationToken = uuid.NewString()
		v.CreatedAt = r.s.Now()
		v.UpdatedAt = v.CreatedAt

		stored := *v
		stored.Services = nil
		r.s.data.reservations[v.ID] = stored
		return nil
	})
}

func (r *reservationRepo) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	if v := r.find(func(v reservation.Reservation) bool { return v.ID == id }); v != nil {
		return v, nil
	}
	return nil, reservation.ErrNotFound
}

func (r *reservationRepo) GetByCode(ctx context.Context, code string) (*reservation.Reservation, error) {
	if v := r.find(func(v reservation.Reservation) bool { return v.Code == code }); v != nil {
		return v, nil
	}
	return nil, reservation.ErrNotFound
}

func (r *reservationRepo) GetByCodeForUpdate(ctx context.Context, code string) (*reservation.Reservation, error) {
	return r.GetByCode(ctx, code)
}

func (r *reservationRepo) GetByToken(ctx context.Context, token string) (*reservation.Reservation, error) {
	if v := r.find(func(v reservation.Reservation) bool { return v.VerificationToken == token }); v != nil {
		return v, nil
	}
	return nil, reservation.ErrTokenNotFound
}

// List orders by date and start time.
func (r *reservationRepo) List(ctx context.Context, filter reservation.Filter) ([]*reservation.Reservation, int, error) {
	var items []*reservation.Reservation
	r.s.read(func() {
		for _, v := range r.s.data.reservations {
			if filter.ResourceID != "" && v.ResourceID != filter.ResourceID {
				continue
			}
			if filter.Status != "" && string(v.Status) != filter.Status {
				continue
			}
			if filter.DateFrom != nil && v.Date.Before(*filter.DateFrom) {
				continue
			}
			if filter.DateTo != nil && v.Date.After(*filter.DateTo) {
				continue
			}
			if filter.Keyword != "" && !matchesKeyword(v, filter.Keyword) {
				continue
			}
			items = append(items, r.fill(v))
		}
	})
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.Before(items[j].Date)
		}
		return items[i].Start < items[j].Start
	})
	if filter.SortOrder == "DESC" {
		slices.Reverse(items)
	}
	return page(items, filter.Page, filter.PageSize), len(items), nil
}

func matchesKeyword(v reservation.Reservation, keyword string) bool {
	return contains(v.Code, keyword) || contains(v.ClientName, keyword) ||
		contains(v.ClientEmail, keyword) || contains(v.ClientDocument, keyword)
}

func (r *reservationRepo) Update(ctx context.Context, v *reservation.Reservation) error {
	return r.s.write(ctx, func() error {
		stored, ok := r.s.data.reservations[v.ID]
		if !ok {
			return reservation.ErrNotFound
		}
		stored.Status = v.Status
		stored.EmailVerifiedAt = v.EmailVerifiedAt
		stored.ConfirmedAt = v.ConfirmedAt
		stored.InternalNotes = v.InternalNotes
		stored.UpdatedAt = r.s.Now()
		r.s.data.reservations[v.ID] = stored
		v.UpdatedAt = stored.UpdatedAt
		return nil
	})
}

func (r *reservationRepo) LinkServices(ctx context.Context, reservationID string, serviceIDs []string) error {
	return r.s.write(ctx, func() error {
		ids := r.s.data.links[reservationID]
		for _, id := range serviceIDs {
			if !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
		// Copy so a rolled back snapshot keeps its own slice.
		r.s.data.links[reservationID] = slices.Clone(ids)
		return nil
	})
}
