package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/nekogravitycat/studio-booking-backend/internal/staff"
)

type staffRepo struct {
	s *Store
}

func (s *Store) Staff() staff.Repository {
	return &staffRepo{s: s}
}

func (r *staffRepo) GetByEmail(ctx context.Context, email string) (*staff.Member, error) {
	var (
		m     staff.Member
		found bool
	)
	r.s.read(func() {
		for _, candidate := range r.s.data.staff {
			if candidate.Email == email {
				m, found = candidate, true
				return
			}
		}
	})
	if !found {
		return nil, staff.ErrNotFound
	}
	return &m, nil
}

func (r *staffRepo) GetByID(ctx context.Context, id string) (*staff.Member, error) {
	var (
		m  staff.Member
		ok bool
	)
	r.s.read(func() { m, ok = r.s.data.staff[id] })
	if !ok {
		return nil, staff.ErrNotFound
	}
	return &m, nil
}

func (r *staffRepo) Create(ctx context.Context, m *staff.Member) error {
	return r.s.write(ctx, func() error {
		for _, existing := range r.s.data.staff {
			if existing.Email == m.Email {
				return staff.ErrEmailAlreadyUsed
			}
		}
		m.ID = newID()
		m.CreatedAt = r.s.Now()
		r.s.data.staff[m.ID] = *m
		return nil
	})
}

func (r *staffRepo) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	return r.s.write(ctx, func() error {
		m, ok := r.s.data.staff[id]
		if !ok {
			return staff.ErrNotFound
		}
		m.LastLoginAt = &t
		r.s.data.staff[id] = m
		return nil
	})
}

func (r *staffRepo) List(ctx context.Context, filter staff.Filter) ([]*staff.Member, int, error) {
	var items []*staff.Member
	r.s.read(func() {
		for _, m := range r.s.data.staff {
			if filter.Email != "" && !contains(m.Email, filter.Email) {
				continue
			}
			if filter.IsActive != nil && m.IsActive != *filter.IsActive {
				continue
			}
			items = append(items, &m)
		}
	})
	sort.Slice(items, func(i, j int) bool { return items[i].Email < items[j].Email })
	return page(items, filter.Page, filter.PageSize), len(items), nil
}

func (r *staffRepo) Update(ctx context.Context, m *staff.Member) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.data.staff[m.ID]; !ok {
			return staff.ErrNotFound
		}
		r.s.data.staff[m.ID] = *m
		return nil
	})
}
