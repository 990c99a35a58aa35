package memstore

import (
	"context"
	"sort"

	"github.com/nekogravitycat/studio-booking-backend/internal/schedule"
)

type scheduleRepo struct {
	s *Store
}

func (s *Store) Schedule() schedule.Repository {
	return &scheduleRepo{s: s}
}

func (r *scheduleRepo) Create(ctx context.Context, w *schedule.Window) error {
	return r.s.write(ctx, func() error {
		w.ID = newID()
		w.CreatedAt = r.s.Now()
		r.s.data.windows[w.ID] = *w
		return nil
	})
}

func (r *scheduleRepo) GetByID(ctx context.Context, id string) (*schedule.Window, error) {
	var (
		w  schedule.Window
		ok bool
	)
	r.s.read(func() { w, ok = r.s.data.windows[id] })
	if !ok {
		return nil, schedule.ErrNotFound
	}
	return &w, nil
}

func (r *scheduleRepo) List(ctx context.Context, filter schedule.Filter) ([]schedule.Window, error) {
	var items []schedule.Window
	r.s.read(func() {
		for _, w := range r.s.data.windows {
			if filter.ResourceID != "" && w.ResourceID != filter.ResourceID {
				continue
			}
			if filter.Weekday != nil && w.Weekday != *filter.Weekday {
				continue
			}
			if filter.ActiveOnly && !w.Active {
				continue
			}
			items = append(items, w)
		}
	})
	sort.Slice(items, func(i, j int) bool {
		if items[i].Weekday != items[j].Weekday {
			return items[i].Weekday < items[j].Weekday
		}
		return items[i].Start < items[j].Start
	})
	return items, nil
}

func (r *scheduleRepo) Update(ctx context.Context, w *schedule.Window) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.data.windows[w.ID]; !ok {
			return schedule.ErrNotFound
		}
		r.s.data.windows[w.ID] = *w
		return nil
	})
}

func (r *scheduleRepo) Delete(ctx context.Context, id string) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.data.windows[id]; !ok {
			return schedule.ErrNotFound
		}
		delete(r.s.data.windows, id)
		return nil
	})
}
