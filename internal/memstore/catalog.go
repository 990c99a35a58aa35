package memstore

import (
	"context"
	"slices"
	"sort"

	"github.com/nekogravitycat/studio-booking-backend/internal/catalog"
)

type catalogRepo struct {
	s *Store
}

func (s *Store) Catalog() catalog.Repository {
	return &catalogRepo{s: s}
}

func (r *catalogRepo) Create(ctx context.Context, a *catalog.AddOn) error {
	return r.s.write(ctx, func() error {
		a.ID = newID()
		a.CreatedAt = r.s.Now()
		r.s.data.services[a.ID] = *a
		return nil
	})
}

func (r *catalogRepo) GetByID(ctx context.Context, id string) (*catalog.AddOn, error) {
	var (
		a  catalog.AddOn
		ok bool
	)
	r.s.read(func() { a, ok = r.s.data.services[id] })
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &a, nil
}

func (r *catalogRepo) GetByIDs(ctx context.Context, ids []string) ([]catalog.AddOn, error) {
	var items []catalog.AddOn
	r.s.read(func() {
		for _, id := range ids {
			if a, ok := r.s.data.services[id]; ok {
				items = append(items, a)
			}
		}
	})
	sortByName(items)
	return items, nil
}

func (r *catalogRepo) List(ctx context.Context, filter catalog.Filter) ([]catalog.AddOn, int, error) {
	var items []catalog.AddOn
	r.s.read(func() {
		for _, a := range r.s.data.services {
			if filter.ActiveOnly && !a.Active {
				continue
			}
			if filter.Keyword != "" && !contains(a.Name, filter.Keyword) {
				continue
			}
			items = append(items, a)
		}
	})
	sortByName(items)
	return page(items, filter.Page, filter.PageSize), len(items), nil
}

func (r *catalogRepo) Update(ctx context.Context, a *catalog.AddOn) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.data.services[a.ID]; !ok {
			return catalog.ErrNotFound
		}
		r.s.data.services[a.ID] = *a
		return nil
	})
}

func (r *catalogRepo) Delete(ctx context.Context, id string) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.data.services[id]; !ok {
			return catalog.ErrNotFound
		}
		for _, ids := range r.s.data.links {
			if slices.Contains(ids, id) {
				return catalog.ErrInUse
			}
		}
		delete(r.s.data.services, id)
		return nil
	})
}

// linked returns the services of a reservation. The caller holds the read lock.
func (s *Store) linked(reservationID string) []catalog.AddOn {
	var items []catalog.AddOn
	for _, id := range s.data.links[reservationID] {
		if a, ok := s.data.services[id]; ok {
			items = append(items, a)
		}
	}
	sortByName(items)
	return items
}

func sortByName(items []catalog.AddOn) {
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
}
