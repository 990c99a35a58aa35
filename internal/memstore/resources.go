package memstore

import (
	"context"
	"sort"

	"github.com/nekogravitycat/studio-booking-backend/internal/resource"
)

type resourceRepo struct {
	s *Store
}

func (s *Store) Resources() resource.Repository {
	return &resourceRepo{s: s}
}

func (r *resourceRepo) Create(ctx context.Context, res *resource.Resource) error {
	return r.s.write(ctx, func() error {
		res.ID = newID()
		res.CreatedAt = r.s.Now()
		r.s.data.resources[res.ID] = *res
		return nil
	})
}

func (r *resourceRepo) GetByID(ctx context.Context, id string) (*resource.Resource, error) {
	var (
		res resource.Resource
		ok  bool
	)
	r.s.read(func() { res, ok = r.s.data.resources[id] })
	if !ok {
		return nil, resource.ErrNotFound
	}
	return &res, nil
}

// List orders by name; SortBy is ignored.
func (r *resourceRepo) List(ctx context.Context, filter resource.Filter) ([]*resource.Resource, int, error) {
	var items []*resource.Resource
	r.s.read(func() {
		for _, res := range r.s.data.resources {
			if filter.Active != nil && res.Active != *filter.Active {
				continue
			}
			if filter.Keyword != "" && !contains(res.Name, filter.Keyword) {
				continue
			}
			items = append(items, &res)
		}
	})
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return page(items, filter.Page, filter.PageSize), len(items), nil
}

func (r *resourceRepo) Update(ctx context.Context, res *resource.Resource) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.data.resources[res.ID]; !ok {
			return resource.ErrNotFound
		}
		r.s.data.resources[res.ID] = *res
		return nil
	})
}

func (r *resourceRepo) Delete(ctx context.Context, id string) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.data.resources[id]; !ok {
			return resource.ErrNotFound
		}
		delete(r.s.data.resources, id)
		for wid, w := range r.s.data.windows {
			if w.ResourceID == id {
				delete(r.s.data.windows, wid)
			}
		}
		for bid, b := range r.s.data.bookings {
			if b.ResourceID == id {
				delete(r.s.data.bookings, bid)
			}
		}
		for vid, v := range r.s.data.reservations {
			if v.ResourceID == id {
				delete(r.s.data.reservations, vid)
				delete(r.s.data.links, vid)
			}
		}
		for pid, p := range r.s.data.photos {
			if p.ResourceID == id {
				delete(r.s.data.photos, pid)
			}
		}
		return nil
	})
}
