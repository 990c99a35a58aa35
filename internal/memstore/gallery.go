package memstore

import (
	"context"
	"sort"

	"github.com/nekogravitycat/studio-booking-backend/internal/gallery"
	"github.com/nekogravitycat/studio-booking-backend/internal/resource"
)

type photoRepo struct {
	s *Store
}

func (s *Store) Photos() gallery.Repository {
	return &photoRepo{s: s}
}

func (r *photoRepo) Create(ctx context.Context, p *gallery.Photo) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.data.resources[p.ResourceID]; !ok {
			return resource.ErrNotFound
		}
		p.CreatedAt = r.s.Now()
		r.s.data.photos[p.ID] = *p
		return nil
	})
}

func (r *photoRepo) GetByID(ctx context.Context, id string) (*gallery.Photo, error) {
	var (
		p  gallery.Photo
		ok bool
	)
	r.s.read(func() { p, ok = r.s.data.photos[id] })
	if !ok {
		return nil, gallery.ErrNotFound
	}
	return &p, nil
}

func (r *photoRepo) ListByResource(ctx context.Context, resourceID string) ([]*gallery.Photo, error) {
	items := []*gallery.Photo{}
	r.s.read(func() {
		for _, p := range r.s.data.photos {
			if p.ResourceID == resourceID {
				items = append(items, &p)
			}
		}
	})
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (r *photoRepo) Delete(ctx context.Context, id string) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.data.photos[id]; !ok {
			return gallery.ErrNotFound
		}
		delete(r.s.data.photos, id)
		return nil
	})
}
