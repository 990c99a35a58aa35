// Package memstore keeps every repository in memory behind one lock. Transactions are
// serial and roll back by restoring a snapshot, which stands in for the row locks and
// constraints of the Postgres schema in tests.
package memstore

import (
	"context"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nekogravitycat/studio-booking-backend/internal/booking"
	"github.com/nekogravitycat/studio-booking-backend/internal/catalog"
	"github.com/nekogravitycat/studio-booking-backend/internal/gallery"
	"github.com/nekogravitycat/studio-booking-backend/internal/reservation"
	"github.com/nekogravitycat/studio-booking-backend/internal/resource"
	"github.com/nekogravitycat/studio-booking-backend/internal/schedule"
	"github.com/nekogravitycat/studio-booking-backend/internal/staff"
)

type txKey struct{}

type tables struct {
	resources    map[string]resource.Resource
	windows      map[string]schedule.Window
	bookings     map[string]booking.Booking
	services     map[string]catalog.AddOn
	reservations map[string]reservation.Reservation
	photos       map[string]gallery.Photo
	staff        map[string]staff.Member
	// links maps a reservation ID to its add-on service IDs.
	links map[string][]string
}

func (t tables) clone() tables {
	return tables{
		resources:    maps.Clone(t.resources),
		windows:      maps.Clone(t.windows),
		bookings:     maps.Clone(t.bookings),
		services:     maps.Clone(t.services),
		reservations: maps.Clone(t.reservations),
		photos:       maps.Clone(t.photos),
		staff:        maps.Clone(t.staff),
		links:        maps.Clone(t.links),
	}
}

type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data tables
	// Now stamps created_at and updated_at.
	Now func() time.Time
}

func New() *Store {
	return &Store{
		data: tables{
			resources:    map[string]resource.Resource{},
			windows:      map[string]schedule.Window{},
			bookings:     map[string]booking.Booking{},
			services:     map[string]catalog.AddOn{},
			reservations: map[string]reservation.Reservation{},
			photos:       map[string]gallery.Photo{},
			staff:        map[string]staff.Member{},
			links:        map[string][]string{},
		},
		Now: time.Now,
	}
}

// InTx runs fn with every other transaction excluded. Nested calls join the outer one.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// write runs a single mutation atomically with respect to open transactions.
func (s *Store) write(ctx context.Context, fn func() error) error {
	return s.InTx(ctx, func(ctx context.Context) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		return fn()
	})
}

func (s *Store) read(fn func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

func newID() string {
	return uuid.NewString()
}

func contains(s, keyword string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(keyword))
}

// page applies 1-based pagination with the repository defaults.
func page[T any](items []T, pageNum, pageSize int) []T {
	if pageNum < 1 {
		pageNum = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	start := (pageNum - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := min(start+pageSize, len(items))
	return items[start:end]
}
