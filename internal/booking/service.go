package booking

import (
	"context"
	"time"

	"github.com/nekogravitycat/studio-booking-backend/internal/db"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/timeutil"
	"github.com/nekogravitycat/studio-booking-backend/internal/resource"
	"github.com/nekogravitycat/studio-booking-backend/internal/schedule"
)

type CreateRequest struct {
	ResourceID    string
	StartTime     time.Time
	EndTime       time.Time
	Notes         string
	ClientContact string
}

type UpdateRequest struct {
	StartTime     *time.Time
	EndTime       *time.Time
	Status        *Status
	Notes         *string
	ClientContact *string
}

// Service manages bookings entered directly by staff.
// Bookings spawned by reservations are changed through the reservation actions.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Booking, error)
	Cancel(ctx context.Context, id string) (*Booking, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo         Repository
	tx           db.TxRunner
	resService   resource.Service
	schedService schedule.Service
	loc          *time.Location
}

func NewService(
	repo Repository,
	tx db.TxRunner,
	resService resource.Service,
	schedService schedule.Service,
	loc *time.Location,
) Service {
	return &service{
		repo:         repo,
		tx:           tx,
		resService:   resService,
		schedService: schedService,
		loc:          loc,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidTimeRange
	}
	if _, err := s.resService.GetByID(ctx, req.ResourceID); err != nil {
		return nil, err
	}

	b := &Booking{
		ResourceID:    req.ResourceID,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Status:        StatusConfirmed,
		Notes:         req.Notes,
		ClientContact: req.ClientContact,
	}

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.repo.LockResource(ctx, b.ResourceID); err != nil {
			return err
		}

		weekday := timeutil.Weekday(b.StartTime.In(s.loc))
		windows, err := s.schedService.ListForWeekday(ctx, b.ResourceID, weekday)
		if err != nil {
			return err
		}
		existing, err := s.repo.ListConfirmed(ctx, b.ResourceID, b.StartTime, b.EndTime)
		if err != nil {
			return err
		}

		cand := Candidate{ResourceID: b.ResourceID, StartTime: b.StartTime, EndTime: b.EndTime, Status: b.Status}
		if err := Validate(cand, existing, ValidateOptions{CheckSchedule: true, Windows: windows, Location: s.loc}); err != nil {
			return err
		}
		return s.repo.Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return s.repo.List(ctx, filter)
}

// Update edits a persisted booking. Overlap is re-checked against live confirmed bookings,
// the published schedule is not: existing bookings stay valid when the schedule changes later.
func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Booking, error) {
	if req.Status != nil && !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	var b *Booking
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		// Concurrent edits of the same booking queue here and each applies to the latest row.
		current, err := s.repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current.ReservationID != nil && (req.StartTime != nil || req.EndTime != nil || req.Status != nil) {
			return ErrReservationOwned
		}
		if err := s.repo.LockResource(ctx, current.ResourceID); err != nil {
			return err
		}

		if req.StartTime != nil {
			current.StartTime = *req.StartTime
		}
		if req.EndTime != nil {
			current.EndTime = *req.EndTime
		}
		if req.Status != nil {
			current.Status = *req.Status
		}
		if req.Notes != nil {
			current.Notes = *req.Notes
		}
		if req.ClientContact != nil {
			current.ClientContact = *req.ClientContact
		}

		if !current.EndTime.After(current.StartTime) {
			return ErrInvalidTimeRange
		}
		existing, err := s.repo.ListConfirmed(ctx, current.ResourceID, current.StartTime, current.EndTime)
		if err != nil {
			return err
		}
		cand := Candidate{
			ID:         current.ID,
			ResourceID: current.ResourceID,
			StartTime:  current.StartTime,
			EndTime:    current.EndTime,
			Status:     current.Status,
		}
		if err := Validate(cand, existing, ValidateOptions{CheckSchedule: false}); err != nil {
			return err
		}

		if err := s.repo.Update(ctx, current); err != nil {
			return err
		}
		b = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Cancel(ctx context.Context, id string) (*Booking, error) {
	status := StatusCancelled
	return s.Update(ctx, id, UpdateRequest{Status: &status})
}

func (s *service) Delete(ctx context.Context, id string) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b.ReservationID != nil {
		return ErrReservationOwned
	}
	return s.repo.Delete(ctx, id)
}
