package schedule

import (
	"context"

	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/timeutil"
	"github.com/nekogravitycat/studio-booking-backend/internal/resource"
)

type CreateRequest struct {
	ResourceID         string
	Weekday            int
	Kind               Kind
	Start              timeutil.Clock
	End                timeutil.Clock
	MinDurationMinutes *int
	SlotMinutes        int
	Active             bool
}

type UpdateRequest struct {
	Weekday            *int
	Kind               *Kind
	Start              *timeutil.Clock
	End                *timeutil.Clock
	MinDurationMinutes *int
	SlotMinutes        *int
	Active             *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Window, error)
	GetByID(ctx context.Context, id string) (*Window, error)
	// ListByResource returns every window of the resource, active or not.
	ListByResource(ctx context.Context, resourceID string) ([]Window, error)
	// ListForWeekday returns the active windows of the resource on weekday, ordered by start.
	ListForWeekday(ctx context.Context, resourceID string, weekday int) ([]Window, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Window, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo       Repository
	resService resource.Service
}

func NewService(repo Repository, resService resource.Service) Service {
	return &service{
		repo:       repo,
		resService: resService,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Window, error) {
	if _, err := s.resService.GetByID(ctx, req.ResourceID); err != nil {
		return nil, err
	}

	w := &Window{
		ResourceID:         req.ResourceID,
		Weekday:            req.Weekday,
		Kind:               req.Kind,
		Start:              req.Start,
		End:                req.End,
		MinDurationMinutes: DefaultMinDurationMinutes,
		SlotMinutes:        req.SlotMinutes,
		Active:             req.Active,
	}
	if req.MinDurationMinutes != nil {
		w.MinDurationMinutes = *req.MinDurationMinutes
	}

	if err := s.check(ctx, w); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Window, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByResource(ctx context.Context, resourceID string) ([]Window, error) {
	return s.repo.List(ctx, Filter{ResourceID: resourceID})
}

func (s *service) ListForWeekday(ctx context.Context, resourceID string, weekday int) ([]Window, error) {
	if weekday < 0 || weekday > 6 {
		return nil, ErrInvalidWeekday
	}
	return s.repo.List(ctx, Filter{ResourceID: resourceID, Weekday: &weekday, ActiveOnly: true})
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Window, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Weekday != nil {
		w.Weekday = *req.Weekday
	}
	if req.Kind != nil {
		w.Kind = *req.Kind
	}
	if req.Start != nil {
		w.Start = *req.Start
	}
	if req.End != nil {
		w.End = *req.End
	}
	if req.MinDurationMinutes != nil {
		w.MinDurationMinutes = *req.MinDurationMinutes
	}
	if req.SlotMinutes != nil {
		w.SlotMinutes = *req.SlotMinutes
	}
	if req.Active != nil {
		w.Active = *req.Active
	}

	if err := s.check(ctx, w); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// check validates w on its own and against the other active windows of its weekday.
func (s *service) check(ctx context.Context, w *Window) error {
	if err := Check(*w); err != nil {
		return err
	}
	if !w.Active {
		return nil
	}

	siblings, err := s.repo.List(ctx, Filter{ResourceID: w.ResourceID, Weekday: &w.Weekday, ActiveOnly: true})
	if err != nil {
		return err
	}
	for _, o := range siblings {
		if o.ID == w.ID {
			continue
		}
		if w.Start < o.End && w.End > o.Start {
			return ErrWindowOverlap
		}
	}
	return nil
}

// Check validates the fields of a single window.
func Check(w Window) error {
	if w.Weekday < 0 || w.Weekday > 6 {
		return ErrInvalidWeekday
	}
	if !w.Kind.Valid() {
		return ErrInvalidKind
	}
	if !w.Start.Valid() || !w.End.Valid() || w.Start >= w.End {
		return ErrInvalidRange
	}
	switch w.Kind {
	case KindContinuous:
		if w.MinDurationMinutes <= 0 || w.SlotMinutes != 0 {
			return ErrInvalidDuration
		}
	case KindDiscrete:
		if w.SlotMinutes < 0 || w.MinDurationMinutes < 0 {
			return ErrInvalidDuration
		}
	}
	return nil
}
