package catalog

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

type CreateRequest struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Active      bool
}

type UpdateRequest struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Active      *bool
}

type Service interface {
	// Search matches active services by name, case-insensitively, ordered by name.
	Search(ctx context.Context, q string) ([]AddOn, error)
	// Resolve loads the given services, failing if any is unknown or inactive.
	Resolve(ctx context.Context, ids []string) ([]AddOn, error)
	Create(ctx context.Context, req CreateRequest) (*AddOn, error)
	GetByID(ctx context.Context, id string) (*AddOn, error)
	List(ctx context.Context, filter Filter) ([]AddOn, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*AddOn, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Search(ctx context.Context, q string) ([]AddOn, error) {
	services, _, err := s.repo.List(ctx, Filter{
		Keyword:    strings.TrimSpace(q),
		ActiveOnly: true,
		PageSize:   SearchLimit,
	})
	return services, err
}

func (s *service) Resolve(ctx context.Context, ids []string) ([]AddOn, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return nil, nil
	}

	services, err := s.repo.GetByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(services) != len(unique) {
		return nil, ErrUnknownService
	}
	for _, svc := range services {
		if !svc.Active {
			return nil, ErrUnknownService
		}
	}
	return services, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*AddOn, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if req.Price.IsNegative() {
		return nil, ErrNegativePrice
	}

	svc := &AddOn{
		Name:        name,
		Description: req.Description,
		Price:       req.Price,
		Active:      req.Active,
	}
	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*AddOn, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]AddOn, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*AddOn, error) {
	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		svc.Name = name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, ErrNegativePrice
		}
		svc.Price = *req.Price
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
