package staff

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nekogravitycat/studio-booking-backend/internal/auth"
)

type CreateRequest struct {
	Email       string
	Password    string
	DisplayName string
	IsAdmin     bool
}

// UpdateRequest uses pointers to distinguish "not sent" from zero values.
type UpdateRequest struct {
	DisplayName *string
	IsAdmin     *bool
	IsActive    *bool
	Password    *string
}

// Service defines business logic related to staff accounts.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Member, error)
	Login(ctx context.Context, email, password string) (*Member, error)
	GetByID(ctx context.Context, id string) (*Member, error)
	List(ctx context.Context, filter Filter) ([]*Member, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Member, error)
	// EnsureAdmin creates the bootstrap admin account unless the email is already registered.
	EnsureAdmin(ctx context.Context, email, password string) error
}

type service struct {
	repo   Repository
	hasher auth.PasswordHasher

	minPasswordLength int
}

// NewService creates a new staff Service.
func NewService(repo Repository, hasher auth.PasswordHasher) Service {
	return &service{
		repo:              repo,
		hasher:            hasher,
		minPasswordLength: 8,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Member, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(req.Password) < s.minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailAlreadyUsed
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	m := &Member{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  optional(req.DisplayName),
		IsAdmin:      req.IsAdmin,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*Member, error) {
	clean := normalizeEmail(email)
	if clean == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}

	m, err := s.repo.GetByEmail(ctx, clean)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch staff by email: %w", err)
	}

	// Inactive accounts get the same answer as a wrong password.
	if !m.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(m.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, m.ID, now); err != nil {
		log.Printf("failed to update last login for %s: %v", m.ID, err)
	} else {
		m.LastLoginAt = &now
	}
	return m, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Member, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Member, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Member, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		m.DisplayName = optional(*req.DisplayName)
	}
	if req.IsAdmin != nil {
		m.IsAdmin = *req.IsAdmin
	}
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}
	if req.Password != nil {
		if len(*req.Password) < s.minPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		m.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) EnsureAdmin(ctx context.Context, email, password string) error {
	_, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	if _, err := s.Create(ctx, CreateRequest{Email: email, Password: password, IsAdmin: true}); err != nil {
		return err
	}
	log.Printf("created bootstrap admin %s", normalizeEmail(email))
	return nil
}

// normalizeEmail trims spaces and lowercases the email.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
