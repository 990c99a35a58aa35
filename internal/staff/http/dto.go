package http

import (
	"time"

	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/studio-booking-backend/internal/staff"
)

// ListStaffRequest defines query parameters for listing staff.
type ListStaffRequest struct {
	request.ListParams
	Email    string `form:"email"`
	IsActive *bool  `form:"is_active"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=email created_at last_login_at"`
}

// StaffResponse is the shape of staff data returned in API responses.
type StaffResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	DisplayName *string    `json:"display_name"`
	IsAdmin     bool       `json:"is_admin"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

func NewStaffResponse(m *staff.Member) StaffResponse {
	return StaffResponse{
		ID:          m.ID,
		Email:       m.Email,
		DisplayName: m.DisplayName,
		IsAdmin:     m.IsAdmin,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		LastLoginAt: m.LastLoginAt,
	}
}

// LoginRequest defines the payload for staff login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the token and staff info.
type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	Staff       StaffResponse `json:"staff"`
}

type CreateStaffRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name"`
	IsAdmin     bool   `json:"is_admin"`
}

// UpdateStaffRequest defines fields allowed to be updated via PATCH /staff/:id.
type UpdateStaffRequest struct {
	DisplayName *string `json:"display_name"`
	IsAdmin     *bool   `json:"is_admin"`
	IsActive    *bool   `json:"is_active"`
	Password    *string `json:"password" binding:"omitempty,min=8"`
}
