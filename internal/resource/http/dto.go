package http

import (
	"time"

	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/studio-booking-backend/internal/resource"
)

// ResourceTag is the compact form embedded in other responses.
type ResourceTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ResourceResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Active        bool      `json:"active"`
	ContactHandle string    `json:"contact_handle,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewResponse(r *resource.Resource) ResourceResponse {
	return ResourceResponse{
		ID:            r.ID,
		Name:          r.Name,
		Active:        r.Active,
		ContactHandle: r.ContactHandle,
		CreatedAt:     r.CreatedAt,
	}
}

// NewPublicResponse hides staff-only fields.
func NewPublicResponse(r *resource.Resource) ResourceResponse {
	resp := NewResponse(r)
	resp.ContactHandle = ""
	return resp
}

type ListResourcesRequest struct {
	request.ListParams
	Q      string `form:"q"`
	SortBy string `form:"sort_by" binding:"omitempty,oneof=name created_at"`
}

type CreateRequest struct {
	Name          string `json:"name" binding:"required"`
	Active        *bool  `json:"active"`
	ContactHandle string `json:"contact_handle"`
}

type UpdateRequest struct {
	Name          *string `json:"name" binding:"omitempty"`
	Active        *bool   `json:"active"`
	ContactHandle *string `json:"contact_handle"`
}
