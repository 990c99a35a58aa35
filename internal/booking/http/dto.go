package http

import (
	"time"

	"github.com/nekogravitycat/studio-booking-backend/internal/booking"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/request"
	resHttp "github.com/nekogravitycat/studio-booking-backend/internal/resource/http"
)

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	ResourceID    string     `form:"resource_id" binding:"omitempty,uuid"`
	Status        string     `form:"status" binding:"omitempty,oneof=confirmed cancelled"`
	StartTimeFrom *time.Time `form:"start_time_from" time_format:"2006-01-02T15:04:05Z07:00"`
	StartTimeTo   *time.Time `form:"start_time_to" time_format:"2006-01-02T15:04:05Z07:00"`
	SortBy        string     `form:"sort_by" binding:"omitempty,oneof=start_time end_time created_at status"`
}

// Validate performs custom validation for ListBookingsRequest.
func (r *ListBookingsRequest) Validate() error {
	if r.StartTimeFrom != nil && r.StartTimeTo != nil && r.StartTimeFrom.After(*r.StartTimeTo) {
		return booking.ErrInvalidTimeRange
	}
	return nil
}

type BookingResponse struct {
	ID            string              `json:"id"`
	Resource      resHttp.ResourceTag `json:"resource"`
	ReservationID *string             `json:"reservation_id"`
	StartTime     time.Time           `json:"start_time"`
	EndTime       time.Time           `json:"end_time"`
	Status        string              `json:"status"`
	Notes         string              `json:"notes"`
	ClientContact string              `json:"client_contact"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		Resource:      resHttp.ResourceTag{ID: b.ResourceID, Name: b.ResourceName},
		ReservationID: b.ReservationID,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		Status:        string(b.Status),
		Notes:         b.Notes,
		ClientContact: b.ClientContact,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

type CreateBookingRequest struct {
	ResourceID    string    `json:"resource_id" binding:"required,uuid"`
	StartTime     time.Time `json:"start_time" binding:"required"`
	EndTime       time.Time `json:"end_time" binding:"required"`
	Notes         string    `json:"notes"`
	ClientContact string    `json:"client_contact"`
}

type UpdateBookingRequest struct {
	StartTime     *time.Time `json:"start_time"`
	EndTime       *time.Time `json:"end_time"`
	Status        *string    `json:"status" binding:"omitempty,oneof=confirmed cancelled"`
	Notes         *string    `json:"notes"`
	ClientContact *string    `json:"client_contact"`
}
