package booking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, apperror.KindNotFound, "booking not found")
	ErrTimeConflict     = apperror.New(http.StatusConflict, apperror.KindScheduleConflict, "time slot already booked")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, apperror.KindInputFormat, "start time must be before end time")
	ErrInvalidStatus    = apperror.New(http.StatusBadRequest, apperror.KindInputFormat, "invalid booking status")
	ErrNoSchedule       = apperror.New(http.StatusUnprocessableEntity, apperror.KindNoSchedule, "no schedule published for this day")
	ErrOutsideSchedule  = apperror.New(http.StatusUnprocessableEntity, apperror.KindSlotMismatch, "requested time is outside the published schedule")
	ErrSlotMismatch     = apperror.New(http.StatusUnprocessableEntity, apperror.KindSlotMismatch, "requested time does not match a published slot")
	ErrMultiDay         = apperror.New(http.StatusUnprocessableEntity, apperror.KindSlotMismatch, "bookings must start and end on the same day")
	ErrReservationOwned = apperror.New(http.StatusConflict, apperror.KindStateTransition, "booking belongs to a reservation, use the reservation actions instead")
	ErrAlreadyExists    = apperror.New(http.StatusConflict, apperror.KindConflict, "reservation already has a booking")
	ErrResourceNotFound = apperror.New(http.StatusNotFound, apperror.KindNotFound, "resource not found")
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	return s == StatusConfirmed || s == StatusCancelled
}

// Booking is a materialized claim on a resource. Only confirmed bookings block time.
type Booking struct {
	ID           string
	ResourceID   string
	ResourceName string
	// ReservationID links bookings spawned by confirming a reservation; nil for staff bookings.
	ReservationID *string
	StartTime     time.Time
	EndTime       time.Time
	Status        Status
	Notes         string
	ClientContact string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Filter struct {
	ResourceID string
	Status     string
	StartTime  *time.Time // Bookings ending after this time
	EndTime    *time.Time // Bookings starting before this time
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
