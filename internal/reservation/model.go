// Package reservation handles client booking requests from submission to staff decision.
package reservation

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/studio-booking-backend/internal/catalog"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/interval"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/timeutil"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, apperror.KindNotFound, "reservation not found")
	ErrTokenNotFound     = apperror.New(http.StatusNotFound, apperror.KindNotFound, "verification link is invalid")
	ErrInvalidTransition = apperror.New(http.StatusConflict, apperror.KindStateTransition, "action not allowed for current status")
	ErrInvalidAction     = apperror.New(http.StatusBadRequest, apperror.KindInputFormat, "unknown action")
	ErrCodeExhausted     = apperror.New(http.StatusServiceUnavailable, apperror.KindUniquenessExhausted, "could not allocate a reservation code, try again")
	ErrClientRequired    = apperror.New(http.StatusBadRequest, apperror.KindInputFormat, "client name and email are required")
	ErrDateInPast        = apperror.New(http.StatusBadRequest, apperror.KindInputFormat, "cannot request a reservation in the past")
	ErrInvalidTimeRange  = apperror.New(http.StatusBadRequest, apperror.KindInputFormat, "start time must be before end time")

	// ErrCodeTaken reports a lost race on the unique code index; creation retries with a fresh code.
	ErrCodeTaken = apperror.New(http.StatusConflict, apperror.KindConflict, "reservation code already in use")
)

type Status string

const (
	StatusPendingVerification Status = "pending_verification"
	StatusPending             Status = "pending"
	StatusConfirmed           Status = "confirmed"
	StatusRejected            Status = "rejected"
	StatusCancelled           Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPendingVerification, StatusPending, StatusConfirmed, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

type Action string

const (
	ActionVerify     Action = "verify"
	ActionConfirm    Action = "confirm"
	ActionReject     Action = "reject"
	ActionUndo       Action = "undo"
	ActionCancel     Action = "cancel"
	ActionReactivate Action = "reactivate"
)

// Reservation is a client request for one resource on one day.
// It blocks time only once confirmed, through the booking it spawns.
type Reservation struct {
	ID           string
	Code         string
	ResourceID   string
	ResourceName string
	// Date is the calendar day; its location is not meaningful, see Day.
	Date  time.Time
	Start timeutil.Clock
	End   timeutil.Clock

	Status         Status
	ClientName     string
	ClientEmail    string
	ClientPhone    string
	ClientDocument string
	ClientTaxID    string
	Notes          string
	InternalNotes  string

	VerificationToken string
	EmailVerifiedAt   *time.Time
	ConfirmedAt       *time.Time

	Services  []catalog.AddOn
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Day returns the reservation date as midnight in loc.
func (r *Reservation) Day(loc *time.Location) time.Time {
	return timeutil.InLocation(r.Date, loc)
}

// Interval returns the requested range as instants in loc.
func (r *Reservation) Interval(loc *time.Location) interval.Interval {
	day := r.Day(loc)
	return interval.New(r.Start.On(day), r.End.On(day))
}

// Total is the price of the linked add-on services.
func (r *Reservation) Total() decimal.Decimal {
	return catalog.Total(r.Services)
}

// Contact picks the best handle to reach the client.
func (r *Reservation) Contact() string {
	if r.ClientPhone != "" {
		return r.ClientName + " " + r.ClientPhone
	}
	return r.ClientName + " " + r.ClientEmail
}

type Filter struct {
	ResourceID string
	Status     string
	DateFrom   *time.Time
	DateTo     *time.Time
	// Keyword matches code, client name, e-mail or document.
	Keyword   string
	Page      int
	PageSize  int
	SortOrder string
}
