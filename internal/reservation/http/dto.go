package http

import (
	"time"

	catalogHttp "github.com/nekogravitycat/studio-booking-backend/internal/catalog/http"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/timeutil"
	"github.com/nekogravitycat/studio-booking-backend/internal/reservation"
	resHttp "github.com/nekogravitycat/studio-booking-backend/internal/resource/http"
)

type CodeURI struct {
	Code string `uri:"code" binding:"required,alphanum"`
}

type TokenURI struct {
	Token string `uri:"token" binding:"required,uuid"`
}

type CreateReservationRequest struct {
	ResourceID     string   `json:"resource_id" binding:"required,uuid"`
	Date           string   `json:"date" binding:"required"`
	StartTime      string   `json:"start_time" binding:"required"`
	EndTime        string   `json:"end_time" binding:"required"`
	ClientName     string   `json:"client_name" binding:"required"`
	ClientEmail    string   `json:"client_email" binding:"required,email"`
	ClientPhone    string   `json:"client_phone"`
	ClientDocument string   `json:"client_document"`
	ClientTaxID    string   `json:"client_tax_id"`
	Notes          string   `json:"notes"`
	ServiceIDs     []string `json:"service_ids" binding:"omitempty,dive,uuid"`
}

type ListReservationsRequest struct {
	request.ListParams
	ResourceID string `form:"resource_id" binding:"omitempty,uuid"`
	Status     string `form:"status"`
	DateFrom   string `form:"date_from"`
	DateTo     string `form:"date_to"`
	Q          string `form:"q"`
}

type BulkActionRequest struct {
	Action string   `json:"action" binding:"required"`
	Codes  []string `json:"codes" binding:"required,min=1,max=100,dive,required"`
}

type UpdateNotesRequest struct {
	InternalNotes string `json:"internal_notes"`
}

// PublicReservationResponse is what the client sees when looking up their code.
type PublicReservationResponse struct {
	Code      string                        `json:"code"`
	Resource  resHttp.ResourceTag           `json:"resource"`
	Date      string                        `json:"date"`
	StartTime string                        `json:"start_time"`
	EndTime   string                        `json:"end_time"`
	Status    string                        `json:"status"`
	Services  []catalogHttp.ServiceResponse `json:"services"`
	Total     string                        `json:"total"`
	CreatedAt time.Time                     `json:"created_at"`
}

type ReservationResponse struct {
	PublicReservationResponse
	ID              string     `json:"id"`
	ClientName      string     `json:"client_name"`
	ClientEmail     string     `json:"client_email"`
	ClientPhone     string     `json:"client_phone"`
	ClientDocument  string     `json:"client_document"`
	ClientTaxID     string     `json:"client_tax_id"`
	Notes           string     `json:"notes"`
	InternalNotes   string     `json:"internal_notes"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	ConfirmedAt     *time.Time `json:"confirmed_at"`
	Actions         []string   `json:"actions"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func NewPublicResponse(r *reservation.Reservation) PublicReservationResponse {
	services := make([]catalogHttp.ServiceResponse, len(r.Services))
	for i := range r.Services {
		services[i] = catalogHttp.NewServiceResponse(&r.Services[i])
	}
	return PublicReservationResponse{
		Code:      r.Code,
		Resource:  resHttp.ResourceTag{ID: r.ResourceID, Name: r.ResourceName},
		Date:      timeutil.FormatDate(r.Date),
		StartTime: r.Start.String(),
		EndTime:   r.End.String(),
		Status:    string(r.Status),
		Services:  services,
		Total:     r.Total().StringFixed(2),
		CreatedAt: r.CreatedAt,
	}
}

func NewResponse(r *reservation.Reservation, actions []reservation.Action) ReservationResponse {
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	return ReservationResponse{
		PublicReservationResponse: NewPublicResponse(r),
		ID:                        r.ID,
		ClientName:                r.ClientName,
		ClientEmail:               r.ClientEmail,
		ClientPhone:               r.ClientPhone,
		ClientDocument:            r.ClientDocument,
		ClientTaxID:               r.ClientTaxID,
		Notes:                     r.Notes,
		InternalNotes:             r.InternalNotes,
		EmailVerifiedAt:           r.EmailVerifiedAt,
		ConfirmedAt:               r.ConfirmedAt,
		Actions:                   names,
		UpdatedAt:                 r.UpdatedAt,
	}
}

type VerifyResponse struct {
	Result      string                    `json:"result"`
	Reservation PublicReservationResponse `json:"reservation"`
}

type BulkResponse struct {
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors"`
}
