package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/studio-booking-backend/internal/reservation"
)

type Handler struct {
	service reservation.Service
	machine *reservation.Machine
	loc     *time.Location
}

func NewHandler(service reservation.Service, machine *reservation.Machine, loc *time.Location) *Handler {
	return &Handler{
		service: service,
		machine: machine,
		loc:     loc,
	}
}

// Create accepts a reservation request from a client.
func (h *Handler) Create(c *gin.Context) {
	var body CreateReservationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	date, err := request.ParseDate(body.Date, h.loc)
	if err != nil {
		response.Error(c, err)
		return
	}
	start, err := request.ParseClock(body.StartTime)
	if err != nil {
		response.Error(c, err)
		return
	}
	end, err := request.ParseClock(body.EndTime)
	if err != nil {
		response.Error(c, err)
		return
	}

	req := reservation.CreateRequest{
		ResourceID:     body.ResourceID,
		Date:           date,
		Start:          start,
		End:            end,
		ClientName:     body.ClientName,
		ClientEmail:    body.ClientEmail,
		ClientPhone:    body.ClientPhone,
		ClientDocument: body.ClientDocument,
		ClientTaxID:    body.ClientTaxID,
		Notes:          body.Notes,
		ServiceIDs:     body.ServiceIDs,
	}

	r, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewPublicResponse(r))
}

func (h *Handler) Verify(c *gin.Context) {
	var uri TokenURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid verification link", err)
		return
	}

	r, result, err := h.service.Verify(c.Request.Context(), uri.Token)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, VerifyResponse{Result: string(result), Reservation: NewPublicResponse(r)})
}

// Lookup lets a client check their reservation by code.
func (h *Handler) Lookup(c *gin.Context) {
	var uri CodeURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	r, err := h.service.GetByCode(c.Request.Context(), uri.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPublicResponse(r))
}

func (h *Handler) Get(c *gin.Context) {
	var uri CodeURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	r, err := h.service.GetByCode(c.Request.Context(), uri.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(r, h.machine.Actions(r.Status)))
}

func (h *Handler) List(c *gin.Context) {
	var req ListReservationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	if req.Status != "" && !reservation.Status(req.Status).Valid() {
		response.BadRequest(c, "invalid query parameters", nil)
		return
	}

	filter := reservation.Filter{
		ResourceID: req.ResourceID,
		Status:     req.Status,
		Keyword:    req.Q,
		Page:       req.Page,
		PageSize:   req.PageSize,
		SortOrder:  strings.ToUpper(req.SortOrder),
	}
	if req.DateFrom != "" {
		from, err := request.ParseDate(req.DateFrom, h.loc)
		if err != nil {
			response.Error(c, err)
			return
		}
		filter.DateFrom = &from
	}
	if req.DateTo != "" {
		to, err := request.ParseDate(req.DateTo, h.loc)
		if err != nil {
			response.Error(c, err)
			return
		}
		filter.DateTo = &to
	}

	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]ReservationResponse, len(items))
	for i, r := range items {
		out[i] = NewResponse(r, h.machine.Actions(r.Status))
	}

	c.JSON(http.StatusOK, response.NewPageResponse(out, req.Page, req.PageSize, total))
}

// Statuses lists the statuses reachable under the current configuration.
func (h *Handler) Statuses(c *gin.Context) {
	statuses := h.service.AllowedStatuses()
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	c.JSON(http.StatusOK, gin.H{"statuses": out})
}

// Act applies a single staff action such as confirm or undo.
func (h *Handler) Act(c *gin.Context) {
	var uri CodeURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	action, err := reservation.ParseAction(c.Param("action"))
	if err != nil || action == reservation.ActionVerify {
		response.Error(c, reservation.ErrInvalidAction)
		return
	}

	ctx := c.Request.Context()
	var r *reservation.Reservation
	switch action {
	case reservation.ActionConfirm:
		r, err = h.service.Confirm(ctx, uri.Code)
	case reservation.ActionReject:
		r, err = h.service.Reject(ctx, uri.Code)
	case reservation.ActionUndo:
		r, err = h.service.Undo(ctx, uri.Code)
	case reservation.ActionCancel:
		r, err = h.service.Cancel(ctx, uri.Code)
	case reservation.ActionReactivate:
		r, err = h.service.Reactivate(ctx, uri.Code)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(r, h.machine.Actions(r.Status)))
}

func (h *Handler) Bulk(c *gin.Context) {
	var body BulkActionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}
	action, err := reservation.ParseAction(body.Action)
	if err != nil || action == reservation.ActionVerify {
		response.Error(c, reservation.ErrInvalidAction)
		return
	}

	result := h.service.Apply(c.Request.Context(), action, body.Codes)
	errs := result.Errors
	if errs == nil {
		errs = []string{}
	}

	c.JSON(http.StatusOK, BulkResponse{Succeeded: result.Succeeded, Failed: result.Failed, Errors: errs})
}

func (h *Handler) UpdateNotes(c *gin.Context) {
	var uri CodeURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var body UpdateNotesRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	r, err := h.service.UpdateInternalNotes(c.Request.Context(), uri.Code, body.InternalNotes)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(r, h.machine.Actions(r.Status)))
}
