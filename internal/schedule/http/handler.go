package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/studio-booking-backend/internal/schedule"
)

type Handler struct {
	service schedule.Service
}

func NewHandler(service schedule.Service) *Handler {
	return &Handler{service: service}
}

// List returns the weekly template of a resource.
func (h *Handler) List(c *gin.Context) {
	var uri ResourceURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	windows, err := h.service.ListByResource(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]WindowResponse, len(windows))
	for i := range windows {
		items[i] = NewWindowResponse(&windows[i])
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) Create(c *gin.Context) {
	var uri ResourceURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body CreateWindowRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
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

	req := schedule.CreateRequest{
		ResourceID:         uri.ID,
		Weekday:            *body.Weekday,
		Kind:               schedule.Kind(body.Kind),
		Start:              start,
		End:                end,
		MinDurationMinutes: body.MinDurationMinutes,
		SlotMinutes:        body.SlotMinutes,
		Active:             true,
	}
	if body.Active != nil {
		req.Active = *body.Active
	}

	w, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewWindowResponse(w))
}

func (h *Handler) Update(c *gin.Context) {
	var uri WindowURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateWindowRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	start, err := request.ParseOptionalClock(body.StartTime)
	if err != nil {
		response.Error(c, err)
		return
	}
	end, err := request.ParseOptionalClock(body.EndTime)
	if err != nil {
		response.Error(c, err)
		return
	}

	req := schedule.UpdateRequest{
		Weekday:            body.Weekday,
		Start:              start,
		End:                end,
		MinDurationMinutes: body.MinDurationMinutes,
		SlotMinutes:        body.SlotMinutes,
		Active:             body.Active,
	}
	if body.Kind != nil {
		kind := schedule.Kind(*body.Kind)
		req.Kind = &kind
	}

	if err := h.belongs(c, uri); err != nil {
		response.Error(c, err)
		return
	}

	w, err := h.service.Update(c.Request.Context(), uri.WindowID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewWindowResponse(w))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri WindowURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	if err := h.belongs(c, uri); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.WindowID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// belongs rejects window ids addressed through the wrong resource.
func (h *Handler) belongs(c *gin.Context, uri WindowURI) error {
	w, err := h.service.GetByID(c.Request.Context(), uri.WindowID)
	if err != nil {
		return err
	}
	if w.ResourceID != uri.ID {
		return schedule.ErrNotFound
	}
	return nil
}
