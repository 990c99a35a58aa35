package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/studio-booking-backend/internal/catalog"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/response"
)

type Handler struct {
	service catalog.Service
}

func NewHandler(service catalog.Service) *Handler {
	return &Handler{service: service}
}

// Search is the public lookup used while composing a reservation.
func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	services, err := h.service.Search(c.Request.Context(), req.Q)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ServiceResponse, len(services))
	for i := range services {
		items[i] = NewServiceResponse(&services[i])
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ListAll returns every service, including inactive ones.
func (h *Handler) ListAll(c *gin.Context) {
	var req ListServicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	services, total, err := h.service.List(c.Request.Context(), catalog.Filter{
		Keyword:  req.Q,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ServiceResponse, len(services))
	for i := range services {
		items[i] = NewServiceResponse(&services[i])
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	svc, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewServiceResponse(svc))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateServiceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	req := catalog.CreateRequest{
		Name:        body.Name,
		Description: body.Description,
		Price:       body.Price,
		Active:      true,
	}
	if body.Active != nil {
		req.Active = *body.Active
	}

	svc, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewServiceResponse(svc))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateServiceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	svc, err := h.service.Update(c.Request.Context(), uri.ID, catalog.UpdateRequest{
		Name:        body.Name,
		Description: body.Description,
		Price:       body.Price,
		Active:      body.Active,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewServiceResponse(svc))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
