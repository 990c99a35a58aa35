package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/studio-booking-backend/internal/auth"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/studio-booking-backend/internal/staff"
)

type Handler struct {
	service    staff.Service
	jwtManager *auth.JWTManager
}

func NewHandler(service staff.Service, jwtManager *auth.JWTManager) *Handler {
	return &Handler{
		service:    service,
		jwtManager: jwtManager,
	}
}

// Login authenticates a staff member and returns a JWT access token.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	m, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.jwtManager.GenerateAccessToken(m.ID, m.Email, m.IsAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{AccessToken: token, Staff: NewStaffResponse(m)})
}

// Me returns the profile of the authenticated staff member.
func (h *Handler) Me(c *gin.Context) {
	m, err := h.service.GetByID(c.Request.Context(), auth.GetStaffID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, NewStaffResponse(m))
}

func (h *Handler) List(c *gin.Context) {
	var req ListStaffRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	filter := staff.Filter{
		Email:     req.Email,
		IsActive:  req.IsActive,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: strings.ToUpper(req.SortOrder),
	}

	members, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]StaffResponse, len(members))
	for i, m := range members {
		items[i] = NewStaffResponse(m)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	m, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewStaffResponse(m))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateStaffRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	m, err := h.service.Create(c.Request.Context(), staff.CreateRequest{
		Email:       body.Email,
		Password:    body.Password,
		DisplayName: body.DisplayName,
		IsAdmin:     body.IsAdmin,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewStaffResponse(m))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateStaffRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	m, err := h.service.Update(c.Request.Context(), uri.ID, staff.UpdateRequest{
		DisplayName: body.DisplayName,
		IsAdmin:     body.IsAdmin,
		IsActive:    body.IsActive,
		Password:    body.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewStaffResponse(m))
}
