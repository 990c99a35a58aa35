package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/studio-booking-backend/internal/availability"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/timeutil"
)

type Handler struct {
	resolver availability.Resolver
	loc      *time.Location
}

func NewHandler(resolver availability.Resolver, loc *time.Location) *Handler {
	return &Handler{
		resolver: resolver,
		loc:      loc,
	}
}

// ForDate lists the slots of one day.
func (h *Handler) ForDate(c *gin.Context) {
	var uri ResourceURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var q DateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	date, err := request.ParseDate(q.Date, h.loc)
	if err != nil {
		response.Error(c, err)
		return
	}

	day, err := h.resolver.ForDate(c.Request.Context(), uri.ID, date)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewDayResponse(q.Date, timeutil.Weekday(date), day))
}

// ForRange returns calendar indicators for consecutive days.
func (h *Handler) ForRange(c *gin.Context) {
	var uri ResourceURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var q RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	from, err := request.ParseDate(q.From, h.loc)
	if err != nil {
		response.Error(c, err)
		return
	}

	days, err := h.resolver.ForRange(c.Request.Context(), uri.ID, from, q.Days)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]DaySummaryResponse, len(days))
	for i, d := range days {
		items[i] = NewDaySummaryResponse(d)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
