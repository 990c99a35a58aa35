package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the public availability routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/resources/:id/availability")
	{
		group.GET("", h.ForDate)
		group.GET("/range", h.ForRange)
	}
}
