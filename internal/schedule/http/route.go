package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the weekly schedule routes of a resource.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/resources/:id/schedule")

	// === Public Routes ===
	group.GET("", h.List)

	// === Staff Routes ===
	staff := group.Group("")
	staff.Use(authMiddleware)
	{
		staff.POST("", h.Create)
		staff.PATCH("/:window_id", h.Update)
		staff.DELETE("/:window_id", h.Delete)
	}
}
