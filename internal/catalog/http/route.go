package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers add-on service routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/services")

	// === Public Routes ===
	group.GET("", h.Search)
	group.GET("/:id", h.Get)

	// === Staff Routes ===
	staff := group.Group("")
	staff.Use(authMiddleware)
	{
		staff.GET("/all", h.ListAll)
		staff.POST("", h.Create)
		staff.PATCH("/:id", h.Update)
		staff.DELETE("/:id", h.Delete)
	}
}
