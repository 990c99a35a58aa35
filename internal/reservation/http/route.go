package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/reservations")

	// === Public Routes ===
	group.POST("", h.Create)
	group.GET("/verify/:token", h.Verify)
	group.GET("/lookup/:code", h.Lookup)

	// === Staff Routes ===
	staff := group.Group("")
	staff.Use(authMiddleware)
	{
		staff.GET("", h.List)
		staff.GET("/statuses", h.Statuses)
		staff.POST("/bulk", h.Bulk)
		staff.GET("/:code", h.Get)
		staff.PATCH("/:code/notes", h.UpdateNotes)
		staff.POST("/:code/:action", h.Act)
	}
}
