package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers login, the current profile and admin-only account management.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	// Public Routes
	g.POST("/auth/login", h.Login)

	// Authenticated Routes
	g.GET("/me", authMiddleware, h.Me)

	// Admin Routes
	group := g.Group("/staff")
	group.Use(authMiddleware, adminMiddleware)
	{
		group.GET("", h.List)
		group.POST("", h.Create)
		group.GET("/:id", h.Get)
		group.PATCH("/:id", h.Update)
	}
}
