package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the photo gallery. Photos are public; uploads and deletes are staff only.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	g.GET("/resources/:id/photos", h.List)
	g.POST("/resources/:id/photos", authMiddleware, h.Upload)

	photos := g.Group("/photos")
	photos.GET("/:id", h.Serve)
	photos.GET("/:id/thumbnail", h.ServeThumbnail)
	photos.DELETE("/:id", authMiddleware, h.Delete)
}
