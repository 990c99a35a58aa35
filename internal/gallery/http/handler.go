package http

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/studio-booking-backend/internal/gallery"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/response"
)

type Handler struct {
	service gallery.Service
}

func NewHandler(service gallery.Service) *Handler {
	return &Handler{service: service}
}

// Upload stores the "file" form field as a new photo of the resource.
func (h *Handler) Upload(c *gin.Context) {
	var uri ResourceURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required", err)
		return
	}
	src, err := header.Open()
	if err != nil {
		response.BadRequest(c, "failed to read upload", err)
		return
	}
	defer src.Close()

	p, err := h.service.Upload(c.Request.Context(), uri.ID, gallery.UploadInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     src,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewPhotoResponse(p))
}

func (h *Handler) List(c *gin.Context) {
	var uri ResourceURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	photos, err := h.service.ListByResource(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]PhotoResponse, len(photos))
	for i, p := range photos {
		items[i] = NewPhotoResponse(p)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Serve streams the original photo.
func (h *Handler) Serve(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	stream, p, err := h.service.Download(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	writeStream(c, stream, p.ContentType, p.Filename)
}

// ServeThumbnail streams the JPEG thumbnail.
func (h *Handler) ServeThumbnail(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	stream, p, err := h.service.DownloadThumbnail(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	writeStream(c, stream, "image/jpeg", p.Filename+"_thumb.jpg")
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

func writeStream(c *gin.Context, stream io.Reader, contentType, filename string) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", "inline; filename=\""+filename+"\"")
	c.Header("Cache-Control", "public, max-age=86400")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		// Headers are already sent.
		log.Printf("failed to stream %s: %v", filename, err)
	}
}
