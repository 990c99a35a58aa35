package http

import (
	"time"

	"github.com/nekogravitycat/studio-booking-backend/internal/gallery"
)

type ResourceURI struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type PhotoResponse struct {
	ID           string    `json:"id"`
	ResourceID   string    `json:"resource_id"`
	Filename     string    `json:"filename"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewPhotoResponse(p *gallery.Photo) PhotoResponse {
	var thumbURL *string
	if p.ThumbnailPath != nil {
		t := gallery.ThumbnailURL(p.ID)
		thumbURL = &t
	}
	return PhotoResponse{
		ID:           p.ID,
		ResourceID:   p.ResourceID,
		Filename:     p.Filename,
		ContentType:  p.ContentType,
		Size:         p.Size,
		URL:          gallery.PhotoURL(p.ID),
		ThumbnailURL: thumbURL,
		CreatedAt:    p.CreatedAt,
	}
}
