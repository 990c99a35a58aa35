package gallery

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, apperror.KindNotFound, "photo not found")
	ErrNoThumbnail     = apperror.New(http.StatusNotFound, apperror.KindNotFound, "thumbnail not available for this photo")
	ErrUnsupportedType = apperror.New(http.StatusBadRequest, apperror.KindInputFormat, "unsupported image type")
	ErrTooLarge        = apperror.New(http.StatusBadRequest, apperror.KindInputFormat, "image is too large")
)

// Photo is an image shown on a resource's public page.
type Photo struct {
	ID            string
	ResourceID    string
	Filename      string
	StoragePath   string
	ThumbnailPath *string
	ContentType   string
	Size          int64
	CreatedAt     time.Time
}

// PhotoURL returns the public URL of a photo.
func PhotoURL(id string) string {
	return "/v1/photos/" + id
}

// ThumbnailURL returns the public URL of a photo's thumbnail.
func ThumbnailURL(id string) string {
	return "/v1/photos/" + id + "/thumbnail"
}
