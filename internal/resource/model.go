package resource

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound  = apperror.New(http.StatusNotFound, apperror.KindNotFound, "resource not found")
	ErrInactive  = apperror.New(http.StatusNotFound, apperror.KindNotFound, "resource is not available")
	ErrEmptyName = apperror.New(http.StatusBadRequest, apperror.KindInputFormat, "name cannot be empty")
)

// Resource is a bookable studio, room or piece of equipment.
type Resource struct {
	ID   string
	Name string
	// Active resources are listed publicly and accept reservations.
	Active bool
	// ContactHandle receives staff notifications about new requests (WhatsApp number or email).
	ContactHandle string
	CreatedAt     time.Time
}

// Filter defines parameters for listing resources.
type Filter struct {
	Active    *bool
	Keyword   string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
