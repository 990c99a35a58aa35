package staff

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, apperror.KindNotFound, "staff member not found")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusConflict, apperror.KindConflict, "email already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, apperror.KindPermission, "invalid email or password")
	ErrEmailRequired      = apperror.New(http.StatusBadRequest, apperror.KindInputFormat, "email is required")
	ErrPasswordTooShort   = apperror.New(http.StatusBadRequest, apperror.KindInputFormat, "password is too short")
)

// Member is a staff account. Staff manage resources, schedules and reservations;
// admins additionally manage other staff accounts.
type Member struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  *string
	IsAdmin      bool
	IsActive     bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

type Filter struct {
	Email    string
	IsActive *bool

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
