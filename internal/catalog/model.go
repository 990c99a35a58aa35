// Package catalog holds the priced add-on services a reservation may include.
package catalog

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound       = apperror.New(http.StatusNotFound, apperror.KindNotFound, "service not found")
	ErrEmptyName      = apperror.New(http.StatusBadRequest, apperror.KindInputFormat, "name cannot be empty")
	ErrNegativePrice  = apperror.New(http.StatusBadRequest, apperror.KindInputFormat, "price cannot be negative")
	ErrUnknownService = apperror.New(http.StatusBadRequest, apperror.KindInputFormat, "unknown or inactive service")
	ErrInUse          = apperror.New(http.StatusConflict, apperror.KindConflict, "service is linked to reservations, deactivate it instead")
)

// SearchLimit caps public search results.
const SearchLimit = 20

type AddOn struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Active      bool
	CreatedAt   time.Time
}

type Filter struct {
	Keyword    string
	ActiveOnly bool
	Page       int
	PageSize   int
}

// Total sums the prices of services.
func Total(services []AddOn) decimal.Decimal {
	total := decimal.Zero
	for _, s := range services {
		total = total.Add(s.Price)
	}
	return total
}
