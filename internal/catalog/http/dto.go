package http

import (
	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/studio-booking-backend/internal/catalog"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/request"
)

type ServiceResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Active      bool            `json:"active"`
}

func NewServiceResponse(s *catalog.AddOn) ServiceResponse {
	return ServiceResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Price:       s.Price,
		Active:      s.Active,
	}
}

type SearchRequest struct {
	Q string `form:"q"`
}

type ListServicesRequest struct {
	request.ListParams
	Q string `form:"q"`
}

type CreateServiceRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Active      *bool           `json:"active"`
}

type UpdateServiceRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Active      *bool            `json:"active"`
}
