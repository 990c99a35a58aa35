package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/studio-booking-backend/internal/auth"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/studio-booking-backend/internal/staff"
)

// RequireAdmin ensures the authenticated staff member is an active admin.
// The account is re-read so that revoking admin rights takes effect before the token expires.
// It MUST be used after auth.AuthRequired middleware.
func RequireAdmin(staffService staff.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		staffID := auth.GetStaffID(c)
		if staffID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "unauthorized"})
			return
		}

		m, err := staffService.GetByID(c.Request.Context(), staffID)
		if err != nil || !m.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "unauthorized"})
			return
		}

		if !m.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorResponse{Error: "forbidden: admin access required"})
			return
		}

		c.Next()
	}
}
