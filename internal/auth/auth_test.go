package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute)

	token, err := m.GenerateAccessToken("staff-1", "desk@studio.test", true)
	require.NoError(t, err)

	claims, err := m.ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, "staff-1", claims.StaffID)
	assert.Equal(t, "desk@studio.test", claims.Email)
	assert.True(t, claims.IsAdmin)

	_, err = NewJWTManager("other-secret", time.Minute).ParseAndValidate(token)
	assert.Error(t, err)

	expired, err := NewJWTManager("test-secret", -time.Minute).GenerateAccessToken("staff-1", "desk@studio.test", false)
	require.NoError(t, err)
	_, err = m.ParseAndValidate(expired)
	assert.Error(t, err)
}

func TestAuthRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewJWTManager("test-secret", time.Minute)

	r := gin.New()
	r.GET("/me", AuthRequired(m), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetStaffID(c), "email": GetStaffEmail(c), "admin": IsAdmin(c)})
	})

	token, err := m.GenerateAccessToken("staff-1", "desk@studio.test", false)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"Missing Header", "", http.StatusUnauthorized},
		{"Wrong Scheme", "Basic " + token, http.StatusUnauthorized},
		{"Garbage Token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"Valid Token", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestBcryptPasswordHasher(t *testing.T) {
	h := NewBcryptPasswordHasherWithCost(1)

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NoError(t, h.Compare(hash, "correct horse"))
	assert.ErrorIs(t, h.Compare(hash, "wrong horse"), ErrPasswordMismatch)
}
