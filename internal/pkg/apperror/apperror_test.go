package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithDetailKeepsSentinelIdentity(t *testing.T) {
	sentinel := New(http.StatusConflict, KindScheduleConflict, "time slot already booked")

	err := WithDetail(sentinel, "%s-%s", "10:00", "11:00")

	assert.True(t, errors.Is(err, sentinel))
	assert.Equal(t, "time slot already booked: 10:00-11:00", err.Error())
	assert.Equal(t, http.StatusConflict, err.Code)
	assert.Equal(t, KindScheduleConflict, err.Kind)
}

func TestAsThroughFmtWrap(t *testing.T) {
	sentinel := New(http.StatusNotFound, KindNotFound, "resource not found")
	wrapped := fmt.Errorf("load resource: %w", sentinel)

	var appErr *AppError
	assert.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}
