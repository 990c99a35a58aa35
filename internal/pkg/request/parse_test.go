package request

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/timeutil"
)

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, timeutil.Clock(570), c)

	_, err = ParseClock("9h30")
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, apperror.KindInputFormat, appErr.Kind)
	assert.ErrorIs(t, err, timeutil.ErrInvalidClock)
}

func TestParseOptionalClock(t *testing.T) {
	c, err := ParseOptionalClock(nil)
	require.NoError(t, err)
	assert.Nil(t, c)

	s := "18:00"
	c, err = ParseOptionalClock(&s)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, timeutil.Clock(18*60), *c)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-04", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d.Weekday())

	_, err = ParseDate("04/03/2024", time.UTC)
	assert.ErrorIs(t, err, timeutil.ErrInvalidDate)
}
