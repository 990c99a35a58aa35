package request

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/timeutil"
)

// ParseClock parses an HH:MM body or query value, reporting failures as input format errors.
func ParseClock(s string) (timeutil.Clock, error) {
	c, err := timeutil.ParseClock(s)
	if err != nil {
		return 0, apperror.Wrap(err, http.StatusBadRequest, apperror.KindInputFormat, err.Error())
	}
	return c, nil
}

// ParseOptionalClock is ParseClock for optional fields.
func ParseOptionalClock(s *string) (*timeutil.Clock, error) {
	if s == nil {
		return nil, nil
	}
	c, err := ParseClock(*s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ParseDate parses a YYYY-MM-DD value in loc, reporting failures as input format errors.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := timeutil.ParseDate(s, loc)
	if err != nil {
		return time.Time{}, apperror.Wrap(err, http.StatusBadRequest, apperror.KindInputFormat, err.Error())
	}
	return d, nil
}
