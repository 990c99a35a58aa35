package availability

import (
	"context"
	"net/http"
	"time"

	"github.com/nekogravitycat/studio-booking-backend/internal/booking"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/timeutil"
	"github.com/nekogravitycat/studio-booking-backend/internal/resource"
	"github.com/nekogravitycat/studio-booking-backend/internal/schedule"
)

var ErrInvalidDays = apperror.New(http.StatusBadRequest, apperror.KindInputFormat, "days must be between 1 and the allowed range")

// Resolver answers availability queries for active resources.
type Resolver interface {
	// ForDate returns nil, nil when the resource publishes no schedule that weekday.
	ForDate(ctx context.Context, resourceID string, date time.Time) (*DayAvailability, error)
	ForRange(ctx context.Context, resourceID string, from time.Time, days int) ([]DaySummary, error)
}

type resolver struct {
	resService   resource.Service
	schedService schedule.Service
	bookingRepo  booking.Repository
	loc          *time.Location
	maxDays      int
}

func NewResolver(
	resService resource.Service,
	schedService schedule.Service,
	bookingRepo booking.Repository,
	loc *time.Location,
	maxDays int,
) Resolver {
	return &resolver{
		resService:   resService,
		schedService: schedService,
		bookingRepo:  bookingRepo,
		loc:          loc,
		maxDays:      maxDays,
	}
}

func (r *resolver) ForDate(ctx context.Context, resourceID string, date time.Time) (*DayAvailability, error) {
	if _, err := r.resService.GetActive(ctx, resourceID); err != nil {
		return nil, err
	}

	day := timeutil.InLocation(date, r.loc)
	windows, err := r.schedService.ListForWeekday(ctx, resourceID, timeutil.Weekday(day))
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return nil, nil
	}

	confirmed, err := r.bookingRepo.ListConfirmed(ctx, resourceID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	return Resolve(day, windows, confirmed), nil
}

func (r *resolver) ForRange(ctx context.Context, resourceID string, from time.Time, days int) ([]DaySummary, error) {
	if days < 1 || days > r.maxDays {
		return nil, apperror.WithDetail(ErrInvalidDays, "max %d", r.maxDays)
	}
	if _, err := r.resService.GetActive(ctx, resourceID); err != nil {
		return nil, err
	}

	start := timeutil.InLocation(from, r.loc)
	end := start.AddDate(0, 0, days)

	windows, err := r.schedService.ListByResource(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	confirmed, err := r.bookingRepo.ListConfirmed(ctx, resourceID, start, end)
	if err != nil {
		return nil, err
	}

	summaries := make([]DaySummary, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		avail := Resolve(day, windows, confirmed)
		summaries = append(summaries, DaySummary{
			Date:            day,
			Weekday:         timeutil.Weekday(day),
			HasSchedule:     avail != nil,
			HasAvailability: avail.HasAvailability(),
		})
	}
	return summaries, nil
}
