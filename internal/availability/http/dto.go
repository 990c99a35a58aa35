package http

import (
	"github.com/nekogravitycat/studio-booking-backend/internal/availability"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/timeutil"
)

type ResourceURI struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type DateQuery struct {
	Date string `form:"date" binding:"required"`
}

type RangeQuery struct {
	From string `form:"from" binding:"required"`
	Days int    `form:"days,default=7" binding:"min=1"`
}

type SlotResponse struct {
	StartTime          string `json:"start_time"`
	EndTime            string `json:"end_time"`
	Available          bool   `json:"available"`
	MinDurationMinutes int    `json:"min_duration_minutes,omitempty"`
}

type DayResponse struct {
	Date        string         `json:"date"`
	Weekday     int            `json:"weekday"`
	WeekdayName string         `json:"weekday_name"`
	HasSchedule bool           `json:"has_schedule"`
	Discrete    []SlotResponse `json:"discrete"`
	Continuous  []SlotResponse `json:"continuous"`
}

func newSlotResponse(s availability.Slot) SlotResponse {
	return SlotResponse{
		StartTime:          timeutil.ClockOf(s.Start).String(),
		EndTime:            endClock(s).String(),
		Available:          s.Available,
		MinDurationMinutes: int(s.MinDuration.Minutes()),
	}
}

// endClock renders a slot ending at midnight as 24:00.
func endClock(s availability.Slot) timeutil.Clock {
	if !timeutil.DayStart(s.End).Equal(timeutil.DayStart(s.Start)) {
		return timeutil.Clock(timeutil.MinutesPerDay)
	}
	return timeutil.ClockOf(s.End)
}

func NewDayResponse(date string, weekday int, day *availability.DayAvailability) DayResponse {
	resp := DayResponse{
		Date:        date,
		Weekday:     weekday,
		WeekdayName: timeutil.WeekdayName(weekday),
		Discrete:    []SlotResponse{},
		Continuous:  []SlotResponse{},
	}
	if day == nil {
		return resp
	}

	resp.HasSchedule = true
	for _, s := range day.Discrete {
		resp.Discrete = append(resp.Discrete, newSlotResponse(s))
	}
	for _, s := range day.Continuous {
		resp.Continuous = append(resp.Continuous, newSlotResponse(s))
	}
	return resp
}

type DaySummaryResponse struct {
	Date            string `json:"date"`
	Weekday         int    `json:"weekday"`
	WeekdayName     string `json:"weekday_name"`
	HasSchedule     bool   `json:"has_schedule"`
	HasAvailability bool   `json:"has_availability"`
}

func NewDaySummaryResponse(s availability.DaySummary) DaySummaryResponse {
	return DaySummaryResponse{
		Date:            timeutil.FormatDate(s.Date),
		Weekday:         s.Weekday,
		WeekdayName:     timeutil.WeekdayName(s.Weekday),
		HasSchedule:     s.HasSchedule,
		HasAvailability: s.HasAvailability,
	}
}
