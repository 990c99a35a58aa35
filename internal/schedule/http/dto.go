package http

import (
	"time"

	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/timeutil"
	"github.com/nekogravitycat/studio-booking-backend/internal/schedule"
)

type WindowResponse struct {
	ID                 string    `json:"id"`
	ResourceID         string    `json:"resource_id"`
	Weekday            int       `json:"weekday"`
	WeekdayName        string    `json:"weekday_name"`
	Kind               string    `json:"kind"`
	StartTime          string    `json:"start_time"`
	EndTime            string    `json:"end_time"`
	MinDurationMinutes int       `json:"min_duration_minutes"`
	SlotMinutes        int       `json:"slot_minutes"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"created_at"`
}

func NewWindowResponse(w *schedule.Window) WindowResponse {
	return WindowResponse{
		ID:                 w.ID,
		ResourceID:         w.ResourceID,
		Weekday:            w.Weekday,
		WeekdayName:        timeutil.WeekdayName(w.Weekday),
		Kind:               string(w.Kind),
		StartTime:          w.Start.String(),
		EndTime:            w.End.String(),
		MinDurationMinutes: w.MinDurationMinutes,
		SlotMinutes:        w.SlotMinutes,
		Active:             w.Active,
		CreatedAt:          w.CreatedAt,
	}
}

type ResourceURI struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type WindowURI struct {
	ID       string `uri:"id" binding:"required,uuid"`
	WindowID string `uri:"window_id" binding:"required,uuid"`
}

type CreateWindowRequest struct {
	Weekday            *int   `json:"weekday" binding:"required,min=0,max=6"`
	Kind               string `json:"kind" binding:"required,oneof=discrete continuous"`
	StartTime          string `json:"start_time" binding:"required"`
	EndTime            string `json:"end_time" binding:"required"`
	MinDurationMinutes *int   `json:"min_duration_minutes" binding:"omitempty,min=1"`
	SlotMinutes        int    `json:"slot_minutes" binding:"min=0"`
	Active             *bool  `json:"active"`
}

type UpdateWindowRequest struct {
	Weekday            *int    `json:"weekday" binding:"omitempty,min=0,max=6"`
	Kind               *string `json:"kind" binding:"omitempty,oneof=discrete continuous"`
	StartTime          *string `json:"start_time"`
	EndTime            *string `json:"end_time"`
	MinDurationMinutes *int    `json:"min_duration_minutes" binding:"omitempty,min=1"`
	SlotMinutes        *int    `json:"slot_minutes" binding:"omitempty,min=0"`
	Active             *bool   `json:"active"`
}
