// Package domain holds the availability DTOs shared by http, service and repo
package domain

import (
	"time"

	"github.com/google/uuid"

	"scheduling/internal/core/availability"
	ptime "scheduling/internal/platform/time"
)

// MeetingType is a bookable meeting kind
type MeetingType struct {
	ID              uuid.UUID `json:"id"`
	Slug            string    `json:"slug"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"duration_minutes"`
	Active          bool      `json:"active"`
}

// Duration returns the meeting length
func (m MeetingType) Duration() time.Duration {
	return time.Duration(m.DurationMinutes) * time.Minute
}

// HoursRow is one stored business_hours entry, times as "HH:MM"
type HoursRow struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Active    bool   `json:"is_active"`
}

// SlotsInput asks for the slots of one day
type SlotsInput struct {
	MeetingType string `json:"meeting_type" validate:"required,meeting_ref" example:"intro-call"`
	Date        string `json:"date" validate:"required" example:"2025-06-02"`
}

// DaysInput asks for the calendar from today over the horizon
type DaysInput struct {
	MeetingType string `json:"meeting_type" validate:"required,meeting_ref" example:"intro-call"`
}

// CheckInput asks whether one start instant is still bookable
type CheckInput struct {
	MeetingType string `json:"meeting_type" validate:"required,meeting_ref" example:"intro-call"`
	Start       string `json:"start" validate:"required" example:"2025-06-02T09:30:00Z"`
}

// DaySlots lists the bookable starts of one day in ascending order
type DaySlots struct {
	MeetingTypeID   uuid.UUID   `json:"meeting_type_id"`
	Date            ptime.Date  `json:"date" swaggertype:"string" example:"2025-06-02"`
	TimeZone        string      `json:"time_zone" example:"Europe/Berlin"`
	DurationMinutes int         `json:"duration_minutes" example:"30"`
	StepMinutes     int         `json:"step_minutes" example:"30"`
	Slots           []time.Time `json:"slots"`
}

// Calendar lists the days with at least one slot
type Calendar struct {
	MeetingTypeID uuid.UUID               `json:"meeting_type_id"`
	TimeZone      string                  `json:"time_zone" example:"Europe/Berlin"`
	From          ptime.Date              `json:"from" swaggertype:"string" example:"2025-06-02"`
	HorizonDays   int                     `json:"horizon_days" example:"30"`
	Days          []availability.DayCount `json:"days"`
}

// CheckResult confirms a slot; a taken slot is a conflict error instead
type CheckResult struct {
	Available bool      `json:"available" example:"true"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

// DemandKind names the query that produced a DemandEvent
type DemandKind string

// demand kinds
const (
	DemandSlots DemandKind = "slots"
	DemandDays  DemandKind = "days"
	DemandCheck DemandKind = "check"
)

// DemandEvent records one answered availability query
type DemandEvent struct {
	At            time.Time
	Kind          DemandKind
	MeetingTypeID uuid.UUID
	Day           ptime.Date
	SlotCount     int
	RequestID     string
}
