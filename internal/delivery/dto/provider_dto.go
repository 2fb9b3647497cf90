package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

// UpdateSettingsRequest is a partial update: nil fields are left unchanged.
type UpdateSettingsRequest struct {
	Name                  *string `json:"name" validate:"omitempty,min=1,max=255"`
	Bio                   *string `json:"bio" validate:"omitempty,max=5000"`
	PhotoURL              *string `json:"photo_url" validate:"omitempty,url"`
	Timezone              *string `json:"timezone" validate:"omitempty,timezone"`
	BufferMinutes         *int    `json:"buffer_minutes" validate:"omitempty,gte=0,lte=240"`
	MinNoticeHours        *int    `json:"min_notice_hours" validate:"omitempty,gte=0,lte=720"`
	MaxAdvanceBookingDays *int    `json:"max_advance_booking_days" validate:"omitempty,gte=0,lte=365"`
	SlotStepMinutes       *int    `json:"slot_step_minutes" validate:"omitempty,gte=5,lte=240"`
	PostSessionMessage    *string `json:"post_session_message" validate:"omitempty,max=5000"`
	GoogleCalendarID      *string `json:"google_calendar_id" validate:"omitempty,max=1000"`
}

type LessonTypeItem struct {
	DurationMinutes int             `json:"duration_minutes" validate:"required,gt=0,lte=1440"`
	Price           decimal.Decimal `json:"price"`
	Currency        string          `json:"currency" validate:"omitempty,len=3"`
	IsActive        *bool           `json:"is_active" validate:"required"`
}

type UpdateLessonTypesRequest struct {
	LessonTypes []LessonTypeItem `json:"lesson_types" validate:"required,min=1,dive"`
}

// Response DTOs

type LessonTypeResponse struct {
	ID              uuid.UUID       `json:"id"`
	DurationMinutes int             `json:"duration_minutes"`
	Price           decimal.Decimal `json:"price"`
	Currency        string          `json:"currency"`
	IsActive        bool            `json:"is_active"`
}

type ProviderProfileResponse struct {
	ID                    uuid.UUID            `json:"id"`
	Name                  string               `json:"name"`
	Bio                   string               `json:"bio"`
	PhotoURL              string               `json:"photo_url"`
	Timezone              string               `json:"timezone"`
	MinNoticeHours        int                  `json:"min_notice_hours"`
	MaxAdvanceBookingDays int                  `json:"max_advance_booking_days"`
	LessonTypes           []LessonTypeResponse `json:"lesson_types"`
}

type SettingsResponse struct {
	Name                  string `json:"name"`
	Bio                   string `json:"bio"`
	PhotoURL              string `json:"photo_url"`
	Timezone              string `json:"timezone"`
	BufferMinutes         int    `json:"buffer_minutes"`
	MinNoticeHours        int    `json:"min_notice_hours"`
	MaxAdvanceBookingDays int    `json:"max_advance_booking_days"`
	SlotStepMinutes       int    `json:"slot_step_minutes"`
	PostSessionMessage    string `json:"post_session_message"`
	GoogleCalendarID      string `json:"google_calendar_id"`
	CalendarConnected     bool   `json:"calendar_connected"`
}
