package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateBookingRequest struct {
	ClientName     string `json:"client_name" validate:"required,min=1,max=255"`
	ClientEmail    string `json:"client_email" validate:"required,email,max=255"`
	ClientTimezone string `json:"client_timezone" validate:"required,timezone"`
	LessonTypeID   string `json:"lesson_type_id" validate:"required,uuid"`
	StartTime      string `json:"start_time" validate:"required"`
}

type BookingListQuery struct {
	Status string `json:"status" validate:"omitempty,oneof=confirmed cancelled completed"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// Response DTOs

type BookingCreatedResponse struct {
	ID              uuid.UUID `json:"id"`
	ManagementToken string    `json:"management_token"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Duration        int       `json:"duration"`
	MeetLink        *string   `json:"meet_link"`
	EmailSent       bool      `json:"email_sent"`
}

// ManagedBookingResponse is what a client sees through their management link.
type ManagedBookingResponse struct {
	ID                   uuid.UUID `json:"id"`
	Status               string    `json:"status"`
	ClientName           string    `json:"client_name"`
	ClientTimezone       string    `json:"client_timezone"`
	StartTime            time.Time `json:"start_time"`
	EndTime              time.Time `json:"end_time"`
	Duration             int       `json:"duration"`
	MeetLink             *string   `json:"meet_link"`
	ProviderName         string    `json:"provider_name"`
	CanCancel            bool      `json:"can_cancel"`
	CancellationDeadline time.Time `json:"cancellation_deadline"`
}

type CancelBookingResponse struct {
	ID          uuid.UUID  `json:"id"`
	Status      string     `json:"status"`
	CancelledAt *time.Time `json:"cancelled_at"`
	EmailSent   bool       `json:"email_sent"`
}

type BookingResponse struct {
	ID              uuid.UUID  `json:"id"`
	LessonTypeID    uuid.UUID  `json:"lesson_type_id"`
	ClientName      string     `json:"client_name"`
	ClientEmail     string     `json:"client_email"`
	ClientTimezone  string     `json:"client_timezone"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         time.Time  `json:"end_time"`
	Duration        int        `json:"duration"`
	Status          string     `json:"status"`
	MeetLink        *string    `json:"meet_link"`
	Reminder24hSent bool       `json:"reminder_24h_sent"`
	Reminder1hSent  bool       `json:"reminder_1h_sent"`
	PostSessionSent bool       `json:"post_session_sent"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
	From     time.Time         `json:"from"`
	To       time.Time         `json:"to"`
}
