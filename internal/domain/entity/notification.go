package entity

import (
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotificationBookingConfirmation      NotificationKind = "booking_confirmation"
	NotificationProviderNewBooking       NotificationKind = "provider_new_booking"
	NotificationCancellationConfirmation NotificationKind = "cancellation_confirmation"
	NotificationReminder24h              NotificationKind = "reminder_24h"
	NotificationReminder1h               NotificationKind = "reminder_1h"
	NotificationPostSession              NotificationKind = "post_session"
)

// Notification is one outbound message about a booking.
type Notification struct {
	Kind      NotificationKind
	To        string
	Booking   *Booking
	Provider  *Provider
	ManageURL string
}

// NotificationRunResult summarizes one scheduled dispatch pass.
type NotificationRunResult struct {
	Reminders24h int       `json:"reminders_24h"`
	Reminders1h  int       `json:"reminders_1h"`
	PostSession  int       `json:"post_session"`
	Failed       int       `json:"failed"`
	RanAt        time.Time `json:"ran_at"`
}

// NotificationFlag names a booking column that records a sent notification.
type NotificationFlag string

const (
	FlagReminder24h NotificationFlag = "reminder_24h_sent"
	FlagReminder1h  NotificationFlag = "reminder_1h_sent"
	FlagPostSession NotificationFlag = "post_session_sent"
)

// BookingEventType names a published booking lifecycle event.
type BookingEventType string

const (
	BookingEventCreated   BookingEventType = "booking.created"
	BookingEventCancelled BookingEventType = "booking.cancelled"
)

// BookingEvent is the payload published when a booking changes state.
type BookingEvent struct {
	EventID         uuid.UUID        `json:"event_id"`
	Type            BookingEventType `json:"type"`
	BookingID       uuid.UUID        `json:"booking_id"`
	ProviderID      uuid.UUID        `json:"provider_id"`
	LessonTypeID    uuid.UUID        `json:"lesson_type_id"`
	StartTime       time.Time        `json:"start_time"`
	EndTime         time.Time        `json:"end_time"`
	DurationMinutes int              `json:"duration_minutes"`
	Status          BookingStatus    `json:"status"`
	OccurredAt      time.Time        `json:"occurred_at"`
}

// NewBookingEvent builds the event for a booking.
func NewBookingEvent(t BookingEventType, b *Booking, at time.Time) BookingEvent {
	return BookingEvent{
		EventID:         uuid.New(),
		Type:            t,
		BookingID:       b.ID,
		ProviderID:      b.ProviderID,
		LessonTypeID:    b.LessonTypeID,
		StartTime:       b.StartTime.UTC(),
		EndTime:         b.EndTime.UTC(),
		DurationMinutes: b.DurationMinutes(),
		Status:          b.Status,
		OccurredAt:      at.UTC(),
	}
}
