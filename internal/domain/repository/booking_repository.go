package repository

import (
	"context"
	"errors"
	"time"

	"lesson-booking/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrBookingConflict is returned when a confirmed booking already occupies the buffered range.
var ErrBookingConflict = errors.New("booking conflicts with an existing confirmed booking")

type BookingFilter struct {
	ProviderID uuid.UUID
	Status     *entity.BookingStatus
	From       time.Time
	To         time.Time

	// EndedBefore keeps only bookings whose end is before it.
	EndedBefore *time.Time
}

type BookingRepository interface {
	// CreateIfAvailable inserts the booking as confirmed unless a confirmed booking of the
	// same provider overlaps [start-buffer, end+buffer). Check and insert are atomic per provider.
	CreateIfAvailable(ctx context.Context, booking *entity.Booking, buffer time.Duration) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByToken(ctx context.Context, token string) (*entity.Booking, error)
	// FindConfirmedOverlapping returns confirmed bookings intersecting [from, to).
	FindConfirmedOverlapping(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]entity.Booking, error)
	FindByFilter(ctx context.Context, filter BookingFilter) ([]entity.Booking, error)
	// Cancel moves a confirmed booking to cancelled. Returns affected rows: 0 means it was not confirmed.
	Cancel(ctx context.Context, id uuid.UUID, at time.Time) (int64, error)
	SetCalendarEvent(ctx context.Context, id uuid.UUID, eventID, meetLink *string) error
	// FindDueStartingBetween returns confirmed bookings with flag unset and from <= start <= to.
	FindDueStartingBetween(ctx context.Context, flag entity.NotificationFlag, from, to time.Time) ([]entity.Booking, error)
	// FindDueEndedBefore returns confirmed bookings with flag unset and end < before.
	FindDueEndedBefore(ctx context.Context, flag entity.NotificationFlag, before time.Time) ([]entity.Booking, error)
	// MarkNotificationSent sets flag only if it is still unset. Returns affected rows.
	MarkNotificationSent(ctx context.Context, id uuid.UUID, flag entity.NotificationFlag) (int64, error)
}
