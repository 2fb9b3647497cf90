// Package gateway declares the outbound ports to systems the service does not own:
// the provider's external calendar, email delivery and the event bus.
package gateway

import (
	"context"
	"errors"
	"time"

	"lesson-booking/internal/domain/entity"
)

var (
	// ErrCalendarNotConfigured is returned when no calendar integration is available.
	ErrCalendarNotConfigured = errors.New("calendar integration is not configured")
	// ErrNotifierDisabled is returned when outbound email is not configured.
	ErrNotifierDisabled = errors.New("notifier is disabled")
)

// CalendarGateway is the provider's external calendar.
type CalendarGateway interface {
	// BusyRanges returns busy intervals across all configured calendars of the provider.
	// Providers without a connected calendar yield an empty result and no error.
	BusyRanges(ctx context.Context, provider *entity.Provider, from, to time.Time) (entity.BusyResult, error)
	CreateEvent(ctx context.Context, provider *entity.Provider, event entity.CalendarEvent) (*entity.CreatedEvent, error)
	DeleteEvent(ctx context.Context, provider *entity.Provider, calendarID, eventID string) error
	AuthURL(state string) (string, error)
	Exchange(ctx context.Context, code string) (*entity.TokenGrant, error)
}

// Notifier delivers transactional messages.
type Notifier interface {
	Notify(ctx context.Context, n entity.Notification) error
}

// EventPublisher emits booking lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, event entity.BookingEvent) error
	Close() error
}
