package calendar

import (
	"context"
	"time"

	"lesson-booking/internal/domain/entity"
	"lesson-booking/internal/domain/gateway"
)

// noopGateway reports no busy time and refuses writes.
type noopGateway struct{}

func (noopGateway) BusyRanges(context.Context, *entity.Provider, time.Time, time.Time) (entity.BusyResult, error) {
	return entity.BusyResult{}, nil
}

func (noopGateway) CreateEvent(context.Context, *entity.Provider, entity.CalendarEvent) (*entity.CreatedEvent, error) {
	return nil, gateway.ErrCalendarNotConfigured
}

func (noopGateway) DeleteEvent(context.Context, *entity.Provider, string, string) error {
	return gateway.ErrCalendarNotConfigured
}

func (noopGateway) AuthURL(string) (string, error) {
	return "", gateway.ErrCalendarNotConfigured
}

func (noopGateway) Exchange(context.Context, string) (*entity.TokenGrant, error) {
	return nil, gateway.ErrCalendarNotConfigured
}
