package usecase

import (
	"context"
	"time"

	"lesson-booking/internal/availability"
	"lesson-booking/internal/converter"
	"lesson-booking/internal/domain/entity"
	"lesson-booking/internal/domain/gateway"
	"lesson-booking/internal/domain/repository"
	"lesson-booking/pkg/clock"

	"github.com/sirupsen/logrus"
)

// slotPlanner gathers everything the slot engine needs for a provider. It is shared by
// the availability queries and the booking writer so both see the same slots.
type slotPlanner struct {
	log          *logrus.Logger
	weeklyRepo   repository.WeeklyAvailabilityRepository
	overrideRepo repository.DateOverrideRepository
	bookingRepo  repository.BookingRepository
	calendar     gateway.CalendarGateway
	clock        clock.Clock
}

// dayInput loads the template, override, confirmed bookings and external busy ranges of
// one provider-local day.
func (p *slotPlanner) dayInput(ctx context.Context, provider *entity.Provider, day availability.Day, duration int) (availability.Input, error) {
	loc := provider.Location()
	policy := converter.PolicyOf(provider)
	span := day.Span(loc)

	weekly, err := p.weeklyRepo.FindByProviderAndDay(ctx, provider.ID, int(day.Weekday()))
	if err != nil {
		p.log.Warnf("Failed to find weekly availability for provider %s: %+v", provider.ID, err)
		return availability.Input{}, err
	}

	override, err := p.overrideRepo.FindByProviderAndDate(ctx, provider.ID, day.String())
	if err != nil {
		p.log.Warnf("Failed to find date override for provider %s: %+v", provider.ID, err)
		return availability.Input{}, err
	}

	widened := span.Inflate(policy.Buffer())
	bookings, err := p.bookingRepo.FindConfirmedOverlapping(ctx, provider.ID, widened.Start, widened.End)
	if err != nil {
		p.log.Warnf("Failed to find bookings for provider %s: %+v", provider.ID, err)
		return availability.Input{}, err
	}

	return availability.Input{
		Day:             day,
		DurationMinutes: duration,
		Policy:          policy,
		Location:        loc,
		Weekly:          converter.WeeklySlotOf(weekly),
		Override:        converter.DateOverrideOf(override),
		Bookings:        converter.BookingIntervals(bookings),
		Busy:            p.busy(ctx, provider, span.Start, span.End),
		Now:             p.clock.Now(),
	}, nil
}

// busy fails open: a calendar error means no external busy ranges.
func (p *slotPlanner) busy(ctx context.Context, provider *entity.Provider, from, to time.Time) []availability.Interval {
	result, err := p.calendar.BusyRanges(ctx, provider, from, to)
	if err != nil {
		p.log.Warnf("Calendar lookup failed for provider %s, continuing without busy ranges: %+v", provider.ID, err)
		return nil
	}
	for id, reason := range result.Failed {
		p.log.Warnf("Calendar %s of provider %s excluded from busy lookup: %s", id, provider.ID, reason)
	}
	return converter.BusyIntervals(result.Busy)
}
