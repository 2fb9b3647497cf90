package usecase

import (
	"context"
	"errors"
	"time"

	"lesson-booking/internal/availability"
	"lesson-booking/internal/converter"
	"lesson-booking/internal/delivery/dto"
	"lesson-booking/internal/domain/entity"
	"lesson-booking/internal/domain/gateway"
	"lesson-booking/internal/domain/repository"
	"lesson-booking/pkg/clock"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const DefaultRangeDays = 28

var (
	ErrProviderNotFound = errors.New("provider not found")
	ErrInvalidDate      = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidDuration  = errors.New("duration must be a positive number of minutes")
)

type AvailabilityUsecase interface {
	GetDaySlots(ctx context.Context, providerID uuid.UUID, date string, duration int) (*dto.DaySlotsResponse, error)
	GetAvailableDates(ctx context.Context, providerID uuid.UUID, duration int) (*dto.AvailableDatesResponse, error)
}

type availabilityUsecase struct {
	slotPlanner
	providerRepo   repository.ProviderRepository
	lessonTypeRepo repository.LessonTypeRepository
	rangeDays      int
}

func NewAvailabilityUsecase(
	log *logrus.Logger,
	providerRepo repository.ProviderRepository,
	weeklyRepo repository.WeeklyAvailabilityRepository,
	overrideRepo repository.DateOverrideRepository,
	lessonTypeRepo repository.LessonTypeRepository,
	bookingRepo repository.BookingRepository,
	calendar gateway.CalendarGateway,
	clk clock.Clock,
	rangeDays int,
) AvailabilityUsecase {
	if rangeDays <= 0 {
		rangeDays = DefaultRangeDays
	}
	return &availabilityUsecase{
		slotPlanner: slotPlanner{
			log:          log,
			weeklyRepo:   weeklyRepo,
			overrideRepo: overrideRepo,
			bookingRepo:  bookingRepo,
			calendar:     calendar,
			clock:        clk,
		},
		providerRepo:   providerRepo,
		lessonTypeRepo: lessonTypeRepo,
		rangeDays:      rangeDays,
	}
}

// GetDaySlots returns the bookable start instants of one provider-local date.
func (u *availabilityUsecase) GetDaySlots(ctx context.Context, providerID uuid.UUID, date string, duration int) (*dto.DaySlotsResponse, error) {
	day, err := availability.ParseDay(date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}

	provider, err := u.findProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}

	resp := &dto.DaySlotsResponse{
		Date:     day.String(),
		Duration: duration,
		Timezone: provider.Timezone,
		Slots:    []string{},
	}

	offered, err := u.offersDuration(ctx, providerID, duration)
	if err != nil || !offered {
		return resp, err
	}

	input, err := u.dayInput(ctx, provider, day, duration)
	if err != nil {
		return nil, err
	}

	for _, slot := range availability.AvailableSlots(input) {
		resp.Slots = append(resp.Slots, slot.Format(time.RFC3339))
	}
	return resp, nil
}

// GetAvailableDates lists the dates of the booking horizon that have at least one slot.
// External calendars, bookings and overrides are each fetched once for the whole horizon.
func (u *availabilityUsecase) GetAvailableDates(ctx context.Context, providerID uuid.UUID, duration int) (*dto.AvailableDatesResponse, error) {
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}

	provider, err := u.findProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}

	loc := provider.Location()
	policy := converter.PolicyOf(provider)
	now := u.clock.Now()

	today := availability.DayIn(now, loc)
	days := u.rangeDays - 1
	if provider.MaxAdvanceBookingDays < days {
		days = provider.MaxAdvanceBookingDays
	}
	if days < 0 {
		days = 0
	}
	last := today.AddDays(days)

	resp := &dto.AvailableDatesResponse{
		Duration: duration,
		Timezone: provider.Timezone,
		From:     today.String(),
		To:       last.String(),
		Dates:    []string{},
	}

	offered, err := u.offersDuration(ctx, providerID, duration)
	if err != nil || !offered {
		return resp, err
	}

	weeklyRows, err := u.weeklyRepo.FindByProvider(ctx, providerID)
	if err != nil {
		u.log.Warnf("Failed to find weekly availability for provider %s: %+v", providerID, err)
		return nil, err
	}
	weekly := make(map[int]*entity.WeeklyAvailability, len(weeklyRows))
	for i := range weeklyRows {
		weekly[weeklyRows[i].DayOfWeek] = &weeklyRows[i]
	}

	overrideRows, err := u.overrideRepo.FindInRange(ctx, providerID, today.String(), last.String())
	if err != nil {
		u.log.Warnf("Failed to find date overrides for provider %s: %+v", providerID, err)
		return nil, err
	}
	overrides := make(map[string]*entity.DateOverride, len(overrideRows))
	for i := range overrideRows {
		overrides[overrideRows[i].Date] = &overrideRows[i]
	}

	horizon := availability.Interval{Start: today.Start(loc), End: last.AddDays(1).Start(loc)}
	widened := horizon.Inflate(policy.Buffer())
	bookingRows, err := u.bookingRepo.FindConfirmedOverlapping(ctx, providerID, widened.Start, widened.End)
	if err != nil {
		u.log.Warnf("Failed to find bookings for provider %s: %+v", providerID, err)
		return nil, err
	}
	bookings := converter.BookingIntervals(bookingRows)
	busy := u.busy(ctx, provider, horizon.Start, horizon.End)

	for day := today; !day.After(last); day = day.AddDays(1) {
		span := day.Span(loc)
		input := availability.Input{
			Day:             day,
			DurationMinutes: duration,
			Policy:          policy,
			Location:        loc,
			Weekly:          converter.WeeklySlotOf(weekly[int(day.Weekday())]),
			Override:        converter.DateOverrideOf(overrides[day.String()]),
			Bookings:        availability.Within(bookings, span.Inflate(policy.Buffer())),
			Busy:            availability.Within(busy, span),
			Now:             now,
		}
		if len(availability.AvailableSlots(input)) > 0 {
			resp.Dates = append(resp.Dates, day.String())
		}
	}
	return resp, nil
}

func (u *availabilityUsecase) findProvider(ctx context.Context, providerID uuid.UUID) (*entity.Provider, error) {
	provider, err := u.providerRepo.FindByID(ctx, providerID)
	if err != nil {
		u.log.Warnf("Failed to find provider %s: %+v", providerID, err)
		return nil, err
	}
	if provider == nil {
		return nil, ErrProviderNotFound
	}
	return provider, nil
}

// offersDuration reports whether the provider sells an active lesson of that length.
func (u *availabilityUsecase) offersDuration(ctx context.Context, providerID uuid.UUID, duration int) (bool, error) {
	lessonType, err := u.lessonTypeRepo.FindActiveByDuration(ctx, providerID, duration)
	if err != nil {
		u.log.Warnf("Failed to find lesson type for provider %s: %+v", providerID, err)
		return false, err
	}
	return lessonType != nil, nil
}
