package usecase

import (
	"context"
	"errors"
	"strings"

	"lesson-booking/internal/availability"
	"lesson-booking/internal/converter"
	"lesson-booking/internal/delivery/dto"
	"lesson-booking/internal/domain/entity"
	"lesson-booking/internal/domain/repository"
	"lesson-booking/internal/service"
	"lesson-booking/pkg/clock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidTimeWindow = errors.New("start_time must be before end_time")
	ErrDuplicateWeekday  = errors.New("each day_of_week may appear only once")
	ErrInvalidOverride   = errors.New("start_time and end_time are required when is_blocked is false")
	ErrOverrideNotFound  = errors.New("date override not found")
	ErrDuplicateDuration = errors.New("each duration_minutes may appear only once")
	ErrNegativePrice     = errors.New("price must not be negative")
)

const defaultCurrency = "EUR"

type ProviderUsecase interface {
	GetPublicProfile(ctx context.Context, providerID uuid.UUID) (*dto.ProviderProfileResponse, error)
	GetSettings(ctx context.Context, providerID uuid.UUID) (*dto.SettingsResponse, error)
	UpdateSettings(ctx context.Context, providerID uuid.UUID, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error)
	GetWeeklyAvailability(ctx context.Context, providerID uuid.UUID) ([]dto.WeeklyAvailabilityResponse, error)
	UpdateWeeklyAvailability(ctx context.Context, providerID uuid.UUID, req *dto.UpdateWeeklyAvailabilityRequest) ([]dto.WeeklyAvailabilityResponse, error)
	ListOverrides(ctx context.Context, providerID uuid.UUID) ([]dto.OverrideResponse, error)
	CreateOverride(ctx context.Context, providerID uuid.UUID, req *dto.CreateOverrideRequest) (*dto.OverrideResponse, error)
	DeleteOverride(ctx context.Context, providerID, overrideID uuid.UUID) error
	GetLessonTypes(ctx context.Context, providerID uuid.UUID) ([]dto.LessonTypeResponse, error)
	UpdateLessonTypes(ctx context.Context, providerID uuid.UUID, req *dto.UpdateLessonTypesRequest) ([]dto.LessonTypeResponse, error)
}

type providerUsecase struct {
	log            *logrus.Logger
	providerRepo   repository.ProviderRepository
	weeklyRepo     repository.WeeklyAvailabilityRepository
	overrideRepo   repository.DateOverrideRepository
	lessonTypeRepo repository.LessonTypeRepository
	auditService   service.AuditService
	clock          clock.Clock
}

func NewProviderUsecase(
	log *logrus.Logger,
	providerRepo repository.ProviderRepository,
	weeklyRepo repository.WeeklyAvailabilityRepository,
	overrideRepo repository.DateOverrideRepository,
	lessonTypeRepo repository.LessonTypeRepository,
	auditService service.AuditService,
	clk clock.Clock,
) ProviderUsecase {
	return &providerUsecase{
		log:            log,
		providerRepo:   providerRepo,
		weeklyRepo:     weeklyRepo,
		overrideRepo:   overrideRepo,
		lessonTypeRepo: lessonTypeRepo,
		auditService:   auditService,
		clock:          clk,
	}
}

// GetPublicProfile returns the provider with its active lesson types.
func (u *providerUsecase) GetPublicProfile(ctx context.Context, providerID uuid.UUID) (*dto.ProviderProfileResponse, error) {
	provider, err := u.getProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}

	lessonTypes, err := u.lessonTypeRepo.FindByProvider(ctx, providerID, true)
	if err != nil {
		u.log.Warnf("Failed to find lesson types for provider %s: %+v", providerID, err)
		return nil, err
	}

	return converter.ProviderToProfileResponse(provider, lessonTypes), nil
}

func (u *providerUsecase) GetSettings(ctx context.Context, providerID uuid.UUID) (*dto.SettingsResponse, error) {
	provider, err := u.getProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	return converter.ProviderToSettingsResponse(provider), nil
}

// UpdateSettings applies the non-nil fields of req.
func (u *providerUsecase) UpdateSettings(ctx context.Context, providerID uuid.UUID, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	provider, err := u.getProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	before := converter.ProviderToSettingsResponse(provider)

	if req.Name != nil {
		provider.Name = strings.TrimSpace(*req.Name)
	}
	if req.Bio != nil {
		provider.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.PhotoURL != nil {
		provider.PhotoURL = strings.TrimSpace(*req.PhotoURL)
	}
	if req.Timezone != nil {
		provider.Timezone = *req.Timezone
	}
	if req.BufferMinutes != nil {
		provider.BufferMinutes = *req.BufferMinutes
	}
	if req.MinNoticeHours != nil {
		provider.MinNoticeHours = *req.MinNoticeHours
	}
	if req.MaxAdvanceBookingDays != nil {
		provider.MaxAdvanceBookingDays = *req.MaxAdvanceBookingDays
	}
	if req.SlotStepMinutes != nil {
		provider.SlotStepMinutes = *req.SlotStepMinutes
	}
	if req.PostSessionMessage != nil {
		provider.PostSessionMessage = strings.TrimSpace(*req.PostSessionMessage)
	}
	if req.GoogleCalendarID != nil {
		provider.GoogleCalendarID = *req.GoogleCalendarID
		provider.GoogleCalendarID = strings.Join(provider.CalendarIDs(), ",")
	}

	if err := u.providerRepo.Update(ctx, provider); err != nil {
		u.log.Warnf("Failed to update settings for provider %s: %+v", providerID, err)
		return nil, err
	}

	after := converter.ProviderToSettingsResponse(provider)
	if err := u.auditService.LogUpdate(ctx, service.ProviderActor(providerID), entity.AuditActionSettingsUpdate, "provider", providerID.String(), before, after); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return after, nil
}

func (u *providerUsecase) GetWeeklyAvailability(ctx context.Context, providerID uuid.UUID) ([]dto.WeeklyAvailabilityResponse, error) {
	rows, err := u.weeklyRepo.FindByProvider(ctx, providerID)
	if err != nil {
		u.log.Warnf("Failed to find weekly availability for provider %s: %+v", providerID, err)
		return nil, err
	}
	return converter.WeeklyAvailabilityToResponses(rows), nil
}

// UpdateWeeklyAvailability upserts the given weekdays; weekdays not listed are kept.
func (u *providerUsecase) UpdateWeeklyAvailability(ctx context.Context, providerID uuid.UUID, req *dto.UpdateWeeklyAvailabilityRequest) ([]dto.WeeklyAvailabilityResponse, error) {
	seen := make(map[int]bool, len(req.Days))
	rows := make([]entity.WeeklyAvailability, 0, len(req.Days))
	for _, item := range req.Days {
		day := *item.DayOfWeek
		if seen[day] {
			return nil, ErrDuplicateWeekday
		}
		seen[day] = true

		if err := validateWindow(item.StartTime, item.EndTime); err != nil {
			return nil, err
		}
		rows = append(rows, entity.WeeklyAvailability{
			ProviderID: providerID,
			DayOfWeek:  day,
			StartTime:  item.StartTime,
			EndTime:    item.EndTime,
			IsActive:   *item.IsActive,
		})
	}

	if err := u.weeklyRepo.UpsertMany(ctx, providerID, rows); err != nil {
		u.log.Warnf("Failed to update weekly availability for provider %s: %+v", providerID, err)
		return nil, err
	}

	updated, err := u.GetWeeklyAvailability(ctx, providerID)
	if err != nil {
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, service.ProviderActor(providerID), entity.AuditActionAvailabilityUpdate, "weekly_availability", providerID.String(), nil, req.Days); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return updated, nil
}

// ListOverrides returns overrides from today onwards in the provider timezone.
func (u *providerUsecase) ListOverrides(ctx context.Context, providerID uuid.UUID) ([]dto.OverrideResponse, error) {
	provider, err := u.getProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}

	today := availability.DayIn(u.clock.Now(), provider.Location())
	overrides, err := u.overrideRepo.FindUpcoming(ctx, providerID, today.String())
	if err != nil {
		u.log.Warnf("Failed to find date overrides for provider %s: %+v", providerID, err)
		return nil, err
	}
	return converter.OverridesToResponses(overrides), nil
}

// CreateOverride inserts the override for its date or replaces the existing one.
func (u *providerUsecase) CreateOverride(ctx context.Context, providerID uuid.UUID, req *dto.CreateOverrideRequest) (*dto.OverrideResponse, error) {
	day, err := availability.ParseDay(req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	override := &entity.DateOverride{
		ProviderID: providerID,
		Date:       day.String(),
		IsBlocked:  *req.IsBlocked,
		Reason:     trimmedOrNil(req.Reason),
	}
	if !override.IsBlocked {
		if req.StartTime == nil || req.EndTime == nil {
			return nil, ErrInvalidOverride
		}
		if err := validateWindow(*req.StartTime, *req.EndTime); err != nil {
			return nil, err
		}
		override.StartTime = req.StartTime
		override.EndTime = req.EndTime
	}

	if err := u.overrideRepo.Upsert(ctx, override); err != nil {
		u.log.Warnf("Failed to save date override for provider %s: %+v", providerID, err)
		return nil, err
	}

	saved, err := u.overrideRepo.FindByProviderAndDate(ctx, providerID, override.Date)
	if err != nil {
		u.log.Warnf("Failed to reload date override for provider %s: %+v", providerID, err)
		return nil, err
	}
	if saved == nil {
		saved = override
	}

	response := converter.OverrideToResponse(saved)
	if err := u.auditService.LogCreate(ctx, service.ProviderActor(providerID), entity.AuditActionOverrideCreate, "date_override", response.ID, response); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return &response, nil
}

func (u *providerUsecase) DeleteOverride(ctx context.Context, providerID, overrideID uuid.UUID) error {
	affected, err := u.overrideRepo.Delete(ctx, providerID, overrideID)
	if err != nil {
		u.log.Warnf("Failed to delete date override %s: %+v", overrideID, err)
		return err
	}
	if affected == 0 {
		return ErrOverrideNotFound
	}

	if err := u.auditService.LogDelete(ctx, service.ProviderActor(providerID), entity.AuditActionOverrideDelete, "date_override", overrideID.String(), nil); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}
	return nil
}

// GetLessonTypes returns all lesson types, including inactive ones.
func (u *providerUsecase) GetLessonTypes(ctx context.Context, providerID uuid.UUID) ([]dto.LessonTypeResponse, error) {
	lessonTypes, err := u.lessonTypeRepo.FindByProvider(ctx, providerID, false)
	if err != nil {
		u.log.Warnf("Failed to find lesson types for provider %s: %+v", providerID, err)
		return nil, err
	}
	return converter.LessonTypesToResponses(lessonTypes), nil
}

// UpdateLessonTypes upserts lesson types keyed by duration.
func (u *providerUsecase) UpdateLessonTypes(ctx context.Context, providerID uuid.UUID, req *dto.UpdateLessonTypesRequest) ([]dto.LessonTypeResponse, error) {
	seen := make(map[int]bool, len(req.LessonTypes))
	lessonTypes := make([]entity.LessonType, 0, len(req.LessonTypes))
	for _, item := range req.LessonTypes {
		if seen[item.DurationMinutes] {
			return nil, ErrDuplicateDuration
		}
		seen[item.DurationMinutes] = true

		if item.Price.LessThan(decimal.Zero) {
			return nil, ErrNegativePrice
		}
		currency := strings.ToUpper(strings.TrimSpace(item.Currency))
		if currency == "" {
			currency = defaultCurrency
		}
		lessonTypes = append(lessonTypes, entity.LessonType{
			ProviderID:      providerID,
			DurationMinutes: item.DurationMinutes,
			Price:           item.Price.Round(2),
			Currency:        currency,
			IsActive:        *item.IsActive,
		})
	}

	if err := u.lessonTypeRepo.UpsertMany(ctx, providerID, lessonTypes); err != nil {
		u.log.Warnf("Failed to update lesson types for provider %s: %+v", providerID, err)
		return nil, err
	}

	updated, err := u.GetLessonTypes(ctx, providerID)
	if err != nil {
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, service.ProviderActor(providerID), entity.AuditActionLessonTypesUpdate, "lesson_type", providerID.String(), nil, updated); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return updated, nil
}

func (u *providerUsecase) getProvider(ctx context.Context, providerID uuid.UUID) (*entity.Provider, error) {
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

func validateWindow(start, end string) error {
	startClock, err := availability.ParseClock(start)
	if err != nil {
		return availability.ErrInvalidClock
	}
	endClock, err := availability.ParseClock(end)
	if err != nil {
		return availability.ErrInvalidClock
	}
	if startClock.Hour*60+startClock.Minute >= endClock.Hour*60+endClock.Minute {
		return ErrInvalidTimeWindow
	}
	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
