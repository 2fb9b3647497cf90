package usecase

import (
	"context"
	"errors"
	"strings"

	"lesson-booking/config"
	"lesson-booking/internal/domain/entity"
	"lesson-booking/internal/domain/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var ErrSeedCredentialsMissing = errors.New("seed provider email and password are required")

type SeedUsecase interface {
	// SeedProvider creates the default provider account unless one with the same email
	// already exists. It reports whether a provider was created.
	SeedProvider(ctx context.Context, cfg config.SeedConfig) (*entity.Provider, bool, error)
}

type seedUsecase struct {
	log            *logrus.Logger
	providerRepo   repository.ProviderRepository
	weeklyRepo     repository.WeeklyAvailabilityRepository
	lessonTypeRepo repository.LessonTypeRepository
}

func NewSeedUsecase(
	log *logrus.Logger,
	providerRepo repository.ProviderRepository,
	weeklyRepo repository.WeeklyAvailabilityRepository,
	lessonTypeRepo repository.LessonTypeRepository,
) SeedUsecase {
	return &seedUsecase{
		log:            log,
		providerRepo:   providerRepo,
		weeklyRepo:     weeklyRepo,
		lessonTypeRepo: lessonTypeRepo,
	}
}

// defaultWeek is Mon/Wed/Fri afternoons, Tue/Thu from mid-morning, weekends off.
func defaultWeek() []entity.WeeklyAvailability {
	return []entity.WeeklyAvailability{
		{DayOfWeek: 0, StartTime: "09:00", EndTime: "17:00", IsActive: false},
		{DayOfWeek: 1, StartTime: "12:30", EndTime: "20:30", IsActive: true},
		{DayOfWeek: 2, StartTime: "10:00", EndTime: "20:30", IsActive: true},
		{DayOfWeek: 3, StartTime: "12:30", EndTime: "20:30", IsActive: true},
		{DayOfWeek: 4, StartTime: "10:00", EndTime: "20:30", IsActive: true},
		{DayOfWeek: 5, StartTime: "12:30", EndTime: "20:30", IsActive: true},
		{DayOfWeek: 6, StartTime: "09:00", EndTime: "17:00", IsActive: false},
	}
}

func defaultLessonTypes() []entity.LessonType {
	return []entity.LessonType{
		{DurationMinutes: 30, Price: decimal.NewFromInt(40), Currency: defaultCurrency, IsActive: true},
		{DurationMinutes: 60, Price: decimal.NewFromInt(70), Currency: defaultCurrency, IsActive: true},
		{DurationMinutes: 90, Price: decimal.NewFromInt(95), Currency: defaultCurrency, IsActive: true},
	}
}

func (u *seedUsecase) SeedProvider(ctx context.Context, cfg config.SeedConfig) (*entity.Provider, bool, error) {
	email := strings.ToLower(strings.TrimSpace(cfg.Email))
	if email == "" || cfg.Password == "" {
		return nil, false, ErrSeedCredentialsMissing
	}

	existing, err := u.providerRepo.FindByEmail(ctx, email)
	if err != nil {
		u.log.Warnf("Failed to look up seed provider: %+v", err)
		return nil, false, err
	}
	if existing != nil {
		u.log.Infof("Provider %s already exists, skipping seed", email)
		return existing, false, nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, false, err
	}

	timezone := cfg.Timezone
	if timezone == "" {
		timezone = entity.DefaultTimezone
	}

	provider := &entity.Provider{
		Email:                 email,
		PasswordHash:          string(hashedPassword),
		Name:                  cfg.Name,
		Timezone:              timezone,
		BufferMinutes:         0,
		MinNoticeHours:        24,
		MaxAdvanceBookingDays: 28,
		SlotStepMinutes:       entity.DefaultSlotStepMins,
		GoogleCalendarID:      entity.DefaultCalendarID,
	}
	if err := u.providerRepo.Create(ctx, provider); err != nil {
		u.log.Warnf("Failed to create seed provider: %+v", err)
		return nil, false, err
	}

	week := defaultWeek()
	for i := range week {
		week[i].ProviderID = provider.ID
	}
	if err := u.weeklyRepo.UpsertMany(ctx, provider.ID, week); err != nil {
		u.log.Warnf("Failed to seed weekly availability: %+v", err)
		return nil, false, err
	}

	lessonTypes := defaultLessonTypes()
	for i := range lessonTypes {
		lessonTypes[i].ProviderID = provider.ID
	}
	if err := u.lessonTypeRepo.UpsertMany(ctx, provider.ID, lessonTypes); err != nil {
		u.log.Warnf("Failed to seed lesson types: %+v", err)
		return nil, false, err
	}

	u.log.Infof("Seeded provider %s (%s)", provider.Email, provider.ID)
	return provider, true, nil
}
