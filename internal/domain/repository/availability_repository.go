package repository

import (
	"context"

	"lesson-booking/internal/domain/entity"

	"github.com/google/uuid"
)

type WeeklyAvailabilityRepository interface {
	FindByProvider(ctx context.Context, providerID uuid.UUID) ([]entity.WeeklyAvailability, error)
	FindByProviderAndDay(ctx context.Context, providerID uuid.UUID, dayOfWeek int) (*entity.WeeklyAvailability, error)
	// UpsertMany replaces the rows for the given weekdays in one transaction.
	UpsertMany(ctx context.Context, providerID uuid.UUID, rows []entity.WeeklyAvailability) error
}

type DateOverrideRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.DateOverride, error)
	FindByProviderAndDate(ctx context.Context, providerID uuid.UUID, date string) (*entity.DateOverride, error)
	// FindInRange returns overrides with from <= date <= to, ordered by date.
	FindInRange(ctx context.Context, providerID uuid.UUID, from, to string) ([]entity.DateOverride, error)
	FindUpcoming(ctx context.Context, providerID uuid.UUID, from string) ([]entity.DateOverride, error)
	// Upsert inserts or replaces the override keyed by provider and date.
	Upsert(ctx context.Context, override *entity.DateOverride) error
	Delete(ctx context.Context, providerID, id uuid.UUID) (int64, error)
}

type LessonTypeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.LessonType, error)
	FindByProvider(ctx context.Context, providerID uuid.UUID, activeOnly bool) ([]entity.LessonType, error)
	FindActiveByDuration(ctx context.Context, providerID uuid.UUID, durationMinutes int) (*entity.LessonType, error)
	// UpsertMany inserts or updates lesson types keyed by provider and duration.
	UpsertMany(ctx context.Context, providerID uuid.UUID, lessonTypes []entity.LessonType) error
}
