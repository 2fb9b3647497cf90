package repository

import (
	"context"
	"errors"

	"lesson-booking/internal/domain/entity"
	domainRepo "lesson-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type weeklyAvailabilityRepository struct {
	db *gorm.DB
}

func NewWeeklyAvailabilityRepository(db *gorm.DB) domainRepo.WeeklyAvailabilityRepository {
	return &weeklyAvailabilityRepository{db: db}
}

func (r *weeklyAvailabilityRepository) FindByProvider(ctx context.Context, providerID uuid.UUID) ([]entity.WeeklyAvailability, error) {
	var rows []entity.WeeklyAvailability
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("day_of_week ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *weeklyAvailabilityRepository) FindByProviderAndDay(ctx context.Context, providerID uuid.UUID, dayOfWeek int) (*entity.WeeklyAvailability, error) {
	var row entity.WeeklyAvailability
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND day_of_week = ?", providerID, dayOfWeek).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *weeklyAvailabilityRepository) UpsertMany(ctx context.Context, providerID uuid.UUID, rows []entity.WeeklyAvailability) error {
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		rows[i].ProviderID = providerID
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider_id"}, {Name: "day_of_week"}},
			DoUpdates: clause.AssignmentColumns([]string{"start_time", "end_time", "is_active", "updated_at"}),
		}).Create(&rows).Error
	})
}

type dateOverrideRepository struct {
	db *gorm.DB
}

func NewDateOverrideRepository(db *gorm.DB) domainRepo.DateOverrideRepository {
	return &dateOverrideRepository{db: db}
}

func (r *dateOverrideRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.DateOverride, error) {
	var override entity.DateOverride
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&override).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &override, nil
}

func (r *dateOverrideRepository) FindByProviderAndDate(ctx context.Context, providerID uuid.UUID, date string) (*entity.DateOverride, error) {
	var override entity.DateOverride
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND date = ?", providerID, date).
		First(&override).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &override, nil
}

func (r *dateOverrideRepository) FindInRange(ctx context.Context, providerID uuid.UUID, from, to string) ([]entity.DateOverride, error) {
	var overrides []entity.DateOverride
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND date >= ? AND date <= ?", providerID, from, to).
		Order("date ASC").
		Find(&overrides).Error
	if err != nil {
		return nil, err
	}
	return overrides, nil
}

func (r *dateOverrideRepository) FindUpcoming(ctx context.Context, providerID uuid.UUID, from string) ([]entity.DateOverride, error) {
	var overrides []entity.DateOverride
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND date >= ?", providerID, from).
		Order("date ASC").
		Find(&overrides).Error
	if err != nil {
		return nil, err
	}
	return overrides, nil
}

func (r *dateOverrideRepository) Upsert(ctx context.Context, override *entity.DateOverride) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_blocked", "start_time", "end_time", "reason", "updated_at"}),
	}).Create(override).Error
}

func (r *dateOverrideRepository) Delete(ctx context.Context, providerID, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND provider_id = ?", id, providerID).
		Delete(&entity.DateOverride{})
	return result.RowsAffected, result.Error
}

type lessonTypeRepository struct {
	db *gorm.DB
}

func NewLessonTypeRepository(db *gorm.DB) domainRepo.LessonTypeRepository {
	return &lessonTypeRepository{db: db}
}

func (r *lessonTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.LessonType, error) {
	var lessonType entity.LessonType
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&lessonType).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &lessonType, nil
}

func (r *lessonTypeRepository) FindByProvider(ctx context.Context, providerID uuid.UUID, activeOnly bool) ([]entity.LessonType, error) {
	var lessonTypes []entity.LessonType
	query := r.db.WithContext(ctx).Where("provider_id = ?", providerID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("duration_minutes ASC").Find(&lessonTypes).Error; err != nil {
		return nil, err
	}
	return lessonTypes, nil
}

func (r *lessonTypeRepository) FindActiveByDuration(ctx context.Context, providerID uuid.UUID, durationMinutes int) (*entity.LessonType, error) {
	var lessonType entity.LessonType
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND duration_minutes = ? AND is_active = ?", providerID, durationMinutes, true).
		First(&lessonType).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &lessonType, nil
}

func (r *lessonTypeRepository) UpsertMany(ctx context.Context, providerID uuid.UUID, lessonTypes []entity.LessonType) error {
	if len(lessonTypes) == 0 {
		return nil
	}
	for i := range lessonTypes {
		lessonTypes[i].ProviderID = providerID
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider_id"}, {Name: "duration_minutes"}},
			DoUpdates: clause.AssignmentColumns([]string{"price", "currency", "is_active", "updated_at"}),
		}).Create(&lessonTypes).Error
	})
}
