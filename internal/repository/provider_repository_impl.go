package repository

import (
	"context"
	"errors"

	"lesson-booking/internal/domain/entity"
	domainRepo "lesson-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type providerRepository struct {
	db *gorm.DB
}

func NewProviderRepository(db *gorm.DB) domainRepo.ProviderRepository {
	return &providerRepository{db: db}
}

func (r *providerRepository) Create(ctx context.Context, provider *entity.Provider) error {
	return translateError(r.db.WithContext(ctx).Create(provider).Error)
}

func (r *providerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Provider, error) {
	var provider entity.Provider
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&provider).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &provider, nil
}

func (r *providerRepository) FindByEmail(ctx context.Context, email string) (*entity.Provider, error) {
	var provider entity.Provider
	err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&provider).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &provider, nil
}

func (r *providerRepository) Update(ctx context.Context, provider *entity.Provider) error {
	return r.db.WithContext(ctx).Model(provider).
		Select("Name", "Bio", "PhotoURL", "Timezone", "BufferMinutes", "MinNoticeHours",
			"MaxAdvanceBookingDays", "SlotStepMinutes", "PostSessionMessage", "GoogleCalendarID").
		Updates(provider).Error
}

func (r *providerRepository) UpdateCalendarToken(ctx context.Context, id uuid.UUID, refreshToken *string) error {
	return r.db.WithContext(ctx).Model(&entity.Provider{}).
		Where("id = ?", id).
		Update("google_refresh_token", refreshToken).Error
}
