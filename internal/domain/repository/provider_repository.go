package repository

import (
	"context"

	"lesson-booking/internal/domain/entity"

	"github.com/google/uuid"
)

type ProviderRepository interface {
	Create(ctx context.Context, provider *entity.Provider) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Provider, error)
	FindByEmail(ctx context.Context, email string) (*entity.Provider, error)
	Update(ctx context.Context, provider *entity.Provider) error
	UpdateCalendarToken(ctx context.Context, id uuid.UUID, refreshToken *string) error
}
