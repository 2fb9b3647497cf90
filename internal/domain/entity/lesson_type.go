package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LessonType is a bookable lesson length with its price.
type LessonType struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProviderID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_lesson_provider_duration" json:"provider_id"`
	DurationMinutes int             `gorm:"not null;uniqueIndex:idx_lesson_provider_duration" json:"duration_minutes"`
	Price           decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Currency        string          `gorm:"type:varchar(3);not null;default:'EUR'" json:"currency"`
	IsActive        bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LessonType) TableName() string {
	return "lesson_types"
}

func (l *LessonType) Duration() time.Duration {
	return time.Duration(l.DurationMinutes) * time.Minute
}
