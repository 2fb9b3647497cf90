package entity

import (
	"time"

	"github.com/google/uuid"
)

// WeeklyAvailability is the recurring working window for one weekday (0 = Sunday).
type WeeklyAvailability struct {
	ID         int       `gorm:"primaryKey;autoIncrement" json:"id"`
	ProviderID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_weekly_provider_day" json:"provider_id"`
	DayOfWeek  int       `gorm:"not null;uniqueIndex:idx_weekly_provider_day" json:"day_of_week"`
	StartTime  string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime    string    `gorm:"type:varchar(5);not null" json:"end_time"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (WeeklyAvailability) TableName() string {
	return "weekly_availability"
}
