package entity

import (
	"time"

	"github.com/google/uuid"
)

// DateOverride replaces or blocks the weekly window on a single date.
type DateOverride struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProviderID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_override_provider_date" json:"provider_id"`
	Date       string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_override_provider_date" json:"date"`
	IsBlocked  bool      `gorm:"not null;default:false" json:"is_blocked"`
	StartTime  *string   `gorm:"type:varchar(5)" json:"start_time"`
	EndTime    *string   `gorm:"type:varchar(5)" json:"end_time"`
	Reason     *string   `gorm:"type:text" json:"reason"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DateOverride) TableName() string {
	return "date_overrides"
}

// HasCustomHours reports whether the override carries a replacement window.
func (o *DateOverride) HasCustomHours() bool {
	return !o.IsBlocked && o.StartTime != nil && o.EndTime != nil && *o.StartTime != "" && *o.EndTime != ""
}
