package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditLog records a state change made by a provider or a client
type AuditLog struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProviderID *uuid.UUID `gorm:"type:uuid;index" json:"provider_id,omitempty"`
	Actor      string     `gorm:"type:varchar(20);not null;default:'provider'" json:"actor"`
	Action     string     `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata   JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

const (
	AuditActorProvider = "provider"
	AuditActorClient   = "client"
	AuditActorSystem   = "system"
)

const (
	AuditActionProviderLogin      = "provider.login"
	AuditActionBookingCreate      = "booking.create"
	AuditActionBookingCancel      = "booking.cancel"
	AuditActionAvailabilityUpdate = "availability.update"
	AuditActionOverrideCreate     = "override.create"
	AuditActionOverrideDelete     = "override.delete"
	AuditActionSettingsUpdate     = "settings.update"
	AuditActionLessonTypesUpdate  = "lesson_types.update"
	AuditActionCalendarConnect    = "calendar.connect"
)

// AuditLogFilter narrows audit log listings.
type AuditLogFilter struct {
	ProviderID uuid.UUID
	Action     string
	Limit      int
}
