package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultTimezone     = "Europe/Paris"
	DefaultCalendarID   = "primary"
	DefaultSlotStepMins = 15
)

// Provider is the teacher offering lessons, together with their booking policy.
type Provider struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email                 string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash          string    `gorm:"type:varchar(255);not null" json:"-"`
	Name                  string    `gorm:"type:varchar(255);not null" json:"name"`
	Bio                   string    `gorm:"type:text" json:"bio"`
	PhotoURL              string    `gorm:"type:text" json:"photo_url"`
	Timezone              string    `gorm:"type:varchar(64);not null;default:'Europe/Paris'" json:"timezone"`
	BufferMinutes         int       `gorm:"not null;default:0" json:"buffer_minutes"`
	MinNoticeHours        int       `gorm:"not null;default:24" json:"min_notice_hours"`
	MaxAdvanceBookingDays int       `gorm:"not null;default:28" json:"max_advance_booking_days"`
	SlotStepMinutes       int       `gorm:"not null;default:15" json:"slot_step_minutes"`
	PostSessionMessage    string    `gorm:"type:text" json:"post_session_message"`
	GoogleCalendarID      string    `gorm:"type:text;not null;default:'primary'" json:"google_calendar_id"`
	GoogleRefreshToken    *string   `gorm:"type:text" json:"-"`
	CreatedAt             time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Provider) TableName() string {
	return "providers"
}

// Location resolves the provider timezone, falling back to UTC for unknown names.
func (p *Provider) Location() *time.Location {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil || p.Timezone == "" {
		return time.UTC
	}
	return loc
}

// CalendarConnected reports whether an external calendar refresh token is stored.
func (p *Provider) CalendarConnected() bool {
	return p.GoogleRefreshToken != nil && *p.GoogleRefreshToken != ""
}

// CalendarIDs splits the comma separated calendar list, defaulting to the primary calendar.
func (p *Provider) CalendarIDs() []string {
	var ids []string
	for _, id := range strings.Split(p.GoogleCalendarID, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return []string{DefaultCalendarID}
	}
	return ids
}

// PrimaryCalendarID is the calendar new events are written to.
func (p *Provider) PrimaryCalendarID() string {
	return p.CalendarIDs()[0]
}
