package entity

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// Booking is a reserved lesson. Only confirmed bookings block availability.
type Booking struct {
	ID              uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProviderID      uuid.UUID     `gorm:"type:uuid;not null;index:idx_bookings_provider_start" json:"provider_id"`
	LessonTypeID    uuid.UUID     `gorm:"type:uuid;not null" json:"lesson_type_id"`
	ClientName      string        `gorm:"type:varchar(255);not null" json:"client_name"`
	ClientEmail     string        `gorm:"type:varchar(255);not null" json:"client_email"`
	ClientTimezone  string        `gorm:"type:varchar(64);not null" json:"client_timezone"`
	StartTime       time.Time     `gorm:"not null;index:idx_bookings_provider_start" json:"start_time"`
	EndTime         time.Time     `gorm:"not null" json:"end_time"`
	Status          BookingStatus `gorm:"type:varchar(20);not null;default:'confirmed';index" json:"status"`
	ManagementToken string        `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	MeetLink        *string       `gorm:"type:text" json:"meet_link,omitempty"`
	CalendarEventID *string       `gorm:"type:text" json:"-"`
	Reminder24hSent bool          `gorm:"column:reminder_24h_sent;not null;default:false" json:"reminder_24h_sent"`
	Reminder1hSent  bool          `gorm:"column:reminder_1h_sent;not null;default:false" json:"reminder_1h_sent"`
	PostSessionSent bool          `gorm:"not null;default:false" json:"post_session_sent"`
	CancelledAt     *time.Time    `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Provider   Provider   `gorm:"foreignKey:ProviderID" json:"-"`
	LessonType LessonType `gorm:"foreignKey:LessonTypeID" json:"lesson_type,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

// IsConfirmed checks if booking is confirmed
func (b *Booking) IsConfirmed() bool {
	return b.Status == BookingStatusConfirmed
}

// IsCancelled checks if booking is cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

// Cancel changes booking status to cancelled and stamps the cancellation time
func (b *Booking) Cancel(at time.Time) {
	b.Status = BookingStatusCancelled
	b.CancelledAt = &at
}

func (b *Booking) DurationMinutes() int {
	return int(b.EndTime.Sub(b.StartTime) / time.Minute)
}

// ClientLocation resolves the timezone the client booked from, falling back to UTC.
func (b *Booking) ClientLocation() *time.Location {
	loc, err := time.LoadLocation(b.ClientTimezone)
	if err != nil || b.ClientTimezone == "" {
		return time.UTC
	}
	return loc
}
