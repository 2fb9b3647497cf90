package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lesson-booking/internal/domain/entity"
	domainRepo "lesson-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) domainRepo.BookingRepository {
	return &bookingRepository{db: db}
}

// CreateIfAvailable serializes writers of the same provider on a transaction-scoped advisory
// lock, then checks the buffered range and inserts. Writers of different providers do not
// contend.
func (r *bookingRepository) CreateIfAvailable(ctx context.Context, booking *entity.Booking, buffer time.Duration) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", booking.ProviderID.String()).Error; err != nil {
			return fmt.Errorf("acquire provider lock: %w", err)
		}

		var conflicts int64
		err := tx.Model(&entity.Booking{}).
			Where("provider_id = ? AND status = ?", booking.ProviderID, entity.BookingStatusConfirmed).
			Where("start_time < ? AND end_time > ?", booking.EndTime.Add(buffer), booking.StartTime.Add(-buffer)).
			Count(&conflicts).Error
		if err != nil {
			return err
		}
		if conflicts > 0 {
			return domainRepo.ErrBookingConflict
		}

		booking.Status = entity.BookingStatusConfirmed
		return translateError(tx.Omit("Provider", "LessonType").Create(booking).Error)
	})
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	var booking entity.Booking
	err := r.db.WithContext(ctx).Preload("Provider").Preload("LessonType").Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByToken(ctx context.Context, token string) (*entity.Booking, error) {
	var booking entity.Booking
	err := r.db.WithContext(ctx).Preload("Provider").Preload("LessonType").
		Where("management_token = ?", token).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindConfirmedOverlapping(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND status = ?", providerID, entity.BookingStatusConfirmed).
		Where("start_time < ? AND end_time > ?", to, from).
		Order("start_time ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindByFilter(ctx context.Context, filter domainRepo.BookingFilter) ([]entity.Booking, error) {
	var bookings []entity.Booking
	query := r.db.WithContext(ctx).Preload("LessonType").
		Where("provider_id = ?", filter.ProviderID).
		Where("start_time >= ? AND start_time <= ?", filter.From, filter.To)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.EndedBefore != nil {
		query = query.Where("end_time < ?", *filter.EndedBefore)
	}
	if err := query.Order("start_time ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// Cancel atomically cancels a booking ONLY if it is still confirmed.
// Returns affected rows: 1 = success, 0 = not confirmed anymore (prevents double-cancel race).
func (r *bookingRepository) Cancel(ctx context.Context, id uuid.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Booking{}).
		Where("id = ? AND status = ?", id, entity.BookingStatusConfirmed).
		Updates(map[string]interface{}{
			"status":       entity.BookingStatusCancelled,
			"cancelled_at": at,
		})
	return result.RowsAffected, result.Error
}

func (r *bookingRepository) SetCalendarEvent(ctx context.Context, id uuid.UUID, eventID, meetLink *string) error {
	return r.db.WithContext(ctx).Model(&entity.Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"calendar_event_id": eventID,
			"meet_link":         meetLink,
		}).Error
}

func (r *bookingRepository) FindDueStartingBetween(ctx context.Context, flag entity.NotificationFlag, from, to time.Time) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := r.db.WithContext(ctx).Preload("Provider").Preload("LessonType").
		Where("status = ?", entity.BookingStatusConfirmed).
		Where(fmt.Sprintf("%s = ?", flagColumn(flag)), false).
		Where("start_time >= ? AND start_time <= ?", from, to).
		Order("start_time ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindDueEndedBefore(ctx context.Context, flag entity.NotificationFlag, before time.Time) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := r.db.WithContext(ctx).Preload("Provider").Preload("LessonType").
		Where("status = ?", entity.BookingStatusConfirmed).
		Where(fmt.Sprintf("%s = ?", flagColumn(flag)), false).
		Where("end_time < ?", before).
		Order("end_time ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) MarkNotificationSent(ctx context.Context, id uuid.UUID, flag entity.NotificationFlag) (int64, error) {
	column := flagColumn(flag)
	result := r.db.WithContext(ctx).Model(&entity.Booking{}).
		Where(fmt.Sprintf("id = ? AND %s = ?", column), id, false).
		Update(column, true)
	return result.RowsAffected, result.Error
}

// flagColumn whitelists the column names that may be interpolated into queries.
func flagColumn(flag entity.NotificationFlag) string {
	switch flag {
	case entity.FlagReminder24h, entity.FlagReminder1h, entity.FlagPostSession:
		return string(flag)
	default:
		panic(fmt.Sprintf("unknown notification flag %q", flag))
	}
}
