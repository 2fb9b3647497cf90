package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"lesson-booking/internal/availability"
	"lesson-booking/internal/converter"
	"lesson-booking/internal/delivery/dto"
	"lesson-booking/internal/domain/entity"
	"lesson-booking/internal/domain/gateway"
	"lesson-booking/internal/domain/repository"
	"lesson-booking/internal/service"
	"lesson-booking/pkg/clock"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidTimeFormat   = errors.New("invalid time, use an RFC3339 timestamp")
	ErrInvalidTimezone     = errors.New("invalid timezone, use an IANA name")
	ErrLessonTypeNotFound  = errors.New("lesson type not found or inactive")
	ErrSlotUnavailable     = errors.New("This slot is no longer available. Please choose another time.")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrBookingNotConfirmed = errors.New("booking is already cancelled or completed")
)

// CancellationTooLateError rejects a cancellation inside the provider's notice window.
type CancellationTooLateError struct {
	MinNoticeHours int
}

func (e *CancellationTooLateError) Error() string {
	return fmt.Sprintf("Cancellations must be made at least %d hours in advance. Please contact the teacher directly.", e.MinNoticeHours)
}

// ErrCancellationTooLate matches any CancellationTooLateError with errors.Is.
var ErrCancellationTooLate = &CancellationTooLateError{}

func (e *CancellationTooLateError) Is(target error) bool {
	_, ok := target.(*CancellationTooLateError)
	return ok
}

const (
	defaultListLookback  = 30 * 24 * time.Hour
	defaultListLookahead = 90 * 24 * time.Hour
)

type BookingUsecase interface {
	CreateBooking(ctx context.Context, providerID uuid.UUID, req *dto.CreateBookingRequest) (*dto.BookingCreatedResponse, error)
	GetByToken(ctx context.Context, token string) (*dto.ManagedBookingResponse, error)
	CancelByToken(ctx context.Context, token string) (*dto.CancelBookingResponse, error)
	ListBookings(ctx context.Context, providerID uuid.UUID, query *dto.BookingListQuery) (*dto.BookingListResponse, error)
}

type bookingUsecase struct {
	slotPlanner
	providerRepo   repository.ProviderRepository
	lessonTypeRepo repository.LessonTypeRepository
	notifier       gateway.Notifier
	publisher      gateway.EventPublisher
	auditService   service.AuditService
	baseURL        string
}

func NewBookingUsecase(
	log *logrus.Logger,
	providerRepo repository.ProviderRepository,
	weeklyRepo repository.WeeklyAvailabilityRepository,
	overrideRepo repository.DateOverrideRepository,
	lessonTypeRepo repository.LessonTypeRepository,
	bookingRepo repository.BookingRepository,
	calendar gateway.CalendarGateway,
	notifier gateway.Notifier,
	publisher gateway.EventPublisher,
	auditService service.AuditService,
	clk clock.Clock,
	baseURL string,
) BookingUsecase {
	return &bookingUsecase{
		slotPlanner: slotPlanner{
			log:          log,
			weeklyRepo:   weeklyRepo,
			overrideRepo: overrideRepo,
			bookingRepo:  bookingRepo,
			calendar:     calendar,
			clock:        clk,
		},
		providerRepo:   providerRepo,
		lessonTypeRepo: lessonTypeRepo,
		notifier:       notifier,
		publisher:      publisher,
		auditService:   auditService,
		baseURL:        strings.TrimRight(baseURL, "/"),
	}
}

// CreateBooking reserves a lesson.
//
// Flow:
// 1. Resolve provider and active lesson type
// 2. Require the start to be one of the slots currently offered for that date
// 3. Insert under the per-provider lock, re-checking buffered overlap
// 4. Best-effort: calendar event with meet link, emails, event, audit
func (u *bookingUsecase) CreateBooking(ctx context.Context, providerID uuid.UUID, req *dto.CreateBookingRequest) (*dto.BookingCreatedResponse, error) {
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	clientTimezone := strings.TrimSpace(req.ClientTimezone)
	if _, err := time.LoadLocation(clientTimezone); err != nil || clientTimezone == "" {
		return nil, ErrInvalidTimezone
	}
	lessonTypeID, err := uuid.Parse(req.LessonTypeID)
	if err != nil {
		return nil, ErrLessonTypeNotFound
	}

	provider, err := u.providerRepo.FindByID(ctx, providerID)
	if err != nil {
		u.log.Warnf("Failed to find provider %s: %+v", providerID, err)
		return nil, err
	}
	if provider == nil {
		return nil, ErrProviderNotFound
	}

	lessonType, err := u.lessonTypeRepo.FindByID(ctx, lessonTypeID)
	if err != nil {
		u.log.Warnf("Failed to find lesson type %s: %+v", lessonTypeID, err)
		return nil, err
	}
	if lessonType == nil || !lessonType.IsActive || lessonType.ProviderID != provider.ID {
		return nil, ErrLessonTypeNotFound
	}

	start = start.UTC()
	input, err := u.dayInput(ctx, provider, availability.DayIn(start, provider.Location()), lessonType.DurationMinutes)
	if err != nil {
		return nil, err
	}
	if !availability.Offers(input, start) {
		return nil, ErrSlotUnavailable
	}

	token, err := generateManagementToken()
	if err != nil {
		u.log.Errorf("Failed to generate management token: %+v", err)
		return nil, err
	}

	booking := &entity.Booking{
		ProviderID:      provider.ID,
		LessonTypeID:    lessonType.ID,
		ClientName:      strings.TrimSpace(req.ClientName),
		ClientEmail:     strings.ToLower(strings.TrimSpace(req.ClientEmail)),
		ClientTimezone:  clientTimezone,
		StartTime:       start,
		EndTime:         start.Add(lessonType.Duration()),
		Status:          entity.BookingStatusConfirmed,
		ManagementToken: token,
	}

	if err := u.bookingRepo.CreateIfAvailable(ctx, booking, input.Policy.Buffer()); err != nil {
		if errors.Is(err, repository.ErrBookingConflict) {
			return nil, ErrSlotUnavailable
		}
		u.log.Warnf("Failed to create booking for provider %s: %+v", provider.ID, err)
		return nil, err
	}

	u.log.Infof("Booking %s created for provider %s at %s", booking.ID, provider.ID, booking.StartTime.Format(time.RFC3339))

	u.attachCalendarEvent(ctx, provider, booking, lessonType)

	emailSent := u.notify(ctx, entity.NotificationBookingConfirmation, booking.ClientEmail, booking, provider)
	u.notify(ctx, entity.NotificationProviderNewBooking, provider.Email, booking, provider)
	u.publish(ctx, entity.BookingEventCreated, booking)

	if err := u.auditService.LogCreate(ctx, service.ClientActor(provider.ID), entity.AuditActionBookingCreate, "booking", booking.ID.String(), converter.BookingToResponse(booking)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return converter.BookingToCreatedResponse(booking, emailSent), nil
}

// GetByToken resolves a booking through its management token.
func (u *bookingUsecase) GetByToken(ctx context.Context, token string) (*dto.ManagedBookingResponse, error) {
	booking, provider, err := u.findByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	now := u.clock.Now()
	deadline := cancellationDeadline(booking, provider)

	return &dto.ManagedBookingResponse{
		ID:                   booking.ID,
		Status:               string(booking.Status),
		ClientName:           booking.ClientName,
		ClientTimezone:       booking.ClientTimezone,
		StartTime:            booking.StartTime.UTC(),
		EndTime:              booking.EndTime.UTC(),
		Duration:             booking.DurationMinutes(),
		MeetLink:             booking.MeetLink,
		ProviderName:         provider.Name,
		CanCancel:            booking.IsConfirmed() && !now.After(deadline),
		CancellationDeadline: deadline,
	}, nil
}

// CancelByToken cancels a confirmed booking that starts outside the notice window.
func (u *bookingUsecase) CancelByToken(ctx context.Context, token string) (*dto.CancelBookingResponse, error) {
	booking, provider, err := u.findByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !booking.IsConfirmed() {
		return nil, ErrBookingNotConfirmed
	}

	now := u.clock.Now()
	if now.After(cancellationDeadline(booking, provider)) {
		return nil, &CancellationTooLateError{MinNoticeHours: provider.MinNoticeHours}
	}

	affected, err := u.bookingRepo.Cancel(ctx, booking.ID, now)
	if err != nil {
		u.log.Warnf("Failed to cancel booking %s: %+v", booking.ID, err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrBookingNotConfirmed
	}
	booking.Cancel(now)

	u.log.Infof("Booking %s cancelled by client", booking.ID)

	if booking.CalendarEventID != nil && provider.CalendarConnected() {
		if err := u.calendar.DeleteEvent(ctx, provider, provider.PrimaryCalendarID(), *booking.CalendarEventID); err != nil {
			u.log.Warnf("Failed to delete calendar event for booking %s: %+v", booking.ID, err)
		}
	}

	emailSent := u.notify(ctx, entity.NotificationCancellationConfirmation, booking.ClientEmail, booking, provider)
	u.publish(ctx, entity.BookingEventCancelled, booking)

	if err := u.auditService.LogUpdate(ctx, service.ClientActor(provider.ID), entity.AuditActionBookingCancel, "booking", booking.ID.String(),
		string(entity.BookingStatusConfirmed), string(entity.BookingStatusCancelled)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return &dto.CancelBookingResponse{
		ID:          booking.ID,
		Status:      string(booking.Status),
		CancelledAt: booking.CancelledAt,
		EmailSent:   emailSent,
	}, nil
}

// ListBookings returns the provider's bookings starting inside [from, to], defaulting to
// the last 30 days through the next 90.
func (u *bookingUsecase) ListBookings(ctx context.Context, providerID uuid.UUID, query *dto.BookingListQuery) (*dto.BookingListResponse, error) {
	now := u.clock.Now()
	filter := repository.BookingFilter{
		ProviderID: providerID,
		From:       now.Add(-defaultListLookback),
		To:         now.Add(defaultListLookahead),
	}

	if query.From != "" {
		from, err := parseInstant(query.From)
		if err != nil {
			return nil, err
		}
		filter.From = from
	}
	if query.To != "" {
		to, err := parseInstant(query.To)
		if err != nil {
			return nil, err
		}
		filter.To = to
	}
	switch status := entity.BookingStatus(query.Status); status {
	case "":
	case entity.BookingStatusCompleted:
		// Completed is derived: a confirmed booking whose end has passed.
		confirmed := entity.BookingStatusConfirmed
		filter.Status = &confirmed
		filter.EndedBefore = &now
	default:
		filter.Status = &status
	}

	bookings, err := u.bookingRepo.FindByFilter(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to list bookings for provider %s: %+v", providerID, err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    len(bookings),
		From:     filter.From.UTC(),
		To:       filter.To.UTC(),
	}, nil
}

func (u *bookingUsecase) findByToken(ctx context.Context, token string) (*entity.Booking, *entity.Provider, error) {
	if token == "" {
		return nil, nil, ErrBookingNotFound
	}
	booking, err := u.bookingRepo.FindByToken(ctx, token)
	if err != nil {
		u.log.Warnf("Failed to find booking by token: %+v", err)
		return nil, nil, err
	}
	if booking == nil {
		return nil, nil, ErrBookingNotFound
	}

	provider, err := u.providerRepo.FindByID(ctx, booking.ProviderID)
	if err != nil {
		u.log.Warnf("Failed to find provider %s: %+v", booking.ProviderID, err)
		return nil, nil, err
	}
	if provider == nil {
		return nil, nil, ErrProviderNotFound
	}
	return booking, provider, nil
}

// attachCalendarEvent writes the lesson to the provider's calendar and stores the event
// id and meet link on the booking. Failures leave the booking without them.
func (u *bookingUsecase) attachCalendarEvent(ctx context.Context, provider *entity.Provider, booking *entity.Booking, lessonType *entity.LessonType) {
	if !provider.CalendarConnected() {
		return
	}

	created, err := u.calendar.CreateEvent(ctx, provider, entity.CalendarEvent{
		CalendarID:  provider.PrimaryCalendarID(),
		Summary:     fmt.Sprintf("Lesson with %s (%d min)", booking.ClientName, lessonType.DurationMinutes),
		Description: fmt.Sprintf("Client: %s\nDuration: %d min", booking.ClientEmail, lessonType.DurationMinutes),
		Start:       booking.StartTime,
		End:         booking.EndTime,
		Attendees:   []string{booking.ClientEmail},
		RequestID:   booking.ID.String(),
		Timezone:    provider.Timezone,
	})
	if err != nil {
		if !errors.Is(err, gateway.ErrCalendarNotConfigured) {
			u.log.Warnf("Failed to create calendar event for booking %s: %+v", booking.ID, err)
		}
		return
	}

	eventID := created.EventID
	var meetLink *string
	if created.MeetLink != "" {
		meetLink = &created.MeetLink
	}
	if err := u.bookingRepo.SetCalendarEvent(ctx, booking.ID, &eventID, meetLink); err != nil {
		u.log.Warnf("Failed to store calendar event for booking %s: %+v", booking.ID, err)
		return
	}
	booking.CalendarEventID = &eventID
	booking.MeetLink = meetLink
}

// notify reports whether the message was handed to the mail server.
func (u *bookingUsecase) notify(ctx context.Context, kind entity.NotificationKind, to string, booking *entity.Booking, provider *entity.Provider) bool {
	err := u.notifier.Notify(ctx, entity.Notification{
		Kind:      kind,
		To:        to,
		Booking:   booking,
		Provider:  provider,
		ManageURL: manageURL(u.baseURL, booking.ManagementToken),
	})
	if err != nil {
		if !errors.Is(err, gateway.ErrNotifierDisabled) {
			u.log.Warnf("Failed to send %s for booking %s: %+v", kind, booking.ID, err)
		}
		return false
	}
	return true
}

func (u *bookingUsecase) publish(ctx context.Context, eventType entity.BookingEventType, booking *entity.Booking) {
	if err := u.publisher.Publish(ctx, entity.NewBookingEvent(eventType, booking, u.clock.Now())); err != nil {
		u.log.Warnf("Failed to publish %s for booking %s: %+v", eventType, booking.ID, err)
	}
}

func cancellationDeadline(booking *entity.Booking, provider *entity.Provider) time.Time {
	return booking.StartTime.Add(-time.Duration(provider.MinNoticeHours) * time.Hour).UTC()
}

func manageURL(baseURL, token string) string {
	return baseURL + "/manage/" + token
}

// parseInstant accepts RFC3339 timestamps or plain YYYY-MM-DD dates (UTC midnight).
func parseInstant(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidTimeFormat
}

func generateManagementToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
