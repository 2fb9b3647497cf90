package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"lesson-booking/internal/domain/entity"
	"lesson-booking/internal/domain/gateway"
	"lesson-booking/internal/domain/repository"
	"lesson-booking/pkg/clock"

	"github.com/sirupsen/logrus"
)

// Dispatch windows relative to the moment a run starts.
const (
	reminder24hFrom = 23 * time.Hour
	reminder24hTo   = 25 * time.Hour
	reminder1hFrom  = 50 * time.Minute
	reminder1hTo    = 70 * time.Minute
	postSessionLag  = 5 * time.Minute
)

type NotificationUsecase interface {
	// Run sends reminders and post-session messages in one pass.
	Run(ctx context.Context) (*entity.NotificationRunResult, error)
	RunReminders(ctx context.Context) (*entity.NotificationRunResult, error)
	RunPostSession(ctx context.Context) (*entity.NotificationRunResult, error)
}

type notificationUsecase struct {
	log         *logrus.Logger
	bookingRepo repository.BookingRepository
	notifier    gateway.Notifier
	clock       clock.Clock
	baseURL     string
}

func NewNotificationUsecase(
	log *logrus.Logger,
	bookingRepo repository.BookingRepository,
	notifier gateway.Notifier,
	clk clock.Clock,
	baseURL string,
) NotificationUsecase {
	return &notificationUsecase{
		log:         log,
		bookingRepo: bookingRepo,
		notifier:    notifier,
		clock:       clk,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

func (u *notificationUsecase) Run(ctx context.Context) (*entity.NotificationRunResult, error) {
	now := u.clock.Now()
	result := &entity.NotificationRunResult{RanAt: now.UTC()}
	if err := u.reminders(ctx, now, result); err != nil {
		return nil, err
	}
	if err := u.postSession(ctx, now, result); err != nil {
		return nil, err
	}
	u.logResult(result)
	return result, nil
}

func (u *notificationUsecase) RunReminders(ctx context.Context) (*entity.NotificationRunResult, error) {
	now := u.clock.Now()
	result := &entity.NotificationRunResult{RanAt: now.UTC()}
	if err := u.reminders(ctx, now, result); err != nil {
		return nil, err
	}
	u.logResult(result)
	return result, nil
}

func (u *notificationUsecase) RunPostSession(ctx context.Context) (*entity.NotificationRunResult, error) {
	now := u.clock.Now()
	result := &entity.NotificationRunResult{RanAt: now.UTC()}
	if err := u.postSession(ctx, now, result); err != nil {
		return nil, err
	}
	u.logResult(result)
	return result, nil
}

func (u *notificationUsecase) reminders(ctx context.Context, now time.Time, result *entity.NotificationRunResult) error {
	due24h, err := u.bookingRepo.FindDueStartingBetween(ctx, entity.FlagReminder24h, now.Add(reminder24hFrom), now.Add(reminder24hTo))
	if err != nil {
		u.log.Warnf("Failed to find bookings due a 24h reminder: %+v", err)
		return err
	}
	for i := range due24h {
		if u.dispatch(ctx, &due24h[i], entity.NotificationReminder24h, entity.FlagReminder24h) {
			result.Reminders24h++
		} else {
			result.Failed++
		}
	}

	due1h, err := u.bookingRepo.FindDueStartingBetween(ctx, entity.FlagReminder1h, now.Add(reminder1hFrom), now.Add(reminder1hTo))
	if err != nil {
		u.log.Warnf("Failed to find bookings due a 1h reminder: %+v", err)
		return err
	}
	for i := range due1h {
		if u.dispatch(ctx, &due1h[i], entity.NotificationReminder1h, entity.FlagReminder1h) {
			result.Reminders1h++
		} else {
			result.Failed++
		}
	}
	return nil
}

func (u *notificationUsecase) postSession(ctx context.Context, now time.Time, result *entity.NotificationRunResult) error {
	due, err := u.bookingRepo.FindDueEndedBefore(ctx, entity.FlagPostSession, now.Add(-postSessionLag))
	if err != nil {
		u.log.Warnf("Failed to find bookings due a post-session message: %+v", err)
		return err
	}
	for i := range due {
		if u.dispatch(ctx, &due[i], entity.NotificationPostSession, entity.FlagPostSession) {
			result.PostSession++
		} else {
			result.Failed++
		}
	}
	return nil
}

// dispatch sends one message and sets the flag only after the send succeeded. It reports
// false when nothing was sent or another run already claimed the flag.
func (u *notificationUsecase) dispatch(ctx context.Context, booking *entity.Booking, kind entity.NotificationKind, flag entity.NotificationFlag) bool {
	err := u.notifier.Notify(ctx, entity.Notification{
		Kind:      kind,
		To:        booking.ClientEmail,
		Booking:   booking,
		Provider:  &booking.Provider,
		ManageURL: manageURL(u.baseURL, booking.ManagementToken),
	})
	if err != nil {
		if !errors.Is(err, gateway.ErrNotifierDisabled) {
			u.log.Warnf("Failed to send %s for booking %s: %+v", kind, booking.ID, err)
		}
		return false
	}

	affected, err := u.bookingRepo.MarkNotificationSent(ctx, booking.ID, flag)
	if err != nil {
		u.log.Errorf("Sent %s for booking %s but failed to record it: %+v", kind, booking.ID, err)
		return false
	}
	if affected == 0 {
		u.log.Warnf("Flag %s of booking %s was already set by a concurrent run", flag, booking.ID)
		return false
	}
	return true
}

func (u *notificationUsecase) logResult(result *entity.NotificationRunResult) {
	u.log.Infof("Notification run: %d x 24h reminders, %d x 1h reminders, %d post-session, %d failed",
		result.Reminders24h, result.Reminders1h, result.PostSession, result.Failed)
}
