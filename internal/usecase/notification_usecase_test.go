package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"lesson-booking/internal/domain/entity"
	"lesson-booking/internal/domain/gateway"
	"lesson-booking/pkg/clock"

	logtest "github.com/sirupsen/logrus/hooks/test"
)

func (f *fixture) notificationUsecase(now time.Time) NotificationUsecase {
	return NewNotificationUsecase(quietLogger(), f.bookings, f.notifier, clock.Fixed(now), "https://lessons.example.com")
}

func TestNotificationRun_Windows(t *testing.T) {
	f := newFixture()
	now := mondayMorning

	in24h := f.seedBooking(now.Add(24*time.Hour), entity.BookingStatusConfirmed)
	edge23h := f.seedBooking(now.Add(23*time.Hour), entity.BookingStatusConfirmed)
	tooFar := f.seedBooking(now.Add(26*time.Hour), entity.BookingStatusConfirmed)
	in1h := f.seedBooking(now.Add(time.Hour), entity.BookingStatusConfirmed)
	// Ended 10 minutes ago.
	ended := f.seedBooking(now.Add(-70*time.Minute), entity.BookingStatusConfirmed)
	// Ended 2 minutes ago, still inside the post-session lag.
	justEnded := f.seedBooking(now.Add(-62*time.Minute), entity.BookingStatusConfirmed)
	f.seedBooking(now.Add(24*time.Hour+30*time.Minute), entity.BookingStatusCancelled)

	result, err := f.notificationUsecase(now).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Reminders24h != 2 || result.Reminders1h != 1 || result.PostSession != 1 || result.Failed != 0 {
		t.Fatalf("unexpected result %+v", result)
	}

	flags := map[string]entity.Booking{}
	for _, b := range f.bookings.bookings {
		flags[b.ManagementToken] = b
	}
	if !flags[in24h.ManagementToken].Reminder24hSent || !flags[edge23h.ManagementToken].Reminder24hSent {
		t.Fatal("expected 24h reminders to be flagged")
	}
	if flags[tooFar.ManagementToken].Reminder24hSent {
		t.Fatal("booking 26h out must not be reminded yet")
	}
	if !flags[in1h.ManagementToken].Reminder1hSent {
		t.Fatal("expected 1h reminder to be flagged")
	}
	if !flags[ended.ManagementToken].PostSessionSent || flags[justEnded.ManagementToken].PostSessionSent {
		t.Fatal("post-session flag set on the wrong bookings")
	}

	// A second pass finds nothing new.
	again, err := f.notificationUsecase(now).Run(context.Background())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if again.Reminders24h+again.Reminders1h+again.PostSession != 0 {
		t.Fatalf("expected an idempotent second run, got %+v", again)
	}
}

func TestNotificationRun_FlagsOnlyAfterSuccessfulSend(t *testing.T) {
	f := newFixture()
	now := mondayMorning
	b := f.seedBooking(now.Add(24*time.Hour), entity.BookingStatusConfirmed)
	f.notifier.failFor = b.ClientEmail

	result, err := f.notificationUsecase(now).RunReminders(context.Background())
	if err != nil {
		t.Fatalf("RunReminders: %v", err)
	}
	if result.Reminders24h != 0 || result.Failed != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	if f.bookings.bookings[0].Reminder24hSent {
		t.Fatal("flag must stay unset after a failed send")
	}

	f.notifier.failFor = ""
	result, err = f.notificationUsecase(now).RunReminders(context.Background())
	if err != nil {
		t.Fatalf("RunReminders: %v", err)
	}
	if result.Reminders24h != 1 || !f.bookings.bookings[0].Reminder24hSent {
		t.Fatalf("expected retry to succeed, got %+v", result)
	}
}

func TestNotificationRun_DisabledNotifierSetsNoFlags(t *testing.T) {
	f := newFixture()
	now := mondayMorning
	f.seedBooking(now.Add(-2*time.Hour), entity.BookingStatusConfirmed)
	f.notifier.err = gateway.ErrNotifierDisabled

	result, err := f.notificationUsecase(now).RunPostSession(context.Background())
	if err != nil {
		t.Fatalf("RunPostSession: %v", err)
	}
	if result.PostSession != 0 || f.bookings.bookings[0].PostSessionSent {
		t.Fatalf("expected nothing flagged, got %+v", result)
	}
}

func TestNotificationRun_ManageURLAndProvider(t *testing.T) {
	f := newFixture()
	now := mondayMorning
	b := f.seedBooking(now.Add(time.Hour), entity.BookingStatusConfirmed)

	if _, err := f.notificationUsecase(now).RunReminders(context.Background()); err != nil {
		t.Fatalf("RunReminders: %v", err)
	}
	if len(f.notifier.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(f.notifier.sent))
	}
	msg := f.notifier.sent[0]
	if msg.Kind != entity.NotificationReminder1h || msg.ManageURL != "https://lessons.example.com/manage/"+b.ManagementToken {
		t.Fatalf("unexpected message %+v", msg)
	}
	if msg.Provider == nil || msg.Provider.Name != "Ada" {
		t.Fatal("expected provider to be attached")
	}
}

func TestNotificationRun_LogsOneSummary(t *testing.T) {
	f := newFixture()
	f.seedBooking(mondayMorning.Add(time.Hour), entity.BookingStatusConfirmed)
	log, hook := logtest.NewNullLogger()
	uc := NewNotificationUsecase(log, f.bookings, f.notifier, clock.Fixed(mondayMorning), "https://lessons.example.com")

	if _, err := uc.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	summaries := 0
	for _, entry := range hook.AllEntries() {
		if strings.HasPrefix(entry.Message, "Notification run:") {
			summaries++
		}
	}
	if summaries != 1 {
		t.Fatalf("expected one run summary, got %d", summaries)
	}
}
