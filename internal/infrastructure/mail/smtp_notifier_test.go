package mail

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"lesson-booking/config"
	"lesson-booking/internal/domain/entity"
	"lesson-booking/internal/domain/gateway"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

type recordingSender struct {
	sent []*gomail.Message
	err  error
}

func (s *recordingSender) DialAndSend(m ...*gomail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, m...)
	return nil
}

func sampleNotification(kind entity.NotificationKind) entity.Notification {
	meet := "https://meet.google.com/abc-defg-hij"
	start := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)
	return entity.Notification{
		Kind: kind,
		To:   "client@example.com",
		Booking: &entity.Booking{
			ClientName:     "Ada",
			ClientEmail:    "client@example.com",
			ClientTimezone: "America/New_York",
			StartTime:      start,
			EndTime:        start.Add(60 * time.Minute),
			MeetLink:       &meet,
		},
		Provider:  &entity.Provider{Name: "Marie", Timezone: "Europe/Paris", PostSessionMessage: "See you next week"},
		ManageURL: "https://lessons.example.com/manage/tok",
	}
}

func TestRenderUsesRecipientTimezone(t *testing.T) {
	msg, err := render(sampleNotification(entity.NotificationBookingConfirmation))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if msg.Subject != "Lesson confirmed with Marie" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	// 09:00 UTC is 04:00 in New York in February.
	if !strings.Contains(msg.HTML, "04:00 EST") {
		t.Fatalf("expected client-local time in body: %s", msg.HTML)
	}
	if !strings.Contains(msg.HTML, "/manage/tok") || !strings.Contains(msg.HTML, "meet.google.com") {
		t.Fatalf("expected manage and meet links in body: %s", msg.HTML)
	}

	msg, err = render(sampleNotification(entity.NotificationProviderNewBooking))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(msg.HTML, "10:00 CET") {
		t.Fatalf("expected provider-local time in body: %s", msg.HTML)
	}
}

func TestRenderEveryKind(t *testing.T) {
	kinds := []entity.NotificationKind{
		entity.NotificationBookingConfirmation,
		entity.NotificationProviderNewBooking,
		entity.NotificationCancellationConfirmation,
		entity.NotificationReminder24h,
		entity.NotificationReminder1h,
		entity.NotificationPostSession,
	}
	for _, kind := range kinds {
		msg, err := render(sampleNotification(kind))
		if err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		if msg.Subject == "" || msg.HTML == "" {
			t.Fatalf("%s: empty message", kind)
		}
	}

	if _, err := render(sampleNotification("unknown")); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestNotifySendsMessage(t *testing.T) {
	s := &recordingSender{}
	n := &smtpNotifier{dialer: s, from: "noreply@example.com", log: logrus.New()}

	if err := n.Notify(context.Background(), sampleNotification(entity.NotificationReminder1h)); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(s.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(s.sent))
	}
	if to := s.sent[0].GetHeader("To"); len(to) != 1 || to[0] != "client@example.com" {
		t.Fatalf("unexpected recipient %v", to)
	}
}

func TestNotifyPropagatesSendFailure(t *testing.T) {
	s := &recordingSender{err: errors.New("connection refused")}
	n := &smtpNotifier{dialer: s, from: "noreply@example.com", log: logrus.New()}

	if err := n.Notify(context.Background(), sampleNotification(entity.NotificationReminder1h)); err == nil {
		t.Fatal("expected error")
	}
}

func TestDisabledNotifier(t *testing.T) {
	n := NewNotifier(config.SMTPConfig{}, logrus.New())
	err := n.Notify(context.Background(), sampleNotification(entity.NotificationReminder1h))
	if !errors.Is(err, gateway.ErrNotifierDisabled) {
		t.Fatalf("expected ErrNotifierDisabled, got %v", err)
	}
}
