package mail

import (
	"context"
	"fmt"

	"lesson-booking/config"
	"lesson-booking/internal/domain/entity"
	"lesson-booking/internal/domain/gateway"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// sender abstracts the SMTP dialer so rendering can be tested without a server.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpNotifier struct {
	dialer sender
	from   string
	log    *logrus.Logger
}

// NewNotifier returns an SMTP notifier, or a disabled one when SMTP is not configured.
func NewNotifier(cfg config.SMTPConfig, log *logrus.Logger) gateway.Notifier {
	if !cfg.Enabled() {
		log.Warn("SMTP not configured, emails will not be sent")
		return disabledNotifier{}
	}
	return &smtpNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
		log:    log,
	}
}

func (n *smtpNotifier) Notify(ctx context.Context, notification entity.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if notification.To == "" {
		return fmt.Errorf("notification %s has no recipient", notification.Kind)
	}

	msg, err := render(notification)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", notification.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send %s email: %w", notification.Kind, err)
	}

	n.log.Infof("Sent %s email for booking %s", notification.Kind, notification.Booking.ID)
	return nil
}

type disabledNotifier struct{}

func (disabledNotifier) Notify(context.Context, entity.Notification) error {
	return gateway.ErrNotifierDisabled
}
