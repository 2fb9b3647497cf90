package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"lesson-booking/internal/domain/entity"
)

const dateTimeLayout = "Monday 2 January 2006, 15:04 MST"

type message struct {
	Subject string
	HTML    string
}

type templateData struct {
	ClientName   string
	ClientEmail  string
	ProviderName string
	StartTime    string
	Duration     int
	MeetLink     string
	ManageURL    string
	Message      string
}

var bodies = map[entity.NotificationKind]*template.Template{
	entity.NotificationBookingConfirmation: template.Must(template.New("confirmation").Parse(`
<p>Hi {{.ClientName}},</p>
<p>Your {{.Duration}} minute lesson with {{.ProviderName}} is confirmed for <strong>{{.StartTime}}</strong>.</p>
{{if .MeetLink}}<p>Join the lesson: <a href="{{.MeetLink}}">{{.MeetLink}}</a></p>{{end}}
<p>Need to cancel? <a href="{{.ManageURL}}">Manage your booking</a>.</p>`)),

	entity.NotificationProviderNewBooking: template.Must(template.New("provider_new_booking").Parse(`
<p>Hi {{.ProviderName}},</p>
<p>{{.ClientName}} ({{.ClientEmail}}) booked a {{.Duration}} minute lesson on <strong>{{.StartTime}}</strong>.</p>`)),

	entity.NotificationCancellationConfirmation: template.Must(template.New("cancellation").Parse(`
<p>Hi {{.ClientName}},</p>
<p>Your lesson with {{.ProviderName}} on <strong>{{.StartTime}}</strong> has been cancelled.</p>`)),

	entity.NotificationReminder24h: template.Must(template.New("reminder_24h").Parse(`
<p>Hi {{.ClientName}},</p>
<p>This is a reminder that your {{.Duration}} minute lesson with {{.ProviderName}} starts in 24 hours, on <strong>{{.StartTime}}</strong>.</p>
{{if .MeetLink}}<p>Join the lesson: <a href="{{.MeetLink}}">{{.MeetLink}}</a></p>{{end}}
<p>Can't make it? <a href="{{.ManageURL}}">Manage your booking</a>.</p>`)),

	entity.NotificationReminder1h: template.Must(template.New("reminder_1h").Parse(`
<p>Hi {{.ClientName}},</p>
<p>Your lesson with {{.ProviderName}} starts soon, at <strong>{{.StartTime}}</strong>.</p>
{{if .MeetLink}}<p>Join the lesson: <a href="{{.MeetLink}}">{{.MeetLink}}</a></p>{{end}}`)),

	entity.NotificationPostSession: template.Must(template.New("post_session").Parse(`
<p>Hi {{.ClientName}},</p>
<p>Thanks for your lesson with {{.ProviderName}}.</p>
{{if .Message}}<p>{{.Message}}</p>{{end}}`)),
}

func subject(kind entity.NotificationKind, n entity.Notification) string {
	providerName := n.Provider.Name
	switch kind {
	case entity.NotificationBookingConfirmation:
		return fmt.Sprintf("Lesson confirmed with %s", providerName)
	case entity.NotificationProviderNewBooking:
		return fmt.Sprintf("New booking: %s", n.Booking.ClientName)
	case entity.NotificationCancellationConfirmation:
		return fmt.Sprintf("Booking cancelled with %s", providerName)
	case entity.NotificationReminder24h:
		return fmt.Sprintf("Reminder: lesson with %s in 24 hours", providerName)
	case entity.NotificationReminder1h:
		return fmt.Sprintf("Starting soon: lesson with %s", providerName)
	case entity.NotificationPostSession:
		return fmt.Sprintf("Thanks for your lesson with %s", providerName)
	default:
		return ""
	}
}

// render builds the subject and HTML body. Times are shown in the recipient's timezone:
// the client's for client mail, the provider's for provider mail.
func render(n entity.Notification) (*message, error) {
	if n.Booking == nil || n.Provider == nil {
		return nil, fmt.Errorf("notification %s is missing booking or provider", n.Kind)
	}
	tmpl, ok := bodies[n.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown notification kind %q", n.Kind)
	}

	loc := n.Booking.ClientLocation()
	if n.Kind == entity.NotificationProviderNewBooking {
		loc = n.Provider.Location()
	}

	data := templateData{
		ClientName:   n.Booking.ClientName,
		ClientEmail:  n.Booking.ClientEmail,
		ProviderName: n.Provider.Name,
		StartTime:    formatInstant(n.Booking.StartTime, loc),
		Duration:     n.Booking.DurationMinutes(),
		ManageURL:    n.ManageURL,
		Message:      n.Provider.PostSessionMessage,
	}
	if n.Booking.MeetLink != nil {
		data.MeetLink = *n.Booking.MeetLink
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", n.Kind, err)
	}
	return &message{Subject: subject(n.Kind, n), HTML: buf.String()}, nil
}

func formatInstant(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateTimeLayout)
}
