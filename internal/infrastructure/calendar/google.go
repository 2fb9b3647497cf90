package calendar

import (
	"context"
	"fmt"
	"time"

	"lesson-booking/config"
	"lesson-booking/internal/domain/entity"
	"lesson-booking/internal/domain/gateway"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

var tracer = otel.Tracer("lesson-booking/calendar")

type googleGateway struct {
	oauth *oauth2.Config
	log   *logrus.Logger
}

// NewGateway returns the Google Calendar gateway, or a no-op one when OAuth credentials
// are not configured.
func NewGateway(cfg config.GoogleConfig, log *logrus.Logger) gateway.CalendarGateway {
	if !cfg.Enabled() {
		log.Warn("Google OAuth not configured, external calendar disabled")
		return noopGateway{}
	}
	return &googleGateway{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{gcal.CalendarEventsScope, gcal.CalendarReadonlyScope},
		},
		log: log,
	}
}

func (g *googleGateway) service(ctx context.Context, provider *entity.Provider) (*gcal.Service, error) {
	if !provider.CalendarConnected() {
		return nil, gateway.ErrCalendarNotConfigured
	}
	ts := g.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: *provider.GoogleRefreshToken})
	return gcal.NewService(ctx, option.WithTokenSource(ts))
}

func (g *googleGateway) BusyRanges(ctx context.Context, provider *entity.Provider, from, to time.Time) (entity.BusyResult, error) {
	ctx, span := tracer.Start(ctx, "calendar.BusyRanges")
	defer span.End()

	result := entity.BusyResult{}
	if !provider.CalendarConnected() {
		return result, nil
	}

	svc, err := g.service(ctx, provider)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return result, fmt.Errorf("create calendar client: %w", err)
	}

	ids := provider.CalendarIDs()
	items := make([]*gcal.FreeBusyRequestItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, &gcal.FreeBusyRequestItem{Id: id})
	}
	span.SetAttributes(attribute.Int("calendar.count", len(ids)))

	resp, err := svc.Freebusy.Query(&gcal.FreeBusyRequest{
		TimeMin: from.UTC().Format(time.RFC3339),
		TimeMax: to.UTC().Format(time.RFC3339),
		Items:   items,
	}).Context(ctx).Do()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return result, fmt.Errorf("freebusy query: %w", err)
	}

	for _, id := range ids {
		cal, ok := resp.Calendars[id]
		if !ok {
			continue
		}
		if len(cal.Errors) > 0 {
			if result.Failed == nil {
				result.Failed = make(map[string]string)
			}
			result.Failed[id] = cal.Errors[0].Reason
			continue
		}
		for _, period := range cal.Busy {
			busy, err := parsePeriod(period)
			if err != nil {
				g.log.Warnf("Skipping unparsable busy period on calendar %s: %+v", id, err)
				continue
			}
			result.Busy = append(result.Busy, busy)
		}
	}

	span.SetAttributes(attribute.Int("calendar.busy_ranges", len(result.Busy)))
	return result, nil
}

func (g *googleGateway) CreateEvent(ctx context.Context, provider *entity.Provider, event entity.CalendarEvent) (*entity.CreatedEvent, error) {
	ctx, span := tracer.Start(ctx, "calendar.CreateEvent")
	defer span.End()

	svc, err := g.service(ctx, provider)
	if err != nil {
		return nil, err
	}

	attendees := make([]*gcal.EventAttendee, 0, len(event.Attendees))
	for _, email := range event.Attendees {
		attendees = append(attendees, &gcal.EventAttendee{Email: email})
	}

	calendarID := event.CalendarID
	if calendarID == "" {
		calendarID = provider.PrimaryCalendarID()
	}

	created, err := svc.Events.Insert(calendarID, &gcal.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Start:       &gcal.EventDateTime{DateTime: event.Start.Format(time.RFC3339), TimeZone: event.Timezone},
		End:         &gcal.EventDateTime{DateTime: event.End.Format(time.RFC3339), TimeZone: event.Timezone},
		Attendees:   attendees,
		ConferenceData: &gcal.ConferenceData{
			CreateRequest: &gcal.CreateConferenceRequest{
				RequestId:             event.RequestID,
				ConferenceSolutionKey: &gcal.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		},
	}).ConferenceDataVersion(1).SendUpdates("all").Context(ctx).Do()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("insert calendar event: %w", err)
	}

	out := &entity.CreatedEvent{EventID: created.Id, MeetLink: created.HangoutLink}
	if out.MeetLink == "" && created.ConferenceData != nil {
		for _, ep := range created.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" {
				out.MeetLink = ep.Uri
				break
			}
		}
	}
	return out, nil
}

func (g *googleGateway) DeleteEvent(ctx context.Context, provider *entity.Provider, calendarID, eventID string) error {
	ctx, span := tracer.Start(ctx, "calendar.DeleteEvent")
	defer span.End()

	svc, err := g.service(ctx, provider)
	if err != nil {
		return err
	}
	if calendarID == "" {
		calendarID = provider.PrimaryCalendarID()
	}
	if err := svc.Events.Delete(calendarID, eventID).SendUpdates("all").Context(ctx).Do(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("delete calendar event: %w", err)
	}
	return nil
}

func (g *googleGateway) AuthURL(state string) (string, error) {
	return g.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

func (g *googleGateway) Exchange(ctx context.Context, code string) (*entity.TokenGrant, error) {
	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange oauth code: %w", err)
	}
	// RefreshToken is empty when the account was already connected and consent was reused.
	return &entity.TokenGrant{
		RefreshToken: token.RefreshToken,
		AccessToken:  token.AccessToken,
		Expiry:       token.Expiry,
	}, nil
}

func parsePeriod(p *gcal.TimePeriod) (entity.BusyRange, error) {
	start, err := time.Parse(time.RFC3339, p.Start)
	if err != nil {
		return entity.BusyRange{}, err
	}
	end, err := time.Parse(time.RFC3339, p.End)
	if err != nil {
		return entity.BusyRange{}, err
	}
	return entity.BusyRange{Start: start.UTC(), End: end.UTC()}, nil
}
