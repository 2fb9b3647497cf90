package usecase

import (
	"context"
	"errors"
	"time"

	"lesson-booking/internal/delivery/dto"
	"lesson-booking/internal/domain/entity"
	"lesson-booking/internal/domain/gateway"
	"lesson-booking/internal/domain/repository"
	"lesson-booking/internal/service"
	"lesson-booking/pkg/clock"
	"lesson-booking/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidOAuthState = errors.New("invalid or expired oauth state")
	ErrMissingOAuthCode  = errors.New("missing oauth code")
	ErrNoRefreshToken    = errors.New("calendar did not grant offline access, reconnect and approve all requested permissions")
)

const probeWindow = time.Hour

type CalendarUsecase interface {
	Connect(ctx context.Context, providerID uuid.UUID) (*dto.CalendarConnectResponse, error)
	// Callback completes the OAuth round trip started by Connect. The provider is
	// identified by the signed state, not by a session.
	Callback(ctx context.Context, state, code string) error
	Status(ctx context.Context, providerID uuid.UUID, probe bool) (*dto.CalendarStatusResponse, error)
}

type calendarUsecase struct {
	log          *logrus.Logger
	providerRepo repository.ProviderRepository
	calendar     gateway.CalendarGateway
	health       service.CalendarHealthService
	jwtService   *jwt.JWTService
	auditService service.AuditService
	clock        clock.Clock
}

// NewCalendarUsecase expects the uncached calendar gateway so a probe always reaches
// the external calendar.
func NewCalendarUsecase(
	log *logrus.Logger,
	providerRepo repository.ProviderRepository,
	calendar gateway.CalendarGateway,
	health service.CalendarHealthService,
	jwtService *jwt.JWTService,
	auditService service.AuditService,
	clk clock.Clock,
) CalendarUsecase {
	return &calendarUsecase{
		log:          log,
		providerRepo: providerRepo,
		calendar:     calendar,
		health:       health,
		jwtService:   jwtService,
		auditService: auditService,
		clock:        clk,
	}
}

func (u *calendarUsecase) Connect(ctx context.Context, providerID uuid.UUID) (*dto.CalendarConnectResponse, error) {
	state, err := u.jwtService.GenerateStateToken(providerID)
	if err != nil {
		u.log.Warnf("Failed to sign oauth state: %+v", err)
		return nil, err
	}

	url, err := u.calendar.AuthURL(state)
	if err != nil {
		return nil, err
	}
	return &dto.CalendarConnectResponse{AuthURL: url}, nil
}

func (u *calendarUsecase) Callback(ctx context.Context, state, code string) error {
	if code == "" {
		return ErrMissingOAuthCode
	}
	claims, err := u.jwtService.ValidateToken(state)
	if err != nil || claims.TokenType != jwt.StateToken {
		return ErrInvalidOAuthState
	}

	provider, err := u.providerRepo.FindByID(ctx, claims.ProviderID)
	if err != nil {
		u.log.Warnf("Failed to find provider %s: %+v", claims.ProviderID, err)
		return err
	}
	if provider == nil {
		return ErrInvalidOAuthState
	}

	grant, err := u.calendar.Exchange(ctx, code)
	if err != nil {
		u.log.Warnf("Failed to exchange oauth code for provider %s: %+v", provider.ID, err)
		return err
	}

	if grant.RefreshToken == "" {
		if provider.CalendarConnected() {
			u.log.Infof("Calendar of provider %s re-authorized, keeping stored refresh token", provider.ID)
			return nil
		}
		return ErrNoRefreshToken
	}

	refreshToken := grant.RefreshToken
	if err := u.providerRepo.UpdateCalendarToken(ctx, provider.ID, &refreshToken); err != nil {
		u.log.Warnf("Failed to store calendar token for provider %s: %+v", provider.ID, err)
		return err
	}

	u.log.Infof("Calendar connected for provider %s", provider.ID)
	if err := u.auditService.LogUpdate(ctx, service.ProviderActor(provider.ID), entity.AuditActionCalendarConnect, "provider", provider.ID.String(),
		provider.CalendarConnected(), true); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return nil
}

// Status reports the connection and the last recorded lookup outcome. With probe set, a
// fresh free/busy lookup over the next hour is made and recorded.
func (u *calendarUsecase) Status(ctx context.Context, providerID uuid.UUID, probe bool) (*dto.CalendarStatusResponse, error) {
	provider, err := u.providerRepo.FindByID(ctx, providerID)
	if err != nil {
		u.log.Warnf("Failed to find provider %s: %+v", providerID, err)
		return nil, err
	}
	if provider == nil {
		return nil, ErrProviderNotFound
	}

	resp := &dto.CalendarStatusResponse{
		Connected:   provider.CalendarConnected(),
		CalendarIDs: provider.CalendarIDs(),
	}

	if probe && provider.CalendarConnected() {
		now := u.clock.Now()
		result, err := u.calendar.BusyRanges(ctx, provider, now, now.Add(probeWindow))
		health := entity.CalendarHealth{
			OK:              err == nil && len(result.Failed) == 0,
			FailedCalendars: result.Failed,
			CheckedAt:       now.UTC(),
		}
		if err != nil {
			health.Error = err.Error()
		}
		u.health.Record(ctx, provider.ID, health)
		resp.Probe = &health
	}

	last, err := u.health.Get(ctx, providerID)
	if err != nil {
		u.log.Warnf("Failed to read calendar health for provider %s: %+v", providerID, err)
	} else {
		resp.LastCheck = last
	}

	return resp, nil
}
