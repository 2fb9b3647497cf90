package usecase

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"lesson-booking/config"
	"lesson-booking/internal/domain/entity"
	"lesson-booking/pkg/clock"
	"lesson-booking/pkg/jwt"
)

func (f *fixture) calendarUsecase(health *fakeHealth) (CalendarUsecase, *jwt.JWTService) {
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test", AccessExpiry: time.Hour})
	return NewCalendarUsecase(quietLogger(), f.providers, f.calendar, health, jwtService, f.audit, clock.Fixed(mondayMorning)), jwtService
}

func stateFrom(t *testing.T, authURL string) string {
	t.Helper()
	u, err := url.Parse(authURL)
	if err != nil {
		t.Fatalf("parse auth url: %v", err)
	}
	return u.Query().Get("state")
}

func TestCalendarConnectAndCallback(t *testing.T) {
	f := newFixture()
	f.provider.GoogleRefreshToken = nil
	_ = f.providers.Update(context.Background(), f.provider)
	f.calendar.grant = &entity.TokenGrant{RefreshToken: "new-refresh"}
	uc, _ := f.calendarUsecase(&fakeHealth{})

	connect, err := uc.Connect(context.Background(), f.provider.ID)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	state := stateFrom(t, connect.AuthURL)

	if err := uc.Callback(context.Background(), state, "auth-code"); err != nil {
		t.Fatalf("Callback: %v", err)
	}
	stored, _ := f.providers.FindByID(context.Background(), f.provider.ID)
	if !stored.CalendarConnected() || *stored.GoogleRefreshToken != "new-refresh" {
		t.Fatal("expected refresh token to be stored")
	}
	if len(f.audit.actions) != 1 || f.audit.actions[0] != entity.AuditActionCalendarConnect {
		t.Fatalf("unexpected audit %v", f.audit.actions)
	}
}

func TestCalendarCallback_Rejects(t *testing.T) {
	f := newFixture()
	f.calendar.grant = &entity.TokenGrant{}
	uc, jwtService := f.calendarUsecase(&fakeHealth{})

	accessToken, _, _ := jwtService.GenerateAccessToken(f.provider.ID, f.provider.Email)
	if err := uc.Callback(context.Background(), accessToken, "code"); !errors.Is(err, ErrInvalidOAuthState) {
		t.Fatalf("expected an access token to be refused as state, got %v", err)
	}
	if err := uc.Callback(context.Background(), "garbage", "code"); !errors.Is(err, ErrInvalidOAuthState) {
		t.Fatalf("expected ErrInvalidOAuthState, got %v", err)
	}
	state, _ := jwtService.GenerateStateToken(f.provider.ID)
	if err := uc.Callback(context.Background(), state, ""); !errors.Is(err, ErrMissingOAuthCode) {
		t.Fatalf("expected ErrMissingOAuthCode, got %v", err)
	}

	// Already connected: a grant without refresh token keeps the stored one.
	if err := uc.Callback(context.Background(), state, "code"); err != nil {
		t.Fatalf("expected reconnect to succeed, got %v", err)
	}

	f.provider.GoogleRefreshToken = nil
	_ = f.providers.Update(context.Background(), f.provider)
	if err := uc.Callback(context.Background(), state, "code"); !errors.Is(err, ErrNoRefreshToken) {
		t.Fatalf("expected ErrNoRefreshToken, got %v", err)
	}
}

func TestCalendarStatus(t *testing.T) {
	f := newFixture()
	f.calendar.failed = map[string]string{"team@group.calendar.google.com": "notFound"}
	health := &fakeHealth{}
	uc, _ := f.calendarUsecase(health)

	withoutProbe, err := uc.Status(context.Background(), f.provider.ID, false)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !withoutProbe.Connected || withoutProbe.LastCheck != nil || withoutProbe.Probe != nil {
		t.Fatalf("unexpected status %+v", withoutProbe)
	}

	probed, err := uc.Status(context.Background(), f.provider.ID, true)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if probed.Probe == nil || probed.Probe.OK || probed.Probe.FailedCalendars["team@group.calendar.google.com"] != "notFound" {
		t.Fatalf("expected failing probe, got %+v", probed.Probe)
	}
	if probed.LastCheck == nil || probed.LastCheck.OK {
		t.Fatal("expected probe to be recorded as last check")
	}
	if len(f.calendar.busyCalls) != 1 {
		t.Fatalf("expected one probe lookup, got %d", len(f.calendar.busyCalls))
	}
}
