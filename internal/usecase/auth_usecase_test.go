package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"lesson-booking/config"
	"lesson-booking/internal/delivery/dto"
	"lesson-booking/internal/domain/entity"
	"lesson-booking/pkg/jwt"

	"golang.org/x/crypto/bcrypt"
)

func TestLoginLogout(t *testing.T) {
	f := newFixture()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	f.provider.PasswordHash = string(hash)
	_ = f.providers.Update(context.Background(), f.provider)

	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test", AccessExpiry: time.Hour})
	store := &fakeTokenStore{}
	uc := NewAuthUsecase(quietLogger(), f.providers, jwtService, store, f.audit)

	if _, err := uc.Login(context.Background(), &dto.LoginRequest{Email: "teacher@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := uc.Login(context.Background(), &dto.LoginRequest{Email: "nobody@example.com", Password: "s3cret"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}

	token, err := uc.Login(context.Background(), &dto.LoginRequest{Email: "teacher@example.com", Password: "s3cret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token.TokenType != "Bearer" || token.ExpiresIn != 3600 {
		t.Fatalf("unexpected token response %+v", token)
	}

	claims, err := jwtService.ValidateToken(token.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if ok, _ := store.Exists(context.Background(), claims.ProviderID, claims.TokenID); !ok {
		t.Fatal("expected token to be stored")
	}
	if f.audit.actions[0] != entity.AuditActionProviderLogin {
		t.Fatalf("unexpected audit %v", f.audit.actions)
	}

	me, err := uc.GetCurrentProvider(context.Background(), claims.ProviderID)
	if err != nil || me.Email != "teacher@example.com" || !me.CalendarConnected {
		t.Fatalf("unexpected account %+v, %v", me, err)
	}

	if err := uc.Logout(context.Background(), claims.ProviderID, claims.TokenID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if ok, _ := store.Exists(context.Background(), claims.ProviderID, claims.TokenID); ok {
		t.Fatal("expected token to be revoked")
	}
}
