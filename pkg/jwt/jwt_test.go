package jwt

import (
	"testing"
	"time"

	"lesson-booking/config"

	"github.com/google/uuid"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Hour})
	providerID := uuid.New()

	token, tokenID, err := svc.GenerateAccessToken(providerID, "teacher@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.ProviderID != providerID || claims.TokenID != tokenID || claims.TokenType != AccessToken {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	a := NewJWTService(config.JWTConfig{Secret: "a", AccessExpiry: time.Hour})
	b := NewJWTService(config.JWTConfig{Secret: "b", AccessExpiry: time.Hour})

	token, _, err := a.GenerateAccessToken(uuid.New(), "x@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := b.ValidateToken(token); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "s", AccessExpiry: -time.Minute})
	token, _, err := svc.GenerateAccessToken(uuid.New(), "x@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.ValidateToken(token); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestStateToken(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "s", AccessExpiry: time.Hour})
	providerID := uuid.New()

	token, err := svc.GenerateStateToken(providerID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.TokenType != StateToken || claims.ProviderID != providerID {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}
