package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lesson-booking/config"
	"lesson-booking/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type memoryTokenStore struct {
	tokens map[string]bool
}

func (s *memoryTokenStore) Store(_ context.Context, providerID uuid.UUID, tokenID string, _ time.Duration) error {
	s.tokens[providerID.String()+":"+tokenID] = true
	return nil
}

func (s *memoryTokenStore) Exists(_ context.Context, providerID uuid.UUID, tokenID string) (bool, error) {
	return s.tokens[providerID.String()+":"+tokenID], nil
}

func (s *memoryTokenStore) Revoke(_ context.Context, providerID uuid.UUID, tokenID string) error {
	delete(s.tokens, providerID.String()+":"+tokenID)
	return nil
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestAuthenticate(t *testing.T) {
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "secret", AccessExpiry: time.Hour})
	store := &memoryTokenStore{tokens: map[string]bool{}}
	providerID := uuid.New()

	token, tokenID, err := jwtService.GenerateAccessToken(providerID, "teacher@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	revoked, revokedID, _ := jwtService.GenerateAccessToken(providerID, "teacher@example.com")
	state, _ := jwtService.GenerateStateToken(providerID)
	_ = store.Store(context.Background(), providerID, tokenID, time.Hour)
	_ = store.Store(context.Background(), providerID, revokedID, time.Hour)
	_ = store.Revoke(context.Background(), providerID, revokedID)

	var seen uuid.UUID
	handler := NewAuthMiddleware(jwtService, store).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetProviderIDFromContext(r.Context())
		if id, _ := GetTokenIDFromContext(r.Context()); id != tokenID {
			t.Errorf("token id = %q", id)
		}
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "valid", header: "Bearer " + token, status: http.StatusOK},
		{name: "missing", header: "", status: http.StatusUnauthorized},
		{name: "malformed", header: "Token " + token, status: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "revoked", header: "Bearer " + revoked, status: http.StatusUnauthorized},
		{name: "state token", header: "Bearer " + state, status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/settings", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}

	if seen != providerID {
		t.Fatalf("provider id in context = %s, want %s", seen, providerID)
	}
}

func TestRequireCronSecret(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		target string
		header string
		status int
	}{
		{name: "bearer", secret: "s3cret", target: "/cron/run", header: "Bearer s3cret", status: http.StatusOK},
		{name: "query key", secret: "s3cret", target: "/cron/run?key=s3cret", status: http.StatusOK},
		{name: "wrong key", secret: "s3cret", target: "/cron/run?key=nope", status: http.StatusUnauthorized},
		{name: "missing", secret: "s3cret", target: "/cron/run", status: http.StatusUnauthorized},
		{name: "unset secret", secret: "", target: "/cron/run?key=", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			RequireCronSecret(tt.secret)(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	limiter, err := NewRateLimiter(1, 2, nil)
	if err != nil {
		t.Fatalf("NewRateLimiter: %v", err)
	}
	handler := limiter.Limit(http.HandlerFunc(okHandler))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/providers/x/availability", nil)
		req.RemoteAddr = "203.0.113.7:5000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}

	req := httptest.NewRequest(http.MethodGet, "/providers/x/availability", nil)
	req.RemoteAddr = "198.51.100.1:5000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("other client throttled: %d", rec.Code)
	}
}

func TestRateLimiterClientIP(t *testing.T) {
	limiter, err := NewRateLimiter(1, 1, []string{"10.0.0.0/8", "192.0.2.10"})
	if err != nil {
		t.Fatalf("NewRateLimiter: %v", err)
	}

	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{"direct client ignores header", "203.0.113.7:5000", "198.51.100.1", "203.0.113.7"},
		{"trusted proxy", "10.1.2.3:443", "198.51.100.1", "198.51.100.1"},
		{"skips trusted hops", "192.0.2.10:443", "198.51.100.1, 10.0.0.5", "198.51.100.1"},
		{"spoofed leftmost hop", "10.1.2.3:443", "1.2.3.4, 198.51.100.9", "198.51.100.9"},
		{"trusted proxy without header", "10.1.2.3:443", "", "10.1.2.3"},
		{"garbage header", "10.1.2.3:443", "not-an-ip", "10.1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := limiter.clientIP(req); got != tt.want {
				t.Fatalf("clientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimiterSeparatesClientsBehindProxy(t *testing.T) {
	limiter, err := NewRateLimiter(1, 1, []string{"10.0.0.1"})
	if err != nil {
		t.Fatalf("NewRateLimiter: %v", err)
	}
	handler := limiter.Limit(http.HandlerFunc(okHandler))

	for _, client := range []string{"198.51.100.1", "198.51.100.2"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:443"
		req.Header.Set("X-Forwarded-For", client)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("client %s throttled: %d", client, rec.Code)
		}
	}
}

func TestNewRateLimiterRejectsInvalidProxy(t *testing.T) {
	if _, err := NewRateLimiter(1, 1, []string{"10.0.0.0/33"}); err == nil {
		t.Fatal("expected error for invalid CIDR")
	}
	if _, err := NewRateLimiter(1, 1, []string{"proxy.internal"}); err == nil {
		t.Fatal("expected error for hostname")
	}
}

func TestRateLimiterSweepsIdleVisitorsPeriodically(t *testing.T) {
	limiter, err := NewRateLimiter(1, 1, nil)
	if err != nil {
		t.Fatalf("NewRateLimiter: %v", err)
	}
	start := time.Date(2026, time.February, 2, 9, 0, 0, 0, time.UTC)

	limiter.getLimiter("198.51.100.1", start)
	limiter.getLimiter("198.51.100.1", start.Add(9*time.Minute))
	// Sweeps at 10m30s; the first visitor was seen 90s ago and stays.
	limiter.getLimiter("198.51.100.2", start.Add(10*time.Minute+30*time.Second))
	// The first visitor is idle now, but the last sweep is under ten minutes old.
	limiter.getLimiter("198.51.100.3", start.Add(20*time.Minute))
	if len(limiter.visitors) != 3 {
		t.Fatalf("expected no sweep yet, got %d visitors", len(limiter.visitors))
	}

	limiter.getLimiter("198.51.100.3", start.Add(21*time.Minute))
	if len(limiter.visitors) != 1 {
		t.Fatalf("expected idle visitors swept, got %d", len(limiter.visitors))
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := NewCORSMiddleware([]string{"https://lessons.example.com"}).Handle(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/providers/x", nil)
	req.Header.Set("Origin", "https://lessons.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://lessons.example.com" {
		t.Fatalf("allow origin = %q", got)
	}
}

func TestLoggingMiddlewareSetsRequestID(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	handler := NewLoggingMiddleware(log).Handle(http.HandlerFunc(okHandler))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Fatal("expected generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "abc" {
		t.Fatalf("request id = %q", got)
	}
}
