package usecase

import (
	"context"
	"errors"
	"testing"

	"lesson-booking/config"

	"golang.org/x/crypto/bcrypt"
)

func TestSeedProvider(t *testing.T) {
	providers := newFakeProviderRepo()
	weekly := &fakeWeeklyRepo{}
	lessonTypes := &fakeLessonTypeRepo{}
	uc := NewSeedUsecase(quietLogger(), providers, weekly, lessonTypes)
	cfg := config.SeedConfig{Email: "Teacher@Example.com", Password: "pw", Name: "Ada", Timezone: "Europe/Paris"}

	provider, created, err := uc.SeedProvider(context.Background(), cfg)
	if err != nil || !created {
		t.Fatalf("SeedProvider: created=%v err=%v", created, err)
	}
	if provider.Email != "teacher@example.com" || provider.MinNoticeHours != 24 || provider.MaxAdvanceBookingDays != 28 {
		t.Fatalf("unexpected provider %+v", provider)
	}
	if bcrypt.CompareHashAndPassword([]byte(provider.PasswordHash), []byte("pw")) != nil {
		t.Fatal("expected password to be hashed")
	}

	active := 0
	for _, row := range weekly.rows {
		if row.IsActive {
			active++
		}
	}
	if len(weekly.rows) != 7 || active != 5 {
		t.Fatalf("expected 7 weekdays with 5 active, got %d and %d", len(weekly.rows), active)
	}
	if len(lessonTypes.rows) != 3 || lessonTypes.rows[0].Price.IntPart() != 40 {
		t.Fatalf("unexpected lesson types %+v", lessonTypes.rows)
	}

	_, created, err = uc.SeedProvider(context.Background(), cfg)
	if err != nil || created {
		t.Fatalf("expected second seed to be a no-op, got created=%v err=%v", created, err)
	}

	if _, _, err := uc.SeedProvider(context.Background(), config.SeedConfig{}); !errors.Is(err, ErrSeedCredentialsMissing) {
		t.Fatalf("expected ErrSeedCredentialsMissing, got %v", err)
	}
}
