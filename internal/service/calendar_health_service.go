package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lesson-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const calendarHealthTTL = 7 * 24 * time.Hour

// CalendarHealthService keeps the most recent outcome of external calendar lookups so a
// silently failing integration is visible to the provider.
type CalendarHealthService interface {
	Record(ctx context.Context, providerID uuid.UUID, health entity.CalendarHealth)
	Get(ctx context.Context, providerID uuid.UUID) (*entity.CalendarHealth, error)
}

type calendarHealthService struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewCalendarHealthService(redisClient *redis.Client, log *logrus.Logger) CalendarHealthService {
	return &calendarHealthService{
		redisClient: redisClient,
		log:         log,
	}
}

func calendarHealthKey(providerID uuid.UUID) string {
	return fmt.Sprintf("calendar:health:%s", providerID.String())
}

func (s *calendarHealthService) Record(ctx context.Context, providerID uuid.UUID, health entity.CalendarHealth) {
	payload, err := json.Marshal(health)
	if err != nil {
		s.log.Warnf("Failed to encode calendar health: %+v", err)
		return
	}
	if err := s.redisClient.Set(ctx, calendarHealthKey(providerID), payload, calendarHealthTTL).Err(); err != nil {
		s.log.Warnf("Failed to store calendar health for provider %s: %+v", providerID, err)
	}
}

// Get returns nil when nothing has been recorded yet.
func (s *calendarHealthService) Get(ctx context.Context, providerID uuid.UUID) (*entity.CalendarHealth, error) {
	raw, err := s.redisClient.Get(ctx, calendarHealthKey(providerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var health entity.CalendarHealth
	if err := json.Unmarshal(raw, &health); err != nil {
		return nil, err
	}
	return &health, nil
}
