package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lesson-booking/internal/domain/entity"
	"lesson-booking/internal/domain/gateway"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// cachedCalendarGateway caches free/busy lookups in Redis and records calendar health on
// every uncached lookup. Writes pass through unchanged.
type cachedCalendarGateway struct {
	gateway.CalendarGateway
	redisClient *redis.Client
	health      CalendarHealthService
	ttl         time.Duration
	log         *logrus.Logger
}

func NewCachedCalendarGateway(
	inner gateway.CalendarGateway,
	redisClient *redis.Client,
	health CalendarHealthService,
	ttl time.Duration,
	log *logrus.Logger,
) gateway.CalendarGateway {
	return &cachedCalendarGateway{
		CalendarGateway: inner,
		redisClient:     redisClient,
		health:          health,
		ttl:             ttl,
		log:             log,
	}
}

func busyCacheKey(provider *entity.Provider, from, to time.Time) string {
	return fmt.Sprintf("calendar:busy:%s:%d:%d:%s", provider.ID.String(), from.Unix(), to.Unix(), provider.GoogleCalendarID)
}

func (g *cachedCalendarGateway) BusyRanges(ctx context.Context, provider *entity.Provider, from, to time.Time) (entity.BusyResult, error) {
	if !provider.CalendarConnected() {
		return entity.BusyResult{}, nil
	}

	key := busyCacheKey(provider, from, to)
	if g.ttl > 0 {
		raw, err := g.redisClient.Get(ctx, key).Bytes()
		if err == nil {
			var cached entity.BusyResult
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			g.log.Warnf("Failed to read busy cache: %+v", err)
		}
	}

	result, err := g.CalendarGateway.BusyRanges(ctx, provider, from, to)
	health := entity.CalendarHealth{
		OK:              err == nil && len(result.Failed) == 0,
		FailedCalendars: result.Failed,
		CheckedAt:       time.Now().UTC(),
	}
	if err != nil {
		health.Error = err.Error()
	}
	g.health.Record(ctx, provider.ID, health)
	if err != nil {
		return result, err
	}

	if g.ttl > 0 {
		if payload, err := json.Marshal(result); err == nil {
			if err := g.redisClient.Set(ctx, key, payload, g.ttl).Err(); err != nil {
				g.log.Warnf("Failed to write busy cache: %+v", err)
			}
		}
	}
	return result, nil
}
