package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenStore tracks issued admin access tokens so they can be revoked before expiry.
type TokenStore interface {
	Store(ctx context.Context, providerID uuid.UUID, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, providerID uuid.UUID, tokenID string) (bool, error)
	Revoke(ctx context.Context, providerID uuid.UUID, tokenID string) error
}

type redisTokenStore struct {
	redisClient *redis.Client
}

func NewTokenStore(redisClient *redis.Client) TokenStore {
	return &redisTokenStore{redisClient: redisClient}
}

func accessTokenKey(providerID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("access_token:%s:%s", providerID.String(), tokenID)
}

func (s *redisTokenStore) Store(ctx context.Context, providerID uuid.UUID, tokenID string, ttl time.Duration) error {
	return s.redisClient.Set(ctx, accessTokenKey(providerID, tokenID), "valid", ttl).Err()
}

func (s *redisTokenStore) Exists(ctx context.Context, providerID uuid.UUID, tokenID string) (bool, error) {
	_, err := s.redisClient.Get(ctx, accessTokenKey(providerID, tokenID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *redisTokenStore) Revoke(ctx context.Context, providerID uuid.UUID, tokenID string) error {
	return s.redisClient.Del(ctx, accessTokenKey(providerID, tokenID)).Err()
}
