package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const refreshKeyPrefix = "auth:refresh:"

// RefreshStore keeps opaque refresh tokens in Redis with a TTL. Tokens are
// single-use: refreshing consumes the old token and issues a new one.
type RefreshStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRefreshStore constructs a RefreshStore.
func NewRefreshStore(client *redis.Client, ttl time.Duration) *RefreshStore {
	return &RefreshStore{client: client, ttl: ttl}
}

// Issue creates and stores a refresh token for the user.
func (s *RefreshStore) Issue(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	err := s.client.Set(ctx, refreshKeyPrefix+token, userID, s.ttl).Err()
	if err != nil {
		return "", fmt.Errorf("auth: store refresh token: %w", err)
	}
	return token, nil
}

// Consume deletes the token and returns the user it belonged to.
func (s *RefreshStore) Consume(ctx context.Context, token string) (int64, error) {
	val, err := s.client.GetDel(ctx, refreshKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrInvalidToken
	}
	if err != nil {
		return 0, fmt.Errorf("auth: consume refresh token: %w", err)
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

// Revoke removes a token if present.
func (s *RefreshStore) Revoke(ctx context.Context, token string) error {
	return s.client.Del(ctx, refreshKeyPrefix+token).Err()
}
