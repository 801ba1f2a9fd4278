package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
)

const (
	keyOrderCreate = "idem:order:create:%s:%s"
	pendingValue   = "pending"
	// DefaultTTL keeps a completed key long enough for client retries.
	DefaultTTL = 24 * time.Hour
)

// redisClient is the subset of *redis.Client used by the store.
type redisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore remembers which order a buyer's idempotency key produced.
type RedisStore struct {
	client redisClient
	ttl    time.Duration
}

// NewRedisStore creates store with ttl, falling back to DefaultTTL.
func NewRedisStore(client redisClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func orderKey(buyerID, key string) string {
	return fmt.Sprintf(keyOrderCreate, buyerID, key)
}

// Begin claims key with SETNX. A key that vanished between SETNX and GET is
// claimed again once.
func (s *RedisStore) Begin(ctx context.Context, buyerID, key string) (string, bool, error) {
	k := orderKey(buyerID, key)
	for attempt := 0; attempt < 2; attempt++ {
		claimed, err := s.client.SetNX(ctx, k, pendingValue, s.ttl).Result()
		if err != nil {
			return "", false, domainErrors.Dependency("claim idempotency key", err)
		}
		if claimed {
			return "", true, nil
		}

		stored, err := s.client.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return "", false, domainErrors.Dependency("read idempotency key", err)
		}
		if stored == pendingValue {
			return "", false, domainErrors.ErrRequestInFlight
		}
		return stored, false, nil
	}
	return "", false, domainErrors.ErrRequestInFlight
}

// Complete binds key to the created order.
func (s *RedisStore) Complete(ctx context.Context, buyerID, key, orderID string) error {
	if err := s.client.Set(ctx, orderKey(buyerID, key), orderID, s.ttl).Err(); err != nil {
		return domainErrors.Dependency("complete idempotency key", err)
	}
	return nil
}

// Abandon frees key so that the client can retry.
func (s *RedisStore) Abandon(ctx context.Context, buyerID, key string) error {
	if err := s.client.Del(ctx, orderKey(buyerID, key)).Err(); err != nil {
		return domainErrors.Dependency("abandon idempotency key", err)
	}
	return nil
}

// Disabled accepts every key. It is used when no Redis address is configured.
type Disabled struct{}

func (Disabled) Begin(context.Context, string, string) (string, bool, error) { return "", true, nil }

func (Disabled) Complete(context.Context, string, string, string) error { return nil }

func (Disabled) Abandon(context.Context, string, string) error { return nil }
