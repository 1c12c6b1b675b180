package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStore remembers which product an Idempotency-Key created.
// Key format: idempotency:product:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore wraps client. Entries expire after ttl, or after 24h
// when ttl is not positive.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Lookup returns the product name recorded for key.
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (string, bool, error) {
	name, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("idempotency lookup: %w", err)
	}
	return name, true, nil
}

// Remember records name under key. The first writer wins.
func (s *IdempotencyStore) Remember(ctx context.Context, key, name string) error {
	if err := s.client.SetNX(ctx, s.key(key), name, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(key string) string {
	return "idempotency:product:" + key
}
