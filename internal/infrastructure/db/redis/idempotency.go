package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore claims request keys with SETNX.
// Key format: idem:<scope>:<key>
type IdempotencyStore struct {
	client *redis.Client
	scope  string
}

// NewIdempotencyStore creates a store whose keys are namespaced by scope.
func NewIdempotencyStore(client *redis.Client, scope string) *IdempotencyStore {
	return &IdempotencyStore{client: client, scope: scope}
}

// Claim reports whether this call is the first to use key within ttl.
func (s *IdempotencyStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.key(key), time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency claim: %w", err)
	}
	return ok, nil
}

// Release frees a key so a failed request can be retried with it.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(key string) string {
	return fmt.Sprintf("idem:%s:%s", s.scope, key)
}
