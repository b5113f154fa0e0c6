package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces idempotency keys in a shared Redis.
const keyPrefix = "bankledger:idempotency:"

// IdempotencyStore implements usecase.IdempotencyStore using Redis.
type IdempotencyStore struct {
	client  *redis.Client
	prefix  string
	retrier *Retrier
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(client *redis.Client, retrier *Retrier) *IdempotencyStore {
	if retrier == nil {
		retrier = NewRetrier()
	}
	return &IdempotencyStore{
		client:  client,
		prefix:  keyPrefix,
		retrier: retrier,
	}
}

// CheckAndSet atomically checks if key exists, sets if not.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	var (
		exists   bool
		existing []byte
	)

	err := s.retrier.Retry(ctx, func() error {
		var err error
		exists, existing, err = s.checkAndSet(ctx, s.prefix+key, response, ttl)
		return err
	})

	return exists, existing, err
}

func (s *IdempotencyStore) checkAndSet(ctx context.Context, fullKey string, response []byte, ttl time.Duration) (bool, []byte, error) {
	existing, err := s.client.Get(ctx, fullKey).Bytes()
	if err == nil {
		return true, existing, nil
	}
	if !errors.Is(err, redis.Nil) {
		return false, nil, err
	}

	if response != nil {
		if err := s.client.Set(ctx, fullKey, response, ttl).Err(); err != nil {
			return false, nil, err
		}
		return false, nil, nil
	}

	// Placeholder "locks" the key while the first request is in flight.
	set, err := s.client.SetNX(ctx, fullKey, "processing", ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if !set {
		// Another request got there first
		existing, err := s.client.Get(ctx, fullKey).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return false, nil, err
		}
		return true, existing, nil
	}

	return false, nil, nil
}

// Update updates an existing idempotency key with the final response.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	fullKey := s.prefix + key
	return s.retrier.Retry(ctx, func() error {
		return s.client.Set(ctx, fullKey, response, ttl).Err()
	})
}

// Delete removes an idempotency key.
func (s *IdempotencyStore) Delete(ctx context.Context, key string) error {
	fullKey := s.prefix + key
	return s.retrier.Retry(ctx, func() error {
		return s.client.Del(ctx, fullKey).Err()
	})
}
