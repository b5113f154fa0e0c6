package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

const (
	connectAttempts = 3
	connectInterval = 100 * time.Millisecond
)

// NewClient creates a new Redis client, retrying the initial ping with backoff.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Verify connection
	ping := func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
	if err := pingWithRetry(ctx, ping); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// pingWithRetry calls ping at most connectAttempts times and stops early when ctx is done.
func pingWithRetry(ctx context.Context, ping func(context.Context) error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = connectInterval

	return backoff.Retry(func() error {
		return ping(ctx)
	}, backoff.WithContext(backoff.WithMaxRetries(bo, connectAttempts-1), ctx))
}
