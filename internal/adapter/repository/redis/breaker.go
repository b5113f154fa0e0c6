package redis

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/iho/bankledger/internal/usecase"
)

// ErrCircuitOpen is returned while the breaker rejects calls to Redis.
var ErrCircuitOpen = errors.New("idempotency store circuit open")

// BreakerConfig configures BreakerStore.
type BreakerConfig struct {
	// MaxRequests allowed through while half-open.
	MaxRequests uint32
	// Interval after which closed-state counts are reset. Zero never resets.
	Interval time.Duration
	// Timeout is how long the breaker stays open.
	Timeout time.Duration
	// CallTimeout bounds each wrapped call. Zero leaves the caller's deadline alone.
	CallTimeout time.Duration
	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32
}

// DefaultBreakerConfig returns a breaker that opens after 5 consecutive failures for 30s.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:         1,
		Timeout:             30 * time.Second,
		CallTimeout:         time.Second,
		ConsecutiveFailures: 5,
	}
}

// BreakerStore guards an IdempotencyStore with a circuit breaker.
type BreakerStore struct {
	store   usecase.IdempotencyStore
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
	logger  zerolog.Logger
}

// NewBreakerStore wraps store with a circuit breaker.
func NewBreakerStore(store usecase.IdempotencyStore, cfg BreakerConfig, logger zerolog.Logger) *BreakerStore {
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = DefaultBreakerConfig().ConsecutiveFailures
	}

	bs := &BreakerStore{
		store:   store,
		timeout: cfg.CallTimeout,
		logger:  logger,
	}

	bs.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "idempotency",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			bs.logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})

	return bs
}

type checkResult struct {
	exists   bool
	existing []byte
}

// CheckAndSet delegates to the wrapped store unless the breaker is open.
func (s *BreakerStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	out, err := s.cb.Execute(func() (interface{}, error) {
		exists, existing, err := s.store.CheckAndSet(ctx, key, response, ttl)
		if err != nil {
			return nil, err
		}
		return checkResult{exists: exists, existing: existing}, nil
	})
	if err != nil {
		return false, nil, s.translate(err)
	}

	res := out.(checkResult)
	return res.exists, res.existing, nil
}

// Update delegates to the wrapped store unless the breaker is open.
func (s *BreakerStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.store.Update(ctx, key, response, ttl)
	})
	return s.translate(err)
}

// Delete delegates to the wrapped store unless the breaker is open.
func (s *BreakerStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.store.Delete(ctx, key)
	})
	return s.translate(err)
}

// State returns the breaker state name.
func (s *BreakerStore) State() string {
	return s.cb.State().String()
}

func (s *BreakerStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *BreakerStore) translate(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrCircuitOpen
	}
	return err
}
