package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

// CustomerRepository defines the customer directory.
type CustomerRepository interface {
	// Create fails with domain.ErrDuplicateIdentifier when the tax ID is taken.
	Create(ctx context.Context, customer *domain.Customer) error
	// GetByTaxID fails with domain.ErrCustomerNotFound.
	GetByTaxID(ctx context.Context, taxID string) (*domain.Customer, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Customer, error)
	Count(ctx context.Context) (int, error)
}

// AccountRepository defines the account directory.
type AccountRepository interface {
	// Create fails with domain.ErrDuplicateIdentifier when the number is taken.
	Create(ctx context.Context, account *domain.Account) error
	// GetByNumber fails with domain.ErrAccountNotFound.
	GetByNumber(ctx context.Context, number int64) (*domain.Account, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// OutboxRepository defines storage for domain events awaiting publication.
type OutboxRepository interface {
	Create(ctx context.Context, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// AccountNumberGenerator hands out sequential account numbers.
type AccountNumberGenerator interface {
	Next() int64
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// MetricsRecorder receives business metrics.
type MetricsRecorder interface {
	CustomerRegistered()
	AccountOpened(kind string)
	TransactionApplied(kind domain.TransactionKind, amount decimal.Decimal)
	TransactionRejected(kind domain.TransactionKind, reason string)
	BalanceChanged(accountNumber int64, balance decimal.Decimal)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Delete releases a key so the request can be retried.
	Delete(ctx context.Context, key string) error
}

// NopMetrics discards all metrics.
type NopMetrics struct{}

func (NopMetrics) CustomerRegistered()                                        {}
func (NopMetrics) AccountOpened(string)                                       {}
func (NopMetrics) TransactionApplied(domain.TransactionKind, decimal.Decimal) {}
func (NopMetrics) TransactionRejected(domain.TransactionKind, string)         {}
func (NopMetrics) BalanceChanged(int64, decimal.Decimal)                      {}
