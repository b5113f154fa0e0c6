package memory

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/iho/bankledger/internal/domain"
)

// AccountRepository implements usecase.AccountRepository in memory.
// Accounts are kept in opening order.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts []*domain.Account
	byNumber map[int64]*domain.Account
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		byNumber: make(map[int64]*domain.Account),
	}
}

// Create stores an account under its number.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byNumber[account.Number]; ok {
		return domain.ErrDuplicateIdentifier
	}

	r.accounts = append(r.accounts, account)
	r.byNumber[account.Number] = account
	return nil
}

// GetByNumber retrieves an account by number.
func (r *AccountRepository) GetByNumber(ctx context.Context, number int64) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.byNumber[number]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

// List returns a page of accounts in opening order.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return page(r.accounts, limit, offset), nil
}

// AccountSequence hands out account numbers starting at 1.
type AccountSequence struct {
	last atomic.Int64
}

// NewAccountSequence creates a sequence whose first number is 1.
func NewAccountSequence() *AccountSequence {
	return &AccountSequence{}
}

// Next returns the next account number.
func (s *AccountSequence) Next() int64 {
	return s.last.Add(1)
}
