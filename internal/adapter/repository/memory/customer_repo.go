package memory

import (
	"context"
	"sync"

	"github.com/iho/bankledger/internal/domain"
)

// CustomerRepository implements usecase.CustomerRepository in memory.
// Customers are kept in registration order.
type CustomerRepository struct {
	mu        sync.RWMutex
	customers []*domain.Customer
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{}
}

// Create registers a customer.
func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if domain.FindCustomer(customer.TaxID, r.customers) != nil {
		return domain.ErrDuplicateIdentifier
	}

	r.customers = append(r.customers, customer)
	return nil
}

// GetByTaxID retrieves a customer by tax ID.
func (r *CustomerRepository) GetByTaxID(ctx context.Context, taxID string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer := domain.FindCustomer(taxID, r.customers)
	if customer == nil {
		return nil, domain.ErrCustomerNotFound
	}
	return customer, nil
}

// List returns a page of customers in registration order.
func (r *CustomerRepository) List(ctx context.Context, limit, offset int) ([]*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return page(r.customers, limit, offset), nil
}

// Count returns the number of registered customers.
func (r *CustomerRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.customers), nil
}

// page copies the [offset, offset+limit) window of items.
func page[T any](items []T, limit, offset int) []T {
	offset = max(offset, 0)
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]T, end-offset)
	copy(out, items[offset:end])
	return out
}
