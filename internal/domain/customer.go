package domain

import (
	"sync"
	"time"
)

// Customer is a registered person identified by tax ID.
type Customer struct {
	TaxID     string
	Name      string
	BirthDate time.Time
	Address   string
	CreatedAt time.Time

	mu       sync.RWMutex
	accounts []*Account
}

// NewCustomer creates a customer with no accounts.
func NewCustomer(name string, birthDate time.Time, taxID, address string) *Customer {
	return &Customer{
		TaxID:     taxID,
		Name:      name,
		BirthDate: birthDate,
		Address:   address,
		CreatedAt: time.Now().UTC(),
	}
}

// Execute applies tx to account. Ownership of account is not checked.
func (c *Customer) Execute(account *Account, tx Transaction) (Record, error) {
	return tx.Apply(account)
}

// AddAccount appends account to the customer's accounts.
func (c *Customer) AddAccount(account *Account) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accounts = append(c.accounts, account)
}

// Accounts returns the customer's accounts in opening order.
func (c *Customer) Accounts() []*Account {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Account, len(c.accounts))
	copy(out, c.accounts)
	return out
}

// Account returns the owned account with number.
func (c *Customer) Account(number int64) (*Account, error) {
	account := FindAccount(number, c.Accounts())
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// SelectAccount picks the account to operate on. A single account is selected
// automatically; with several, number must name one of them.
func (c *Customer) SelectAccount(number int64) (*Account, error) {
	accounts := c.Accounts()

	switch {
	case len(accounts) == 0:
		return nil, ErrNoAccountSelected
	case len(accounts) == 1:
		return accounts[0], nil
	case number == 0:
		return nil, ErrNoAccountSelected
	}

	return c.Account(number)
}
