package domain

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultBranch is the branch code every account is opened under.
const DefaultBranch = "0001"

// Account kinds as reported in summaries.
const (
	AccountKindStandard = "standard"
	AccountKindChecking = "checking"
)

// CheckingPolicy holds the extra withdrawal rules of a checking account.
type CheckingPolicy struct {
	// OverdraftLimit is the largest single withdrawal allowed.
	OverdraftLimit decimal.Decimal
	// MaxDailyWithdrawals caps the number of recorded withdrawals.
	MaxDailyWithdrawals int
	// WithdrawalWindow limits the count to recent withdrawals. Zero counts the whole history.
	WithdrawalWindow time.Duration
}

// DefaultCheckingPolicy returns a 500 limit and 3 withdrawals counted over the account lifetime.
func DefaultCheckingPolicy() CheckingPolicy {
	return CheckingPolicy{
		OverdraftLimit:      decimal.NewFromInt(500),
		MaxDailyWithdrawals: 3,
	}
}

// Account is a ledger account owned by one customer.
type Account struct {
	Number    int64
	Branch    string
	Owner     *Customer
	CreatedAt time.Time

	// mu guards balance and history as one unit.
	mu      sync.RWMutex
	balance decimal.Decimal
	history *History
	policy  *CheckingPolicy
	clock   func() time.Time
}

// AccountOption customizes a new account.
type AccountOption func(*Account)

// WithBranch overrides the branch code.
func WithBranch(branch string) AccountOption {
	return func(a *Account) { a.Branch = branch }
}

// WithClock overrides the time source used for history timestamps.
func WithClock(clock func() time.Time) AccountOption {
	return func(a *Account) { a.clock = clock }
}

// WithRecordIDs overrides the history record ID generator.
func WithRecordIDs(newID func() string) AccountOption {
	return func(a *Account) { a.history.newID = newID }
}

// NewAccount opens a standard account with zero balance.
func NewAccount(number int64, owner *Customer, opts ...AccountOption) *Account {
	a := &Account{
		Number:  number,
		Branch:  DefaultBranch,
		Owner:   owner,
		balance: decimal.Zero,
		history: NewHistory(),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.CreatedAt = a.clock().UTC()
	return a
}

// NewCheckingAccount opens an account that enforces policy on withdrawals.
func NewCheckingAccount(number int64, owner *Customer, policy CheckingPolicy, opts ...AccountOption) *Account {
	a := NewAccount(number, owner, opts...)
	a.policy = &policy
	return a
}

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.balance
}

// History returns the account history.
func (a *Account) History() *History {
	return a.history
}

// Policy returns the checking policy, if any.
func (a *Account) Policy() (CheckingPolicy, bool) {
	if a.policy == nil {
		return CheckingPolicy{}, false
	}
	return *a.policy, true
}

// Kind returns AccountKindChecking or AccountKindStandard.
func (a *Account) Kind() string {
	if a.policy != nil {
		return AccountKindChecking
	}
	return AccountKindStandard
}

// Withdraw takes amount out of the balance. History is left untouched;
// use a Withdrawal transaction to record it.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.withdraw(amount)
}

// Deposit adds amount to the balance. History is left untouched;
// use a Deposit transaction to record it.
func (a *Account) Deposit(amount decimal.Decimal) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.deposit(amount)
}

// Statement returns the filtered records together with the balance they add up to.
func (a *Account) Statement(filter string) ([]Record, decimal.Decimal) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.history.Records(filter), a.balance
}

// Summary returns the listing view of the account.
func (a *Account) Summary() AccountSummary {
	owner := ""
	if a.Owner != nil {
		owner = a.Owner.Name
	}
	return AccountSummary{
		Branch:    a.Branch,
		Number:    a.Number,
		OwnerName: owner,
		Kind:      a.Kind(),
	}
}

// commit runs mutate and records tx only when it succeeds, all under the account lock.
func (a *Account) commit(tx Transaction, mutate func(decimal.Decimal) error) (Record, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := mutate(tx.Amount()); err != nil {
		return Record{}, err
	}

	return a.history.record(tx, a.balance, a.clock().UTC()), nil
}

func (a *Account) withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	if a.policy != nil {
		if err := a.checkPolicy(amount); err != nil {
			return err
		}
	}

	if amount.GreaterThan(a.balance) {
		return ErrInsufficientFunds
	}

	a.balance = a.balance.Sub(amount)
	return nil
}

// checkPolicy applies the limit rule before the count rule.
func (a *Account) checkPolicy(amount decimal.Decimal) error {
	var since time.Time
	if a.policy.WithdrawalWindow > 0 {
		since = a.clock().UTC().Add(-a.policy.WithdrawalWindow)
	}
	count := a.history.CountSince(KindWithdrawal, since)

	if amount.GreaterThan(a.policy.OverdraftLimit) {
		return fmt.Errorf("%w of %s", ErrOverdraftLimitExceeded, FormatAmount(a.policy.OverdraftLimit))
	}

	if count >= a.policy.MaxDailyWithdrawals {
		return fmt.Errorf("%w (%d)", ErrDailyWithdrawalLimitExceeded, a.policy.MaxDailyWithdrawals)
	}

	return nil
}

func (a *Account) deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	a.balance = a.balance.Add(amount)
	return nil
}

// AccountSummary is the listing view of an account.
type AccountSummary struct {
	Branch    string
	Number    int64
	OwnerName string
	Kind      string
}

// Replay is the result of rebuilding an account balance from its history.
type Replay struct {
	Recorded    decimal.Decimal
	Replayed    decimal.Decimal
	Deposits    decimal.Decimal
	Withdrawals decimal.Decimal
	// BrokenAt is the index of the first record whose BalanceAfter disagrees
	// with the running total, or -1.
	BrokenAt int
}

// Consistent reports whether the history adds up to the recorded balance.
func (r Replay) Consistent() bool {
	return r.BrokenAt < 0 && r.Recorded.Equal(r.Replayed)
}

// Replay rebuilds the balance from history under the account lock.
func (a *Account) Replay() Replay {
	a.mu.RLock()
	defer a.mu.RUnlock()

	r := Replay{
		Recorded:    a.balance,
		Replayed:    decimal.Zero,
		Deposits:    decimal.Zero,
		Withdrawals: decimal.Zero,
		BrokenAt:    -1,
	}

	i := 0
	for rec := range a.history.Report("") {
		switch rec.Kind {
		case KindDeposit:
			r.Deposits = r.Deposits.Add(rec.Amount)
			r.Replayed = r.Replayed.Add(rec.Amount)
		case KindWithdrawal:
			r.Withdrawals = r.Withdrawals.Add(rec.Amount)
			r.Replayed = r.Replayed.Sub(rec.Amount)
		}
		if r.BrokenAt < 0 && !rec.BalanceAfter.Equal(r.Replayed) {
			r.BrokenAt = i
		}
		i++
	}

	return r
}
