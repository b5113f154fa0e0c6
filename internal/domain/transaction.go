package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionKind names a transaction variant. The value is what History records.
type TransactionKind string

const (
	KindWithdrawal TransactionKind = "Withdrawal"
	KindDeposit    TransactionKind = "Deposit"
)

// String returns the kind name.
func (k TransactionKind) String() string {
	return string(k)
}

// Matches reports whether k passes a report filter. An empty filter matches every kind.
func (k TransactionKind) Matches(filter string) bool {
	return filter == "" || strings.EqualFold(string(k), filter)
}

// ParseTransactionKind parses a kind name case-insensitively.
func ParseTransactionKind(s string) (TransactionKind, error) {
	switch {
	case strings.EqualFold(s, string(KindWithdrawal)):
		return KindWithdrawal, nil
	case strings.EqualFold(s, string(KindDeposit)):
		return KindDeposit, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTransactionKind, s)
	}
}

// Transaction is an immutable instruction to move money into or out of an account.
// The set of implementations is closed: Withdrawal and Deposit.
type Transaction interface {
	Kind() TransactionKind
	Amount() decimal.Decimal
	// Apply validates and mutates the account, then records the transaction in
	// the account history. Nothing is recorded when the account rejects it.
	Apply(account *Account) (Record, error)

	sealed()
}

// Withdrawal takes Value out of an account.
type Withdrawal struct {
	Value decimal.Decimal
}

func (w Withdrawal) Kind() TransactionKind   { return KindWithdrawal }
func (w Withdrawal) Amount() decimal.Decimal { return w.Value }
func (w Withdrawal) sealed()                 {}

// Apply withdraws from the account and records on success.
func (w Withdrawal) Apply(account *Account) (Record, error) {
	return account.commit(w, account.withdraw)
}

// Deposit puts Value into an account.
type Deposit struct {
	Value decimal.Decimal
}

func (d Deposit) Kind() TransactionKind   { return KindDeposit }
func (d Deposit) Amount() decimal.Decimal { return d.Value }
func (d Deposit) sealed()                 {}

// Apply deposits into the account and records on success.
func (d Deposit) Apply(account *Account) (Record, error) {
	return account.commit(d, account.deposit)
}

// NewTransaction builds the variant for kind.
func NewTransaction(kind TransactionKind, amount decimal.Decimal) (Transaction, error) {
	switch kind {
	case KindWithdrawal:
		return Withdrawal{Value: amount}, nil
	case KindDeposit:
		return Deposit{Value: amount}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransactionKind, kind)
	}
}
