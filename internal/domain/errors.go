package domain

import "errors"

var (
	// Transaction errors
	ErrInvalidAmount                = errors.New("amount must be positive")
	ErrInsufficientFunds            = errors.New("insufficient funds")
	ErrOverdraftLimitExceeded       = errors.New("withdrawal exceeds overdraft limit")
	ErrDailyWithdrawalLimitExceeded = errors.New("maximum number of withdrawals exceeded")
	ErrUnknownTransactionKind       = errors.New("unknown transaction kind")

	// Directory errors
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrDuplicateIdentifier = errors.New("identifier already registered")
	ErrNoAccountSelected   = errors.New("no account selected")
)

// RejectionReason maps a transaction error to a stable label for metrics and events.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrOverdraftLimitExceeded):
		return "overdraft_limit_exceeded"
	case errors.Is(err, ErrDailyWithdrawalLimitExceeded):
		return "withdrawal_count_exceeded"
	default:
		return "other"
	}
}
