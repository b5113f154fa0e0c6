package console

import (
	"errors"
	"fmt"

	"github.com/iho/bankledger/internal/domain"
)

// Message renders err as the line shown to the operator.
func Message(err error) string {
	return failure(describe(err))
}

func describe(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return "Operation failed! Invalid amount."
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "Operation failed! Insufficient funds."
	case errors.Is(err, domain.ErrOverdraftLimitExceeded):
		return "Operation failed! Amount exceeds the withdrawal limit."
	case errors.Is(err, domain.ErrDailyWithdrawalLimitExceeded):
		return "Operation failed! Maximum number of withdrawals exceeded."
	case errors.Is(err, domain.ErrCustomerNotFound):
		return "Customer not found!"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "Invalid account number."
	case errors.Is(err, domain.ErrNoAccountSelected):
		return "Customer has no account!"
	case errors.Is(err, domain.ErrDuplicateIdentifier):
		return "A customer with this tax ID already exists!"
	case errors.Is(err, domain.ErrUnknownTransactionKind):
		return "Unknown transaction kind."
	case errors.Is(err, domain.ErrInvalidTaxID),
		errors.Is(err, domain.ErrInvalidCustomerName),
		errors.Is(err, domain.ErrInvalidBirthDate),
		errors.Is(err, domain.ErrInvalidAddress):
		return fmt.Sprintf("Invalid input: %v.", err)
	case errors.Is(err, ErrUnknownCommand):
		return "Invalid operation, please select the desired operation again."
	default:
		return "An unexpected error occurred."
	}
}

func failure(msg string) string {
	return "\n@@@ " + msg + " @@@\n"
}

func success(msg string) string {
	return "\n==== " + msg + " ====\n"
}
