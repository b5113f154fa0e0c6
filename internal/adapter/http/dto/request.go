package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/usecase"
)

// CreateCustomerRequest represents a request to register a customer.
type CreateCustomerRequest struct {
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"` // dd-mm-yyyy
	TaxID     string `json:"tax_id"`
	Address   string `json:"address"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCustomerRequest) ToUseCaseInput() usecase.CreateCustomerInput {
	return usecase.CreateCustomerInput{
		Name:      r.Name,
		BirthDate: r.BirthDate,
		TaxID:     r.TaxID,
		Address:   r.Address,
	}
}

// CreateAccountRequest represents a request to open an account.
type CreateAccountRequest struct {
	TaxID  string `json:"tax_id"`
	Number int64  `json:"number,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		TaxID:  r.TaxID,
		Number: r.Number,
	}
}

// TransactionRequest represents a deposit or withdrawal on the account in the path.
type TransactionRequest struct {
	TaxID  string          `json:"tax_id"`
	Amount decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *TransactionRequest) ToUseCaseInput(accountNumber int64) usecase.TransactionInput {
	return usecase.TransactionInput{
		TaxID:         r.TaxID,
		AccountNumber: accountNumber,
		Amount:        r.Amount,
	}
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
