package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

// StatementUseCase renders account histories.
type StatementUseCase struct {
	accountRepo AccountRepository
	customers   *CustomerUseCase
}

// NewStatementUseCase creates a new StatementUseCase.
func NewStatementUseCase(accountRepo AccountRepository, customers *CustomerUseCase) *StatementUseCase {
	return &StatementUseCase{
		accountRepo: accountRepo,
		customers:   customers,
	}
}

// StatementInput selects the account and kind filter of a statement.
type StatementInput struct {
	// TaxID, when set, restricts the lookup to the customer's own accounts.
	TaxID         string
	AccountNumber int64
	// Kind filters records case-insensitively. Empty includes every kind.
	Kind string
}

// Statement is a filtered history plus the account's current balance.
type Statement struct {
	Account     domain.AccountSummary
	Records     []domain.Record
	Balance     decimal.Decimal
	GeneratedAt time.Time
}

// Statement builds the statement for one account.
func (uc *StatementUseCase) Statement(ctx context.Context, input StatementInput) (*Statement, error) {
	kind := strings.TrimSpace(input.Kind)
	if kind != "" {
		if _, err := domain.ParseTransactionKind(kind); err != nil {
			return nil, err
		}
	}

	account, err := uc.resolve(ctx, input)
	if err != nil {
		return nil, err
	}

	records, balance := account.Statement(kind)

	return &Statement{
		Account:     account.Summary(),
		Records:     records,
		Balance:     balance,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func (uc *StatementUseCase) resolve(ctx context.Context, input StatementInput) (*domain.Account, error) {
	if strings.TrimSpace(input.TaxID) == "" {
		return uc.accountRepo.GetByNumber(ctx, input.AccountNumber)
	}

	_, account, err := uc.customers.ResolveAccount(ctx, input.TaxID, input.AccountNumber)
	return account, err
}
