package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/bankledger/internal/domain"
)

// AccountPolicy is applied to every account opened through the use case.
type AccountPolicy struct {
	Branch   string
	Checking domain.CheckingPolicy
}

// DefaultAccountPolicy returns the default branch and checking rules.
func DefaultAccountPolicy() AccountPolicy {
	return AccountPolicy{
		Branch:   domain.DefaultBranch,
		Checking: domain.DefaultCheckingPolicy(),
	}
}

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	accountRepo  AccountRepository
	customerRepo CustomerRepository
	numbers      AccountNumberGenerator
	policy       AccountPolicy
	events       *EventRecorder
	metrics      MetricsRecorder
	logger       zerolog.Logger
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	accountRepo AccountRepository,
	customerRepo CustomerRepository,
	numbers AccountNumberGenerator,
	policy AccountPolicy,
	events *EventRecorder,
	metrics MetricsRecorder,
	logger zerolog.Logger,
) *AccountUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if policy.Branch == "" {
		policy.Branch = domain.DefaultBranch
	}
	return &AccountUseCase{
		accountRepo:  accountRepo,
		customerRepo: customerRepo,
		numbers:      numbers,
		policy:       policy,
		events:       events,
		metrics:      metrics,
		logger:       logger,
	}
}

// CreateAccountInput represents input for opening an account.
type CreateAccountInput struct {
	TaxID string
	// Number zero draws the next number from the sequence.
	Number int64
}

// CreateAccount opens a checking account for an existing customer.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	customer, err := uc.customerRepo.GetByTaxID(ctx, strings.TrimSpace(input.TaxID))
	if err != nil {
		return nil, err
	}

	account, err := uc.register(ctx, customer, input.Number)
	if err != nil {
		return nil, err
	}

	customer.AddAccount(account)

	uc.metrics.AccountOpened(account.Kind())
	uc.events.Record(ctx, domain.AggregateTypeAccount, fmt.Sprint(account.Number), domain.EventTypeAccountOpened,
		domain.AccountOpenedEvent{
			AccountNumber: account.Number,
			Branch:        account.Branch,
			TaxID:         customer.TaxID,
			Kind:          account.Kind(),
		})

	uc.logger.Info().
		Int64("account_number", account.Number).
		Str("branch", account.Branch).
		Str("tax_id", customer.TaxID).
		Msg("account opened")

	return account, nil
}

// register stores a new account, retrying generated numbers that collide with explicit ones.
func (uc *AccountUseCase) register(ctx context.Context, owner *domain.Customer, number int64) (*domain.Account, error) {
	if number != 0 {
		account := uc.newAccount(number, owner)
		if err := uc.accountRepo.Create(ctx, account); err != nil {
			return nil, err
		}
		return account, nil
	}

	for range maxNumberAttempts {
		account := uc.newAccount(uc.numbers.Next(), owner)
		err := uc.accountRepo.Create(ctx, account)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, domain.ErrDuplicateIdentifier) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: no free account number after %d attempts", domain.ErrDuplicateIdentifier, maxNumberAttempts)
}

func (uc *AccountUseCase) newAccount(number int64, owner *domain.Customer) *domain.Account {
	return domain.NewCheckingAccount(number, owner, uc.policy.Checking, domain.WithBranch(uc.policy.Branch))
}

// GetAccount retrieves an account by number.
func (uc *AccountUseCase) GetAccount(ctx context.Context, number int64) (*domain.Account, error) {
	return uc.accountRepo.GetByNumber(ctx, number)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts in opening order.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.accountRepo.List(ctx, limit, offset)
}
