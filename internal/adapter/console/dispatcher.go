package console

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// CustomerService is the customer surface the console needs.
type CustomerService interface {
	CreateCustomer(ctx context.Context, input usecase.CreateCustomerInput) (*domain.Customer, error)
	GetCustomer(ctx context.Context, taxID string) (*domain.Customer, error)
	ListCustomerAccounts(ctx context.Context, taxID string) ([]domain.AccountSummary, error)
}

// AccountService is the account surface the console needs.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
}

// TransactionService applies deposits and withdrawals.
type TransactionService interface {
	Deposit(ctx context.Context, input usecase.TransactionInput) (*usecase.TransactionResult, error)
	Withdraw(ctx context.Context, input usecase.TransactionInput) (*usecase.TransactionResult, error)
}

// StatementService renders account histories.
type StatementService interface {
	Statement(ctx context.Context, input usecase.StatementInput) (*usecase.Statement, error)
}

// Dispatcher runs console requests against the use cases and renders the result.
type Dispatcher struct {
	customers    CustomerService
	accounts     AccountService
	transactions TransactionService
	statements   StatementService
	logger       zerolog.Logger
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(
	customers CustomerService,
	accounts AccountService,
	transactions TransactionService,
	statements StatementService,
	logger zerolog.Logger,
) *Dispatcher {
	return &Dispatcher{
		customers:    customers,
		accounts:     accounts,
		transactions: transactions,
		statements:   statements,
		logger:       logger,
	}
}

// Dispatch executes req and returns the text to print.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (string, error) {
	var (
		out string
		err error
	)

	switch r := req.(type) {
	case DepositRequest:
		out, err = d.transact(ctx, r.TaxID, r.AccountNumber, r.Amount, d.transactions.Deposit, "Deposit completed successfully!")
	case WithdrawRequest:
		out, err = d.transact(ctx, r.TaxID, r.AccountNumber, r.Amount, d.transactions.Withdraw, "Withdrawal completed successfully!")
	case StatementRequest:
		out, err = d.statement(ctx, r)
	case NewCustomerRequest:
		out, err = d.newCustomer(ctx, r)
	case NewAccountRequest:
		out, err = d.newAccount(ctx, r)
	case ListAccountsRequest:
		out, err = d.listAccounts(ctx)
	default:
		err = fmt.Errorf("%w: %T", ErrUnknownCommand, req)
	}

	if err != nil {
		d.logger.Debug().Err(err).Str("command", string(commandOf(req))).Msg("console command failed")
	}
	return out, err
}

// Accounts returns the accounts owned by taxID.
func (d *Dispatcher) Accounts(ctx context.Context, taxID string) ([]domain.AccountSummary, error) {
	return d.customers.ListCustomerAccounts(ctx, taxID)
}

// CustomerExists reports whether taxID is registered.
func (d *Dispatcher) CustomerExists(ctx context.Context, taxID string) (bool, error) {
	if _, err := d.customers.GetCustomer(ctx, taxID); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (d *Dispatcher) transact(
	ctx context.Context,
	taxID string,
	number int64,
	rawAmount string,
	run func(context.Context, usecase.TransactionInput) (*usecase.TransactionResult, error),
	done string,
) (string, error) {
	amount, err := domain.ParseAmount(rawAmount)
	if err != nil {
		return "", err
	}

	if _, err := run(ctx, usecase.TransactionInput{TaxID: taxID, AccountNumber: number, Amount: amount}); err != nil {
		return "", err
	}
	return success(done), nil
}

func (d *Dispatcher) statement(ctx context.Context, r StatementRequest) (string, error) {
	stmt, err := d.statements.Statement(ctx, usecase.StatementInput{
		TaxID:         r.TaxID,
		AccountNumber: r.AccountNumber,
		Kind:          r.Kind,
	})
	if err != nil {
		return "", err
	}
	return RenderStatement(stmt.Records, domain.FormatAmount(stmt.Balance)), nil
}

func (d *Dispatcher) newCustomer(ctx context.Context, r NewCustomerRequest) (string, error) {
	_, err := d.customers.CreateCustomer(ctx, usecase.CreateCustomerInput{
		Name:      r.Name,
		BirthDate: r.BirthDate,
		TaxID:     r.TaxID,
		Address:   r.Address,
	})
	if err != nil {
		return "", err
	}
	return success("Customer created successfully!"), nil
}

func (d *Dispatcher) newAccount(ctx context.Context, r NewAccountRequest) (string, error) {
	account, err := d.accounts.CreateAccount(ctx, usecase.CreateAccountInput{TaxID: r.TaxID})
	if err != nil {
		return "", err
	}
	return success(fmt.Sprintf("Account %d created successfully!", account.Number)), nil
}

func (d *Dispatcher) listAccounts(ctx context.Context) (string, error) {
	var summaries []domain.AccountSummary
	for offset := 0; ; offset += domain.MaxPageSize {
		page, err := d.accounts.ListAccounts(ctx, usecase.ListAccountsInput{Limit: domain.MaxPageSize, Offset: offset})
		if err != nil {
			return "", err
		}
		for _, a := range page {
			summaries = append(summaries, a.Summary())
		}
		if len(page) < domain.MaxPageSize {
			break
		}
	}
	return RenderAccounts(summaries), nil
}

func commandOf(req Request) Command {
	if req == nil {
		return ""
	}
	return req.Command()
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrCustomerNotFound)
}
