package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

// TransactionUseCase executes deposits and withdrawals on behalf of customers.
type TransactionUseCase struct {
	customers *CustomerUseCase
	events    *EventRecorder
	metrics   MetricsRecorder
	logger    zerolog.Logger
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	customers *CustomerUseCase,
	events *EventRecorder,
	metrics MetricsRecorder,
	logger zerolog.Logger,
) *TransactionUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &TransactionUseCase{
		customers: customers,
		events:    events,
		metrics:   metrics,
		logger:    logger,
	}
}

// TransactionInput represents input for a deposit or withdrawal.
type TransactionInput struct {
	TaxID string
	// AccountNumber zero auto-selects the customer's sole account.
	AccountNumber int64
	Amount        decimal.Decimal
}

// TransactionResult is the outcome of an applied transaction.
type TransactionResult struct {
	Record  domain.Record
	Account *domain.Account
	Balance decimal.Decimal
}

// Deposit credits an account owned by the customer.
func (uc *TransactionUseCase) Deposit(ctx context.Context, input TransactionInput) (*TransactionResult, error) {
	return uc.run(ctx, input, domain.Deposit{Value: input.Amount})
}

// Withdraw debits an account owned by the customer.
func (uc *TransactionUseCase) Withdraw(ctx context.Context, input TransactionInput) (*TransactionResult, error) {
	return uc.run(ctx, input, domain.Withdrawal{Value: input.Amount})
}

func (uc *TransactionUseCase) run(ctx context.Context, input TransactionInput, tx domain.Transaction) (*TransactionResult, error) {
	customer, account, err := uc.customers.ResolveAccount(ctx, input.TaxID, input.AccountNumber)
	if err != nil {
		return nil, err
	}
	return uc.Execute(ctx, customer, account, tx)
}

// Execute applies tx to account through customer and reports the outcome.
func (uc *TransactionUseCase) Execute(
	ctx context.Context,
	customer *domain.Customer,
	account *domain.Account,
	tx domain.Transaction,
) (*TransactionResult, error) {
	aggregateID := fmt.Sprint(account.Number)

	rec, err := customer.Execute(account, tx)
	if err != nil {
		reason := domain.RejectionReason(err)
		uc.metrics.TransactionRejected(tx.Kind(), reason)
		uc.events.Record(ctx, domain.AggregateTypeAccount, aggregateID, domain.EventTypeTransactionRejected,
			domain.TransactionRejectedEvent{
				AccountNumber: account.Number,
				Kind:          tx.Kind().String(),
				Amount:        tx.Amount().String(),
				Reason:        reason,
			})

		uc.logger.Info().
			Err(err).
			Int64("account_number", account.Number).
			Str("kind", tx.Kind().String()).
			Str("amount", tx.Amount().String()).
			Str("reason", reason).
			Msg("transaction rejected")

		return nil, err
	}

	uc.metrics.TransactionApplied(rec.Kind, rec.Amount)
	uc.metrics.BalanceChanged(account.Number, rec.BalanceAfter)
	uc.events.Record(ctx, domain.AggregateTypeAccount, aggregateID, domain.EventTypeTransactionApplied,
		domain.TransactionAppliedEvent{
			RecordID:      rec.ID,
			AccountNumber: account.Number,
			Kind:          rec.Kind.String(),
			Amount:        domain.FormatAmount(rec.Amount),
			BalanceAfter:  domain.FormatAmount(rec.BalanceAfter),
		})

	uc.logger.Debug().
		Str("record_id", rec.ID).
		Int64("account_number", account.Number).
		Str("kind", rec.Kind.String()).
		Str("amount", domain.FormatAmount(rec.Amount)).
		Str("balance", domain.FormatAmount(rec.BalanceAfter)).
		Msg("transaction applied")

	return &TransactionResult{
		Record:  rec,
		Account: account,
		Balance: rec.BalanceAfter,
	}, nil
}
