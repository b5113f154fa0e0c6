package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

// ErrInconsistentLedger is returned when balances disagree with account histories.
var ErrInconsistentLedger = errors.New("ledger inconsistency detected")

// ReconciliationUseCase handles balance reconciliation operations
type ReconciliationUseCase struct {
	accountRepo AccountRepository
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(accountRepo AccountRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		accountRepo: accountRepo,
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	AccountNumber     int64
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	IsReconciled      bool
	LastChecked       time.Time
}

// ReconcileAccount rebuilds one account's balance from its history.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, number int64) (*ReconciliationResult, error) {
	account, err := uc.accountRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return reconcile(account), nil
}

func reconcile(account *domain.Account) *ReconciliationResult {
	replay := account.Replay()
	return &ReconciliationResult{
		AccountNumber:     account.Number,
		RecordedBalance:   replay.Recorded,
		CalculatedBalance: replay.Replayed,
		Difference:        replay.Recorded.Sub(replay.Replayed),
		IsReconciled:      replay.Consistent(),
		LastChecked:       time.Now().UTC(),
	}
}

// ReconcileAllAccounts reconciles all accounts in the system
func (uc *ReconciliationUseCase) ReconcileAllAccounts(ctx context.Context) ([]*ReconciliationResult, error) {
	var results []*ReconciliationResult

	for offset := 0; ; offset += reconciliationPageSize {
		accounts, err := uc.accountRepo.List(ctx, reconciliationPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to list accounts: %w", err)
		}

		for _, account := range accounts {
			results = append(results, reconcile(account))
		}

		if len(accounts) < reconciliationPageSize {
			return results, nil
		}
	}
}

// LedgerTotals aggregates every account in the ledger.
type LedgerTotals struct {
	Balances    decimal.Decimal
	Deposits    decimal.Decimal
	Withdrawals decimal.Decimal
}

// CheckLedgerConsistency verifies that the sum of balances equals deposits minus withdrawals
// and that every account history replays to its balance.
func (uc *ReconciliationUseCase) CheckLedgerConsistency(ctx context.Context) (*LedgerTotals, error) {
	totals := &LedgerTotals{
		Balances:    decimal.Zero,
		Deposits:    decimal.Zero,
		Withdrawals: decimal.Zero,
	}
	var drifted []int64

	for offset := 0; ; offset += reconciliationPageSize {
		accounts, err := uc.accountRepo.List(ctx, reconciliationPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to list accounts: %w", err)
		}

		for _, account := range accounts {
			replay := account.Replay()
			totals.Balances = totals.Balances.Add(replay.Recorded)
			totals.Deposits = totals.Deposits.Add(replay.Deposits)
			totals.Withdrawals = totals.Withdrawals.Add(replay.Withdrawals)
			if !replay.Consistent() {
				drifted = append(drifted, account.Number)
			}
		}

		if len(accounts) < reconciliationPageSize {
			break
		}
	}

	net := totals.Deposits.Sub(totals.Withdrawals)
	if !totals.Balances.Equal(net) || len(drifted) > 0 {
		return totals, fmt.Errorf(
			"%w: balances=%s deposits=%s withdrawals=%s difference=%s accounts=%v",
			ErrInconsistentLedger,
			totals.Balances.String(),
			totals.Deposits.String(),
			totals.Withdrawals.String(),
			totals.Balances.Sub(net).String(),
			drifted,
		)
	}

	return totals, nil
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalAccounts      int
	ReconciledAccounts int
	Discrepancies      []*ReconciliationResult
	LedgerConsistent   bool
	CheckedAt          time.Time
}

// GenerateReconciliationReport generates a comprehensive reconciliation report
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	results, err := uc.ReconcileAllAccounts(ctx)
	if err != nil {
		return nil, err
	}

	_, ledgerErr := uc.CheckLedgerConsistency(ctx)
	if ledgerErr != nil && !errors.Is(ledgerErr, ErrInconsistentLedger) {
		return nil, ledgerErr
	}

	report := &ReconciliationReport{
		TotalAccounts:    len(results),
		Discrepancies:    make([]*ReconciliationResult, 0),
		LedgerConsistent: ledgerErr == nil,
		CheckedAt:        time.Now().UTC(),
	}

	for _, result := range results {
		if result.IsReconciled {
			report.ReconciledAccounts++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	return report, nil
}
