package dto

import (
	"time"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// CustomerResponse represents a customer in API responses.
type CustomerResponse struct {
	TaxID     string    `json:"tax_id"`
	Name      string    `json:"name"`
	BirthDate string    `json:"birth_date"`
	Address   string    `json:"address"`
	Accounts  []int64   `json:"accounts"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomerFromDomain converts domain customer to response.
func CustomerFromDomain(c *domain.Customer) *CustomerResponse {
	accounts := c.Accounts()
	numbers := make([]int64, len(accounts))
	for i, a := range accounts {
		numbers[i] = a.Number
	}

	return &CustomerResponse{
		TaxID:     c.TaxID,
		Name:      c.Name,
		BirthDate: c.BirthDate.Format(domain.BirthDateLayout),
		Address:   c.Address,
		Accounts:  numbers,
		CreatedAt: c.CreatedAt,
	}
}

// CustomersFromDomain converts domain customers to responses.
func CustomersFromDomain(customers []*domain.Customer) []*CustomerResponse {
	result := make([]*CustomerResponse, len(customers))
	for i, c := range customers {
		result[i] = CustomerFromDomain(c)
	}
	return result
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	Branch              string    `json:"branch"`
	Number              int64     `json:"number"`
	Kind                string    `json:"kind"`
	OwnerTaxID          string    `json:"owner_tax_id"`
	OwnerName           string    `json:"owner_name"`
	Balance             string    `json:"balance"`
	OverdraftLimit      string    `json:"overdraft_limit,omitempty"`
	MaxDailyWithdrawals int       `json:"max_daily_withdrawals,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	resp := &AccountResponse{
		Branch:    a.Branch,
		Number:    a.Number,
		Kind:      a.Kind(),
		Balance:   domain.FormatAmount(a.Balance()),
		CreatedAt: a.CreatedAt,
	}
	if a.Owner != nil {
		resp.OwnerTaxID = a.Owner.TaxID
		resp.OwnerName = a.Owner.Name
	}
	if policy, ok := a.Policy(); ok {
		resp.OverdraftLimit = domain.FormatAmount(policy.OverdraftLimit)
		resp.MaxDailyWithdrawals = policy.MaxDailyWithdrawals
	}
	return resp
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// AccountSummaryResponse is the listing view of an account.
type AccountSummaryResponse struct {
	Branch    string `json:"branch"`
	Number    int64  `json:"number"`
	OwnerName string `json:"owner_name"`
	Kind      string `json:"kind"`
}

// SummariesFromDomain converts account summaries to responses.
func SummariesFromDomain(summaries []domain.AccountSummary) []AccountSummaryResponse {
	result := make([]AccountSummaryResponse, len(summaries))
	for i, s := range summaries {
		result[i] = AccountSummaryResponse{
			Branch:    s.Branch,
			Number:    s.Number,
			OwnerName: s.OwnerName,
			Kind:      s.Kind,
		}
	}
	return result
}

// RecordResponse represents a history record in API responses.
type RecordResponse struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	Amount       string    `json:"amount"`
	BalanceAfter string    `json:"balance_after"`
	Timestamp    time.Time `json:"timestamp"`
	// Display is the dd-mm-yyyy HH:MM:SS rendering of Timestamp.
	Display string `json:"display"`
}

// RecordFromDomain converts a history record to response.
func RecordFromDomain(r domain.Record) RecordResponse {
	return RecordResponse{
		ID:           r.ID,
		Kind:         r.Kind.String(),
		Amount:       domain.FormatAmount(r.Amount),
		BalanceAfter: domain.FormatAmount(r.BalanceAfter),
		Timestamp:    r.Timestamp,
		Display:      domain.FormatTimestamp(r.Timestamp),
	}
}

// TransactionResponse is returned for an applied deposit or withdrawal.
type TransactionResponse struct {
	AccountNumber int64          `json:"account_number"`
	Record        RecordResponse `json:"record"`
	Balance       string         `json:"balance"`
}

// TransactionFromResult converts a use case result to response.
func TransactionFromResult(res *usecase.TransactionResult) *TransactionResponse {
	return &TransactionResponse{
		AccountNumber: res.Account.Number,
		Record:        RecordFromDomain(res.Record),
		Balance:       domain.FormatAmount(res.Balance),
	}
}

// StatementResponse represents an account statement.
type StatementResponse struct {
	Account     AccountSummaryResponse `json:"account"`
	Kind        string                 `json:"kind,omitempty"`
	Records     []RecordResponse       `json:"records"`
	Balance     string                 `json:"balance"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// StatementFromUseCase converts a statement to response.
func StatementFromUseCase(s *usecase.Statement, kind string) *StatementResponse {
	records := make([]RecordResponse, len(s.Records))
	for i, r := range s.Records {
		records[i] = RecordFromDomain(r)
	}

	return &StatementResponse{
		Account:     SummariesFromDomain([]domain.AccountSummary{s.Account})[0],
		Kind:        kind,
		Records:     records,
		Balance:     domain.FormatAmount(s.Balance),
		GeneratedAt: s.GeneratedAt,
	}
}

// ReconciliationResultResponse represents one account's reconciliation.
type ReconciliationResultResponse struct {
	AccountNumber     int64  `json:"account_number"`
	RecordedBalance   string `json:"recorded_balance"`
	CalculatedBalance string `json:"calculated_balance"`
	Difference        string `json:"difference"`
}

// ReconciliationReportResponse represents a reconciliation report.
type ReconciliationReportResponse struct {
	TotalAccounts      int                            `json:"total_accounts"`
	ReconciledAccounts int                            `json:"reconciled_accounts"`
	LedgerConsistent   bool                           `json:"ledger_consistent"`
	Discrepancies      []ReconciliationResultResponse `json:"discrepancies"`
	CheckedAt          time.Time                      `json:"checked_at"`
}

// ReportFromUseCase converts a reconciliation report to response.
func ReportFromUseCase(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	discrepancies := make([]ReconciliationResultResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = ReconciliationResultResponse{
			AccountNumber:     d.AccountNumber,
			RecordedBalance:   domain.FormatAmount(d.RecordedBalance),
			CalculatedBalance: domain.FormatAmount(d.CalculatedBalance),
			Difference:        domain.FormatAmount(d.Difference),
		}
	}

	return &ReconciliationReportResponse{
		TotalAccounts:      r.TotalAccounts,
		ReconciledAccounts: r.ReconciledAccounts,
		LedgerConsistent:   r.LedgerConsistent,
		Discrepancies:      discrepancies,
		CheckedAt:          r.CheckedAt,
	}
}

// ListResponse wraps a page of items.
type ListResponse[T any] struct {
	Items  []T `json:"items"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
