package handler

import (
	"context"
	"net/http"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, number int64) (*domain.Account, error)
	ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create opens a new checking account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.Number < 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "account number must be positive")
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by number.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	number, ok := accountNumberParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_account_number", "account number must be a positive integer")
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), number)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists account summaries in opening order.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	input := usecase.ListAccountsInput{
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	}

	accounts, err := h.accountUC.ListAccounts(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	summaries := make([]domain.AccountSummary, len(accounts))
	for i, a := range accounts {
		summaries[i] = a.Summary()
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[dto.AccountSummaryResponse]{
		Items:  dto.SummariesFromDomain(summaries),
		Limit:  input.Limit,
		Offset: input.Offset,
	})
}
