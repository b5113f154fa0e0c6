package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/usecase"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	Deposit(ctx context.Context, input usecase.TransactionInput) (*usecase.TransactionResult, error)
	Withdraw(ctx context.Context, input usecase.TransactionInput) (*usecase.TransactionResult, error)
}

// StatementService defines the behavior needed for statements.
type StatementService interface {
	Statement(ctx context.Context, input usecase.StatementInput) (*usecase.Statement, error)
}

// TransactionHandler handles deposits, withdrawals and statements.
type TransactionHandler struct {
	transactionUC TransactionService
	statementUC   StatementService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionUC TransactionService, statementUC StatementService) *TransactionHandler {
	return &TransactionHandler{
		transactionUC: transactionUC,
		statementUC:   statementUC,
	}
}

// Deposit credits the account in the path.
func (h *TransactionHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, h.transactionUC.Deposit)
}

// Withdraw debits the account in the path.
func (h *TransactionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, h.transactionUC.Withdraw)
}

func (h *TransactionHandler) apply(
	w http.ResponseWriter,
	r *http.Request,
	run func(context.Context, usecase.TransactionInput) (*usecase.TransactionResult, error),
) {
	number, ok := accountNumberParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_account_number", "account number must be a positive integer")
		return
	}

	var req dto.TransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.TaxID) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "tax_id is required")
		return
	}

	result, err := run(r.Context(), req.ToUseCaseInput(number))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromResult(result))
}

// Statement renders the account history, optionally filtered by kind.
func (h *TransactionHandler) Statement(w http.ResponseWriter, r *http.Request) {
	number, ok := accountNumberParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_account_number", "account number must be a positive integer")
		return
	}

	query := r.URL.Query()
	kind := query.Get("kind")

	statement, err := h.statementUC.Statement(r.Context(), usecase.StatementInput{
		TaxID:         query.Get("tax_id"),
		AccountNumber: number,
		Kind:          kind,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromUseCase(statement, kind))
}
