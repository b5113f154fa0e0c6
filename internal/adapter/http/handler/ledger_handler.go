package handler

import (
	"context"
	"net/http"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// ReconciliationService defines the behavior needed by LedgerHandler.
type ReconciliationService interface {
	GenerateReconciliationReport(ctx context.Context) (*usecase.ReconciliationReport, error)
	CheckLedgerConsistency(ctx context.Context) (*usecase.LedgerTotals, error)
}

// LedgerHandler handles ledger-wide operations.
type LedgerHandler struct {
	reconciliationUC ReconciliationService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(reconciliationUC ReconciliationService) *LedgerHandler {
	return &LedgerHandler{reconciliationUC: reconciliationUC}
}

// CheckConsistency reports whether balances agree with account histories.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciliationUC.GenerateReconciliationReport(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	totals, err := h.reconciliationUC.CheckLedgerConsistency(r.Context())
	status := http.StatusOK
	if err != nil {
		status = mapDomainError(err)
		if totals == nil {
			writeDomainError(w, err)
			return
		}
	}

	writeJSON(w, status, map[string]any{
		"consistent":  report.LedgerConsistent && err == nil,
		"report":      dto.ReportFromUseCase(report),
		"balances":    domain.FormatAmount(totals.Balances),
		"deposits":    domain.FormatAmount(totals.Deposits),
		"withdrawals": domain.FormatAmount(totals.Withdrawals),
	})
}
