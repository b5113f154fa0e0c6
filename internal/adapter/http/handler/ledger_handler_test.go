package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/usecase"
)

type reconciliationServiceStub struct {
	report *usecase.ReconciliationReport
	totals *usecase.LedgerTotals
	err    error
}

func (s *reconciliationServiceStub) GenerateReconciliationReport(ctx context.Context) (*usecase.ReconciliationReport, error) {
	return s.report, nil
}

func (s *reconciliationServiceStub) CheckLedgerConsistency(ctx context.Context) (*usecase.LedgerTotals, error) {
	return s.totals, s.err
}

func TestLedgerHandler_CheckConsistency(t *testing.T) {
	totals := &usecase.LedgerTotals{
		Balances:    decimal.NewFromInt(498),
		Deposits:    decimal.NewFromInt(1000),
		Withdrawals: decimal.NewFromInt(502),
	}

	tests := []struct {
		name       string
		stub       *reconciliationServiceStub
		wantStatus int
		consistent bool
	}{
		{
			name: "consistent",
			stub: &reconciliationServiceStub{
				report: &usecase.ReconciliationReport{TotalAccounts: 1, ReconciledAccounts: 1, LedgerConsistent: true, CheckedAt: time.Now()},
				totals: totals,
			},
			wantStatus: http.StatusOK,
			consistent: true,
		},
		{
			name: "inconsistent",
			stub: &reconciliationServiceStub{
				report: &usecase.ReconciliationReport{TotalAccounts: 1, CheckedAt: time.Now()},
				totals: totals,
				err:    usecase.ErrInconsistentLedger,
			},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewLedgerHandler(tt.stub)
			rec := httptest.NewRecorder()

			handler.CheckConsistency(rec, httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}

			var resp map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp["consistent"] != tt.consistent {
				t.Fatalf("expected consistent=%v, got %v", tt.consistent, resp["consistent"])
			}
			if resp["balances"] != "498.00" {
				t.Fatalf("expected balances 498.00, got %v", resp["balances"])
			}
		})
	}
}

func TestHealthHandler_WithoutRedis(t *testing.T) {
	handler := NewHealthHandler(nil)

	rec := httptest.NewRecorder()
	handler.Liveness(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["redis"] != "disabled" || resp["status"] != "ready" {
		t.Fatalf("unexpected readiness: %+v", resp)
	}
}
