package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   code,
		Message: details,
	})
}

// writeDomainError maps err to a status and a stable error code.
func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, mapDomainError(err), errorCode(err), err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound),
		errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateIdentifier):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrUnknownTransactionKind),
		errors.Is(err, domain.ErrNoAccountSelected),
		errors.Is(err, domain.ErrInvalidTaxID),
		errors.Is(err, domain.ErrInvalidCustomerName),
		errors.Is(err, domain.ErrInvalidBirthDate),
		errors.Is(err, domain.ErrInvalidAddress):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrOverdraftLimitExceeded),
		errors.Is(err, domain.ErrDailyWithdrawalLimitExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, usecase.ErrInconsistentLedger):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// errorCode returns the machine-readable code for err.
func errorCode(err error) string {
	if reason := domain.RejectionReason(err); reason != "other" {
		return reason
	}

	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		return "customer_not_found"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, domain.ErrDuplicateIdentifier):
		return "duplicate_identifier"
	case errors.Is(err, domain.ErrNoAccountSelected):
		return "no_account_selected"
	case errors.Is(err, domain.ErrUnknownTransactionKind):
		return "unknown_transaction_kind"
	case errors.Is(err, domain.ErrInvalidTaxID),
		errors.Is(err, domain.ErrInvalidCustomerName),
		errors.Is(err, domain.ErrInvalidBirthDate),
		errors.Is(err, domain.ErrInvalidAddress):
		return "validation_failed"
	case errors.Is(err, usecase.ErrInconsistentLedger):
		return "inconsistent_ledger"
	default:
		return "internal_error"
	}
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// accountNumberParam parses the {number} path parameter.
func accountNumberParam(r *http.Request) (int64, bool) {
	number, err := strconv.ParseInt(chi.URLParam(r, "number"), 10, 64)
	if err != nil || number <= 0 {
		return 0, false
	}
	return number, true
}
