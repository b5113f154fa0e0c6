package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// CustomerService defines the behavior needed by CustomerHandler.
type CustomerService interface {
	CreateCustomer(ctx context.Context, input usecase.CreateCustomerInput) (*domain.Customer, error)
	GetCustomer(ctx context.Context, taxID string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, input usecase.ListCustomersInput) ([]*domain.Customer, error)
	ListCustomerAccounts(ctx context.Context, taxID string) ([]domain.AccountSummary, error)
}

// CustomerHandler handles customer-related HTTP requests.
type CustomerHandler struct {
	customerUC CustomerService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customerUC CustomerService) *CustomerHandler {
	return &CustomerHandler{customerUC: customerUC}
}

// Create registers a new customer.
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	customer, err := h.customerUC.CreateCustomer(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CustomerFromDomain(customer))
}

// Get retrieves a customer by tax ID.
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customerUC.GetCustomer(r.Context(), chi.URLParam(r, "taxID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CustomerFromDomain(customer))
}

// List lists customers in registration order.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	input := usecase.ListCustomersInput{
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	}

	customers, err := h.customerUC.ListCustomers(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.CustomerResponse]{
		Items:  dto.CustomersFromDomain(customers),
		Limit:  input.Limit,
		Offset: input.Offset,
	})
}

// ListAccounts lists the customer's accounts.
func (h *CustomerHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.customerUC.ListCustomerAccounts(r.Context(), chi.URLParam(r, "taxID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SummariesFromDomain(summaries))
}
