package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/bankledger/internal/domain"
)

// CustomerUseCase handles customer registration and lookup.
type CustomerUseCase struct {
	customerRepo CustomerRepository
	events       *EventRecorder
	metrics      MetricsRecorder
	logger       zerolog.Logger
	now          func() time.Time
}

// NewCustomerUseCase creates a new CustomerUseCase.
func NewCustomerUseCase(
	customerRepo CustomerRepository,
	events *EventRecorder,
	metrics MetricsRecorder,
	logger zerolog.Logger,
) *CustomerUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &CustomerUseCase{
		customerRepo: customerRepo,
		events:       events,
		metrics:      metrics,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateCustomerInput represents input for registering a customer.
type CreateCustomerInput struct {
	Name      string
	BirthDate string // dd-mm-yyyy
	TaxID     string
	Address   string
}

// CreateCustomer validates and registers a new customer.
func (uc *CustomerUseCase) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*domain.Customer, error) {
	taxID := strings.TrimSpace(input.TaxID)
	if err := domain.ValidateTaxID(taxID); err != nil {
		return nil, err
	}
	if err := domain.ValidateCustomerName(input.Name); err != nil {
		return nil, err
	}
	birthDate, err := domain.ParseBirthDate(input.BirthDate, uc.now())
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateAddress(input.Address); err != nil {
		return nil, err
	}

	customer := domain.NewCustomer(
		strings.TrimSpace(input.Name),
		birthDate,
		taxID,
		strings.TrimSpace(input.Address),
	)

	if err := uc.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	uc.metrics.CustomerRegistered()
	uc.events.Record(ctx, domain.AggregateTypeCustomer, customer.TaxID, domain.EventTypeCustomerRegistered,
		domain.CustomerRegisteredEvent{TaxID: customer.TaxID, Name: customer.Name})

	uc.logger.Info().
		Str("tax_id", customer.TaxID).
		Msg("customer registered")

	return customer, nil
}

// GetCustomer retrieves a customer by tax ID.
func (uc *CustomerUseCase) GetCustomer(ctx context.Context, taxID string) (*domain.Customer, error) {
	return uc.customerRepo.GetByTaxID(ctx, strings.TrimSpace(taxID))
}

// ListCustomersInput represents input for listing customers.
type ListCustomersInput struct {
	Limit  int
	Offset int
}

// ListCustomers lists customers in registration order.
func (uc *CustomerUseCase) ListCustomers(ctx context.Context, input ListCustomersInput) ([]*domain.Customer, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.customerRepo.List(ctx, limit, offset)
}

// ListCustomerAccounts returns the customer's accounts in opening order.
func (uc *CustomerUseCase) ListCustomerAccounts(ctx context.Context, taxID string) ([]domain.AccountSummary, error) {
	customer, err := uc.GetCustomer(ctx, taxID)
	if err != nil {
		return nil, err
	}

	accounts := customer.Accounts()
	summaries := make([]domain.AccountSummary, 0, len(accounts))
	for _, account := range accounts {
		summaries = append(summaries, account.Summary())
	}
	return summaries, nil
}

// ResolveAccount finds the account a customer wants to operate on.
// Number zero auto-selects a sole account; any other number must be owned by the customer.
func (uc *CustomerUseCase) ResolveAccount(ctx context.Context, taxID string, number int64) (*domain.Customer, *domain.Account, error) {
	customer, err := uc.GetCustomer(ctx, taxID)
	if err != nil {
		return nil, nil, err
	}

	var account *domain.Account
	if number == 0 {
		account, err = customer.SelectAccount(0)
	} else {
		account, err = customer.Account(number)
	}
	if err != nil {
		return nil, nil, err
	}

	return customer, account, nil
}
