package domain

import (
	"encoding/json"
	"time"
)

// Event types
const (
	EventTypeCustomerRegistered  = "customer.registered"
	EventTypeAccountOpened       = "account.opened"
	EventTypeTransactionApplied  = "transaction.applied"
	EventTypeTransactionRejected = "transaction.rejected"
)

// Aggregate types
const (
	AggregateTypeCustomer = "customer"
	AggregateTypeAccount  = "account"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// CustomerRegisteredEvent payload
type CustomerRegisteredEvent struct {
	TaxID string `json:"tax_id"`
	Name  string `json:"name"`
}

// AccountOpenedEvent payload
type AccountOpenedEvent struct {
	AccountNumber int64  `json:"account_number"`
	Branch        string `json:"branch"`
	TaxID         string `json:"tax_id"`
	Kind          string `json:"kind"`
}

// TransactionAppliedEvent payload
type TransactionAppliedEvent struct {
	RecordID      string `json:"record_id"`
	AccountNumber int64  `json:"account_number"`
	Kind          string `json:"kind"`
	Amount        string `json:"amount"`
	BalanceAfter  string `json:"balance_after"`
}

// TransactionRejectedEvent payload
type TransactionRejectedEvent struct {
	AccountNumber int64  `json:"account_number"`
	Kind          string `json:"kind"`
	Amount        string `json:"amount"`
	Reason        string `json:"reason"`
}

// EventPayload converts an event struct into an outbox payload.
func EventPayload(v any) map[string]any {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return map[string]any{"error": "failed to marshal payload"}
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return map[string]any{"error": "failed to unmarshal payload"}
	}

	return result
}
