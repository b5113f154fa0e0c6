package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/bankledger/internal/domain"
)

// EventRecorder appends domain events to the outbox. Outbox failures are
// logged and never fail the business operation that raised the event.
type EventRecorder struct {
	outbox OutboxRepository
	idGen  IDGenerator
	logger zerolog.Logger
}

// NewEventRecorder creates a new EventRecorder.
func NewEventRecorder(outbox OutboxRepository, idGen IDGenerator, logger zerolog.Logger) *EventRecorder {
	return &EventRecorder{
		outbox: outbox,
		idGen:  idGen,
		logger: logger,
	}
}

// Record appends one event.
func (r *EventRecorder) Record(ctx context.Context, aggregateType, aggregateID, eventType string, payload any) {
	if r == nil || r.outbox == nil {
		return
	}

	event := &domain.OutboxEvent{
		ID:            r.idGen.Generate(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       domain.EventPayload(payload),
		CreatedAt:     time.Now().UTC(),
	}

	if err := r.outbox.Create(ctx, event); err != nil {
		r.logger.Warn().
			Err(err).
			Str("event_type", eventType).
			Str("aggregate_id", aggregateID).
			Msg("failed to record outbox event")
	}
}
