package memory

import (
	"context"
	"sync"
	"time"

	"github.com/iho/bankledger/internal/domain"
)

// OutboxRepository implements usecase.OutboxRepository in memory.
type OutboxRepository struct {
	mu     sync.Mutex
	events []*domain.OutboxEvent
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{}
}

// Create appends an event.
func (r *OutboxRepository) Create(ctx context.Context, event *domain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *event
	r.events = append(r.events, &stored)
	return nil
}

// GetUnpublished returns up to limit unpublished events, oldest first.
func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if limit <= 0 {
		return []*domain.OutboxEvent{}, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	events := make([]*domain.OutboxEvent, 0, limit)
	for _, e := range r.events {
		if len(events) == limit {
			break
		}
		if !e.Published {
			copied := *e
			events = append(events, &copied)
		}
	}

	return events, nil
}

// MarkPublished marks an event as published.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
			return nil
		}
	}

	return nil
}

// DeletePublished deletes published events older than the given time.
func (r *OutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.events[:0]
	for _, e := range r.events {
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			continue
		}
		kept = append(kept, e)
	}
	clear(r.events[len(kept):])
	r.events = kept

	return nil
}

// Len returns the number of stored events.
func (r *OutboxRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// NullOutboxRepository discards every event.
type NullOutboxRepository struct{}

// NewNullOutboxRepository creates a new NullOutboxRepository.
func NewNullOutboxRepository() *NullOutboxRepository {
	return &NullOutboxRepository{}
}

func (r *NullOutboxRepository) Create(ctx context.Context, event *domain.OutboxEvent) error {
	return nil
}

func (r *NullOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	return nil, nil
}

func (r *NullOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	return nil
}

func (r *NullOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	return nil
}
