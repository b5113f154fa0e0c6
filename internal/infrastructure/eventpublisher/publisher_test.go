package eventpublisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/bankledger/internal/adapter/repository/memory"
	"github.com/iho/bankledger/internal/domain"
)

func TestProcessEventsPublishesAndMarks(t *testing.T) {
	repo := &stubOutboxRepo{
		events: []*domain.OutboxEvent{{ID: "evt-1", EventType: "type"}},
	}
	pub := &stubPublisher{}
	metrics := &stubMetrics{}
	ep := newTestPublisher(repo, pub)
	ep.metrics = metrics

	if err := ep.processEvents(context.Background()); err != nil {
		t.Fatalf("processEvents failed: %v", err)
	}

	if len(pub.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(pub.published))
	}
	if len(repo.marked) != 1 || repo.marked[0] != "evt-1" {
		t.Fatalf("expected event to be marked published, got %#v", repo.marked)
	}
	if metrics.published != 1 || metrics.failed != 0 {
		t.Fatalf("unexpected metrics: %+v", metrics)
	}
}

func TestProcessEventsContinuesOnPublishError(t *testing.T) {
	repo := &stubOutboxRepo{
		events: []*domain.OutboxEvent{
			{ID: "evt-1", EventType: "type"},
			{ID: "evt-2", EventType: "type"},
		},
	}
	pub := &stubPublisher{
		errorsByID: map[string]error{"evt-1": errors.New("fail")},
	}
	metrics := &stubMetrics{}
	ep := newTestPublisher(repo, pub)
	ep.metrics = metrics

	if err := ep.processEvents(context.Background()); err != nil {
		t.Fatalf("processEvents returned error: %v", err)
	}

	if len(pub.published) != 1 || pub.published[0].ID != "evt-2" {
		t.Fatalf("expected only evt-2 to be published, got %#v", pub.published)
	}
	if len(repo.marked) != 1 || repo.marked[0] != "evt-2" {
		t.Fatalf("expected only evt-2 to be marked, got %#v", repo.marked)
	}
	// one initial attempt plus two retries
	if pub.attempts["evt-1"] != 3 {
		t.Fatalf("expected 3 attempts for evt-1, got %d", pub.attempts["evt-1"])
	}
	if metrics.failed != 1 {
		t.Fatalf("expected one failure, got %+v", metrics)
	}
}

func TestProcessEventsRetriesTransientFailure(t *testing.T) {
	repo := &stubOutboxRepo{
		events: []*domain.OutboxEvent{{ID: "evt-1", EventType: "type"}},
	}
	pub := &stubPublisher{failTimes: map[string]int{"evt-1": 1}}
	ep := newTestPublisher(repo, pub)

	if err := ep.processEvents(context.Background()); err != nil {
		t.Fatalf("processEvents returned error: %v", err)
	}

	if pub.attempts["evt-1"] != 2 || len(repo.marked) != 1 {
		t.Fatalf("expected success on second attempt, attempts=%d marked=%v", pub.attempts["evt-1"], repo.marked)
	}
}

func TestProcessEventsDrainsMemoryOutbox(t *testing.T) {
	outbox := memory.NewOutboxRepository()
	ctx := context.Background()
	for _, id := range []string{"evt-1", "evt-2", "evt-3"} {
		if err := outbox.Create(ctx, &domain.OutboxEvent{ID: id, EventType: domain.EventTypeTransactionApplied, CreatedAt: time.Now()}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	pub := &stubPublisher{}
	ep := NewEventPublisher(Config{
		OutboxRepo: outbox,
		Publisher:  pub,
		Logger:     zerolog.Nop(),
		BatchSize:  2,
		Retention:  time.Nanosecond,
	})
	clock := time.Now()
	ep.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	for i := 0; i < 2; i++ {
		if err := ep.processEvents(ctx); err != nil {
			t.Fatalf("processEvents failed: %v", err)
		}
	}

	if len(pub.published) != 3 {
		t.Fatalf("expected 3 published events, got %d", len(pub.published))
	}
	if outbox.Len() != 0 {
		t.Fatalf("expected published events to be purged, %d left", outbox.Len())
	}
}

func TestStartStopsOnContextCancellation(t *testing.T) {
	repo := &stubOutboxRepo{}
	pub := &stubPublisher{}
	ep := newTestPublisher(repo, pub)
	ep.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ep.Start(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("publisher did not stop after cancel")
	}
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	pub := NewLogPublisher(zerolog.New(&buf))

	err := pub.Publish(context.Background(), &domain.OutboxEvent{
		ID:            "evt-1",
		EventType:     domain.EventTypeAccountOpened,
		AggregateType: domain.AggregateTypeAccount,
		AggregateID:   "1",
		Payload:       map[string]any{"number": 1},
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json log entry: %v", err)
	}
	if entry["event_type"] != domain.EventTypeAccountOpened || entry["aggregate_id"] != "1" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if payload, ok := entry["payload"].(map[string]any); !ok || payload["number"] != float64(1) {
		t.Fatalf("expected raw json payload, got %+v", entry["payload"])
	}
}

func newTestPublisher(repo *stubOutboxRepo, pub *stubPublisher) *EventPublisher {
	return NewEventPublisher(Config{
		OutboxRepo: repo,
		Publisher:  pub,
		Logger:     zerolog.Nop(),
		BatchSize:  10,
		Interval:   5 * time.Millisecond,
	})
}

type stubOutboxRepo struct {
	events []*domain.OutboxEvent
	marked []string
}

func (s *stubOutboxRepo) Create(ctx context.Context, event *domain.OutboxEvent) error {
	return nil
}

func (s *stubOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if len(s.events) <= limit {
		return append([]*domain.OutboxEvent(nil), s.events...), nil
	}
	return append([]*domain.OutboxEvent(nil), s.events[:limit]...), nil
}

func (s *stubOutboxRepo) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	s.marked = append(s.marked, id)
	return nil
}

func (s *stubOutboxRepo) DeletePublished(ctx context.Context, before time.Time) error {
	return nil
}

type stubPublisher struct {
	published  []*domain.OutboxEvent
	errorsByID map[string]error
	failTimes  map[string]int
	attempts   map[string]int
}

func (s *stubPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	if s.attempts == nil {
		s.attempts = map[string]int{}
	}
	s.attempts[event.ID]++

	if err := s.errorsByID[event.ID]; err != nil {
		return err
	}
	if s.attempts[event.ID] <= s.failTimes[event.ID] {
		return errors.New("transient")
	}
	s.published = append(s.published, event)
	return nil
}

type stubMetrics struct {
	published int
	failed    int
}

func (s *stubMetrics) EventPublished() { s.published++ }
func (s *stubMetrics) EventFailed()    { s.failed++ }
