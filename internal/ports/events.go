package ports

import (
	"context"

	"collabhub/internal/domain"
)

// StoredEvent is a domain event as it sits in the append-only log.
type StoredEvent struct {
	Event     domain.Event
	Processed bool
}

// DomainEventStore is the append-only event log. Writers only ever Add;
// the consumer drains unprocessed batches and marks events processed after
// their handler succeeds. Delivery is at-least-once: a crash between handling
// and marking re-delivers the event.
type DomainEventStore interface {
	Add(ctx context.Context, ev domain.Event) error
	// GetUnprocessedBatch returns up to n unprocessed events, oldest first.
	GetUnprocessedBatch(ctx context.Context, n int) ([]domain.Event, error)
	MarkProcessed(ctx context.Context, eventID string) error
}

// Deduper is the processed-event ledger guarding handlers against duplicate
// delivery. Delivered is checked before a handler runs; MarkDelivered is
// recorded only after it succeeds. A crash between handling and marking still
// re-delivers, which is why the handlers are additionally anchored on natural
// keys.
type Deduper interface {
	Delivered(ctx context.Context, handler, eventID string) (bool, error)
	MarkDelivered(ctx context.Context, handler, eventID string) error
}
