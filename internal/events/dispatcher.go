package events

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"collabhub/internal/domain"
	"collabhub/internal/ports"
)

// Dispatcher routes a stored domain event to its handler. Every invocation is
// guarded by the processed-event ledger: a (handler, event) pair that was
// already delivered is skipped, which closes the duplicate-effect window left
// open by pure at-least-once delivery. The event is marked processed in the
// log only after the handler succeeds; a failure leaves it for re-delivery.
type Dispatcher struct {
	handlers *Handlers
	events   ports.DomainEventStore
	dedup    ports.Deduper
	log      *zap.Logger
}

func NewDispatcher(handlers *Handlers, events ports.DomainEventStore, dedup ports.Deduper, log *zap.Logger) *Dispatcher {
	return &Dispatcher{handlers: handlers, events: events, dedup: dedup, log: log}
}

func (d *Dispatcher) Dispatch(ctx context.Context, ev domain.Event) error {
	handlerName := string(ev.Kind())
	seen, err := d.dedup.Delivered(ctx, handlerName, ev.EventID())
	if err != nil {
		return fmt.Errorf("dedup check for event %s: %w", ev.EventID(), err)
	}
	if seen {
		d.log.Debug("duplicate event delivery skipped",
			zap.String("event_id", ev.EventID()), zap.String("kind", handlerName))
		return d.events.MarkProcessed(ctx, ev.EventID())
	}

	switch v := ev.(type) {
	case domain.ApplicationSubmitted:
		err = d.handlers.ApplicationSubmitted(ctx, v)
	case domain.ApplicationAccepted:
		err = d.handlers.ApplicationAccepted(ctx, v)
	case domain.PositionClosed:
		err = d.handlers.PositionClosed(ctx, v)
	case domain.PositionRemoved:
		err = d.handlers.PositionRemoved(ctx, v)
	case domain.ProjectRemoved:
		err = d.handlers.ProjectRemoved(ctx, v)
	case domain.ContributorRemoved:
		err = d.handlers.ContributorRemoved(ctx, v)
	default:
		d.log.Warn("no handler for event kind", zap.String("kind", handlerName))
		return d.events.MarkProcessed(ctx, ev.EventID())
	}
	if err != nil {
		return fmt.Errorf("handle %s event %s: %w", handlerName, ev.EventID(), err)
	}
	if err := d.dedup.MarkDelivered(ctx, handlerName, ev.EventID()); err != nil {
		return fmt.Errorf("mark delivery of event %s: %w", ev.EventID(), err)
	}
	return d.events.MarkProcessed(ctx, ev.EventID())
}
