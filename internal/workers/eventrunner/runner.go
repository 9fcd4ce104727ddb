package eventrunner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"collabhub/internal/events"
	"collabhub/internal/ports"
)

// Runner drains the domain event log through the dispatcher. It is the
// background consumer half of the consistency mechanism: services append
// events, the runner delivers them to handlers. Events are dispatched in log
// order within one drain; a failing event is logged and retried on the next
// poll (at-least-once).
type Runner struct {
	store      ports.DomainEventStore
	dispatcher *events.Dispatcher
	batchSize  int
	log        *zap.Logger
}

func New(store ports.DomainEventStore, dispatcher *events.Dispatcher, batchSize int, log *zap.Logger) *Runner {
	if batchSize < 1 {
		batchSize = 20
	}
	return &Runner{store: store, dispatcher: dispatcher, batchSize: batchSize, log: log}
}

// Run polls until the context is cancelled.
func (r *Runner) Run(ctx context.Context, pollInterval time.Duration) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.DrainOnce(ctx); err != nil {
				r.log.Error("event drain failed", zap.Error(err))
			}
		}
	}
}

// DrainOnce fetches and dispatches unprocessed batches until the log is
// empty, returning how many events were handled. Exposed separately so use
// cases (and tests) can run the consumer synchronously inline.
func (r *Runner) DrainOnce(ctx context.Context) (int, error) {
	handled := 0
	for {
		batch, err := r.store.GetUnprocessedBatch(ctx, r.batchSize)
		if err != nil {
			return handled, err
		}
		if len(batch) == 0 {
			return handled, nil
		}
		progressed := false
		for _, ev := range batch {
			if err := r.dispatcher.Dispatch(ctx, ev); err != nil {
				// Leave the event unprocessed; it will be re-delivered.
				r.log.Warn("event handling failed",
					zap.String("event_id", ev.EventID()),
					zap.String("kind", string(ev.Kind())),
					zap.Error(err))
				continue
			}
			handled++
			progressed = true
		}
		if !progressed {
			// Nothing in the batch could be handled; stop instead of
			// spinning on the same stuck events.
			return handled, nil
		}
	}
}
