package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper is the processed-event ledger backed by redis. Delivery markers
// carry a TTL: after it expires a very late re-delivery falls through to the
// handlers' natural-key checks.
type Deduper struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDeduper(addr string, ttl time.Duration) *Deduper {
	return &Deduper{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

func key(handler, eventID string) string {
	return "collabhub:delivered:" + handler + ":" + eventID
}

func (d *Deduper) Delivered(ctx context.Context, handler, eventID string) (bool, error) {
	n, err := d.client.Exists(ctx, key(handler, eventID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (d *Deduper) MarkDelivered(ctx context.Context, handler, eventID string) error {
	return d.client.Set(ctx, key(handler, eventID), 1, d.ttl).Err()
}

func (d *Deduper) Close() error { return d.client.Close() }
