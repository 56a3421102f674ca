// Package idempotency deduplicates Twilio webhook deliveries. Twilio
// retries a webhook whenever the response is late or lost, so the same
// MessageSid can arrive more than once.
package idempotency

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a MessageSid stays marked as seen. Twilio
// stops retrying well inside this window.
const DefaultTTL = 24 * time.Hour

// Deduper marks message SIDs as seen using Redis SETNX.
type Deduper struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

func NewDeduper(client *redis.Client, ttl time.Duration, log *slog.Logger) *Deduper {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = slog.Default()
	}

	return &Deduper{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// Seen atomically marks the SID and reports whether it had already been
// processed. The first caller for a SID gets false; every retry gets
// true.
func (d *Deduper) Seen(ctx context.Context, messageSid string) (bool, error) {
	if messageSid == "" {
		return false, nil
	}

	acquired, err := d.client.SetNX(ctx, seenKey(messageSid), 1, d.ttl).Result()
	if err != nil {
		d.log.Error("failed to mark message sid", slog.String("message_sid", messageSid), slog.Any("error", err))
		return false, err
	}

	return !acquired, nil
}

func seenKey(messageSid string) string {
	return fmt.Sprintf("webhook:seen:%s", messageSid)
}
