// Package ratelimit guards the webhook against senders flooding the
// bot with messages.
package ratelimit

import (
	"context"
	"time"
)

// Result captures the outcome of one rate-limit evaluation.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter decides whether a sender's message fits in its budget.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
}
