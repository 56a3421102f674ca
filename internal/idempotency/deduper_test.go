package idempotency

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDeduper(t *testing.T) (*miniredis.Miniredis, *Deduper) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, NewDeduper(client, time.Hour, testLogger())
}

func TestDeduperFirstDeliveryIsFresh(t *testing.T) {
	_, d := newTestDeduper(t)

	seen, err := d.Seen(context.Background(), "SM123")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestDeduperRetryIsSeen(t *testing.T) {
	_, d := newTestDeduper(t)
	ctx := context.Background()

	_, err := d.Seen(ctx, "SM123")
	require.NoError(t, err)

	seen, err := d.Seen(ctx, "SM123")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestDeduperExpiresAfterTTL(t *testing.T) {
	mr, d := newTestDeduper(t)
	ctx := context.Background()

	_, err := d.Seen(ctx, "SM123")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	seen, err := d.Seen(ctx, "SM123")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestDeduperEmptySidNeverDeduplicates(t *testing.T) {
	_, d := newTestDeduper(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		seen, err := d.Seen(ctx, "")
		require.NoError(t, err)
		assert.False(t, seen)
	}
}
