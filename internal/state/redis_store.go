package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/breaders/whatsapp-bot/internal/errors"
)

const (
	userStateKeyPattern = "user:state:%s"

	// TTL resets on every write; a silent user falls back to the root
	// menu after a day.
	TTL = 24 * time.Hour
)

// RedisStore persists per-user menu state in Redis with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	log    *slog.Logger
}

// NewRedisStore initializes a Redis-backed Store implementation.
func NewRedisStore(client *redis.Client, log *slog.Logger) *RedisStore {
	if log == nil {
		log = slog.Default()
	}

	return &RedisStore{
		client: client,
		log:    log,
	}
}

// Get returns the stored state, initializing absent or unknown entries
// to Default.
func (s *RedisStore) Get(ctx context.Context, userID string) (State, error) {
	key := redisUserStateKey(userID)

	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			if err := s.Set(ctx, userID, Default); err != nil {
				return Default, err
			}
			return Default, nil
		}

		s.log.Error("failed to get state from redis", "user_id", userID, "error", err)
		return Default, err
	}

	current := State(data)
	if !IsKnown(current) {
		// Self-heal stale or corrupted entries back to the root menu.
		s.log.Warn("unknown state in redis, resetting", "user_id", userID, "state", data)
		if err := s.Set(ctx, userID, Default); err != nil {
			return Default, err
		}
		return Default, nil
	}

	return current, nil
}

// Set overwrites the user's state and resets the 24h expiry window.
// Unknown states are rejected so a coding mistake cannot strand a user
// outside the menu tree.
func (s *RedisStore) Set(ctx context.Context, userID string, next State) error {
	if !IsKnown(next) {
		return apperrors.NewStateError(fmt.Sprintf("unknown conversation state %q", next))
	}

	key := redisUserStateKey(userID)

	previous := State("")
	if data, err := s.client.Get(ctx, key).Result(); err == nil {
		previous = State(data)
	}

	if err := s.client.Set(ctx, key, string(next), TTL).Err(); err != nil {
		s.log.Error("failed to save state in redis", "user_id", userID, "error", err)
		return err
	}

	if previous != next {
		recordTransition(previous, next)
	}

	return nil
}

// Clear removes the stored state for the given user.
func (s *RedisStore) Clear(ctx context.Context, userID string) error {
	key := redisUserStateKey(userID)
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.log.Error("failed to clear user state", "user_id", userID, "error", err)
		return err
	}

	return nil
}

func redisUserStateKey(userID string) string {
	return fmt.Sprintf(userStateKeyPattern, userID)
}
