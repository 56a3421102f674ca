package state

import "context"

// Store defines the persistence contract for per-user menu state.
//
// A user's messages arrive one at a time through the WhatsApp channel,
// so the contract is last-write-wins with no locking.
type Store interface {
	// Get returns the current state for the user, initializing it to
	// Default when absent or expired.
	Get(ctx context.Context, userID string) (State, error)
	// Set overwrites the user's state and resets the expiry window.
	Set(ctx context.Context, userID string, s State) error
	// Clear removes the stored state for the user.
	Clear(ctx context.Context, userID string) error
}
