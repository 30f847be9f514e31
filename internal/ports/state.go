package ports

// Package ports defines interfaces (hexagonal ports) for the client core.
// Implementations live in internal/adapters; orchestration in internal/service.

import "context"

// State store keys. Each key is owned by exactly one manager; no key is ever
// written by more than one of them.
const (
	StateKeyToken     = "token"
	StateKeyCart      = "cafetec_cart"
	StateKeyFavorites = "cafetec_favorites"
)

// StateStore persists small string values across process restarts. It is the
// device-local analog of browser local storage: synchronous, process-local,
// survives a restart.
type StateStore interface {
	// Get returns the value for key, or ErrStateNotFound when absent.
	Get(ctx context.Context, key string) (string, error)
	// Set stores the value for key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes the value for key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// ErrStateNotFound is returned by StateStore.Get when a key is absent.
type stateNotFoundError struct{}

func (stateNotFoundError) Error() string { return "state key not found" }

var ErrStateNotFound error = stateNotFoundError{}
