// Package favorites maintains the persisted set of favorited product ids.
// Like the cart, it is device-local and independent of the session.
package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cafetec/cafetec-client/internal/ports"
)

// ManagerOptions groups dependencies for Manager.
type ManagerOptions struct {
	Store  ports.StateStore
	Logger *slog.Logger
}

// Manager holds the favorite set, persisted on every mutation. Membership is
// by product id, so a product fetched twice with different field snapshots
// still toggles the same favorite.
type Manager struct {
	store  ports.StateStore
	logger *slog.Logger

	mu      sync.Mutex
	ids     []int64
	members map[int64]struct{}
}

// NewManager constructs a Manager and rehydrates the persisted set. A
// malformed or missing persisted copy yields an empty set.
func NewManager(ctx context.Context, opts ManagerOptions) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{store: opts.Store, logger: logger, members: make(map[int64]struct{})}
	m.hydrate(ctx)
	return m
}

func (m *Manager) hydrate(ctx context.Context) {
	raw, err := m.store.Get(ctx, ports.StateKeyFavorites)
	if err != nil {
		if !errors.Is(err, ports.ErrStateNotFound) {
			m.logger.WarnContext(ctx, "reading persisted favorites failed", "error", err)
		}
		return
	}
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		m.logger.WarnContext(ctx, "persisted favorites are malformed, starting empty", "error", err)
		return
	}
	for _, id := range ids {
		if _, ok := m.members[id]; ok {
			continue
		}
		m.members[id] = struct{}{}
		m.ids = append(m.ids, id)
	}
}

func (m *Manager) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(m.ids)
	if err != nil {
		return fmt.Errorf("marshal favorites: %w", err)
	}
	if err := m.store.Set(ctx, ports.StateKeyFavorites, string(data)); err != nil {
		return fmt.Errorf("persist favorites: %w", err)
	}
	return nil
}

// Toggle flips membership for productID and reports whether the product is a
// favorite afterwards. Toggling twice restores the prior state exactly.
func (m *Manager) Toggle(ctx context.Context, productID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.members[productID]; ok {
		delete(m.members, productID)
		for i, id := range m.ids {
			if id == productID {
				m.ids = append(m.ids[:i], m.ids[i+1:]...)
				break
			}
		}
		return false, m.persistLocked(ctx)
	}

	m.members[productID] = struct{}{}
	m.ids = append(m.ids, productID)
	return true, m.persistLocked(ctx)
}

// IsFavorite reports membership for productID.
func (m *Manager) IsFavorite(productID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.members[productID]
	return ok
}

// IDs returns the favorited product ids in insertion order.
func (m *Manager) IDs() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.ids...)
}

// Clear empties the set and removes the persisted copy. The in-memory set is
// only dropped once the store removal succeeds, so a failure leaves it
// consistent with what the next hydrate would load.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Remove(ctx, ports.StateKeyFavorites); err != nil {
		return fmt.Errorf("clear persisted favorites: %w", err)
	}
	m.ids = nil
	m.members = make(map[int64]struct{})
	return nil
}
