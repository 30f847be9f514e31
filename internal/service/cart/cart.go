// Package cart maintains the client-local shopping cart. It is independent
// of the session lifecycle: a cart may exist before login and survives
// logout, since it is keyed to the device rather than the token.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/cafetec/cafetec-client/internal/domain/catalog"
	"github.com/cafetec/cafetec-client/internal/ports"
)

// Entry is one line item: a product snapshot plus a quantity of at least 1.
type Entry struct {
	catalog.Snapshot
	Quantity int `json:"quantity"`
}

// Subtotal is the entry's snapshot price times its quantity.
func (e Entry) Subtotal() decimal.Decimal {
	return e.Price.Mul(decimal.NewFromInt(int64(e.Quantity)))
}

// ManagerOptions groups dependencies for Manager.
type ManagerOptions struct {
	Store  ports.StateStore
	Logger *slog.Logger
}

// Manager holds an ordered collection of cart entries, at most one per
// product. Every mutation persists the full collection in the same call, so
// a crash right after a mutation never loses it.
type Manager struct {
	store  ports.StateStore
	logger *slog.Logger

	mu      sync.Mutex
	entries []Entry
}

// NewManager constructs a Manager and rehydrates the persisted cart. A
// malformed or missing persisted copy yields an empty cart.
func NewManager(ctx context.Context, opts ManagerOptions) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{store: opts.Store, logger: logger}
	m.hydrate(ctx)
	return m
}

func (m *Manager) hydrate(ctx context.Context) {
	raw, err := m.store.Get(ctx, ports.StateKeyCart)
	if err != nil {
		if !errors.Is(err, ports.ErrStateNotFound) {
			m.logger.WarnContext(ctx, "reading persisted cart failed", "error", err)
		}
		return
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		m.logger.WarnContext(ctx, "persisted cart is malformed, starting empty", "error", err)
		return
	}
	m.entries = entries
}

// persistLocked writes the current collection. Callers hold m.mu.
func (m *Manager) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(m.entries)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := m.store.Set(ctx, ports.StateKeyCart, string(data)); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

// Add merges quantity into an existing entry for the product, or appends a
// new entry preserving insertion order. Quantities below 1 count as 1.
func (m *Manager) Add(ctx context.Context, product catalog.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.entries {
		if m.entries[i].ProductID == product.ID {
			m.entries[i].Quantity += quantity
			return m.persistLocked(ctx)
		}
	}
	m.entries = append(m.entries, Entry{Snapshot: product.Snapshot(), Quantity: quantity})
	return m.persistLocked(ctx)
}

// Remove deletes the entry for productID. Removing an absent product is a
// no-op and does not rewrite storage.
func (m *Manager) Remove(ctx context.Context, productID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeLocked(ctx, productID)
}

func (m *Manager) removeLocked(ctx context.Context, productID int64) error {
	for i := range m.entries {
		if m.entries[i].ProductID == productID {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return m.persistLocked(ctx)
		}
	}
	return nil
}

// SetQuantity replaces the entry's quantity. A quantity below 1 removes the
// entry, exactly like Remove.
func (m *Manager) SetQuantity(ctx context.Context, productID int64, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if quantity < 1 {
		return m.removeLocked(ctx, productID)
	}
	for i := range m.entries {
		if m.entries[i].ProductID == productID {
			m.entries[i].Quantity = quantity
			return m.persistLocked(ctx)
		}
	}
	return nil
}

// Clear empties the cart and removes the persisted copy. The in-memory lines
// survive a storage failure so they stay consistent with what the next
// hydrate would load.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Remove(ctx, ports.StateKeyCart); err != nil {
		return fmt.Errorf("clear persisted cart: %w", err)
	}
	m.entries = nil
	return nil
}

// Entries returns the cart lines in insertion order.
func (m *Manager) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.entries...)
}

// TotalItems is the sum of all quantities.
func (m *Manager) TotalItems() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, e := range m.entries {
		total += e.Quantity
	}
	return total
}

// TotalPrice sums subtotal over all entries using the snapshot prices, so
// the total cannot shift between add-to-cart and checkout.
func (m *Manager) TotalPrice() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	for _, e := range m.entries {
		total = total.Add(e.Subtotal())
	}
	return total
}
