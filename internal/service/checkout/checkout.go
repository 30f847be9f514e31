// Package checkout turns the current cart into an order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/cafetec/cafetec-client/internal/domain/order"
	"github.com/cafetec/cafetec-client/internal/ports"
	"github.com/cafetec/cafetec-client/internal/service/cart"
)

var (
	// ErrEmptyCart is returned when checkout is attempted with no items.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrCheckoutInFlight is returned when an order submission is already
	// outstanding. A double trigger must never create two orders.
	ErrCheckoutInFlight = errors.New("checkout already in progress")

	// ErrNotAuthenticated is returned when no session token is available.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// TokenSource yields the current auth token, if any.
type TokenSource interface {
	Token() (string, bool)
}

// ServiceOptions groups dependencies for Service.
type ServiceOptions struct {
	API    ports.OrderAPI
	Cart   *cart.Manager
	Tokens TokenSource
	Logger *slog.Logger
}

// Service submits orders built from the cart. Each submission carries a
// fresh idempotency key so a retried request cannot double-charge.
type Service struct {
	api    ports.OrderAPI
	cart   *cart.Manager
	tokens TokenSource
	logger *slog.Logger

	mu   sync.Mutex
	busy bool
}

// NewService constructs a checkout Service.
func NewService(opts ServiceOptions) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		api:    opts.API,
		cart:   opts.Cart,
		tokens: opts.Tokens,
		logger: logger,
	}
}

// Place submits the cart as a new order for the given pickup slot. The cart
// is cleared only after the backend confirms the order; any failure leaves
// the cart intact so the user can retry.
func (s *Service) Place(ctx context.Context, slotID int64, notes string) (order.Order, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return order.Order{}, ErrCheckoutInFlight
	}
	s.busy = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	token, ok := s.tokens.Token()
	if !ok {
		return order.Order{}, ErrNotAuthenticated
	}

	entries := s.cart.Entries()
	if len(entries) == 0 {
		return order.Order{}, ErrEmptyCart
	}

	req := ports.CreateOrderRequest{
		SlotID:   slotID,
		Lines:    make([]order.Line, 0, len(entries)),
		Notes:    notes,
		Total:    s.cart.TotalPrice(),
		ClientID: uuid.NewString(),
	}
	for _, e := range entries {
		req.Lines = append(req.Lines, order.Line{
			ProductID: e.ProductID,
			Quantity:  e.Quantity,
			UnitPrice: e.Price,
		})
	}

	placed, err := s.api.Create(ctx, token, req)
	if err != nil {
		return order.Order{}, fmt.Errorf("create order: %w", err)
	}

	if err := s.cart.Clear(ctx); err != nil {
		// The order exists; a stale cart copy is recoverable on next load.
		s.logger.WarnContext(ctx, "clearing cart after checkout failed", "error", err, "order_id", placed.ID)
	}

	s.logger.InfoContext(ctx, "order placed", "order_id", placed.ID, "total", placed.Total.String())
	return placed, nil
}
