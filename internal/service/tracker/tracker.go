// Package tracker polls an order's status until it reaches a terminal state.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cafetec/cafetec-client/config"
	"github.com/cafetec/cafetec-client/internal/domain/order"
	"github.com/cafetec/cafetec-client/internal/ports"
)

// Update is one observed status change, delivered to the caller's callback.
type Update struct {
	OrderID int64
	Status  order.Status
}

// TrackerOptions groups dependencies for Tracker.
type TrackerOptions struct {
	API    ports.OrderAPI
	Config config.TrackerConfig
	Logger *slog.Logger

	// Now is swappable for tests. Defaults to time.Now.
	Now func() time.Time
}

// Tracker follows a single order. The first poll happens immediately, then
// every poll interval until the order reaches a terminal status or the
// context is cancelled. The callback fires only when the status changes.
type Tracker struct {
	api    ports.OrderAPI
	cfg    config.TrackerConfig
	logger *slog.Logger
	now    func() time.Time
}

// New constructs a Tracker.
func New(opts TrackerOptions) *Tracker {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	cfg := opts.Config
	if cfg.PollInterval <= 0 {
		cfg.Sanitize()
	}
	return &Tracker{
		api:    opts.API,
		cfg:    cfg,
		logger: logger,
		now:    now,
	}
}

// Run polls orderID until it reaches a terminal status. It returns the final
// status observed, or the last known status with ctx.Err() on cancellation.
// onUpdate may be nil.
func (t *Tracker) Run(ctx context.Context, token string, orderID int64, onUpdate func(Update)) (order.Status, error) {
	var last order.Status

	poll := func() (bool, error) {
		status, err := t.api.Status(ctx, token, orderID)
		if err != nil {
			// Transient failures must not kill the tracker, the next tick
			// retries.
			t.logger.WarnContext(ctx, "order status poll failed", "order_id", orderID, "error", err)
			return false, nil
		}
		if status != last {
			last = status
			t.logger.InfoContext(ctx, "order status changed", "order_id", orderID, "status", string(status))
			if onUpdate != nil {
				onUpdate(Update{OrderID: orderID, Status: status})
			}
		}
		return status.Terminal(), nil
	}

	done, err := poll()
	if err != nil {
		return last, err
	}
	if done {
		return last, nil
	}

	ticker := time.NewTicker(t.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-ticker.C:
			done, err := poll()
			if err != nil {
				return last, err
			}
			if done {
				return last, nil
			}
		}
	}
}

// Countdown formats the time remaining until the slot's pickup start, as
// shown next to an active order. A slot already underway reads "ahora".
func (t *Tracker) Countdown(slot order.Slot) (string, error) {
	remaining, err := slot.Remaining(t.now())
	if err != nil {
		return "", fmt.Errorf("slot countdown: %w", err)
	}
	if remaining <= 0 {
		return "ahora", nil
	}
	remaining = remaining.Round(time.Minute)
	h := int(remaining / time.Hour)
	m := int(remaining % time.Hour / time.Minute)
	if h > 0 {
		return fmt.Sprintf("%dh %02dm", h, m), nil
	}
	return fmt.Sprintf("%dm", m), nil
}
