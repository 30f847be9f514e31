// Package admin drives the administration views: the dashboard overview with
// recent orders, order status management, and account management.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/cafetec/cafetec-client/internal/domain/order"
	"github.com/cafetec/cafetec-client/internal/ports"
)

// recentOrderCount is how many orders the overview keeps from the full book.
const recentOrderCount = 5

// Overview is the assembled admin dashboard payload.
type Overview struct {
	Stats        ports.DashboardStats
	RecentOrders []order.Order
}

// ServiceOptions groups dependencies for Service.
type ServiceOptions struct {
	API    ports.AdminAPI
	Logger *slog.Logger
}

// Service drives the administration operations.
type Service struct {
	api    ports.AdminAPI
	logger *slog.Logger
}

// NewService constructs an admin Service.
func NewService(opts ServiceOptions) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{api: opts.API, logger: logger}
}

// Overview fetches the dashboard stats and the full order book in parallel
// and keeps the most recently placed orders.
func (s *Service) Overview(ctx context.Context, token string) (Overview, error) {
	var ov Overview

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.api.Stats(gctx, token)
		if err != nil {
			return fmt.Errorf("load dashboard stats: %w", err)
		}
		ov.Stats = stats
		return nil
	})
	g.Go(func() error {
		orders, err := s.api.AllOrders(gctx, token)
		if err != nil {
			return fmt.Errorf("load orders: %w", err)
		}
		sort.SliceStable(orders, func(i, j int) bool {
			return orders[i].Placed.After(orders[j].Placed)
		})
		if len(orders) > recentOrderCount {
			orders = orders[:recentOrderCount]
		}
		ov.RecentOrders = orders
		return nil
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	return ov, nil
}

// SetOrderStatus moves an order to the named status. Statuses without a
// backend id, like paid, are rejected here rather than by the server.
func (s *Service) SetOrderStatus(ctx context.Context, token string, id int64, status order.Status) error {
	sid, ok := status.BackendID()
	if !ok {
		return fmt.Errorf("status %q cannot be set directly", status)
	}
	if err := s.api.UpdateOrderStatus(ctx, token, id, sid); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "order status updated", "order_id", id, "status", status)
	return nil
}
